package store

import (
	"time"

	"gorm.io/gorm"
)

// FrameRepository handles Frame database operations.
type FrameRepository struct {
	db *gorm.DB
}

// NewFrameRepository creates a new frame repository.
func NewFrameRepository(db *gorm.DB) *FrameRepository {
	return &FrameRepository{db: db}
}

// Create logs a decoded frame.
func (r *FrameRepository) Create(f *Frame) error {
	return r.db.Create(f).Error
}

// GetRecent retrieves the most recent N frames.
func (r *FrameRepository) GetRecent(limit int) ([]Frame, error) {
	var frames []Frame
	err := r.db.Order("received_at DESC").Limit(limit).Find(&frames).Error
	return frames, err
}

// GetBySource retrieves frames from a specific source callsign.
func (r *FrameRepository) GetBySource(source string, limit int) ([]Frame, error) {
	var frames []Frame
	err := r.db.Where("source = ?", source).
		Order("received_at DESC").
		Limit(limit).
		Find(&frames).Error
	return frames, err
}

// DeleteOlderThan deletes frames older than the given time.
func (r *FrameRepository) DeleteOlderThan(before time.Time) (int64, error) {
	result := r.db.Where("received_at < ?", before).Delete(&Frame{})
	return result.RowsAffected, result.Error
}

// MatrixSessionRepository handles MatrixSession database operations.
type MatrixSessionRepository struct {
	db *gorm.DB
}

// NewMatrixSessionRepository creates a new matrix session repository.
func NewMatrixSessionRepository(db *gorm.DB) *MatrixSessionRepository {
	return &MatrixSessionRepository{db: db}
}

// Create starts tracking a new reassembly session.
func (r *MatrixSessionRepository) Create(s *MatrixSession) error {
	return r.db.Create(s).Error
}

// IncrementChunksSeen records that one more chunk arrived for session id,
// marking the session complete once ChunksSeen reaches TotalChunks.
func (r *MatrixSessionRepository) IncrementChunksSeen(id uint) error {
	var session MatrixSession
	if err := r.db.First(&session, id).Error; err != nil {
		return err
	}
	session.ChunksSeen++
	if session.ChunksSeen >= session.TotalChunks {
		session.Complete = true
	}
	return r.db.Save(&session).Error
}

// GetActive retrieves sessions that have not yet completed.
func (r *MatrixSessionRepository) GetActive() ([]MatrixSession, error) {
	var sessions []MatrixSession
	err := r.db.Where("complete = ?", false).Order("started_at ASC").Find(&sessions).Error
	return sessions, err
}

// GetByRemoteStation retrieves recent sessions for a given remote station.
func (r *MatrixSessionRepository) GetByRemoteStation(station string, limit int) ([]MatrixSession, error) {
	var sessions []MatrixSession
	err := r.db.Where("remote_station = ?", station).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// DeleteStaleIncomplete removes incomplete sessions that started before cutoff,
// used to drop reassembly attempts that timed out without ever finishing.
func (r *MatrixSessionRepository) DeleteStaleIncomplete(cutoff time.Time) (int64, error) {
	result := r.db.Where("complete = ? AND started_at < ?", false, cutoff).Delete(&MatrixSession{})
	return result.RowsAffected, result.Error
}
