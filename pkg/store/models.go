package store

import (
	"time"

	"github.com/rs/xid"
	"gorm.io/gorm"
)

// Frame represents one successfully decoded AX.25 UI frame, logged for
// later inspection independent of whether it belonged to a matrix session.
type Frame struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ExternalID  string    `gorm:"uniqueIndex;size:20" json:"external_id"`
	Source      string    `gorm:"index;size:12" json:"source"`
	Destination string    `gorm:"index;size:12" json:"destination"`
	InfoLen     int       `gorm:"not null" json:"info_len"`
	FCSValid    bool      `gorm:"not null" json:"fcs_valid"`
	ReceivedAt  time.Time `gorm:"index;not null" json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Frame.
func (Frame) TableName() string {
	return "frames"
}

// BeforeCreate populates the external ID and timestamps. ExternalID uses
// xid rather than the auto-increment primary key so a frame can be
// referenced stably across gateways that each keep their own local
// sequence.
func (f *Frame) BeforeCreate(tx *gorm.DB) error {
	if f.ExternalID == "" {
		f.ExternalID = xid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	if f.ReceivedAt.IsZero() {
		f.ReceivedAt = time.Now()
	}
	return nil
}

// MatrixSession tracks the progress of one in-flight matrix reassembly,
// keyed by the remote station that is sending fragments.
type MatrixSession struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ExternalID    string    `gorm:"uniqueIndex;size:20" json:"external_id"`
	RemoteStation string    `gorm:"index;size:12" json:"remote_station"`
	Rows          int       `gorm:"not null" json:"rows"`
	Cols          int       `gorm:"not null" json:"cols"`
	ElementSize   int       `gorm:"not null" json:"element_size"`
	TotalChunks   int       `gorm:"not null" json:"total_chunks"`
	ChunksSeen    int       `gorm:"default:0" json:"chunks_seen"`
	Complete      bool      `gorm:"default:false;index" json:"complete"`
	StartedAt     time.Time `gorm:"index;not null" json:"started_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for MatrixSession.
func (MatrixSession) TableName() string {
	return "matrix_sessions"
}

// BeforeCreate populates the external ID and timestamps.
func (s *MatrixSession) BeforeCreate(tx *gorm.DB) error {
	if s.ExternalID == "" {
		s.ExternalID = xid.New().String()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}

// Progress returns the fraction of chunks received so far, in [0, 1].
func (s *MatrixSession) Progress() float64 {
	if s.TotalChunks <= 0 {
		return 0
	}
	return float64(s.ChunksSeen) / float64(s.TotalChunks)
}
