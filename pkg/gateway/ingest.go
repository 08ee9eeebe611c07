// Package gateway folds decoded AX.25 frames into the frame log and tracks
// matrix reassembly sessions across the UI frames that carry them, the way
// pkg/bridge folds DMR packets into transmission records and stream state.
package gateway

import (
	"fmt"
	"sync"
	"time"

	"github.com/parsat-ground/ax25link/pkg/ax25"
	"github.com/parsat-ground/ax25link/pkg/logger"
	"github.com/parsat-ground/ax25link/pkg/matrix"
	"github.com/parsat-ground/ax25link/pkg/metrics"
	"github.com/parsat-ground/ax25link/pkg/monitor"
	"github.com/parsat-ground/ax25link/pkg/store"
)

// headerLen is the byte length of the address + control + PID prefix a
// decoded frame carries ahead of its information field.
const headerLen = ax25.AddressFieldLen + 2

// Ingest decodes inbound wire frames, logs them, and folds any matrix
// fragments into the reassembly session for the sending station.
type Ingest struct {
	codec    *ax25.Codec
	frames   *store.FrameRepository
	sessions *store.MatrixSessionRepository
	metrics  *metrics.Collector
	hub      *monitor.Hub
	logger   *logger.Logger
	maxRows  int
	maxCols  int

	mu     sync.Mutex
	active map[string]*activeSession
}

// activeSession tracks a reassembly attempt in progress for one remote
// station, mirroring the database row without a round trip per fragment.
type activeSession struct {
	dbID          uint
	rows          int
	cols          int
	elementSize   int
	totalChunks   int
	chunksSeen    int
	bytesReceived int
	lastSeen      time.Time
}

// NewIngest wires the decode path to its supporting dependencies. frames,
// sessions, and hub may be nil; Ingest degrades to decode-and-count only.
// maxRows and maxCols bound the dimensions a claimed fragment header may
// declare (spec.md §6's MATRIX_MAX_ROWS/MATRIX_MAX_COLS); <= 0 falls back
// to matrix.DefaultMaxRows/DefaultMaxCols.
func NewIngest(codec *ax25.Codec, frames *store.FrameRepository, sessions *store.MatrixSessionRepository, mc *metrics.Collector, hub *monitor.Hub, log *logger.Logger, maxRows, maxCols int) *Ingest {
	if maxRows <= 0 {
		maxRows = matrix.DefaultMaxRows
	}
	if maxCols <= 0 {
		maxCols = matrix.DefaultMaxCols
	}
	return &Ingest{
		codec:    codec,
		frames:   frames,
		sessions: sessions,
		metrics:  mc,
		hub:      hub,
		logger:   log,
		maxRows:  maxRows,
		maxCols:  maxCols,
		active:   make(map[string]*activeSession),
	}
}

// HandleWireFrame decodes a single wire frame, persists it to the frame
// log, and — if its information field opens with a plausible matrix
// fragment header — folds it into the matching reassembly session.
func (in *Ingest) HandleWireFrame(wire []byte) error {
	decoded, err := in.codec.Recv(wire)
	if err != nil {
		reason := "decode"
		if e, ok := err.(*ax25.Error); ok && e.Code == ax25.FCSMismatch {
			reason = "fcs"
			in.metrics.FCSFailures.Inc()
		}
		in.metrics.FramesRejected.WithLabelValues(reason).Inc()
		return fmt.Errorf("decode wire frame: %w", err)
	}

	header, err := ax25.ParseHeader(decoded)
	if err != nil {
		in.metrics.FramesRejected.WithLabelValues("header").Inc()
		return fmt.Errorf("parse header: %w", err)
	}
	info := decoded[headerLen:]

	in.metrics.FramesDecoded.WithLabelValues(header.Source.Callsign).Inc()
	in.metrics.BytesDecoded.Add(float64(len(info)))

	if in.frames != nil {
		if err := in.frames.Create(&store.Frame{
			Source:      header.Source.Callsign,
			Destination: header.Destination.Callsign,
			InfoLen:     len(info),
			FCSValid:    true,
		}); err != nil {
			in.logger.Warn("failed to log frame", logger.Error(err))
		}
	}
	if in.hub != nil {
		in.hub.BroadcastFrameDecoded(header.Source.Callsign, header.Destination.Callsign, len(info))
	}

	meta, ok := in.tryMetadata(info)
	if !ok {
		return nil
	}
	in.foldFragment(header.Source, meta, info[matrix.MetadataLen:])
	return nil
}

// tryMetadata parses a candidate fragment header and sanity-checks its
// fields. Plain, non-fragment telemetry has no magic number to key off of,
// so a header that decodes to self-consistent, non-zero dimensions is
// treated as a fragment; anything else is logged as ordinary frame traffic.
func (in *Ingest) tryMetadata(info []byte) (matrix.Metadata, bool) {
	meta, err := matrix.DecodeMetadata(info)
	if err != nil {
		return matrix.Metadata{}, false
	}
	if meta.TotalChunks == 0 || meta.ChunkIndex >= meta.TotalChunks {
		return matrix.Metadata{}, false
	}
	if meta.Rows == 0 || meta.Cols == 0 || meta.ElementSize == 0 {
		return matrix.Metadata{}, false
	}
	if int(meta.Rows) > in.maxRows || int(meta.Cols) > in.maxCols {
		return matrix.Metadata{}, false
	}
	if int(meta.DataLen) > len(info)-matrix.MetadataLen {
		return matrix.Metadata{}, false
	}
	return meta, true
}

func (in *Ingest) foldFragment(src ax25.Station, meta matrix.Metadata, data []byte) {
	in.mu.Lock()
	defer in.mu.Unlock()

	station := src.Callsign
	in.metrics.FragmentsSeen.Inc()

	sess, ok := in.active[station]
	if !ok {
		var dbID uint
		if in.sessions != nil {
			rec := &store.MatrixSession{
				RemoteStation: station,
				Rows:          int(meta.Rows),
				Cols:          int(meta.Cols),
				ElementSize:   int(meta.ElementSize),
				TotalChunks:   int(meta.TotalChunks),
			}
			if err := in.sessions.Create(rec); err != nil {
				in.logger.Warn("failed to create matrix session", logger.Error(err))
			} else {
				dbID = rec.ID
			}
		}
		sess = &activeSession{
			dbID:        dbID,
			rows:        int(meta.Rows),
			cols:        int(meta.Cols),
			elementSize: int(meta.ElementSize),
			totalChunks: int(meta.TotalChunks),
		}
		in.active[station] = sess
		in.metrics.SessionsStarted.Inc()
		in.metrics.SessionsActive.Inc()
		in.logger.Debug("started matrix reassembly session",
			logger.Station("station", src.Callsign, src.SSID),
			logger.Int("total_chunks", sess.totalChunks))
	}

	sess.chunksSeen++
	sess.bytesReceived += len(data)
	sess.lastSeen = time.Now()

	if in.sessions != nil && sess.dbID != 0 {
		if err := in.sessions.IncrementChunksSeen(sess.dbID); err != nil {
			in.logger.Warn("failed to update matrix session", logger.Error(err))
		}
	}
	if in.hub != nil {
		in.hub.BroadcastSessionProgress(station, sess.chunksSeen, sess.totalChunks)
	}

	if sess.chunksSeen >= sess.totalChunks {
		delete(in.active, station)
		in.metrics.SessionsDone.Inc()
		in.metrics.SessionsActive.Dec()
		in.logger.Info("matrix reassembly session complete",
			logger.Station("station", src.Callsign, src.SSID),
			logger.Int("rows", sess.rows),
			logger.Int("cols", sess.cols),
			logger.Int("bytes", sess.bytesReceived))
		if in.hub != nil {
			in.hub.BroadcastSessionComplete(station, sess.rows, sess.cols, sess.elementSize)
		}
	}
}

// CleanupStale drops in-memory sessions that have not seen a fragment
// within maxAge, and prunes every incomplete store row whose session
// started more than maxAge ago (including rows of sessions still active
// in memory).
// Call it periodically; it never blocks on I/O longer than one query.
func (in *Ingest) CleanupStale(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	in.mu.Lock()
	for station, sess := range in.active {
		if sess.lastSeen.Before(cutoff) {
			delete(in.active, station)
			in.metrics.SessionsActive.Dec()
		}
	}
	in.mu.Unlock()

	if in.sessions == nil {
		return
	}
	if n, err := in.sessions.DeleteStaleIncomplete(cutoff); err != nil {
		in.logger.Warn("failed to prune stale matrix sessions", logger.Error(err))
	} else if n > 0 {
		in.logger.Info("pruned stale matrix sessions", logger.Int64("count", n))
	}
}

// ActiveSessionCount reports how many reassembly sessions are in flight.
func (in *Ingest) ActiveSessionCount() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.active)
}
