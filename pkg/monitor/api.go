package monitor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/parsat-ground/ax25link/pkg/logger"
	"github.com/parsat-ground/ax25link/pkg/store"
)

// API handles REST endpoints over the frame log and matrix sessions.
type API struct {
	logger   *logger.Logger
	frames   *store.FrameRepository
	sessions *store.MatrixSessionRepository
}

// NewAPI creates a new API instance. frames/sessions may be nil; handlers
// fall back to empty responses until SetDeps wires them in.
func NewAPI(log *logger.Logger) *API {
	return &API{logger: log}
}

// SetDeps provides the repositories backing the API's responses.
func (a *API) SetDeps(frames *store.FrameRepository, sessions *store.MatrixSessionRepository) {
	a.frames = frames
	a.sessions = sessions
}

// FrameDTO is a lightweight response for a decoded frame.
type FrameDTO struct {
	ID          uint   `json:"id"`
	ExternalID  string `json:"external_id"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	InfoLen     int    `json:"info_len"`
	FCSValid    bool   `json:"fcs_valid"`
	ReceivedAt  int64  `json:"received_at"`
}

// SessionDTO is a lightweight response for a matrix reassembly session.
type SessionDTO struct {
	ID            uint    `json:"id"`
	ExternalID    string  `json:"external_id"`
	RemoteStation string  `json:"remote_station"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	ElementSize   int     `json:"element_size"`
	TotalChunks   int     `json:"total_chunks"`
	ChunksSeen    int     `json:"chunks_seen"`
	Progress      float64 `json:"progress"`
	Complete      bool    `json:"complete"`
	StartedAt     int64   `json:"started_at"`
}

// HandleStatus handles GET /api/status.
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.writeJSON(w, map[string]interface{}{
		"status":  "running",
		"service": "ax25gwd",
	})
}

// HandleFrames handles GET /api/frames.
func (a *API) HandleFrames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if a.frames == nil {
		a.writeJSON(w, []FrameDTO{})
		return
	}

	limit := 50
	if limStr := r.URL.Query().Get("limit"); limStr != "" {
		if l, err := strconv.Atoi(limStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	frames, err := a.frames.GetRecent(limit)
	if err != nil {
		a.logger.Error("failed to get recent frames", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]FrameDTO, 0, len(frames))
	for _, f := range frames {
		dtos = append(dtos, FrameDTO{
			ID:          f.ID,
			ExternalID:  f.ExternalID,
			Source:      f.Source,
			Destination: f.Destination,
			InfoLen:     f.InfoLen,
			FCSValid:    f.FCSValid,
			ReceivedAt:  f.ReceivedAt.Unix(),
		})
	}
	a.writeJSON(w, dtos)
}

// HandleSessions handles GET /api/sessions.
func (a *API) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if a.sessions == nil {
		a.writeJSON(w, []SessionDTO{})
		return
	}

	sessions, err := a.sessions.GetActive()
	if err != nil {
		a.logger.Error("failed to get active sessions", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, SessionDTO{
			ID:            s.ID,
			ExternalID:    s.ExternalID,
			RemoteStation: s.RemoteStation,
			Rows:          s.Rows,
			Cols:          s.Cols,
			ElementSize:   s.ElementSize,
			TotalChunks:   s.TotalChunks,
			ChunksSeen:    s.ChunksSeen,
			Progress:      s.Progress(),
			Complete:      s.Complete,
			StartedAt:     s.StartedAt.Unix(),
		})
	}
	a.writeJSON(w, dtos)
}

func (a *API) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", logger.Error(err))
	}
}
