package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/parsat-ground/ax25link/pkg/config"
	"github.com/parsat-ground/ax25link/pkg/logger"
	"github.com/parsat-ground/ax25link/pkg/store"
)

// Server is the monitor dashboard's HTTP server: health check, REST API,
// and WebSocket event stream.
type Server struct {
	config config.WebConfig
	logger *logger.Logger
	server *http.Server
	hub    *Hub
	api    *API
	addr   string
	mu     sync.RWMutex
}

// NewServer creates a new monitor server instance.
func NewServer(cfg config.WebConfig, log *logger.Logger) *Server {
	return &Server{
		config: cfg,
		logger: log,
		hub:    NewHub(log),
		api:    NewAPI(log),
	}
}

// WithStore wires the frame log and matrix session repositories into the API.
func (s *Server) WithStore(frames *store.FrameRepository, sessions *store.MatrixSessionRepository) *Server {
	s.api.SetDeps(frames, sessions)
	return s
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("monitor server is disabled")
		return nil
	}

	go s.hub.Run(ctx)
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.hub.Broadcast(Event{
					Type:      "heartbeat",
					Timestamp: t,
					Data:      map[string]interface{}{"clients": s.hub.ClientCount()},
				})
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.api.HandleStatus)
	mux.HandleFunc("/api/frames", s.api.HandleFrames)
	mux.HandleFunc("/api/sessions", s.api.HandleSessions)
	mux.Handle("/ws", s.hub.Handler())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info("starting monitor server", logger.String("address", s.addr))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down monitor server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "ax25gwd",
		"time":    time.Now().Unix(),
	}); err != nil {
		s.logger.Warn("failed to encode health response", logger.Error(err))
	}
}
