// Package monitor serves a live view of gateway activity: a WebSocket hub
// broadcasting frame and matrix-session events, and a small REST API over
// the same state, for operators watching a satellite pass in real time.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/parsat-ground/ax25link/pkg/logger"
)

// Event represents a WebSocket event to be broadcast to clients.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Marshal converts an event to JSON bytes.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Client represents a WebSocket client connection.
type Client struct {
	ID       string
	conn     *websocket.Conn
	messages chan []byte
}

// Hub manages WebSocket client connections and broadcasts.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	logger     *logger.Logger
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// Run starts the hub event loop; it returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("monitor client registered", logger.String("client_id", client.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.messages)
			}
			h.mu.Unlock()
			h.logger.Debug("monitor client unregistered", logger.String("client_id", client.ID))

		case event := <-h.broadcast:
			data, err := event.Marshal()
			if err != nil {
				h.logger.Error("failed to marshal event", logger.Error(err))
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.messages <- data:
				default:
					h.logger.Warn("client message buffer full, skipping", logger.String("client_id", client.ID))
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.logger.Info("monitor hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.messages)
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event", logger.String("event_type", event.Type))
	}
}

// Handler returns an HTTP handler for WebSocket connections.
func (h *Hub) Handler() http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			http.Error(w, "websocket upgrade failed", http.StatusBadRequest)
			return
		}
		client := &Client{ID: r.RemoteAddr, conn: conn, messages: make(chan []byte, 256)}
		h.register <- client

		go func() {
			defer func() {
				h.unregister <- client
				_ = client.conn.Close()
			}()
			client.conn.SetReadLimit(1024)
			for {
				if _, _, err := client.conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		go func() {
			for msg := range client.messages {
				_ = client.conn.WriteMessage(websocket.TextMessage, msg)
			}
		}()
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastFrameDecoded announces a successfully decoded frame.
func (h *Hub) BroadcastFrameDecoded(source, destination string, infoLen int) {
	h.Broadcast(Event{
		Type: "frame_decoded",
		Data: map[string]interface{}{
			"source":      source,
			"destination": destination,
			"info_len":    infoLen,
		},
	})
}

// BroadcastSessionProgress announces a matrix session's chunk progress.
func (h *Hub) BroadcastSessionProgress(remoteStation string, chunksSeen, totalChunks int) {
	h.Broadcast(Event{
		Type: "session_progress",
		Data: map[string]interface{}{
			"remote_station": remoteStation,
			"chunks_seen":    chunksSeen,
			"total_chunks":   totalChunks,
		},
	})
}

// BroadcastSessionComplete announces a matrix session's completion.
func (h *Hub) BroadcastSessionComplete(remoteStation string, rows, cols, elementSize int) {
	h.Broadcast(Event{
		Type: "session_complete",
		Data: map[string]interface{}{
			"remote_station": remoteStation,
			"rows":           rows,
			"cols":           cols,
			"element_size":   elementSize,
		},
	})
}
