package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType represents the type of a preview message.
type MessageType string

const (
	MessageFrame MessageType = "frame"
	MessageDone  MessageType = "done"
	MessageError MessageType = "error"
)

// Message is sent to viewers via WebSocket.
type Message struct {
	Type       MessageType `json:"type"`
	Scenario   string      `json:"scenario,omitempty"`
	Frame      int         `json:"frame"`
	HTML       string      `json:"html,omitempty"`
	Operations int         `json:"operations,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Hub manages viewer WebSocket connections. A viewer that connects late
// first receives the most recent frame.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader

	// writeMu serializes writes; a websocket.Conn allows one writer.
	writeMu      sync.Mutex
	writeTimeout time.Duration
	last         []byte

	logger *slog.Logger
}

// NewHub creates a new hub.
func NewHub(writeTimeout time.Duration, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default().With("component", "preview")
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Preview is a local tool
			},
		},
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// ServeHTTP upgrades the connection and keeps it until the viewer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	h.writeMu.Lock()
	last := h.last
	if last != nil {
		h.write(conn, last)
	}
	h.writeMu.Unlock()

	// Viewers never send anything meaningful; reading detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

// Broadcast sends msg to every viewer. Frame messages are remembered for
// viewers that connect later.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if msg.Type == MessageFrame {
		h.last = data
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := h.write(client, data); err != nil {
			h.remove(client)
		}
	}
}

// write sends one message. writeMu must be held.
func (h *Hub) write(conn *websocket.Conn, data []byte) error {
	if h.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	err := conn.WriteMessage(websocket.TextMessage, data)
	if err != nil {
		h.logger.Debug("websocket write failed", "error", err)
	}
	return err
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all viewer connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
