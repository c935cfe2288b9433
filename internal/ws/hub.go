// Package ws provides the real-time broadcast channel for booking lifecycle
// events. Connected observers receive every event; delivery is best-effort
// and independent of the notification fan-out.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event is the payload pushed to every connected observer.
type Event struct {
	Type        string `json:"type"`
	BookingID   string `json:"booking_id,omitempty"`
	Message     string `json:"message"`
	Status      string `json:"status,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
	PatientName string `json:"patient_name,omitempty"`
}

// Conn abstracts a websocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is a single connected observer. Send is closed exactly once via
// close(); the read pump may still be enqueueing pong replies while the
// broadcast path evicts the client, so both sides go through the client
// mutex.
type Client struct {
	ID   string
	Send chan []byte
	conn Conn

	mu     sync.Mutex
	closed bool
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Hub owns the registry of connected observers. All registry access goes
// through the mutex; Broadcast never blocks on a slow client.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.close()
}

// Broadcast serializes the event once and hands it to every connected
// client. A client whose buffer is full is dropped from the registry so one
// stuck observer cannot hold up the rest.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("ws: failed to marshal event")
		return
	}

	var stuck []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			stuck = append(stuck, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stuck {
		log.Warn().Str("client_id", client.ID).Msg("ws: dropping unresponsive client")
		h.Unregister(client)
		client.conn.Close()
	}
}

// ClientCount returns the number of connected observers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
