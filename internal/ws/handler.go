package ws

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundMessage is the shape of traffic read from observers. Only "ping" is
// acted on today; everything else is a hook point for future commands and is
// ignored.
type inboundMessage struct {
	Type string `json:"type"`
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) Register(router *gin.RouterGroup) {
	router.GET("/:client_id", h.connect)
}

func (h *Handler) connect(c *gin.Context) {
	clientID := c.Param("client_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("client_id", clientID).Msg("ws: upgrade failed")
		return
	}

	client := &Client{
		ID:   clientID,
		Send: make(chan []byte, 256),
		conn: conn,
	}

	h.hub.Register(client)
	client.enqueue(Event{
		Type:    "connection_established",
		Message: fmt.Sprintf("Connected as client %s", clientID),
	})

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Handler) readPump(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.conn.Close()
		log.Info().Str("client_id", client.ID).Msg("ws: client disconnected")
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Warn().Str("client_id", client.ID).Msg("ws: invalid JSON from client")
			continue
		}

		if msg.Type == "ping" {
			client.enqueue(Event{Type: "pong", Message: "WebSocket connection active"})
		}
	}
}

func (h *Handler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.Send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// enqueue drops the event if the client buffer is full or the client has
// already been evicted; the broadcast path handles eviction of stuck clients.
// The closed check and the send happen under the client mutex so a concurrent
// eviction cannot close Send between them.
func (c *Client) enqueue(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}
