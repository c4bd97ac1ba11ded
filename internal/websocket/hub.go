package sessionws

import (
	"context"
	"encoding/json"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/EvalAdminBack/internal/metrics"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 32
)

// Hub fans session events out to console clients grouped by association.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.SessionEvent
	done       chan struct{}
	logger     *zap.Logger
}

type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	associationID int64
	send          chan []byte
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.SessionEvent, broadcastBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, associationID int64) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		associationID: associationID,
		send:          make(chan []byte, clientBuffer),
	}
}

// Run owns the client set until ctx is cancelled. Register and Unregister
// return immediately once it has stopped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for associationID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, associationID)
			}
			metrics.SetLiveClients(0)
			return
		case client := <-h.register:
			set, ok := h.clients[client.associationID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.associationID] = set
			}
			set[client] = struct{}{}
			metrics.SetLiveClients(h.count())
		case client := <-h.unregister:
			h.remove(client)
			metrics.SetLiveClients(h.count())
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		// Never registered, so WritePump has to be released here.
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event without blocking. When the queue is full the event
// is dropped; clients reload state on reconnect anyway.
func (h *Hub) Publish(event models.SessionEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("live feed queue full, dropping event",
			zap.String("type", event.Type),
			zap.Int64("association_id", event.AssociationID),
		)
	}
}

func (h *Hub) deliver(event models.SessionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encode live feed event", zap.Error(err))
		return
	}

	set, ok := h.clients[event.AssociationID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- payload:
		default:
			// Slow consumer.
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.AssociationID)
	}
	metrics.SetLiveClients(h.count())
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.associationID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.associationID)
	}
}

func (h *Hub) count() int {
	total := 0
	for _, set := range h.clients {
		total += len(set)
	}
	return total
}

// ReadPump drains the connection until the client goes away. The feed is
// one-way so incoming frames are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
