package websocket

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn

	writeMu sync.Mutex
}

// Send serialises writes; a connection supports one concurrent writer.
func (c *Client) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Event is the envelope pushed to browsers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks live connections per user. A user may hold several tabs open.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{}), log: log}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.log.Debug("Client registered", zap.String("user_id", c.UserID.String()), zap.Int("connections", len(set)))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c)
	h.log.Debug("Client unregistered", zap.String("user_id", c.UserID.String()))
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
}

// Connected reports how many live connections a user has.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Push writes a notification event to every connection of userID and
// drops connections that fail. It reports whether any write succeeded.
func (h *Hub) Push(userID uuid.UUID, payload any) bool {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := false
	var dead []*Client
	for _, c := range targets {
		if err := c.Send(Event{Type: "notification", Data: payload}); err != nil {
			h.log.Warn("Error sending to client", zap.String("user_id", userID.String()), zap.Error(err))
			c.Conn.Close()
			dead = append(dead, c)
			continue
		}
		delivered = true
	}

	if len(dead) > 0 {
		h.mu.Lock()
		for _, c := range dead {
			h.remove(c)
		}
		h.mu.Unlock()
	}
	return delivered
}
