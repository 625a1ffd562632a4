package realtime

import (
	"log"
	"sync"
)

// Event is what gets pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub tracks open connections per user and fans events out to them. A user
// may hold several connections (multiple tabs); a failed write drops that
// connection.
type Hub struct {
	mu    sync.RWMutex
	conns map[int64][]*Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int64][]*Conn)}
}

func (h *Hub) Register(userID int64, c *Conn) {
	h.mu.Lock()
	h.conns[userID] = append(h.conns[userID], c)
	h.mu.Unlock()
}

func (h *Hub) Unregister(userID int64, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.conns[userID]
	for i, cc := range conns {
		if cc == c {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Publish sends the event to every connection of one user. Best effort:
// a dead connection is closed and forgotten.
func (h *Hub) Publish(userID int64, ev Event) {
	h.mu.RLock()
	conns := append([]*Conn(nil), h.conns[userID]...)
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			log.Printf("[realtime][drop] userID=%d write failed: %v", userID, err)
			_ = c.Close()
			h.Unregister(userID, c)
		}
	}
}
