package events

import (
	"sync"

	"github.com/gorilla/websocket"
)

// subscriber serializes writes to one connection: gorilla/websocket
// allows at most one concurrent writer per Conn.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) writeJSON(message interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(message)
}

// Hub fans ledger events out to every connected subscriber. A write
// failure drops the connection; broadcasting never blocks the caller
// beyond the websocket writes themselves.
type Hub struct {
	connections map[int64]*subscriber
	nextID      int64
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*subscriber),
	}
}

func (h *Hub) Register(conn *websocket.Conn) int64 {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.nextID++
	h.connections[h.nextID] = &subscriber{conn: conn}
	return h.nextID
}

func (h *Hub) Unregister(id int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if sub, exists := h.connections[id]; exists && sub != nil {
		_ = sub.conn.Close()
		delete(h.connections, id)
	}
}

func (h *Hub) Broadcast(message interface{}) {
	h.mutex.RLock()
	subs := make(map[int64]*subscriber, len(h.connections))
	for id, sub := range h.connections {
		subs[id] = sub
	}
	h.mutex.RUnlock()

	for id, sub := range subs {
		if sub == nil {
			continue
		}
		if err := sub.writeJSON(message); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, sub := range h.connections {
		if sub != nil {
			_ = sub.conn.Close()
		}
		delete(h.connections, id)
	}
}
