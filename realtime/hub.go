// Package realtime is a best-effort, at-most-once room relay: every message
// sent to a room is forwarded to whoever is connected to it at that moment.
// No ordering, no persistence, no delivery guarantees.
package realtime

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// wsConn is the write surface of a connection. The underlying websocket
// library allows at most one writer on a connection at a time.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
}

// Hub tracks connections per room. Each connection carries its own write
// mutex: broadcasts run on the sender's read-loop goroutine, so two members
// of the same room sending at once would otherwise write to the same
// destination connection concurrently.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[wsConn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[wsConn]*sync.Mutex)}
}

func (h *Hub) join(roomID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[wsConn]*sync.Mutex)
	}
	h.rooms[roomID][conn] = &sync.Mutex{}
}

func (h *Hub) leave(roomID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomID], conn)
	if len(h.rooms[roomID]) == 0 {
		delete(h.rooms, roomID)
	}
}

// broadcast relays a message to every connection in the room, including the
// sender. Writes serialize on the per-connection mutex; failures drop
// silently and the reader loop cleans up.
func (h *Hub) broadcast(roomID string, messageType int, message []byte) {
	type target struct {
		conn wsConn
		mu   *sync.Mutex
	}

	h.mu.Lock()
	targets := make([]target, 0, len(h.rooms[roomID]))
	for conn, mu := range h.rooms[roomID] {
		targets = append(targets, target{conn: conn, mu: mu})
	}
	h.mu.Unlock()

	for _, t := range targets {
		t.mu.Lock()
		err := t.conn.WriteMessage(messageType, message)
		t.mu.Unlock()
		if err != nil {
			log.Printf("Error relaying message in room %s: %v", roomID, err)
		}
	}
}

// Handler serves one websocket connection bound to the :roomId path param
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		roomID := conn.Params("roomId")
		h.join(roomID, conn)
		defer func() {
			h.leave(roomID, conn)
			conn.Close()
		}()

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.broadcast(roomID, messageType, message)
		}
	}
}
