package relay

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Room is a fan-out group. It holds connections only, never strokes.
type Room struct {
	ID      string
	clients map[*Client]bool
	mu      sync.RWMutex
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]bool),
	}
}

// AddClient adds a client to the room
func (r *Room) AddClient(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client] = true
}

// RemoveClient removes a client from the room and returns how many are left.
func (r *Room) RemoveClient(client *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, client)
	return len(r.clients)
}

// Len returns the number of connected clients.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends a message to all clients in the room except the sender and
// returns how many accepted it. Membership cannot change while a broadcast is
// in progress.
func (r *Room) Broadcast(msg []byte, sender *Client) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for client := range r.clients {
		if client != sender && client.enqueue(msg) {
			delivered++
		}
	}
	return delivered
}

func (r *Room) closeAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for client := range r.clients {
		_ = client.Conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "relay shutting down"),
			deadline(),
		)
		_ = client.Conn.Close()
	}
}
