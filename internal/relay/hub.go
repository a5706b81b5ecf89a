// Package relay fans strokes out between connected clients.
//
// The relay keeps no drawing state. A draw message from one connection is
// forwarded, payload untouched, to every other connection in the same room
// and then forgotten; a connection that joins later never sees it.
package relay

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultRoom is used when a client does not name a room.
const DefaultRoom = "default"

// Options tune the websocket side of the hub.
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	// SendQueue is the per-connection outbound buffer. A peer whose buffer is
	// full misses the message.
	SendQueue       int
	MaxMessageBytes int64
	// CheckOrigin allows cross-origin upgrades when false.
	CheckOrigin  bool
	PingInterval time.Duration
	PongWait     time.Duration
}

// DefaultOptions mirror the values the relay ships with.
func DefaultOptions() Options {
	return Options{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendQueue:       256,
		MaxMessageBytes: 1 << 20,
		PingInterval:    30 * time.Second,
		PongWait:        60 * time.Second,
	}
}

// Hub manages all rooms and clients
type Hub struct {
	rooms    map[string]*Room
	mu       sync.Mutex
	upgrader websocket.Upgrader
	opts     Options
	logger   *slog.Logger
}

// NewHub returns an empty hub.
func NewHub(opts Options, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.SendQueue <= 0 {
		opts.SendQueue = defaults.SendQueue
	}
	if opts.PongWait <= 0 {
		opts.PongWait = defaults.PongWait
	}
	if opts.PingInterval <= 0 || opts.PingInterval >= opts.PongWait {
		opts.PingInterval = opts.PongWait * 9 / 10
	}
	h := &Hub{
		rooms:  make(map[string]*Room),
		opts:   opts,
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
	}
	if !opts.CheckOrigin {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
	return h
}

// ServeWS upgrades the request and attaches the connection to roomID until it
// disconnects. It blocks for the lifetime of the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID string) {
	if roomID == "" {
		roomID = DefaultRoom
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	if h.opts.MaxMessageBytes > 0 {
		conn.SetReadLimit(h.opts.MaxMessageBytes)
	}

	client := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, h.opts.SendQueue),
		hub:  h,
	}
	h.join(client, roomID)
	h.logger.Info("client joined", "conn", client.ID, "room", roomID)

	go client.writePump()
	client.readPump()
}

// join adds c to roomID, creating the room if needed.
func (h *Hub) join(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		h.rooms[roomID] = room
	}
	c.Room = room
	room.AddClient(c)
}

// leave removes c from its room and drops the room once it is empty.
func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.Room.RemoveClient(c) == 0 {
		delete(h.rooms, c.Room.ID)
	}
}

// Stats is a point-in-time view of the hub.
type Stats struct {
	Rooms       int `json:"rooms"`
	Connections int `json:"connections"`
}

// Stats counts rooms and connections.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := Stats{Rooms: len(h.rooms)}
	for _, room := range h.rooms {
		s.Connections += room.Len()
	}
	return s
}

// Connections returns the number of connections in roomID.
func (h *Hub) Connections(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[roomID]; ok {
		return room.Len()
	}
	return 0
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.Unlock()

	for _, room := range rooms {
		room.closeAll()
	}
}
