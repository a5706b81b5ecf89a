package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haal01/drawing-board/internal/stroke"
)

const writeWait = 10 * time.Second

func deadline() time.Time {
	return time.Now().Add(writeWait)
}

// Client represents a connected WebSocket client
type Client struct {
	ID   string
	Conn *websocket.Conn
	Room *Room
	Send chan []byte

	hub    *Hub
	closed bool
	mu     sync.Mutex
}

// enqueue hands msg to the write pump without blocking. It reports false when
// the client is gone or its queue is full.
func (c *Client) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		c.hub.logger.Debug("send queue full, skipping message", "conn", c.ID)
		return false
	}
}

// writePump pumps messages from the Send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(deadline())
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(deadline())
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the WebSocket connection to the room
func (c *Client) readPump() {
	logger := c.hub.logger
	defer func() {
		c.mu.Lock()
		c.closed = true
		close(c.Send)
		c.mu.Unlock()

		c.hub.leave(c)
		c.Conn.Close()

		logger.Info("client left", "conn", c.ID, "room", c.Room.ID)
	}()

	_ = c.Conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error", "conn", c.ID, "err", err)
			}
			return
		}
		_ = c.Conn.SetReadDeadline(time.Now().Add(c.hub.opts.PongWait))

		msg, err := stroke.Decode(raw)
		if err != nil {
			logger.Debug("discarding message", "conn", c.ID, "err", err)
			continue
		}

		switch msg.Type {
		case stroke.TypeDraw:
			if _, err := stroke.DecodeStroke(msg.Data); err != nil {
				logger.Debug("discarding stroke", "conn", c.ID, "err", err)
				continue
			}
			n := c.Room.Broadcast(stroke.Relayed(msg.Data), c)
			logger.Debug("relayed stroke", "conn", c.ID, "room", c.Room.ID, "peers", n)
		default:
			logger.Debug("ignoring message", "conn", c.ID, "type", msg.Type)
		}
	}
}
