package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haal01/drawing-board/internal/stroke"
)

const (
	sendQueue = 64
	closeWait = time.Second
)

// WebSocket is a Transport over a gorilla websocket connection.
type WebSocket struct {
	conn   *websocket.Conn
	logger *slog.Logger

	send chan []byte
	done chan struct{}

	mu      sync.Mutex
	handler func(stroke.Stroke)
	closed  bool
}

var _ Transport = (*WebSocket)(nil)

// Dial connects to a relay websocket endpoint such as ws://host:8080/ws/room.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*WebSocket, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
		_ = conn.Close()
		return nil, fmt.Errorf("dial %s: unexpected status %d", url, resp.StatusCode)
	}
	return NewWebSocket(conn, logger), nil
}

// NewWebSocket takes ownership of conn and starts its pumps.
func NewWebSocket(conn *websocket.Conn, logger *slog.Logger) *WebSocket {
	if logger == nil {
		logger = slog.Default()
	}
	w := &WebSocket{
		conn:   conn,
		logger: logger,
		send:   make(chan []byte, sendQueue),
		done:   make(chan struct{}),
	}
	go w.writePump()
	go w.readPump()
	return w
}

// Send queues s for the relay. A full queue or a closed connection loses the
// stroke.
func (w *WebSocket) Send(s stroke.Stroke) error {
	msg, err := stroke.EncodeDraw(s)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.send <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// OnRemoteStroke registers the single inbound handler. The handler runs on
// the read goroutine.
func (w *WebSocket) OnRemoteStroke(h func(stroke.Stroke)) {
	w.mu.Lock()
	w.handler = h
	w.mu.Unlock()
}

// Done is closed once the connection has gone away.
func (w *WebSocket) Done() <-chan struct{} {
	return w.done
}

// Close sends a close frame and drops the connection. Queued strokes may
// never reach the relay.
func (w *WebSocket) Close() error {
	if !w.markClosed() {
		return nil
	}
	_ = w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeWait),
	)
	_ = w.conn.Close()
	return nil
}

// markClosed flips the closed flag once and reports whether this call did it.
func (w *WebSocket) markClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.closed = true
	close(w.send)
	return true
}

// writePump pumps messages from the send channel to the WebSocket connection
func (w *WebSocket) writePump() {
	defer w.conn.Close()
	for msg := range w.send {
		if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			w.logger.Warn("stroke lost", "err", err)
			return
		}
	}
}

// readPump pumps socket_draw messages from the connection to the handler
func (w *WebSocket) readPump() {
	defer close(w.done)
	defer func() {
		w.markClosed()
		_ = w.conn.Close()
	}()

	for {
		_, raw, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.logger.Warn("relay connection lost", "err", err)
			}
			return
		}
		msg, err := stroke.Decode(raw)
		if err != nil {
			w.logger.Debug("discarding inbound message", "err", err)
			continue
		}
		if msg.Type != stroke.TypeSocketDraw {
			continue
		}
		s, err := stroke.DecodeStroke(msg.Data)
		if err != nil {
			w.logger.Debug("discarding inbound stroke", "err", err)
			continue
		}
		w.mu.Lock()
		h := w.handler
		w.mu.Unlock()
		if h != nil {
			h(s)
		}
	}
}
