// Package transport carries strokes between a client and the relay.
package transport

import (
	"errors"

	"github.com/haal01/drawing-board/internal/stroke"
)

// ErrClosed is returned by Send once the connection is gone. The stroke is
// lost; callers are expected to log it and move on.
var ErrClosed = errors.New("transport closed")

// ErrQueueFull is returned by Send when the outbound queue cannot take the
// stroke. The stroke is lost.
var ErrQueueFull = errors.New("send queue full")

// Transport is a bidirectional stroke channel to the relay.
//
// Send is fire-and-forget: no acknowledgement, no retry. OnRemoteStroke keeps
// exactly one handler; registering another replaces it and nil removes it.
type Transport interface {
	Send(s stroke.Stroke) error
	OnRemoteStroke(h func(stroke.Stroke))
	Close() error
}
