package transport

import (
	"sync"

	"github.com/haal01/drawing-board/internal/stroke"
)

// Pipe returns two connected in-memory transports. A stroke sent on one end
// is delivered to the handler of the other end on the sender's goroutine,
// after being validated and copied as the wire would.
func Pipe() (*PipeEnd, *PipeEnd) {
	a, b := &PipeEnd{}, &PipeEnd{}
	a.peer, b.peer = b, a
	return a, b
}

// PipeEnd is one side of a Pipe.
type PipeEnd struct {
	peer *PipeEnd

	mu      sync.Mutex
	handler func(stroke.Stroke)
	closed  bool
}

var _ Transport = (*PipeEnd)(nil)

func (p *PipeEnd) Send(s stroke.Stroke) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if p.isClosed() {
		return ErrClosed
	}
	p.peer.deliver(s.Clone())
	return nil
}

func (p *PipeEnd) OnRemoteStroke(h func(stroke.Stroke)) {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// Close detaches this end. Strokes sent to it afterwards are dropped.
func (p *PipeEnd) Close() error {
	p.mu.Lock()
	p.closed = true
	p.handler = nil
	p.mu.Unlock()
	return nil
}

func (p *PipeEnd) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *PipeEnd) deliver(s stroke.Stroke) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h(s)
	}
}
