// Package applier merges strokes received from peers into a client that may
// be in the middle of its own gesture.
//
// Drawing a remote stroke while the local path is still being built would
// interleave two paths on one drawing context, so a stroke that arrives while
// the local user is drawing is held back until the gesture ends. The hold is a
// single slot: a newer deferred stroke replaces an older one, and the older
// one is never drawn.
package applier

import (
	"log/slog"

	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
)

// Config wires an Applier. Drawing is required.
type Config struct {
	// Drawing reports whether the local recorder is mid-gesture.
	Drawing func() bool
	Sink    render.Sink
	// OnApplied runs after a remote stroke has been drawn.
	OnApplied func(stroke.Stroke)
	Logger    *slog.Logger
}

// Applier is not safe for concurrent use.
type Applier struct {
	drawing   func() bool
	sink      render.Sink
	onApplied func(stroke.Stroke)
	logger    *slog.Logger

	pending    stroke.Stroke
	hasPending bool
	dropped    int
}

func New(cfg Config) *Applier {
	a := &Applier{
		drawing:   cfg.Drawing,
		sink:      cfg.Sink,
		onApplied: cfg.OnApplied,
		logger:    cfg.Logger,
	}
	if a.drawing == nil {
		a.drawing = func() bool { return false }
	}
	if a.sink == nil {
		a.sink = render.Nop{}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Receive handles one inbound stroke: drawn now when the local user is idle,
// parked in the pending slot otherwise.
func (a *Applier) Receive(s stroke.Stroke) {
	if err := s.Validate(); err != nil {
		a.logger.Debug("discarding remote stroke", "err", err)
		return
	}
	if !a.drawing() {
		a.apply(s)
		return
	}
	if a.hasPending {
		a.dropped++
		a.logger.Debug("replacing deferred remote stroke", "dropped", a.dropped)
	}
	a.pending = s
	a.hasPending = true
}

// Flush draws the pending stroke, if any, and empties the slot. Call it right
// after the local gesture ends.
func (a *Applier) Flush() {
	if !a.hasPending {
		return
	}
	s := a.pending
	a.pending = stroke.Stroke{}
	a.hasPending = false
	a.apply(s)
}

// Dropped counts deferred strokes that were overwritten before being drawn.
func (a *Applier) Dropped() int {
	return a.dropped
}

func (a *Applier) apply(s stroke.Stroke) {
	render.Stroke(a.sink, s)
	if a.onApplied != nil {
		a.onApplied(s)
	}
}
