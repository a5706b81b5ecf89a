// Package recorder turns one pointer gesture into one stroke.
//
// A Recorder is a two state machine, Idle and Drawing. It is not safe for
// concurrent use; callers drive it from a single event loop.
package recorder

import (
	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/viewport"
)

// Config wires a Recorder to its collaborators. Only Emit is required.
type Config struct {
	// Emit receives every completed stroke exactly once.
	Emit func(stroke.Stroke)
	// Viewport returns the current pan and zoom. Defaults to identity.
	Viewport func() viewport.Viewport
	// Sink gets local feedback while the gesture is in progress.
	Sink render.Sink
	// Style is the initial pen. Defaults to stroke.DefaultStyle.
	Style stroke.Style
	// OnIdle runs after every Drawing -> Idle transition, after Emit.
	OnIdle func()
}

// session is the transient DrawSession of one gesture.
type session struct {
	active bool
	points []stroke.Point
}

// Recorder owns the lifecycle of the in-progress stroke.
type Recorder struct {
	emit     func(stroke.Stroke)
	viewport func() viewport.Viewport
	sink     render.Sink
	onIdle   func()
	style    stroke.Style
	session  session
}

// New returns an idle Recorder.
func New(cfg Config) *Recorder {
	r := &Recorder{
		emit:     cfg.Emit,
		viewport: cfg.Viewport,
		sink:     cfg.Sink,
		onIdle:   cfg.OnIdle,
		style:    cfg.Style,
	}
	if r.emit == nil {
		r.emit = func(stroke.Stroke) {}
	}
	if r.viewport == nil {
		r.viewport = func() viewport.Viewport { return viewport.Identity }
	}
	if r.sink == nil {
		r.sink = render.Nop{}
	}
	if r.style == (stroke.Style{}) {
		r.style = stroke.DefaultStyle
	}
	return r
}

// Drawing reports whether a gesture is in progress.
func (r *Recorder) Drawing() bool {
	return r.session.active
}

// Style returns the pen the next stroke will carry.
func (r *Recorder) Style() stroke.Style {
	return r.style
}

// SetStyle changes the pen for the next emitted stroke. A stroke already
// emitted keeps the style it was sent with.
func (r *Recorder) SetStyle(s stroke.Style) {
	r.style = s
}

// Start begins a gesture at raw coordinates (x, y). Starting while already
// drawing discards the previous points.
func (r *Recorder) Start(x, y float64) error {
	p, err := viewport.ToCanvasSpace(x, y, r.viewport())
	if err != nil {
		return err
	}
	r.session = session{active: true, points: []stroke.Point{p}}
	r.sink.DrawPoint(p, r.style)
	return nil
}

// Extend appends a sample to the gesture. It does nothing while idle.
func (r *Recorder) Extend(x, y float64) error {
	if !r.session.active {
		return nil
	}
	p, err := viewport.ToCanvasSpace(x, y, r.viewport())
	if err != nil {
		return err
	}
	prev := r.session.points[len(r.session.points)-1]
	r.session.points = append(r.session.points, p)
	r.sink.DrawSegment(prev, p, r.style)
	return nil
}

// End finishes the gesture, emits its stroke and returns to idle. It reports
// whether a stroke was emitted; while idle it does nothing.
func (r *Recorder) End() bool {
	if !r.session.active {
		return false
	}
	s := stroke.Stroke{Points: r.session.points, Style: r.style}
	r.session = session{}
	r.emit(s)
	r.idle()
	return true
}

// Abort drops the gesture without emitting anything.
func (r *Recorder) Abort() {
	if !r.session.active {
		return
	}
	r.session = session{}
	r.idle()
}

func (r *Recorder) idle() {
	if r.onIdle != nil {
		r.onIdle()
	}
}
