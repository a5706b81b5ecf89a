// Package canvas is the client side of stroke synchronisation: the surface the
// surrounding application drives with pointer and style events, and the place
// remote strokes come out of.
//
// Every event, local or remote, is handled on the goroutine running
// Session.Run, one at a time. Inbound strokes that reached the transport
// before a local event are handled before that event.
package canvas

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/haal01/drawing-board/internal/applier"
	"github.com/haal01/drawing-board/internal/recorder"
	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/transport"
	"github.com/haal01/drawing-board/internal/viewport"
)

var (
	// ErrStopped is returned by entry points once Run has returned.
	ErrStopped = errors.New("canvas session stopped")
	// ErrRunning is returned by a second call to Run.
	ErrRunning = errors.New("canvas session already running")
)

// Config wires a Session. Transport is required.
type Config struct {
	Transport transport.Transport
	// Sink draws both local feedback and applied remote strokes.
	Sink     render.Sink
	Style    stroke.Style
	Viewport viewport.Viewport
	// OnRemoteStrokeReceived runs on the session goroutine after a remote
	// stroke has been drawn.
	OnRemoteStrokeReceived func(stroke.Stroke)
	Logger                 *slog.Logger
}

// viewportSink is a Sink that maps canvas coordinates back to the screen
// itself and so has to follow pan and zoom.
type viewportSink interface {
	SetViewport(viewport.Viewport) error
}

// Session ties one Recorder and one Applier to a Transport.
type Session struct {
	tr       transport.Transport
	rec      *recorder.Recorder
	app      *applier.Applier
	view     viewport.Viewport
	viewSink viewportSink
	onRemote func(stroke.Stroke)
	logger   *slog.Logger

	events  chan func()
	stopped chan struct{}
	running atomic.Bool

	inboxMu sync.Mutex
	inbox   []stroke.Stroke
	notify  chan struct{}
}

// New builds a Session. Nothing happens until Run is called: entry points
// block until a Run loop picks them up.
func New(cfg Config) (*Session, error) {
	if cfg.Transport == nil {
		return nil, errors.New("canvas: transport is required")
	}
	if cfg.Viewport == (viewport.Viewport{}) {
		cfg.Viewport = viewport.Identity
	}
	if err := cfg.Viewport.Validate(); err != nil {
		return nil, err
	}
	if cfg.Style != (stroke.Style{}) {
		if err := cfg.Style.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Sink == nil {
		cfg.Sink = render.Nop{}
	}
	vs, _ := cfg.Sink.(viewportSink)
	if vs != nil {
		if err := vs.SetViewport(cfg.Viewport); err != nil {
			return nil, err
		}
	}

	s := &Session{
		tr:       cfg.Transport,
		view:     cfg.Viewport,
		viewSink: vs,
		onRemote: cfg.OnRemoteStrokeReceived,
		logger:   cfg.Logger,
		events:   make(chan func()),
		stopped:  make(chan struct{}),
		notify:   make(chan struct{}, 1),
	}
	s.rec = recorder.New(recorder.Config{
		Emit:     s.emit,
		Viewport: func() viewport.Viewport { return s.view },
		Sink:     cfg.Sink,
		Style:    cfg.Style,
		OnIdle:   func() { s.app.Flush() },
	})
	s.app = applier.New(applier.Config{
		Drawing:   s.rec.Drawing,
		Sink:      cfg.Sink,
		OnApplied: s.applied,
		Logger:    cfg.Logger,
	})
	return s, nil
}

// Run subscribes to the transport and handles events until ctx is done. It
// unsubscribes before returning. A Session runs once, and entry points called
// before Run starts wait for it.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	s.tr.OnRemoteStroke(s.receive)
	defer s.tr.OnRemoteStroke(nil)
	defer close(s.stopped)

	for {
		select {
		case fn := <-s.events:
			s.drainInbox()
			fn()
		case <-s.notify:
			s.drainInbox()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// PointerDown starts a local stroke at raw coordinates.
func (s *Session) PointerDown(x, y float64) error {
	var err error
	if stopErr := s.do(func() { err = s.rec.Start(x, y) }); stopErr != nil {
		return stopErr
	}
	return err
}

// PointerMove extends the local stroke; ignored when no stroke is active.
func (s *Session) PointerMove(x, y float64) error {
	var err error
	if stopErr := s.do(func() { err = s.rec.Extend(x, y) }); stopErr != nil {
		return stopErr
	}
	return err
}

// PointerUp finishes the local stroke and sends it.
func (s *Session) PointerUp() error {
	return s.do(func() { s.rec.End() })
}

// Cancel drops the local stroke without sending it.
func (s *Session) Cancel() error {
	return s.do(s.rec.Abort)
}

// StyleChange sets the pen used by the next stroke.
func (s *Session) StyleChange(style stroke.Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	return s.do(func() { s.rec.SetStyle(style) })
}

// SetViewport changes the local pan and zoom, for pointer input and for the
// sink when it draws in screen space.
func (s *Session) SetViewport(v viewport.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	var err error
	if stopErr := s.do(func() {
		if s.viewSink != nil {
			if err = s.viewSink.SetViewport(v); err != nil {
				return
			}
		}
		s.view = v
	}); stopErr != nil {
		return stopErr
	}
	return err
}

// Drawing reports whether a local stroke is in progress.
func (s *Session) Drawing() (bool, error) {
	var drawing bool
	err := s.do(func() { drawing = s.rec.Drawing() })
	return drawing, err
}

// do runs fn on the session goroutine and waits for it.
func (s *Session) do(fn func()) error {
	done := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(done) }:
	case <-s.stopped:
		return ErrStopped
	}
	<-done
	return nil
}

// emit runs on the session goroutine when the recorder completes a stroke.
func (s *Session) emit(st stroke.Stroke) {
	if err := s.tr.Send(st); err != nil {
		s.logger.Warn("stroke lost", "points", len(st.Points), "err", err)
	}
}

// receive is the transport handler. It never blocks on the session loop.
func (s *Session) receive(st stroke.Stroke) {
	s.inboxMu.Lock()
	s.inbox = append(s.inbox, st)
	s.inboxMu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Session) drainInbox() {
	s.inboxMu.Lock()
	batch := s.inbox
	s.inbox = nil
	s.inboxMu.Unlock()
	for _, st := range batch {
		s.app.Receive(st)
	}
}

func (s *Session) applied(st stroke.Stroke) {
	if s.onRemote != nil {
		s.onRemote(st)
	}
}
