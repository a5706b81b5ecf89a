package applier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haal01/drawing-board/internal/recorder"
	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
)

func remote(x float64) stroke.Stroke {
	return stroke.Stroke{
		Points: []stroke.Point{{X: x, Y: x}, {X: x + 1, Y: x + 1}},
		Style:  stroke.Style{LineColor: "#f00", LineWidth: 3},
	}
}

func TestImmediateApplyWhenIdle(t *testing.T) {
	t.Parallel()

	var applied []stroke.Stroke
	sink := &render.Recording{}
	a := New(Config{
		Drawing:   func() bool { return false },
		Sink:      sink,
		OnApplied: func(s stroke.Stroke) { applied = append(applied, s) },
	})

	a.Receive(remote(1))

	require.Equal(t, []stroke.Stroke{remote(1)}, applied)
	require.Len(t, sink.Ops, 2)
	require.False(t, a.hasPending)
}

func TestDeferredMergeKeepsOnlyLatest(t *testing.T) {
	t.Parallel()

	var applied []stroke.Stroke
	var a *Applier
	rec := recorder.New(recorder.Config{
		OnIdle: func() { a.Flush() },
	})
	a = New(Config{
		Drawing:   rec.Drawing,
		OnApplied: func(s stroke.Stroke) { applied = append(applied, s) },
	})

	require.NoError(t, rec.Start(0, 0))
	a.Receive(remote(1))
	a.Receive(remote(2))
	require.NoError(t, rec.Extend(5, 5))
	require.Empty(t, applied)

	require.True(t, a.hasPending)
	require.Equal(t, remote(2), a.pending)

	require.True(t, rec.End())
	require.Equal(t, []stroke.Stroke{remote(2)}, applied)
	require.Equal(t, 1, a.Dropped())

	a.Flush()
	require.False(t, rec.End())
	require.Len(t, applied, 1)
}

func TestAbortAlsoFlushes(t *testing.T) {
	t.Parallel()

	var applied int
	var a *Applier
	rec := recorder.New(recorder.Config{OnIdle: func() { a.Flush() }})
	a = New(Config{Drawing: rec.Drawing, OnApplied: func(stroke.Stroke) { applied++ }})

	require.NoError(t, rec.Start(0, 0))
	a.Receive(remote(1))
	rec.Abort()

	require.Equal(t, 1, applied)
}

func TestRemoteAppliedAfterLocalStrokeIsEmitted(t *testing.T) {
	t.Parallel()

	var order []string
	var a *Applier
	rec := recorder.New(recorder.Config{
		Emit:   func(stroke.Stroke) { order = append(order, "local") },
		OnIdle: func() { a.Flush() },
	})
	a = New(Config{
		Drawing:   rec.Drawing,
		OnApplied: func(stroke.Stroke) { order = append(order, "remote") },
	})

	require.NoError(t, rec.Start(0, 0))
	a.Receive(remote(1))
	rec.End()

	require.Equal(t, []string{"local", "remote"}, order)
}

func TestMalformedRemoteDiscarded(t *testing.T) {
	t.Parallel()

	var applied int
	a := New(Config{OnApplied: func(stroke.Stroke) { applied++ }})
	a.Receive(stroke.Stroke{Style: stroke.DefaultStyle})
	a.Receive(stroke.Stroke{Points: []stroke.Point{{X: 1, Y: 1}}})

	require.Zero(t, applied)
}
