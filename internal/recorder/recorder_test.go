package recorder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haal01/drawing-board/internal/render"
	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/viewport"
)

type harness struct {
	rec     *Recorder
	emitted []stroke.Stroke
	idles   int
	sink    *render.Recording
	view    viewport.Viewport
}

func newHarness() *harness {
	h := &harness{sink: &render.Recording{}, view: viewport.Identity}
	h.rec = New(Config{
		Emit:     func(s stroke.Stroke) { h.emitted = append(h.emitted, s) },
		Viewport: func() viewport.Viewport { return h.view },
		Sink:     h.sink,
		OnIdle:   func() { h.idles++ },
	})
	return h
}

func TestTwoSampleStroke(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.rec.SetStyle(stroke.Style{LineColor: "#000", LineWidth: 5})
	require.NoError(t, h.rec.Start(10, 10))
	require.NoError(t, h.rec.Extend(20, 20))
	require.True(t, h.rec.End())

	require.Equal(t, []stroke.Stroke{{
		Points: []stroke.Point{{X: 10, Y: 10}, {X: 20, Y: 20}},
		Style:  stroke.Style{LineColor: "#000", LineWidth: 5},
	}}, h.emitted)
}

func TestSingleEmissionKeepsOrder(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 7, 250} {
		h := newHarness()
		require.NoError(t, h.rec.Start(0, 0))
		for i := 1; i <= n; i++ {
			require.NoError(t, h.rec.Extend(float64(i), float64(-i)))
		}
		require.True(t, h.rec.End())
		require.False(t, h.rec.End())

		require.Len(t, h.emitted, 1)
		require.Len(t, h.emitted[0].Points, n+1)
		for i, p := range h.emitted[0].Points {
			require.Equal(t, stroke.Point{X: float64(i), Y: float64(-i)}, p)
		}
		require.Equal(t, 1, h.idles)
	}
}

func TestIdleNoOp(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, h.rec.Extend(5, 5))
	require.False(t, h.rec.End())
	h.rec.Abort()

	require.False(t, h.rec.Drawing())
	require.Empty(t, h.emitted)
	require.Empty(t, h.sink.Ops)
	require.Zero(t, h.idles)
}

func TestStartWhileDrawingResets(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, h.rec.Start(1, 1))
	require.NoError(t, h.rec.Extend(2, 2))
	require.NoError(t, h.rec.Start(3, 3))
	require.True(t, h.rec.Drawing())
	require.Zero(t, h.idles)
	require.True(t, h.rec.End())

	require.Len(t, h.emitted, 1)
	require.Equal(t, []stroke.Point{{X: 3, Y: 3}}, h.emitted[0].Points)
}

func TestStyleIsSnapshotAtEmission(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.Equal(t, stroke.DefaultStyle, h.rec.Style())

	red := stroke.Style{LineColor: "red", LineWidth: 2}
	h.rec.SetStyle(red)
	require.NoError(t, h.rec.Start(0, 0))
	require.True(t, h.rec.End())

	h.rec.SetStyle(stroke.Style{LineColor: "blue", LineWidth: 9})
	require.Equal(t, red, h.emitted[0].Style)
}

func TestEmittedStrokeIsNotReused(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, h.rec.Start(1, 1))
	require.True(t, h.rec.End())
	require.NoError(t, h.rec.Start(2, 2))
	require.NoError(t, h.rec.Extend(3, 3))
	require.True(t, h.rec.End())

	require.Equal(t, []stroke.Point{{X: 1, Y: 1}}, h.emitted[0].Points)
	require.Equal(t, []stroke.Point{{X: 2, Y: 2}, {X: 3, Y: 3}}, h.emitted[1].Points)
}

func TestTransformAppliedToSamples(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.view = viewport.Viewport{PanX: 100, PanY: 200, Zoom: 2}
	require.NoError(t, h.rec.Start(10, 10))
	require.NoError(t, h.rec.Extend(20, 40))
	require.True(t, h.rec.End())

	require.Equal(t, []stroke.Point{{X: 105, Y: 205}, {X: 110, Y: 220}}, h.emitted[0].Points)
}

func TestLocalFeedbackGoesToSink(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, h.rec.Start(1, 1))
	require.NoError(t, h.rec.Extend(2, 2))

	require.Equal(t, []render.Op{
		{From: stroke.Point{X: 1, Y: 1}, To: stroke.Point{X: 1, Y: 1}, Style: stroke.DefaultStyle},
		{Segment: true, From: stroke.Point{X: 1, Y: 1}, To: stroke.Point{X: 2, Y: 2}, Style: stroke.DefaultStyle},
	}, h.sink.Ops)
}

func TestInvalidViewportLeavesSessionAlone(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.view = viewport.Viewport{Zoom: 0}
	require.ErrorIs(t, h.rec.Start(1, 1), viewport.ErrInvalidZoom)
	require.False(t, h.rec.Drawing())

	h.view = viewport.Identity
	require.NoError(t, h.rec.Start(1, 1))
	h.view = viewport.Viewport{Zoom: -2}
	require.ErrorIs(t, h.rec.Extend(2, 2), viewport.ErrInvalidZoom)
	require.True(t, h.rec.End())
	require.Equal(t, []stroke.Point{{X: 1, Y: 1}}, h.emitted[0].Points)
}

func TestAbortDropsGesture(t *testing.T) {
	t.Parallel()

	h := newHarness()
	require.NoError(t, h.rec.Start(1, 1))
	h.rec.Abort()

	require.False(t, h.rec.Drawing())
	require.Empty(t, h.emitted)
	require.Equal(t, 1, h.idles)
}
