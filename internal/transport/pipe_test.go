package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haal01/drawing-board/internal/stroke"
)

var dot = stroke.Stroke{Points: []stroke.Point{{X: 1, Y: 2}}, Style: stroke.DefaultStyle}

func TestPipeDeliversToPeer(t *testing.T) {
	t.Parallel()

	a, b := Pipe()
	var got []stroke.Stroke
	b.OnRemoteStroke(func(s stroke.Stroke) { got = append(got, s) })

	require.NoError(t, a.Send(dot))
	require.Equal(t, []stroke.Stroke{dot}, got)
}

func TestPipeHandlerReplacement(t *testing.T) {
	t.Parallel()

	a, b := Pipe()
	var first, second int
	b.OnRemoteStroke(func(stroke.Stroke) { first++ })
	b.OnRemoteStroke(func(stroke.Stroke) { second++ })

	require.NoError(t, a.Send(dot))
	require.Zero(t, first)
	require.Equal(t, 1, second)

	b.OnRemoteStroke(nil)
	require.NoError(t, a.Send(dot))
	require.Equal(t, 1, second)
}

func TestPipeClosed(t *testing.T) {
	t.Parallel()

	a, b := Pipe()
	var got int
	b.OnRemoteStroke(func(stroke.Stroke) { got++ })

	require.NoError(t, a.Close())
	require.ErrorIs(t, a.Send(dot), ErrClosed)

	require.NoError(t, b.Send(dot))
	require.Zero(t, got)
}

func TestPipeRejectsEmptyStroke(t *testing.T) {
	t.Parallel()

	a, _ := Pipe()
	require.ErrorIs(t, a.Send(stroke.Stroke{Style: stroke.DefaultStyle}), stroke.ErrEmptyStroke)
}

func TestPipeCopiesPoints(t *testing.T) {
	t.Parallel()

	a, b := Pipe()
	var got stroke.Stroke
	b.OnRemoteStroke(func(s stroke.Stroke) { got = s })

	s := dot.Clone()
	require.NoError(t, a.Send(s))
	s.Points[0].X = 42
	require.Equal(t, 1.0, got.Points[0].X)
}
