// Package render holds the drawing capability the sync core draws through.
// The core never owns a surface; it is handed a Sink by the application.
package render

import "github.com/haal01/drawing-board/internal/stroke"

// Sink draws canvas-space geometry.
type Sink interface {
	DrawPoint(p stroke.Point, style stroke.Style)
	DrawSegment(from, to stroke.Point, style stroke.Style)
}

// Nop discards everything.
type Nop struct{}

func (Nop) DrawPoint(stroke.Point, stroke.Style) {}
func (Nop) DrawSegment(stroke.Point, stroke.Point, stroke.Style) {}

// Stroke draws a whole stroke: a point for the first sample and a segment
// between every consecutive pair.
func Stroke(sink Sink, s stroke.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	sink.DrawPoint(s.Points[0], s.Style)
	for i := 1; i < len(s.Points); i++ {
		sink.DrawSegment(s.Points[i-1], s.Points[i], s.Style)
	}
}
