package render

import "github.com/haal01/drawing-board/internal/stroke"

// Op is one call made on a Recording sink.
type Op struct {
	Segment bool
	From    stroke.Point
	To      stroke.Point
	Style   stroke.Style
}

// Recording keeps every call in order.
type Recording struct {
	Ops []Op
}

func (r *Recording) DrawPoint(p stroke.Point, style stroke.Style) {
	r.Ops = append(r.Ops, Op{From: p, To: p, Style: style})
}

func (r *Recording) DrawSegment(from, to stroke.Point, style stroke.Style) {
	r.Ops = append(r.Ops, Op{Segment: true, From: from, To: to, Style: style})
}
