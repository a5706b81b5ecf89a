package stroke

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyStroke is returned for a stroke without points.
	ErrEmptyStroke = errors.New("stroke has no points")
	// ErrMalformed is returned for payloads that do not have the stroke shape.
	ErrMalformed = errors.New("malformed stroke")
)

// DefaultStyle is the pen a client starts with.
var DefaultStyle = Style{LineColor: "#000", LineWidth: 5}

// Point is a position in canvas space.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as a two element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts exactly [x, y].
func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return fmt.Errorf("%w: point: %v", ErrMalformed, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("%w: point has %d coordinates", ErrMalformed, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Style is the pen appearance attached to a stroke when it is emitted.
type Style struct {
	LineColor string  `json:"lineColor"`
	LineWidth float64 `json:"lineWidth"`
}

// Validate reports whether the style can be put on the wire.
func (s Style) Validate() error {
	if s.LineColor == "" {
		return fmt.Errorf("%w: empty line color", ErrMalformed)
	}
	if !(s.LineWidth > 0) || math.IsInf(s.LineWidth, 0) {
		return fmt.Errorf("%w: line width %v", ErrMalformed, s.LineWidth)
	}
	return nil
}

// Stroke is one completed freehand gesture.
type Stroke struct {
	Points []Point `json:"points"`
	Style  Style   `json:"style"`
}

// Validate checks the structural invariants of a stroke.
func (s Stroke) Validate() error {
	if len(s.Points) == 0 {
		return ErrEmptyStroke
	}
	for i, p := range s.Points {
		if !p.finite() {
			return fmt.Errorf("%w: point %d is not finite", ErrMalformed, i)
		}
	}
	return s.Style.Validate()
}

// Clone returns a copy that shares no memory with s.
func (s Stroke) Clone() Stroke {
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	return Stroke{Points: points, Style: s.Style}
}
