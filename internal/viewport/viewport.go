// Package viewport maps pointer coordinates into canvas space and back.
//
// The viewport is local to one client and never travels on the wire; every
// coordinate that leaves the client has already been through ToCanvasSpace.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/haal01/drawing-board/internal/stroke"
)

// ErrInvalidZoom is returned when a viewport has a zoom that is not a positive
// finite number.
var ErrInvalidZoom = errors.New("viewport zoom must be positive")

// Viewport is the local pan offset and zoom factor.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

// Identity is a viewport that leaves coordinates untouched.
var Identity = Viewport{Zoom: 1}

// Validate fails fast on a zoom that would corrupt coordinates.
func (v Viewport) Validate() error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidZoom, v.Zoom)
	}
	return nil
}

// ToCanvasSpace converts a raw input coordinate to a canvas point.
func ToCanvasSpace(rawX, rawY float64, v Viewport) (stroke.Point, error) {
	if err := v.Validate(); err != nil {
		return stroke.Point{}, err
	}
	return stroke.Point{
		X: rawX/v.Zoom + v.PanX,
		Y: rawY/v.Zoom + v.PanY,
	}, nil
}

// ToRawSpace is the inverse of ToCanvasSpace.
func ToRawSpace(p stroke.Point, v Viewport) (rawX, rawY float64, err error) {
	if err := v.Validate(); err != nil {
		return 0, 0, err
	}
	return (p.X - v.PanX) * v.Zoom, (p.Y - v.PanY) * v.Zoom, nil
}
