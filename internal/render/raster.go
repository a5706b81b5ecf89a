package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/vector"

	"github.com/haal01/drawing-board/internal/stroke"
	"github.com/haal01/drawing-board/internal/viewport"
)

// capSides is the number of sides of the polygon used for round caps.
const capSides = 16

// Raster draws strokes with round caps onto an RGBA image in raw (screen)
// space, using the viewport to map canvas coordinates. It is not safe for
// concurrent use.
type Raster struct {
	img  *image.RGBA
	view viewport.Viewport
	z    vector.Rasterizer
}

var _ Sink = (*Raster)(nil)

// NewRaster returns a white w x h surface.
func NewRaster(w, h int, v viewport.Viewport) (*Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster size %dx%d", w, h)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &Raster{img: img, view: v}, nil
}

// SetViewport changes the mapping used for subsequent draws.
func (r *Raster) SetViewport(v viewport.Viewport) error {
	if err := v.Validate(); err != nil {
		return err
	}
	r.view = v
	return nil
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the current surface.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

func (r *Raster) DrawPoint(p stroke.Point, style stroke.Style) {
	x, y, ok := r.raw(p)
	if !ok {
		return
	}
	r.disc(x, y, r.halfWidth(style), style.LineColor)
}

func (r *Raster) DrawSegment(from, to stroke.Point, style stroke.Style) {
	ax, ay, ok := r.raw(from)
	if !ok {
		return
	}
	bx, by, ok := r.raw(to)
	if !ok {
		return
	}
	hw := r.halfWidth(style)
	dx, dy := bx-ax, by-ay
	if l := math.Hypot(dx, dy); l > 0 {
		nx, ny := -dy/l*hw, dx/l*hw
		r.fill(style.LineColor, [][2]float64{
			{ax + nx, ay + ny},
			{bx + nx, by + ny},
			{bx - nx, by - ny},
			{ax - nx, ay - ny},
		})
	}
	r.disc(ax, ay, hw, style.LineColor)
	r.disc(bx, by, hw, style.LineColor)
}

func (r *Raster) raw(p stroke.Point) (float64, float64, bool) {
	x, y, err := viewport.ToRawSpace(p, r.view)
	return x, y, err == nil
}

func (r *Raster) halfWidth(style stroke.Style) float64 {
	hw := style.LineWidth * r.view.Zoom / 2
	if hw < 0.5 {
		hw = 0.5
	}
	return hw
}

func (r *Raster) disc(cx, cy, radius float64, c string) {
	poly := make([][2]float64, capSides)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / capSides
		poly[i] = [2]float64{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	r.fill(c, poly)
}

// fill rasterises a closed polygon, restricting the rasteriser to the
// polygon's bounding box.
func (r *Raster) fill(c string, poly [][2]float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	box := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(r.img.Bounds())
	if box.Empty() {
		return
	}

	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	r.z.Reset(box.Dx(), box.Dy())
	r.z.MoveTo(float32(poly[0][0]-ox), float32(poly[0][1]-oy))
	for _, p := range poly[1:] {
		r.z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
	}
	r.z.ClosePath()
	r.z.Draw(r.img, box, image.NewUniform(ParseColor(c)), image.Point{})
}

var namedColors = map[string]color.RGBA{
	"black":  {A: 0xff},
	"white":  {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"red":    {R: 0xff, A: 0xff},
	"green":  {G: 0x80, A: 0xff},
	"blue":   {B: 0xff, A: 0xff},
	"yellow": {R: 0xff, G: 0xff, A: 0xff},
}

// ParseColor understands #rgb, #rrggbb, #rrggbbaa and a few CSS names.
// Anything else renders black.
func ParseColor(s string) color.RGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c
	}
	black := color.RGBA{A: 0xff}
	if !strings.HasPrefix(s, "#") {
		return black
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return black
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black
	}
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
