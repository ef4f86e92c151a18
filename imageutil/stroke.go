package imageutil

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	// DefaultCanvasSize matches the drawing surface the strokes are
	// expected to come from.
	DefaultCanvasSize = 280

	// DefaultBrush is the stroke width in canvas pixels.
	DefaultBrush = 18

	// capSegments is the number of polygon edges used for a round cap.
	capSegments = 24
)

// Point is a position on the stroke canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pen-down polyline.
type Stroke []Point

// StrokeCanvas renders freehand strokes with a round brush.
type StrokeCanvas struct {
	Width, Height int
	Brush         float64
}

// NewStrokeCanvas returns a DefaultCanvasSize square canvas with the
// default brush.
func NewStrokeCanvas() StrokeCanvas {
	return StrokeCanvas{Width: DefaultCanvasSize, Height: DefaultCanvasSize, Brush: DefaultBrush}
}

// Render draws strokes in black on a white canvas. A single-point stroke
// leaves a dot. Every segment and joint is rasterised as its own shape and
// composited, so overlapping parts of a stroke never cancel out.
func (c StrokeCanvas) Render(strokes []Stroke) *GrayImage {
	mask := image.NewAlpha(image.Rect(0, 0, c.Width, c.Height))
	z := vector.NewRasterizer(c.Width, c.Height)
	z.DrawOp = draw.Over
	radius := c.Brush / 2

	fill := func() {
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
		z.Reset(c.Width, c.Height)
	}

	for _, s := range strokes {
		for i, p := range s {
			disc(z, p, radius)
			fill()
			if i > 0 {
				if segment(z, s[i-1], p, radius) {
					fill()
				}
			}
		}
	}

	out := NewGrayImage(c.Width, c.Height)
	for i, a := range mask.Pix {
		out.Pix[i] = 0xff - a
	}
	return out
}

// disc adds a closed polygon approximating a circle.
func disc(z *vector.Rasterizer, p Point, r float64) {
	for i := 0; i < capSegments; i++ {
		theta := 2 * math.Pi * float64(i) / capSegments
		x := float32(p.X + r*math.Cos(theta))
		y := float32(p.Y + r*math.Sin(theta))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// segment adds the rectangle covering a->b at the brush width. It reports
// false for a zero-length segment, which the caps already cover.
func segment(z *vector.Rasterizer, a, b Point, r float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	nx, ny := -dy/length*r, dx/length*r
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
	return true
}

// LoadStrokes decodes strokes from JSON of the form
// [[{"x":10,"y":20},{"x":12,"y":40}], ...].
func LoadStrokes(r io.Reader) ([]Stroke, error) {
	var strokes []Stroke
	if err := json.NewDecoder(r).Decode(&strokes); err != nil {
		return nil, fmt.Errorf("failed to decode strokes: %w", err)
	}
	return strokes, nil
}
