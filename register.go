package cnnway

import (
	"math"

	"github.com/Alu-Vidor/cnn-way/grid"
)

const (
	// CanvasSize is the side of every registered grid.
	CanvasSize = 28

	// TargetBox is the side of the box the longer ink dimension is scaled to.
	TargetBox = 20

	// InkThreshold is the value a cell must exceed to count as ink when
	// locating the bounding box.
	InkThreshold = 0.05

	// canvasCenter is the geometric centre of the canvas in cell
	// coordinates.
	canvasCenter = (CanvasSize - 1) / 2.0
)

// roundHalfUp rounds x to the nearest integer with ties going towards
// positive infinity. Both box sizing and re-centering use it, so registering
// a drawing and a reference glyph always agree on tie-breaking.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// box is an inclusive cell-range bounding box.
type box struct {
	minRow, maxRow int
	minCol, maxCol int
}

func (b box) width() int  { return b.maxCol - b.minCol + 1 }
func (b box) height() int { return b.maxRow - b.minRow + 1 }

// inkBounds returns the tight bounding box of all cells above InkThreshold,
// and false when there are none.
func inkBounds(g grid.Grid) (box, bool) {
	b := box{minRow: g.Rows(), minCol: g.Cols(), maxRow: -1, maxCol: -1}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if g.At(r, c) <= InkThreshold {
				continue
			}
			b.minRow = min(b.minRow, r)
			b.maxRow = max(b.maxRow, r)
			b.minCol = min(b.minCol, c)
			b.maxCol = max(b.maxCol, c)
		}
	}
	return b, b.maxRow >= 0
}

// bilinear samples g at fractional coordinates, clamping them to the grid.
func bilinear(g grid.Grid, y, x float64) float64 {
	maxY := float64(g.Rows() - 1)
	maxX := float64(g.Cols() - 1)
	y = math.Min(math.Max(y, 0), maxY)
	x = math.Min(math.Max(x, 0), maxX)

	y0, x0 := int(math.Floor(y)), int(math.Floor(x))
	y1, x1 := min(y0+1, g.Rows()-1), min(x0+1, g.Cols()-1)
	fy, fx := y-float64(y0), x-float64(x0)

	top := g.At(y0, x0)*(1-fx) + g.At(y0, x1)*fx
	bottom := g.At(y1, x0)*(1-fx) + g.At(y1, x1)*fx
	return top*(1-fy) + bottom*fy
}

// centerOfMass returns the intensity-weighted centroid of g and false when
// g carries no mass.
func centerOfMass(g grid.Grid) (row, col float64, ok bool) {
	var total, sumRow, sumCol float64
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := g.At(r, c)
			total += v
			sumRow += v * float64(r)
			sumCol += v * float64(c)
		}
	}
	if total == 0 {
		return 0, 0, false
	}
	return sumRow / total, sumCol / total, true
}

// Register converts a raw ink raster into the canonical pose used for
// template matching:
//
//  1. crop to the bounding box of cells above InkThreshold
//  2. scale uniformly so the longer side spans TargetBox cells, resampling
//     bilinearly into a box centred on a CanvasSize canvas
//  3. smooth with one pass of the 3x3 mean filter
//  4. shift by whole cells so the centre of mass sits on the canvas centre
//  5. min-max normalise onto [0,1]
//
// Blank input, including the zero Grid, yields an all-zero canvas.
func Register(raw grid.Grid) grid.Grid {
	if raw.Empty() {
		return grid.Zeros(CanvasSize, CanvasSize)
	}
	b, ok := inkBounds(raw)
	if !ok {
		return grid.Zeros(CanvasSize, CanvasSize)
	}

	w, h := b.width(), b.height()
	scale := float64(TargetBox) / float64(max(w, h))
	scaledW := max(1, roundHalfUp(float64(w)*scale))
	scaledH := max(1, roundHalfUp(float64(h)*scale))
	offX := (CanvasSize - scaledW) / 2
	offY := (CanvasSize - scaledH) / 2

	resampled := grid.MustBuild(CanvasSize, CanvasSize, func(row, col int) float64 {
		dy, dx := row-offY, col-offX
		if dy < 0 || dy >= scaledH || dx < 0 || dx >= scaledW {
			return 0
		}
		sy := float64(b.minRow) + (float64(dy)+0.5)/scale - 0.5
		sx := float64(b.minCol) + (float64(dx)+0.5)/scale - 0.5
		return bilinear(raw, sy, sx)
	})

	smoothed := grid.MeanFilter(resampled)

	centered := smoothed
	if cy, cx, ok := centerOfMass(smoothed); ok {
		centered = grid.Shift(smoothed,
			roundHalfUp(canvasCenter-cy),
			roundHalfUp(canvasCenter-cx))
	}

	return grid.NormalizeToRange(centered)
}
