package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrKernelTooLarge is returned by Convolve when the kernel does not fit
	// inside the image.
	ErrKernelTooLarge = errors.New("grid: kernel larger than image")

	// ErrBadWindow is returned by MaxPool when the window is non-positive or
	// does not fit at least once in each dimension.
	ErrBadWindow = errors.New("grid: invalid pooling window")

	// ErrLength is returned when two vectors that must be combined
	// element-wise have different lengths.
	ErrLength = errors.New("grid: vector length mismatch")
)

// rangeEpsilon is the smallest max-min span NormalizeToRange will divide by.
const rangeEpsilon = 1e-6

// Convolve computes the valid-mode cross-correlation of img with k: no
// padding is applied, so an R x C image and a K x K kernel give an
// (R-K+1) x (C-K+1) result.
func Convolve(img Grid, k Kernel) (Grid, error) {
	if img.Empty() || k.Weights.Empty() {
		return Grid{}, ErrEmpty
	}
	size := k.Size()
	if size > img.rows || size > img.cols {
		return Grid{}, fmt.Errorf("%w: %dx%d kernel on %dx%d image",
			ErrKernelTooLarge, size, size, img.rows, img.cols)
	}

	rows := img.rows - size + 1
	cols := img.cols - size + 1
	dst := make([]float64, rows*cols)
	w := k.Weights.data

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var sum float64
			for ky := 0; ky < size; ky++ {
				src := img.data[(y+ky)*img.cols+x:]
				for kx := 0; kx < size; kx++ {
					sum += src[kx] * w[ky*size+kx]
				}
			}
			dst[y*cols+x] = sum
		}
	}
	return fromData(rows, cols, dst), nil
}

// ReLU replaces every negative cell with zero.
func ReLU(g Grid) Grid {
	return g.Map(func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// MaxPool tiles g with non-overlapping window x window blocks and keeps the
// maximum of each. Trailing rows and columns that do not fill a whole window
// are dropped.
func MaxPool(g Grid, window int) (Grid, error) {
	if window < 1 || window > g.rows || window > g.cols {
		return Grid{}, fmt.Errorf("%w: window %d on %dx%d grid", ErrBadWindow, window, g.rows, g.cols)
	}
	rows := g.rows / window
	cols := g.cols / window
	dst := make([]float64, rows*cols)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			best := g.data[(y*window)*g.cols+x*window]
			for wy := 0; wy < window; wy++ {
				for wx := 0; wx < window; wx++ {
					if v := g.data[(y*window+wy)*g.cols+x*window+wx]; v > best {
						best = v
					}
				}
			}
			dst[y*cols+x] = best
		}
	}
	return fromData(rows, cols, dst), nil
}

// Flatten returns the cells of g in row-major order.
func Flatten(g Grid) []float64 {
	return g.Values()
}

// FlattenMany concatenates the row-major cells of each grid in order.
func FlattenMany(grids []Grid) []float64 {
	n := 0
	for _, g := range grids {
		n += len(g.data)
	}
	out := make([]float64, 0, n)
	for _, g := range grids {
		out = append(out, g.data...)
	}
	return out
}

// NormalizeToRange rescales g linearly onto [0,1]. A near-constant grid
// (max-min below 1e-6) yields an all-zero grid of the same shape.
func NormalizeToRange(g Grid) Grid {
	if g.Empty() {
		return Grid{}
	}
	lo, hi := floats.Min(g.data), floats.Max(g.data)
	span := hi - lo
	if span < rangeEpsilon {
		return fromData(g.rows, g.cols, make([]float64, len(g.data)))
	}
	return g.Map(func(v float64) float64 { return (v - lo) / span })
}

// NormalizeL2 returns v divided by its Euclidean norm. A zero vector is
// returned as a zero vector of the same length.
func NormalizeL2(v []float64) []float64 {
	out := make([]float64, len(v))
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return out
	}
	copy(out, v)
	floats.Scale(1/norm, out)
	return out
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Dot returns the dot product of a and b. For L2-normalized inputs this is
// their cosine similarity.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLength, len(a), len(b))
	}
	return floats.Dot(a, b), nil
}
