// Package grid provides the two-dimensional numeric rasters used throughout
// cnnway together with the primitive operations applied to them:
// valid-mode convolution, thresholded activation, max-pooling, flattening
// and vector normalization.
//
// A Grid is an immutable value. Every operation allocates a new Grid and
// never modifies its inputs, so grids can be shared freely between
// goroutines.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty is returned when a grid would have no rows or no columns.
	ErrEmpty = errors.New("grid: empty grid")

	// ErrRagged is returned when the rows of a grid differ in length.
	ErrRagged = errors.New("grid: ragged rows")
)

// Grid is a rectangular, row-major matrix of float64 values.
//
// The zero value is an empty grid; it is only produced by declaring a Grid
// variable and is rejected by operations that need at least one cell.
type Grid struct {
	rows, cols int
	data       []float64
}

// New returns a rows x cols grid filled with zeros.
func New(rows, cols int) (Grid, error) {
	if rows < 1 || cols < 1 {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrEmpty, rows, cols)
	}
	return Grid{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// Zeros is like New but panics on a non-positive shape. It is intended for
// fixed shapes known at compile time.
func Zeros(rows, cols int) Grid {
	g, err := New(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

// Filled returns a rows x cols grid with every cell set to v.
func Filled(rows, cols int, v float64) (Grid, error) {
	g, err := New(rows, cols)
	if err != nil {
		return Grid{}, err
	}
	for i := range g.data {
		g.data[i] = v
	}
	return g, nil
}

// FromRows copies a slice of rows into a new Grid. Every row must have the
// same, non-zero length.
func FromRows(rows [][]float64) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, ErrEmpty
	}
	cols := len(rows[0])
	g := Grid{rows: len(rows), cols: cols, data: make([]float64, 0, len(rows)*cols)}
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrRagged, r, len(row), cols)
		}
		g.data = append(g.data, row...)
	}
	return g, nil
}

// MustFromRows is like FromRows but panics on malformed input.
func MustFromRows(rows [][]float64) Grid {
	g, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return g
}

// fromData wraps a freshly allocated backing slice. The caller must not
// retain data.
func fromData(rows, cols int, data []float64) Grid {
	return Grid{rows: rows, cols: cols, data: data}
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Empty reports whether g has no cells, which is only true for the zero
// value.
func (g Grid) Empty() bool { return len(g.data) == 0 }

// At returns the value at (row, col). It panics if the position is out of
// range.
func (g Grid) At(row, col int) float64 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", row, col, g.rows, g.cols))
	}
	return g.data[row*g.cols+col]
}

// Values returns a row-major copy of the cells.
func (g Grid) Values() []float64 {
	out := make([]float64, len(g.data))
	copy(out, g.data)
	return out
}

// ToRows returns a copy of the grid as a slice of rows.
func (g Grid) ToRows() [][]float64 {
	out := make([][]float64, g.rows)
	for r := range out {
		out[r] = make([]float64, g.cols)
		copy(out[r], g.data[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// Sum returns the sum of all cells.
func (g Grid) Sum() float64 {
	return floats.Sum(g.data)
}

// Max returns the largest cell, or 0 for an empty grid.
func (g Grid) Max() float64 {
	if len(g.data) == 0 {
		return 0
	}
	return floats.Max(g.data)
}

// IsZero reports whether every cell is exactly zero.
func (g Grid) IsZero() bool {
	for _, v := range g.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// SameShape reports whether g and o have identical dimensions.
func (g Grid) SameShape(o Grid) bool {
	return g.rows == o.rows && g.cols == o.cols
}

// Map returns a new grid with f applied to every cell.
func (g Grid) Map(f func(v float64) float64) Grid {
	out := make([]float64, len(g.data))
	for i, v := range g.data {
		out[i] = f(v)
	}
	return fromData(g.rows, g.cols, out)
}

// Build returns a rows x cols grid whose cells are produced by f.
func Build(rows, cols int, f func(row, col int) float64) (Grid, error) {
	g, err := New(rows, cols)
	if err != nil {
		return Grid{}, err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.data[r*cols+c] = f(r, c)
		}
	}
	return g, nil
}

// MustBuild is like Build but panics on a non-positive shape. It is
// intended for fixed shapes known at compile time.
func MustBuild(rows, cols int, f func(row, col int) float64) Grid {
	g, err := Build(rows, cols, f)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the shape, which keeps log lines short.
func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.rows, g.cols)
}
