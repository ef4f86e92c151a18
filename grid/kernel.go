package grid

import (
	"errors"
	"fmt"
)

// ErrNotSquare is returned when a kernel's weights are not square.
var ErrNotSquare = errors.New("grid: kernel is not square")

// Kernel is a named, square convolution kernel.
type Kernel struct {
	ID          string
	Label       string
	Description string
	Weights     Grid
}

// NewKernel creates a kernel from a square slice of weights.
func NewKernel(id, label, description string, weights [][]float64) (Kernel, error) {
	w, err := FromRows(weights)
	if err != nil {
		return Kernel{}, fmt.Errorf("kernel %q: %w", id, err)
	}
	if w.Rows() != w.Cols() {
		return Kernel{}, fmt.Errorf("kernel %q: %w: %dx%d", id, ErrNotSquare, w.Rows(), w.Cols())
	}
	return Kernel{ID: id, Label: label, Description: description, Weights: w}, nil
}

// Size returns the side length of the kernel.
func (k Kernel) Size() int {
	return k.Weights.Rows()
}
