package cnnway

import (
	"fmt"

	"github.com/Alu-Vidor/cnn-way/grid"
	"golang.org/x/sync/errgroup"
)

// PoolWindow is the max-pooling window applied after activation.
const PoolWindow = 2

// FeatureBundle holds every intermediate produced by one kernel for one
// input grid.
type FeatureBundle struct {
	Kernel    grid.Kernel
	Conv      grid.Grid
	Activated grid.Grid
	Pooled    grid.Grid
}

// Display returns the pooled map rescaled onto [0,1]. It is meant for
// visualisation only; scoring uses the raw pooled magnitudes.
func (b FeatureBundle) Display() grid.Grid {
	return grid.NormalizeToRange(b.Pooled)
}

// extractOne runs convolve, ReLU and max-pool for a single kernel.
func extractOne(g grid.Grid, k grid.Kernel) (FeatureBundle, error) {
	conv, err := grid.Convolve(g, k)
	if err != nil {
		return FeatureBundle{}, fmt.Errorf("kernel %s: %w", k.ID, err)
	}
	act := grid.ReLU(conv)
	pooled, err := grid.MaxPool(act, PoolWindow)
	if err != nil {
		return FeatureBundle{}, fmt.Errorf("kernel %s: %w", k.ID, err)
	}
	return FeatureBundle{Kernel: k, Conv: conv, Activated: act, Pooled: pooled}, nil
}

// ExtractFeatures applies every kernel to a registered grid. Kernels are
// evaluated concurrently; the result is always in kernel order.
func ExtractFeatures(g grid.Grid, kernels []grid.Kernel) ([]FeatureBundle, error) {
	bundles := make([]FeatureBundle, len(kernels))
	var eg errgroup.Group
	for i, k := range kernels {
		i, k := i, k
		eg.Go(func() error {
			b, err := extractOne(g, k)
			if err != nil {
				return err
			}
			bundles[i] = b
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

// FeatureVector concatenates the pooled grids in bundle order and
// L2-normalises the result.
func FeatureVector(bundles []FeatureBundle) []float64 {
	pooled := make([]grid.Grid, len(bundles))
	for i, b := range bundles {
		pooled[i] = b.Pooled
	}
	return grid.NormalizeL2(grid.FlattenMany(pooled))
}

// PixelVector flattens a registered grid and L2-normalises it.
func PixelVector(g grid.Grid) []float64 {
	return grid.NormalizeL2(grid.Flatten(g))
}

// Analysis is everything derived from one raw input grid.
type Analysis struct {
	Normalized    grid.Grid
	Features      []FeatureBundle
	FeatureVector []float64
	PixelVector   []float64
}

// Blank reports whether the input carried no ink, in which case both vectors
// are zero and no meaningful prediction exists.
func (a Analysis) Blank() bool {
	return grid.Norm(a.FeatureVector) == 0 && grid.Norm(a.PixelVector) == 0
}

// NormalizeAndExtract registers raw with the fixed kernel bank and derives
// its feature and pixel vectors.
func NormalizeAndExtract(raw grid.Grid) (Analysis, error) {
	return analyze(raw, kernelBank)
}

func analyze(raw grid.Grid, kernels []grid.Kernel) (Analysis, error) {
	normalized := Register(raw)
	bundles, err := ExtractFeatures(normalized, kernels)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Normalized:    normalized,
		Features:      bundles,
		FeatureVector: FeatureVector(bundles),
		PixelVector:   PixelVector(normalized),
	}, nil
}
