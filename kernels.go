package cnnway

import "github.com/Alu-Vidor/cnn-way/grid"

// kernelBank is the fixed filter bank, in the order features are laid out
// in every feature vector.
var kernelBank = []grid.Kernel{
	mustKernel("vertical-edge", "Vertical Edge Detector",
		"Highlights tall strokes such as the body of a 1 or the sides of a 0.",
		[][]float64{
			{1, 0, -1},
			{1, 0, -1},
			{1, 0, -1},
		}),
	mustKernel("horizontal-edge", "Horizontal Edge Detector",
		"Emphasises horizontal bars that digits like 2, 3, 4, or 7 rely on.",
		[][]float64{
			{1, 1, 1},
			{0, 0, 0},
			{-1, -1, -1},
		}),
	mustKernel("main-diagonal", "Main Diagonal Detector",
		"Responds to strokes going from top-left to bottom-right, useful for 2, 3, 7, and 9.",
		[][]float64{
			{0, 1, 1},
			{-1, 0, 1},
			{-1, -1, 0},
		}),
	mustKernel("anti-diagonal", "Anti-Diagonal Detector",
		"Catches strokes that go from bottom-left to top-right, common in 4 and 9.",
		[][]float64{
			{1, 1, 0},
			{1, 0, -1},
			{0, -1, -1},
		}),
	mustKernel("stroke-enhancer", "Stroke Enhancer",
		"Boosts thick strokes and suppresses the background to isolate the digit.",
		[][]float64{
			{0, -1, 0},
			{-1, 5, -1},
			{0, -1, 0},
		}),
	mustKernel("blob-detector", "Blob Detector",
		"Acts like a blur that keeps filled loops such as the belly of an 8 or 0.",
		[][]float64{
			{1, 1, 1},
			{1, 1, 1},
			{1, 1, 1},
		}),
}

func mustKernel(id, label, description string, weights [][]float64) grid.Kernel {
	k, err := grid.NewKernel(id, label, description, weights)
	if err != nil {
		panic(err)
	}
	return k
}

// Kernels returns the fixed six-kernel bank in feature order.
func Kernels() []grid.Kernel {
	out := make([]grid.Kernel, len(kernelBank))
	copy(out, kernelBank)
	return out
}

// KernelByID looks up a kernel of the fixed bank.
func KernelByID(id string) (grid.Kernel, bool) {
	for _, k := range kernelBank {
		if k.ID == id {
			return k, true
		}
	}
	return grid.Kernel{}, false
}
