package cnnway

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alu-Vidor/cnn-way/grid"
)

func TestKernelBank(t *testing.T) {
	ks := Kernels()
	require.Len(t, ks, 6)

	ids := make([]string, len(ks))
	for i, k := range ks {
		ids[i] = k.ID
		assert.Equal(t, 3, k.Size())
		assert.NotEmpty(t, k.Label)
		assert.NotEmpty(t, k.Description)
	}
	want := []string{
		"vertical-edge", "horizontal-edge", "main-diagonal",
		"anti-diagonal", "stroke-enhancer", "blob-detector",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("kernel order (-want +got):\n%s", diff)
	}

	// Callers get a copy.
	ks[0] = grid.Kernel{ID: "changed"}
	assert.Equal(t, "vertical-edge", Kernels()[0].ID)
}

func TestKernelByID(t *testing.T) {
	k, ok := KernelByID("stroke-enhancer")
	require.True(t, ok)
	assert.Equal(t, 5.0, k.Weights.At(1, 1))

	_, ok = KernelByID("nope")
	assert.False(t, ok)
}

func TestExtractFeaturesShapes(t *testing.T) {
	g := Register(rectRaster(28, 28, 4, 10, 20, 6))
	bundles, err := ExtractFeatures(g, Kernels())
	require.NoError(t, err)
	require.Len(t, bundles, 6)

	for i, b := range bundles {
		assert.Equal(t, kernelBank[i].ID, b.Kernel.ID)
		assert.Equal(t, 26, b.Conv.Rows())
		assert.Equal(t, 26, b.Conv.Cols())
		assert.True(t, b.Activated.SameShape(b.Conv))
		assert.Equal(t, 13, b.Pooled.Rows())
		assert.Equal(t, 13, b.Pooled.Cols())
		for _, v := range b.Activated.Values() {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestExtractFeaturesKernelTooLarge(t *testing.T) {
	_, err := ExtractFeatures(grid.Zeros(2, 2), Kernels())
	assert.ErrorIs(t, err, grid.ErrKernelTooLarge)
}

func TestNormalizeAndExtract(t *testing.T) {
	a, err := NormalizeAndExtract(rectRaster(40, 40, 5, 5, 30, 8))
	require.NoError(t, err)

	assert.Len(t, a.FeatureVector, 6*13*13)
	assert.Len(t, a.PixelVector, CanvasSize*CanvasSize)
	assert.InDelta(t, 1.0, grid.Norm(a.FeatureVector), 1e-9)
	assert.InDelta(t, 1.0, grid.Norm(a.PixelVector), 1e-9)
	assert.False(t, a.Blank())
}

func TestNormalizeAndExtractBlank(t *testing.T) {
	a, err := NormalizeAndExtract(grid.Zeros(28, 28))
	require.NoError(t, err)

	assert.True(t, a.Blank())
	assert.Len(t, a.FeatureVector, 6*13*13)
	assert.Len(t, a.PixelVector, CanvasSize*CanvasSize)
	assert.Zero(t, grid.Norm(a.FeatureVector))
	assert.Zero(t, grid.Norm(a.PixelVector))
}

func TestFeatureBundleDisplay(t *testing.T) {
	a, err := NormalizeAndExtract(rectRaster(28, 28, 4, 10, 20, 6))
	require.NoError(t, err)

	for _, b := range a.Features {
		d := b.Display()
		assert.True(t, d.SameShape(b.Pooled))
		for _, v := range d.Values() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestExtractionDeterministic(t *testing.T) {
	raw := rectRaster(28, 28, 3, 9, 22, 5)
	first, err := NormalizeAndExtract(raw)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NormalizeAndExtract(raw)
		require.NoError(t, err)
		if diff := cmp.Diff(first.FeatureVector, again.FeatureVector); diff != "" {
			t.Fatalf("feature vector changed between runs (-first +again):\n%s", diff)
		}
	}
}
