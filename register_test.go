package cnnway

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// rectRaster returns a rows x cols grid with a solid block of ink.
func rectRaster(rows, cols, top, left, h, w int) grid.Grid {
	return grid.MustBuild(rows, cols, func(r, c int) float64 {
		if r >= top && r < top+h && c >= left && c < left+w {
			return 1
		}
		return 0
	})
}

func cosine(a, b []float64) float64 {
	na, nb := grid.Norm(a), grid.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}

func TestRegisterBlank(t *testing.T) {
	tests := []struct {
		name string
		raw  grid.Grid
	}{
		{"zero value", grid.Grid{}},
		{"all zero", grid.Zeros(28, 28)},
		{"below threshold", func() grid.Grid {
			g, _ := grid.Filled(40, 30, InkThreshold)
			return g
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Register(tt.raw)
			assert.Equal(t, CanvasSize, out.Rows())
			assert.Equal(t, CanvasSize, out.Cols())
			assert.True(t, out.IsZero())
		})
	}
}

func TestRegisterShapeAndRange(t *testing.T) {
	out := Register(rectRaster(50, 50, 5, 30, 30, 8))
	require.Equal(t, CanvasSize, out.Rows())
	require.Equal(t, CanvasSize, out.Cols())

	for _, v := range out.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.InDelta(t, 1.0, out.Max(), 1e-12)
}

func TestRegisterCentersMass(t *testing.T) {
	for _, raw := range []grid.Grid{
		rectRaster(28, 28, 0, 0, 6, 4),
		rectRaster(28, 28, 20, 22, 8, 6),
		rectRaster(60, 40, 10, 3, 45, 12),
	} {
		out := Register(raw)
		cy, cx, ok := centerOfMass(out)
		require.True(t, ok)
		assert.InDelta(t, canvasCenter, cy, 0.5)
		assert.InDelta(t, canvasCenter, cx, 0.5)
	}
}

func TestRegisterScalesLongerSide(t *testing.T) {
	out := Register(rectRaster(28, 28, 2, 2, 8, 4))
	b, ok := inkBounds(out)
	require.True(t, ok)

	// The box spans TargetBox cells; smoothing may bleed one cell per side.
	assert.GreaterOrEqual(t, b.height(), TargetBox)
	assert.LessOrEqual(t, b.height(), TargetBox+2)
	assert.Less(t, b.width(), b.height())
}

func TestRegisterTranslationInvariant(t *testing.T) {
	a := Register(rectRaster(28, 28, 1, 1, 9, 5))
	b := Register(rectRaster(28, 28, 15, 18, 9, 5))
	if diff := cmp.Diff(a.Values(), b.Values(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("registration depends on position (-a +b):\n%s", diff)
	}
}

func TestRegisterSingleCell(t *testing.T) {
	out := Register(rectRaster(28, 28, 3, 3, 1, 1))
	assert.False(t, out.IsZero())
	b, ok := inkBounds(out)
	require.True(t, ok)
	assert.GreaterOrEqual(t, b.width(), TargetBox)
}

// Each registration smooths once more, so a second pass blurs stroke edges
// and individual cells drift by up to about 0.6. The shape itself must hold:
// the two grids stay above 0.9 cosine and under 0.1 mean absolute drift.
func TestRegisterNearlyIdempotent(t *testing.T) {
	glyphs, err := ReferenceGlyphs()
	require.NoError(t, err)

	for _, g := range glyphs {
		once := Register(g.Raster)
		twice := Register(once)

		assert.Greater(t, cosine(once.Values(), twice.Values()), 0.9, "digit %d", g.Digit)

		var total float64
		a, b := once.Values(), twice.Values()
		for i := range a {
			total += math.Abs(a[i] - b[i])
		}
		assert.Less(t, total/float64(len(a)), 0.1, "digit %d", g.Digit)
	}
}

func TestRegisterDoesNotModifyInput(t *testing.T) {
	raw := rectRaster(28, 28, 4, 4, 10, 3)
	before := raw.Values()
	Register(raw)
	if diff := cmp.Diff(before, raw.Values()); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{
		0.5:  1,
		1.49: 1,
		2.5:  3,
		-0.5: 0,
		-1.5: -1,
		-1.6: -2,
	}
	for in, want := range cases {
		assert.Equal(t, want, roundHalfUp(in), "roundHalfUp(%v)", in)
	}
}
