package cnnway

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alu-Vidor/cnn-way/grid"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults", DefaultParams(), false},
		{"pixels only", Params{PixelWeight: 1, Temperature: 1}, false},
		{"negative weight", Params{ConvWeight: -0.1, PixelWeight: 1, Temperature: 1}, true},
		{"zero weights", Params{Temperature: 1}, true},
		{"zero temperature", Params{ConvWeight: 1}, true},
		{"negative temperature", Params{ConvWeight: 1, Temperature: -2}, true},
		{"infinite temperature", Params{ConvWeight: 1, Temperature: math.Inf(1)}, true},
		{"NaN weight", Params{ConvWeight: math.NaN(), PixelWeight: 1, Temperature: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func smallBank() *TemplateBank {
	return &TemplateBank{entries: []TemplateEntry{
		{Digit: 0, FeatureVector: []float64{1, 0}, PixelVector: []float64{1, 0}},
		{Digit: 1, FeatureVector: []float64{0, 1}, PixelVector: []float64{0, 1}},
		{Digit: 2, FeatureVector: []float64{0.6, 0.8}, PixelVector: []float64{0.6, 0.8}},
	}}
}

func TestClassifyRanksByProbability(t *testing.T) {
	preds, err := Classify([]float64{0, 1}, []float64{0, 1}, smallBank())
	require.NoError(t, err)
	require.Len(t, preds, 3)

	assert.Equal(t, 1, preds[0].Digit)
	assert.Equal(t, 2, preds[1].Digit)
	assert.Equal(t, 0, preds[2].Digit)

	assert.InDelta(t, 1.0, preds[0].ConvScore, 1e-12)
	assert.InDelta(t, 0.8, preds[1].PixelScore, 1e-12)
	assert.InDelta(t, 0.7*0.8+0.3*0.8, preds[1].Score, 1e-12)

	var sum float64
	for i, p := range preds {
		sum += p.Probability
		if i > 0 {
			assert.LessOrEqual(t, p.Probability, preds[i-1].Probability)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestClassifyTemperatureSharpens(t *testing.T) {
	soft := Params{ConvWeight: 0.7, PixelWeight: 0.3, Temperature: 1}
	sharp := Params{ConvWeight: 0.7, PixelWeight: 0.3, Temperature: 20}

	a, err := soft.Classify([]float64{0, 1}, []float64{0, 1}, smallBank())
	require.NoError(t, err)
	b, err := sharp.Classify([]float64{0, 1}, []float64{0, 1}, smallBank())
	require.NoError(t, err)

	assert.Equal(t, a[0].Digit, b[0].Digit)
	assert.Greater(t, b[0].Probability, a[0].Probability)
}

func TestClassifyLargeTemperature(t *testing.T) {
	for _, temp := range []float64{1000, 1e6} {
		params := Params{ConvWeight: 0.7, PixelWeight: 0.3, Temperature: temp}
		require.NoError(t, params.Validate())

		preds, err := params.Classify([]float64{0, 1}, []float64{0, 1}, smallBank())
		require.NoError(t, err)

		assert.Equal(t, 1, preds[0].Digit, "temperature %v", temp)
		var sum float64
		for _, p := range preds {
			assert.False(t, math.IsNaN(p.Probability), "digit %d", p.Digit)
			sum += p.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.InDelta(t, 1.0, preds[0].Probability, 1e-9)
	}

	// exp(-200) is still representable, so the runner-up stays ahead of
	// the template with no overlap.
	preds, err := Params{ConvWeight: 0.7, PixelWeight: 0.3, Temperature: 1000}.
		Classify([]float64{0, 1}, []float64{0, 1}, smallBank())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, digits(preds))
}

func TestClassifyZeroVectorsAreUniform(t *testing.T) {
	preds, err := Classify([]float64{0, 0}, []float64{0, 0}, smallBank())
	require.NoError(t, err)

	for _, p := range preds {
		assert.Zero(t, p.Score)
		assert.InDelta(t, 1.0/3, p.Probability, 1e-12)
	}
	// Ties keep template order.
	assert.Equal(t, []int{0, 1, 2}, digits(preds))
}

func TestClassifyEmptyBank(t *testing.T) {
	preds, err := Classify([]float64{1}, []float64{1}, &TemplateBank{})
	require.NoError(t, err)
	assert.NotNil(t, preds)
	assert.Empty(t, preds)

	preds, err = Classify([]float64{1}, []float64{1}, nil)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestClassifyLengthMismatch(t *testing.T) {
	_, err := Classify([]float64{1, 0, 0}, []float64{1, 0}, smallBank())
	assert.ErrorIs(t, err, grid.ErrLength)

	_, err = Classify([]float64{1, 0}, []float64{1}, smallBank())
	assert.ErrorIs(t, err, grid.ErrLength)
}

func TestTopK(t *testing.T) {
	preds := []Prediction{{Digit: 3}, {Digit: 1}, {Digit: 4}}

	assert.Equal(t, []int{3, 1}, digits(TopK(preds, 2)))
	assert.Len(t, TopK(preds, 10), 3)
	assert.Empty(t, TopK(preds, 0))
	assert.Empty(t, TopK(preds, -1))
}

func digits(preds []Prediction) []int {
	out := make([]int, len(preds))
	for i, p := range preds {
		out[i] = p.Digit
	}
	return out
}
