package cnnway

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("cnnway: invalid classifier parameters")

// Params are the score-fusion tunables. The defaults have no derivation
// beyond producing a usable ranking; adjust them through configuration.
type Params struct {
	// ConvWeight scales the feature-space cosine similarity.
	ConvWeight float64
	// PixelWeight scales the raw-pixel cosine similarity.
	PixelWeight float64
	// Temperature multiplies fused scores before the softmax; larger values
	// sharpen the distribution.
	Temperature float64
}

// DefaultParams returns 0.7 feature weight, 0.3 pixel weight and a softmax
// multiplier of 4.
func DefaultParams() Params {
	return Params{ConvWeight: 0.7, PixelWeight: 0.3, Temperature: 4}
}

// Validate rejects non-finite values, negative weights, weights that sum
// to zero and a non-positive temperature.
func (p Params) Validate() error {
	switch {
	case !finite(p.ConvWeight) || !finite(p.PixelWeight) || !finite(p.Temperature):
		return fmt.Errorf("%w: non-finite value in %+v", ErrInvalidParams, p)
	case p.ConvWeight < 0 || p.PixelWeight < 0:
		return fmt.Errorf("%w: negative weight (conv %v, pixel %v)", ErrInvalidParams, p.ConvWeight, p.PixelWeight)
	case p.ConvWeight+p.PixelWeight == 0:
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidParams)
	case !(p.Temperature > 0):
		return fmt.Errorf("%w: temperature %v must be positive", ErrInvalidParams, p.Temperature)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Prediction is the score of one digit class.
type Prediction struct {
	Digit       int     `json:"digit"`
	ConvScore   float64 `json:"conv_score"`
	PixelScore  float64 `json:"pixel_score"`
	Score       float64 `json:"score"`
	Probability float64 `json:"probability"`
}

// Classify scores a live feature/pixel vector pair against bank with
// DefaultParams.
func Classify(featureVec, pixelVec []float64, bank *TemplateBank) ([]Prediction, error) {
	return DefaultParams().Classify(featureVec, pixelVec, bank)
}

// Classify scores a live feature/pixel vector pair against every template
// and returns one Prediction per template, sorted by descending probability.
// Ties keep template order. Both vectors must already be L2-normalised and
// match the template vector lengths.
func (p Params) Classify(featureVec, pixelVec []float64, bank *TemplateBank) ([]Prediction, error) {
	if bank.Len() == 0 {
		return []Prediction{}, nil
	}

	preds := make([]Prediction, bank.Len())
	for i, t := range bank.entries {
		conv, err := grid.Dot(featureVec, t.FeatureVector)
		if err != nil {
			return nil, fmt.Errorf("feature vector vs digit %d: %w", t.Digit, err)
		}
		pixel, err := grid.Dot(pixelVec, t.PixelVector)
		if err != nil {
			return nil, fmt.Errorf("pixel vector vs digit %d: %w", t.Digit, err)
		}
		preds[i] = Prediction{
			Digit:      t.Digit,
			ConvScore:  conv,
			PixelScore: pixel,
			Score:      p.ConvWeight*conv + p.PixelWeight*pixel,
		}
	}

	p.softmax(preds)

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, nil
}

// softmax fills in Probability from Score. Scores are shifted by their
// maximum before exponentiating, so the largest term is exp(0) and the sum
// is at least one whatever the temperature.
func (p Params) softmax(preds []Prediction) {
	if len(preds) == 0 {
		return
	}
	top := preds[0].Score
	for _, pr := range preds[1:] {
		top = max(top, pr.Score)
	}

	var sum float64
	exps := make([]float64, len(preds))
	for i, pr := range preds {
		exps[i] = math.Exp(p.Temperature * (pr.Score - top))
		sum += exps[i]
	}
	for i := range preds {
		preds[i].Probability = exps[i] / sum
	}
}

// TopK returns the first k predictions of a ranked list. k is clamped to
// the list length.
func TopK(preds []Prediction, k int) []Prediction {
	k = max(0, min(k, len(preds)))
	return preds[:k]
}
