package cnnway

import (
	"errors"
	"fmt"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// TemplateSource selects where reference glyphs come from.
type TemplateSource string

const (
	// SourceASCII uses the embedded ASCII digit patterns.
	SourceASCII TemplateSource = "ascii"
	// SourceFont renders the digits from a TrueType face.
	SourceFont TemplateSource = "font"
)

// ErrUnknownSource is returned for an unrecognised TemplateSource.
var ErrUnknownSource = errors.New("cnnway: unknown template source")

// Classifier owns a template bank and the parameters used to score inputs
// against it. Once built it is read-only and safe for concurrent use.
type Classifier struct {
	params  Params
	kernels []grid.Kernel
	bank    *TemplateBank

	// construction-time settings
	source   TemplateSource
	fontPath string
	glyphs   []Glyph
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithParams overrides the score-fusion parameters.
func WithParams(p Params) Option {
	return func(c *Classifier) {
		c.params = p
	}
}

// WithGlyphs builds the bank from caller-supplied glyphs instead of a
// built-in source.
func WithGlyphs(glyphs []Glyph) Option {
	return func(c *Classifier) {
		c.glyphs = glyphs
	}
}

// WithTemplateSource picks a built-in glyph source. For SourceFont an empty
// fontPath means the Go Regular face.
func WithTemplateSource(src TemplateSource, fontPath string) Option {
	return func(c *Classifier) {
		c.source = src
		c.fontPath = fontPath
	}
}

// NewClassifier builds the template bank. Defaults: DefaultParams and the
// ASCII glyphs.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		params:  DefaultParams(),
		kernels: kernelBank,
		source:  SourceASCII,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.params.Validate(); err != nil {
		return nil, err
	}

	glyphs := c.glyphs
	if glyphs == nil {
		var err error
		glyphs, err = GlyphsFor(c.source, c.fontPath)
		if err != nil {
			return nil, err
		}
	}

	bank, err := BuildTemplateBank(c.kernels, glyphs)
	if err != nil {
		return nil, fmt.Errorf("failed to build template bank: %w", err)
	}
	c.bank = bank
	c.glyphs = nil
	return c, nil
}

// GlyphsFor loads the reference glyphs of a built-in source. For SourceFont
// an empty fontPath means the Go Regular face.
func GlyphsFor(src TemplateSource, fontPath string) ([]Glyph, error) {
	switch src {
	case SourceASCII, "":
		return ReferenceGlyphs()
	case SourceFont:
		if fontPath == "" {
			return DefaultFontGlyphs()
		}
		return LoadFontGlyphs(fontPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}
}

// Params returns the scoring parameters.
func (c *Classifier) Params() Params { return c.params }

// Bank returns the template bank.
func (c *Classifier) Bank() *TemplateBank { return c.bank }

// Result is a full prediction for one raw input.
type Result struct {
	Analysis
	Predictions []Prediction
}

// Top returns the most probable prediction, and false when there is none.
func (r Result) Top() (Prediction, bool) {
	if len(r.Predictions) == 0 {
		return Prediction{}, false
	}
	return r.Predictions[0], true
}

// Predict registers raw, extracts its features and ranks every template.
func (c *Classifier) Predict(raw grid.Grid) (Result, error) {
	a, err := analyze(raw, c.kernels)
	if err != nil {
		return Result{}, err
	}
	if a.Blank() {
		Logger().Debug("blank input, predictions are uniform")
	}
	preds, err := c.params.Classify(a.FeatureVector, a.PixelVector, c.bank)
	if err != nil {
		return Result{}, err
	}
	return Result{Analysis: a, Predictions: preds}, nil
}
