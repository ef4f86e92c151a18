package cnnway

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Alu-Vidor/cnn-way/grid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoGlyphs is returned when a template bank is built from nothing.
	ErrNoGlyphs = errors.New("cnnway: no reference glyphs")

	// ErrDuplicateDigit is returned when two glyphs claim the same digit.
	ErrDuplicateDigit = errors.New("cnnway: duplicate digit glyph")
)

// TemplateEntry is the precomputed reference for one digit class.
type TemplateEntry struct {
	Digit         int
	Normalized    grid.Grid
	FeatureVector []float64
	PixelVector   []float64
}

// TemplateBank is the read-only set of digit templates a live input is
// scored against. It is built once and may be shared between goroutines.
type TemplateBank struct {
	entries []TemplateEntry
}

// BuildTemplateBank registers and extracts every glyph with the given
// kernels. Entries are computed concurrently and stored in ascending digit
// order.
func BuildTemplateBank(kernels []grid.Kernel, glyphs []Glyph) (*TemplateBank, error) {
	if len(glyphs) == 0 {
		return nil, ErrNoGlyphs
	}
	seen := make(map[int]bool, len(glyphs))
	for _, g := range glyphs {
		if seen[g.Digit] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateDigit, g.Digit)
		}
		seen[g.Digit] = true
	}

	start := time.Now()
	entries := make([]TemplateEntry, len(glyphs))
	var eg errgroup.Group
	for i, g := range glyphs {
		i, g := i, g
		eg.Go(func() error {
			a, err := analyze(g.Raster, kernels)
			if err != nil {
				return fmt.Errorf("digit %d: %w", g.Digit, err)
			}
			entries[i] = TemplateEntry{
				Digit:         g.Digit,
				Normalized:    a.Normalized,
				FeatureVector: a.FeatureVector,
				PixelVector:   a.PixelVector,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Digit < entries[j].Digit
	})

	Logger().Info("template bank built",
		"templates", len(entries),
		"kernels", len(kernels),
		"elapsed", time.Since(start))
	return &TemplateBank{entries: entries}, nil
}

// DefaultTemplateBank builds the bank from the fixed kernels and the
// built-in ASCII glyphs.
func DefaultTemplateBank() (*TemplateBank, error) {
	glyphs, err := ReferenceGlyphs()
	if err != nil {
		return nil, err
	}
	return BuildTemplateBank(kernelBank, glyphs)
}

// Len returns the number of templates.
func (b *TemplateBank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Entries returns the templates in digit order. The slice is a copy, but the
// vectors are shared and must not be modified.
func (b *TemplateBank) Entries() []TemplateEntry {
	if b == nil {
		return nil
	}
	out := make([]TemplateEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Entry returns the template for digit.
func (b *TemplateBank) Entry(digit int) (TemplateEntry, bool) {
	if b == nil {
		return TemplateEntry{}, false
	}
	for _, e := range b.entries {
		if e.Digit == digit {
			return e, true
		}
	}
	return TemplateEntry{}, false
}
