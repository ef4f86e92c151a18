package cnnway

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// The reference digits are kept as 14x14 ASCII art. To change a glyph, edit
// glyphdata/digits.txt; every "digit N" header must be followed by exactly
// PatternSize rows of '#' (ink) and '.' (blank).
//
//go:embed glyphdata/digits.txt
var digitPatterns []byte

const (
	// PatternSize is the side of an ASCII glyph pattern.
	PatternSize = 14

	// patternUpscale maps a PatternSize pattern onto the CanvasSize raster.
	patternUpscale = CanvasSize / PatternSize

	// patternSmoothPasses is the number of mean-filter passes applied to an
	// upscaled pattern to soften its blocky edges.
	patternSmoothPasses = 2
)

// ErrBadPattern is returned when glyph pattern data cannot be parsed.
var ErrBadPattern = errors.New("cnnway: malformed glyph pattern")

// GlyphPattern is one digit drawn as ASCII rows.
type GlyphPattern struct {
	Digit int
	Rows  []string
}

// Glyph is a reference raster for one digit class, before registration.
type Glyph struct {
	Digit  int
	Raster grid.Grid
}

// ParseGlyphPatterns reads ASCII glyph patterns. Blank lines and lines
// starting with '#' followed by a space are ignored.
func ParseGlyphPatterns(r io.Reader) ([]GlyphPattern, error) {
	var (
		patterns []GlyphPattern
		cur      *GlyphPattern
		lineNo   int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", strings.HasPrefix(line, "# "):
			continue
		case strings.HasPrefix(line, "digit "):
			d, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "digit ")))
			if err != nil || d < 0 || d > 9 {
				return nil, fmt.Errorf("%w: line %d: bad header %q", ErrBadPattern, lineNo, line)
			}
			patterns = append(patterns, GlyphPattern{Digit: d})
			cur = &patterns[len(patterns)-1]
		default:
			if cur == nil {
				return nil, fmt.Errorf("%w: line %d: row before any digit header", ErrBadPattern, lineNo)
			}
			if strings.Trim(line, "#.") != "" {
				return nil, fmt.Errorf("%w: line %d: unexpected characters in %q", ErrBadPattern, lineNo, line)
			}
			cur.Rows = append(cur.Rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, p := range patterns {
		if len(p.Rows) != PatternSize {
			return nil, fmt.Errorf("%w: digit %d has %d rows, want %d",
				ErrBadPattern, p.Digit, len(p.Rows), PatternSize)
		}
		for i, row := range p.Rows {
			if len(row) != PatternSize {
				return nil, fmt.Errorf("%w: digit %d row %d has %d cells, want %d",
					ErrBadPattern, p.Digit, i, len(row), PatternSize)
			}
		}
	}
	return patterns, nil
}

// Mask converts the pattern into a 0/1 grid.
func (p GlyphPattern) Mask() (grid.Grid, error) {
	rows := make([][]float64, len(p.Rows))
	for i, line := range p.Rows {
		rows[i] = make([]float64, len(line))
		for j, ch := range line {
			if ch == '#' {
				rows[i][j] = 1
			}
		}
	}
	return grid.FromRows(rows)
}

// Synthesize turns a pattern into a soft CanvasSize raster: nearest-neighbour
// upscale, two mean-filter passes and max normalisation.
func (p GlyphPattern) Synthesize() (Glyph, error) {
	mask, err := p.Mask()
	if err != nil {
		return Glyph{}, fmt.Errorf("digit %d: %w", p.Digit, err)
	}
	raster, err := grid.Upscale(mask, patternUpscale)
	if err != nil {
		return Glyph{}, fmt.Errorf("digit %d: %w", p.Digit, err)
	}
	for i := 0; i < patternSmoothPasses; i++ {
		raster = grid.MeanFilter(raster)
	}
	return Glyph{Digit: p.Digit, Raster: grid.NormalizeMax(raster)}, nil
}

// ReferenceGlyphs returns the built-in ASCII digit glyphs as rasters, in
// digit order.
func ReferenceGlyphs() ([]Glyph, error) {
	patterns, err := ParseGlyphPatterns(bytes.NewReader(digitPatterns))
	if err != nil {
		return nil, err
	}
	glyphs := make([]Glyph, 0, len(patterns))
	for _, p := range patterns {
		g, err := p.Synthesize()
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}
