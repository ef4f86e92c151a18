package cnnway

import (
	"fmt"
	"image"
	"os"

	"github.com/Alu-Vidor/cnn-way/grid"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// fontGlyphSize is the point size digits are rendered at. At 72 DPI the
// digit height of most faces lands close to TargetBox, so registration only
// has to make small corrections.
const fontGlyphSize = 26

// DefaultFontGlyphs renders the digit glyphs from the Go Regular face.
func DefaultFontGlyphs() ([]Glyph, error) {
	return FontGlyphs(goregular.TTF)
}

// LoadFontGlyphs renders the digit glyphs from a TrueType file on disk.
func LoadFontGlyphs(path string) ([]Glyph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return FontGlyphs(data)
}

// FontGlyphs renders '0'..'9' from TrueType data into CanvasSize rasters.
// Alpha coverage is used directly as ink density; anti-aliased edges stay
// fractional, the same way a drawing is sampled.
func FontGlyphs(ttf []byte) ([]Glyph, error) {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	glyphs := make([]Glyph, 0, 10)
	for d := 0; d <= 9; d++ {
		raster, err := renderDigit(f, rune('0'+d))
		if err != nil {
			return nil, fmt.Errorf("digit %d: %w", d, err)
		}
		glyphs = append(glyphs, Glyph{Digit: d, Raster: raster})
	}
	return glyphs, nil
}

// renderDigit draws r roughly centred on a CanvasSize alpha image.
func renderDigit(f *truetype.Font, r rune) (grid.Grid, error) {
	face := truetype.NewFace(f, &truetype.Options{
		Size:    fontGlyphSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, CanvasSize, CanvasSize))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(fontGlyphSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Opaque)
	ctx.SetHinting(font.HintingNone)

	advance, ok := face.GlyphAdvance(r)
	if !ok {
		return grid.Grid{}, fmt.Errorf("glyph %q not in font", r)
	}
	metrics := face.Metrics()
	x := (fixed.I(CanvasSize) - advance) / 2
	// Digits sit on the baseline and rise to roughly cap height, so centre
	// the ascent rather than the full line height.
	y := (fixed.I(CanvasSize) + metrics.Ascent*3/4) / 2
	if _, err := ctx.DrawString(string(r), fixed.Point26_6{X: x, Y: y}); err != nil {
		return grid.Grid{}, err
	}

	return grid.Build(CanvasSize, CanvasSize, func(row, col int) float64 {
		return float64(img.AlphaAt(col, row).A) / 255
	})
}
