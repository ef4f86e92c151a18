// Package imageutil converts between images and the ink grids cnnway
// works on: decoding drawings from disk, rasterising them or freehand
// strokes into a fixed-size ink grid, and exporting grids back to images
// for inspection.
//
// Ink is the inverse of brightness: 0 is a white (or transparent) pixel and
// 1 is solid black.
package imageutil

import (
	"image"
	"image/color"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// GrayImage wraps image.Gray with convenience methods for pixel access.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new white GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	img := &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Ink returns the ink density of the pixel at (x, y).
func (img *GrayImage) Ink(x, y int) float64 {
	return 1 - float64(img.GetGray(x, y))/255
}

// InkOf converts a colour into ink density. The colour is composited over
// white first, and brightness is the plain mean of the three channels.
func InkOf(c color.Color) float64 {
	r, g, b, a := c.RGBA()
	// Premultiplied over white: add the uncovered fraction of 0xffff.
	bg := 0xffff - a
	brightness := float64((r+bg)+(g+bg)+(b+bg)) / 3 / 0xffff
	return 1 - brightness
}

// GrayFromImage converts any image into a GrayImage holding its ink, so
// that transparent regions come out white.
func GrayFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ink := InkOf(img.At(x, y))
			gray.SetGrayValue(x-bounds.Min.X, y-bounds.Min.Y, inkToGray(ink))
		}
	}
	return gray
}

// GridImage renders g as a grayscale image, one pixel per cell, with ink
// drawn dark. Values outside [0,1] are clamped.
func GridImage(g grid.Grid) *GrayImage {
	img := NewGrayImage(g.Cols(), g.Rows())
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			img.SetGrayValue(x, y, inkToGray(g.At(y, x)))
		}
	}
	return img
}

func inkToGray(ink float64) uint8 {
	return clampUint8(255 * (1 - ink))
}

// clampUint8 clamps a float64 to [0, 255] and rounds to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
