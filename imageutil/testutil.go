package imageutil

import (
	"image"
	"image/color"
	"math"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// CreateRectImage creates a white image with a solid black rectangle.
func CreateRectImage(width, height int, rect image.Rectangle) *GrayImage {
	img := NewGrayImage(width, height)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetGrayValue(x, y, 0)
		}
	}
	return img
}

// CreateSolidNRGBA creates an image filled with one non-premultiplied
// colour, useful for exercising transparency handling.
func CreateSolidNRGBA(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 1 {
				img.SetGrayValue(x, y, 0)
			}
		}
	}
	return img
}

// MaxAbsDiff returns the largest absolute cell difference between two
// grids of the same shape.
func MaxAbsDiff(a, b grid.Grid) float64 {
	av, bv := a.Values(), b.Values()
	maxDiff := 0.0
	for i := range av {
		if d := math.Abs(av[i] - bv[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
