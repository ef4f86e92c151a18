package imageutil

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// ErrEmptyImage is returned when an image has no pixels.
var ErrEmptyImage = errors.New("imageutil: empty image")

// Rasterize samples img into a size x size ink grid. Each cell is the mean
// ink of the pixel block it covers; block edges are floor(i*w/size), so
// blocks differ by at most one pixel when the image size is not a multiple
// of size. Images narrower or shorter than size are first resized
// bilinearly to size x size.
func Rasterize(img image.Image, size int) (grid.Grid, error) {
	b := img.Bounds()
	if b.Empty() {
		return grid.Grid{}, ErrEmptyImage
	}
	if size < 1 {
		return grid.Grid{}, fmt.Errorf("imageutil: raster size %d must be positive", size)
	}

	gray := GrayFromImage(img)
	if gray.Width() < size || gray.Height() < size {
		gray = ResizeGray(gray, size, size, InterpolationLinear)
	}

	blockW := float64(gray.Width()) / float64(size)
	blockH := float64(gray.Height()) / float64(size)

	return grid.Build(size, size, func(row, col int) float64 {
		y0 := int(math.Floor(float64(row) * blockH))
		y1 := int(math.Floor(float64(row+1) * blockH))
		x0 := int(math.Floor(float64(col) * blockW))
		x1 := int(math.Floor(float64(col+1) * blockW))

		var total float64
		count := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				total += gray.Ink(x, y)
				count++
			}
		}
		if count == 0 {
			return 0
		}
		return total / float64(count)
	})
}
