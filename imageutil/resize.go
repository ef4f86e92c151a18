package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation. Used to bring small
	// images up to raster size before block averaging.
	InterpolationLinear Interpolation = iota

	// InterpolationNearest uses nearest-neighbor interpolation. Used to
	// blow grids up for viewing without blurring cell boundaries.
	InterpolationNearest
)

func (interp Interpolation) scaler() draw.Scaler {
	if interp == InterpolationNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

// ResizeGray resizes a grayscale image to the specified dimensions.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	dst := NewGrayImage(width, height)
	dstRect := image.Rect(0, 0, width, height)
	interp.scaler().Scale(dst.Gray, dstRect, img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// ScaleUp enlarges img by an integer factor with nearest-neighbor sampling.
func ScaleUp(img *GrayImage, factor int) *GrayImage {
	if factor <= 1 {
		return img
	}
	return ResizeGray(img, img.Width()*factor, img.Height()*factor, InterpolationNearest)
}
