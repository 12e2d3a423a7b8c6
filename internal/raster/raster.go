// Package raster provides the raster image operations used by the viewers:
// cropping a region out of a page image and producing smoothed,
// aspect-preserving scaled copies.
package raster

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Crop returns a new image containing the given region of src. The result
// owns its pixels; src can be replaced or discarded afterwards. The region
// is clipped to the source bounds.
func Crop(src image.Image, region image.Rectangle) *image.RGBA {
	region = region.Intersect(src.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	xdraw.Draw(out, out.Bounds(), src, region.Min, xdraw.Src)
	return out
}

// CropFrac crops the fractional region (coordinates in [0,1]) out of src.
func CropFrac(src image.Image, xMin, xMax, yMin, yMax float64) *image.RGBA {
	b := src.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	region := image.Rect(
		b.Min.X+int(xMin*w),
		b.Min.Y+int(yMin*h),
		b.Min.X+int(xMin*w)+int((xMax-xMin)*w),
		b.Min.Y+int(yMin*h)+int((yMax-yMin)*h),
	)
	return Crop(src, region)
}

// FitSize returns the largest size with src's aspect ratio that fits within
// maxW x maxH.
func FitSize(src image.Image, maxW, maxH int) (int, int) {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	w := maxW
	h := b.Dy() * maxW / b.Dx()
	if h > maxH {
		h = maxH
		w = b.Dx() * maxH / b.Dy()
	}
	return w, h
}

// Scale returns a smoothed copy of src scaled to fit within w x h while
// preserving the aspect ratio.
func Scale(src image.Image, w, h int) *image.RGBA {
	fw, fh := FitSize(src, w, h)
	out := image.NewRGBA(image.Rect(0, 0, fw, fh))
	if fw == 0 || fh == 0 {
		return out
	}
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return out
}

// ScaleBy returns a smoothed copy of src scaled by the given factor.
func ScaleBy(src image.Image, factor float64) *image.RGBA {
	b := src.Bounds()
	return Scale(src, int(float64(b.Dx())*factor), int(float64(b.Dy())*factor))
}
