package viewer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

var (
	pageBorderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	pageFillColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	hoverColor      = color.RGBA{R: 50, G: 150, B: 255, A: 255}
	rubberBandColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	rubberBandFill  = color.RGBA{R: 0, G: 0, B: 255, A: 30}
)

// fillRect fills a rectangle with a solid color, clipped to the output.
func fillRect(out *image.RGBA, r geometry.Rect, col color.RGBA) {
	region := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	draw.Draw(out, region.Intersect(out.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// blendRect alpha-blends a translucent color over a rectangle.
func blendRect(out *image.RGBA, r geometry.Rect, col color.RGBA) {
	region := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	draw.Draw(out, region.Intersect(out.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// strokeRect draws a one-pixel rectangle outline.
func strokeRect(out *image.RGBA, r geometry.Rect, col color.RGBA) {
	x1 := int(r.X)
	y1 := int(r.Y)
	x2 := int(r.X + r.Width)
	y2 := int(r.Y + r.Height)

	bounds := out.Bounds()
	setIn := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			out.SetRGBA(x, y, col)
		}
	}
	for x := x1; x <= x2; x++ {
		setIn(x, y1)
		setIn(x, y2)
	}
	for y := y1; y <= y2; y++ {
		setIn(x1, y)
		setIn(x2, y)
	}
}

// blit copies an image onto the output with its top-left corner at (x, y).
func blit(out *image.RGBA, img image.Image, x, y int) {
	b := img.Bounds()
	region := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	clipped := region.Intersect(out.Bounds())
	if clipped.Empty() {
		return
	}
	sp := b.Min.Add(clipped.Min.Sub(region.Min))
	draw.Draw(out, clipped, img, sp, draw.Over)
}

// newFrame allocates an opaque white frame for one paint pass.
func newFrame(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{245, 245, 245, 255}), image.Point{}, draw.Src)
	return out
}
