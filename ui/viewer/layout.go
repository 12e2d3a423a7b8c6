package viewer

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// PageBand is the rendered position of one page in viewport coordinates at
// the current zoom and scroll: pages are stacked vertically, horizontally
// centered, separated by PageSpacing.
type PageBand struct {
	Index  int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect returns the band as a rectangle.
func (b PageBand) Rect() geometry.Rect {
	return geometry.NewRect(b.X, b.Y, b.Width, b.Height)
}

// Contains reports whether the pointer position lies on the page.
func (b PageBand) Contains(p r2.Vec) bool {
	return b.Rect().Contains(geometry.NewPoint2D(p.X, p.Y))
}

// layoutBands computes the band of every page for the given unscaled page
// sizes. All pages count toward the layout regardless of visibility.
func layoutBands(v *Viewport, sizes []geometry.Size) []PageBand {
	bands := make([]PageBand, 0, len(sizes))
	y := -v.Offset()
	for i, s := range sizes {
		w := s.Width * v.Zoom()
		h := s.Height * v.Zoom()
		bands = append(bands, PageBand{
			Index:  i,
			X:      (v.Width() - w) / 2,
			Y:      y,
			Width:  w,
			Height: h,
		})
		y += h + PageSpacing
	}
	return bands
}

// stackHeight is the total content height of the stacked pages at a zoom
// factor, including the trailing spacing after each page.
func stackHeight(zoom float64, sizes []geometry.Size) float64 {
	if len(sizes) == 0 {
		return 0
	}
	var total float64
	for _, s := range sizes {
		total += s.Height*zoom + PageSpacing
	}
	return total
}

// bandAt returns the index of the page containing the pointer position, or
// -1 if the position is outside every page.
func bandAt(bands []PageBand, p r2.Vec) int {
	for _, b := range bands {
		if b.Contains(p) {
			return b.Index
		}
	}
	return -1
}

// visible reports whether a band intersects the viewport's vertical extent.
// Off-screen pages are skipped during painting but still occupy layout space.
func visible(b PageBand, viewHeight float64) bool {
	return b.Y+b.Height > 0 && b.Y < viewHeight
}
