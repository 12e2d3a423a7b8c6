package geometry

import (
	"math"
)

// FracRect is a rectangle expressed as fractions of a page's width and
// height. All four coordinates are in [0, 1] with XMin <= XMax and
// YMin <= YMax once normalized, which makes the rectangle independent of
// zoom level and raster resolution.
type FracRect struct {
	PageIndex int `json:"page_index"`

	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Width returns the fractional width.
func (f FracRect) Width() float64 {
	return f.XMax - f.XMin
}

// Height returns the fractional height.
func (f FracRect) Height() float64 {
	return f.YMax - f.YMin
}

// Normalized returns the rectangle with min/max swapped where needed.
func (f FracRect) Normalized() FracRect {
	if f.XMin > f.XMax {
		f.XMin, f.XMax = f.XMax, f.XMin
	}
	if f.YMin > f.YMax {
		f.YMin, f.YMax = f.YMax, f.YMin
	}
	return f
}

// Clamped returns the rectangle with all coordinates limited to [0, 1].
func (f FracRect) Clamped() FracRect {
	clamp := func(v float64) float64 {
		return math.Max(0, math.Min(1, v))
	}
	f.XMin = clamp(f.XMin)
	f.XMax = clamp(f.XMax)
	f.YMin = clamp(f.YMin)
	f.YMax = clamp(f.YMax)
	return f
}

// Translate shifts the rectangle by a fractional offset in place.
func (f *FracRect) Translate(dx, dy float64) {
	f.XMin += dx
	f.XMax += dx
	f.YMin += dy
	f.YMax += dy
}

// OnPage projects the fractional rectangle onto a page of the given size,
// yielding a rectangle in that page's coordinate space. The same projection
// serves display pixels and PDF points; only the page size differs.
func (f FracRect) OnPage(page Size) Rect {
	return Rect{
		X:      f.XMin * page.Width,
		Y:      f.YMin * page.Height,
		Width:  f.Width() * page.Width,
		Height: f.Height() * page.Height,
	}
}

// FracOnPage converts a page-space rectangle back into fractions of the
// given page size. It is the inverse of OnPage.
func FracOnPage(pageIndex int, r Rect, page Size) FracRect {
	return FracRect{
		PageIndex: pageIndex,
		XMin:      r.X / page.Width,
		XMax:      (r.X + r.Width) / page.Width,
		YMin:      r.Y / page.Height,
		YMax:      (r.Y + r.Height) / page.Height,
	}
}
