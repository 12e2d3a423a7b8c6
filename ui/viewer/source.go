package viewer

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jkjkil4/pdf-clip/internal/raster"
	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// SourceView displays the rasterized pages of the opened document and lets
// the user rubber-band a rectangular region with the select modifier held.
// A selection touching several pages emits one fractional rectangle per
// touched page through the OnSelect callback.
type SourceView struct {
	*Viewport

	images []image.Image
	scaled []*image.RGBA // per-page copies at the current zoom

	selecting bool
	selStart  r2.Vec
	selEnd    r2.Vec

	// OnSelect receives one normalized fractional rectangle per page the
	// rubber band touched.
	OnSelect func(geometry.FracRect)
}

// NewSourceView creates an empty source view.
func NewSourceView() *SourceView {
	sv := &SourceView{}
	sv.Viewport = NewViewport(sv)
	sv.SetHooks(sv.updateScaledImages, nil)
	return sv
}

// SetImages replaces all page images, scrolls back to the top and fits the
// first page's width to the viewport.
func (sv *SourceView) SetImages(images []image.Image) {
	sv.images = images
	sv.selecting = false

	if len(images) > 0 {
		sv.FitWidth(float64(images[0].Bounds().Dx()))
	} else {
		sv.Reset()
	}
}

// Images returns the current page images.
func (sv *SourceView) Images() []image.Image {
	return sv.images
}

// PageImage returns the raster of one page.
func (sv *SourceView) PageImage(index int) image.Image {
	return sv.images[index]
}

// ContentHeight implements ContentSizer.
func (sv *SourceView) ContentHeight() float64 {
	return stackHeight(sv.Zoom(), sv.pageSizes())
}

func (sv *SourceView) pageSizes() []geometry.Size {
	sizes := make([]geometry.Size, len(sv.images))
	for i, img := range sv.images {
		b := img.Bounds()
		sizes[i] = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	}
	return sizes
}

func (sv *SourceView) bands() []PageBand {
	return layoutBands(sv.Viewport, sv.pageSizes())
}

// updateScaledImages rebuilds the per-page scaled cache for the current
// zoom. Called on every zoom change.
func (sv *SourceView) updateScaledImages() {
	sv.scaled = make([]*image.RGBA, len(sv.images))
	for i, img := range sv.images {
		sv.scaled[i] = raster.ScaleBy(img, sv.Zoom())
	}
}

// PointerDown starts either a selection (select modifier held) or a pan.
func (sv *SourceView) PointerDown(pos r2.Vec, selectModifier bool) {
	if selectModifier {
		sv.selecting = true
		sv.selStart = pos
		sv.selEnd = pos
		return
	}
	sv.BeginPan(pos.Y)
}

// PointerDrag continues the active gesture.
func (sv *SourceView) PointerDrag(pos r2.Vec) {
	if sv.selecting {
		sv.selEnd = pos
		return
	}
	sv.PanTo(pos.Y)
}

// PointerMove is a no-op for the source view; it exists so both viewers
// share the same gesture surface.
func (sv *SourceView) PointerMove(r2.Vec) bool { return false }

// PointerUp finishes the active gesture. Selections whose pixel extent is
// below the click threshold in both axes are discarded.
func (sv *SourceView) PointerUp(pos r2.Vec) {
	if !sv.selecting {
		sv.EndPan()
		return
	}
	sv.selecting = false
	sv.selEnd = pos

	delta := r2.Sub(sv.selEnd, sv.selStart)
	if math.Abs(delta.X) < selectThreshold && math.Abs(delta.Y) < selectThreshold {
		return
	}
	sv.processSelection()
}

// processSelection intersects the rubber band with every page band and
// emits a fractional rectangle per touched page, each clipped to its page.
func (sv *SourceView) processSelection() {
	if sv.OnSelect == nil {
		return
	}

	sel := geometry.RectFromPoints(
		geometry.NewPoint2D(sv.selStart.X, sv.selStart.Y),
		geometry.NewPoint2D(sv.selEnd.X, sv.selEnd.Y),
	)

	for _, band := range sv.bands() {
		overlap := sel.Intersect(band.Rect())
		if overlap.Width <= 0 || overlap.Height <= 0 {
			continue
		}

		frac := geometry.FracRect{
			PageIndex: band.Index,
			XMin:      (overlap.X - band.X) / band.Width,
			XMax:      (overlap.X + overlap.Width - band.X) / band.Width,
			YMin:      (overlap.Y - band.Y) / band.Height,
			YMax:      (overlap.Y + overlap.Height - band.Y) / band.Height,
		}
		sv.OnSelect(frac.Normalized().Clamped())
	}
}

// Paint renders the visible pages and the in-progress rubber band.
func (sv *SourceView) Paint(w, h int) image.Image {
	sv.SetSize(float64(w), float64(h))
	out := newFrame(w, h)

	if sv.scaled == nil || len(sv.scaled) != len(sv.images) {
		sv.updateScaledImages()
	}

	for _, band := range sv.bands() {
		if !visible(band, sv.Height()) {
			continue
		}
		blit(out, sv.scaled[band.Index], int(band.X), int(band.Y))
		strokeRect(out, band.Rect(), pageBorderColor)
	}

	if sv.selecting {
		sel := geometry.RectFromPoints(
			geometry.NewPoint2D(sv.selStart.X, sv.selStart.Y),
			geometry.NewPoint2D(sv.selEnd.X, sv.selEnd.Y),
		)
		strokeRect(out, sel, rubberBandColor)
		blendRect(out, sel, rubberBandFill)
	}

	return out
}
