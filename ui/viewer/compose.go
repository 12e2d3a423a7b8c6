package viewer

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jkjkil4/pdf-clip/internal/clip"
	"github.com/jkjkil4/pdf-clip/internal/raster"
	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// ComposeView displays blank target pages and the segments placed on them.
// Segments render in append order (later on top), can be hovered, and can
// be dragged to a new position with the select modifier held. Releasing a
// drag on a different page reassigns the segment to that page and centers
// it there; releasing outside every page discards the drag.
type ComposeView struct {
	*Viewport

	pages    []geometry.Size
	segments []*clip.Segment
	scaled   []*image.RGBA // per-segment scaled rasters at the current zoom

	hovered   int // index into segments, -1 when nothing is hovered
	dragging  bool
	dragStart r2.Vec
	dragEnd   r2.Vec
}

// NewComposeView creates an empty composition view.
func NewComposeView() *ComposeView {
	cv := &ComposeView{hovered: -1}
	cv.Viewport = NewViewport(cv)
	cv.SetHooks(cv.updateScaledSegments, nil)
	return cv
}

// ContentHeight implements ContentSizer.
func (cv *ComposeView) ContentHeight() float64 {
	return stackHeight(cv.Zoom(), cv.pages)
}

// PageCount returns the number of target pages.
func (cv *ComposeView) PageCount() int {
	return len(cv.pages)
}

// PageSize returns the geometry of one target page.
func (cv *ComposeView) PageSize(index int) geometry.Size {
	return cv.pages[index]
}

// AddPage appends a blank target page. The first page ever added also fits
// the zoom to the viewport width and scrolls to the top, mirroring how the
// source view behaves on document load.
func (cv *ComposeView) AddPage(size geometry.Size) {
	firstPage := len(cv.pages) == 0
	cv.pages = append(cv.pages, size)

	if firstPage {
		cv.FitWidth(size.Width)
	}
}

// AddSegment appends a segment on top of the existing ones.
func (cv *ComposeView) AddSegment(seg *clip.Segment) {
	cv.segments = append(cv.segments, seg)
	cv.updateScaledSegments()
}

// Segments returns the segment list in z-order.
func (cv *ComposeView) Segments() []*clip.Segment {
	return cv.segments
}

// Clear removes all pages and segments and resets the viewport.
func (cv *ComposeView) Clear() {
	cv.pages = nil
	cv.segments = nil
	cv.scaled = nil
	cv.hovered = -1
	cv.dragging = false
	cv.Reset()
}

func (cv *ComposeView) bands() []PageBand {
	return layoutBands(cv.Viewport, cv.pages)
}

// updateScaledSegments rebuilds the scaled raster cache of every segment
// for the current zoom.
func (cv *ComposeView) updateScaledSegments() {
	cv.scaled = make([]*image.RGBA, len(cv.segments))
	for i, seg := range cv.segments {
		cv.scaled[i] = raster.ScaleBy(seg.Image, cv.Zoom())
	}
}

// segmentRect returns the rendered bounding box of a segment in viewport
// coordinates, or false if its target page currently has no band.
func (cv *ComposeView) segmentRect(index int, bands []PageBand) (geometry.Rect, bool) {
	seg := cv.segments[index]
	page := seg.Target.PageIndex
	if page < 0 || page >= len(bands) {
		return geometry.Rect{}, false
	}
	band := bands[page]
	img := cv.scaled[index]
	return geometry.NewRect(
		band.X+seg.Target.XMin*band.Width,
		band.Y+seg.Target.YMin*band.Height,
		float64(img.Bounds().Dx()),
		float64(img.Bounds().Dy()),
	), true
}

// hoverAt finds the topmost segment under the pointer by scanning in
// reverse append order.
func (cv *ComposeView) hoverAt(pos r2.Vec) int {
	bands := cv.bands()
	for i := len(cv.segments) - 1; i >= 0; i-- {
		r, ok := cv.segmentRect(i, bands)
		if ok && r.Contains(geometry.NewPoint2D(pos.X, pos.Y)) {
			return i
		}
	}
	return -1
}

// PointerMove updates hover tracking while no button is held. It reports
// whether the hovered segment changed so callers repaint only when needed.
func (cv *ComposeView) PointerMove(pos r2.Vec) bool {
	if cv.dragging {
		return false
	}
	old := cv.hovered
	cv.hovered = cv.hoverAt(pos)
	return old != cv.hovered
}

// PointerDown starts a segment drag when the select modifier is held over
// a hovered segment, otherwise a pan.
func (cv *ComposeView) PointerDown(pos r2.Vec, selectModifier bool) {
	if selectModifier && cv.hovered >= 0 {
		cv.dragging = true
		cv.dragStart = pos
		cv.dragEnd = pos
		return
	}
	cv.BeginPan(pos.Y)
}

// PointerDrag continues the active gesture.
func (cv *ComposeView) PointerDrag(pos r2.Vec) {
	if cv.dragging {
		cv.dragEnd = pos
		return
	}
	cv.PanTo(pos.Y)
}

// PointerUp commits an active segment drag, or ends a pan.
func (cv *ComposeView) PointerUp(pos r2.Vec) {
	if !cv.dragging {
		cv.EndPan()
		return
	}
	cv.dragging = false
	cv.dragEnd = pos
	cv.commitDrag(pos)
}

// dragOffset returns the current drag delta constrained to its dominant
// axis: the axis with the smaller absolute displacement is zeroed.
func (cv *ComposeView) dragOffset() r2.Vec {
	offset := r2.Sub(cv.dragEnd, cv.dragStart)
	if math.Abs(offset.X) > math.Abs(offset.Y) {
		offset.Y = 0
	} else {
		offset.X = 0
	}
	return offset
}

// commitDrag applies the finished drag to the hovered segment's target
// rectangle. Dropping on another page reassigns and re-centers there;
// dropping on the same page translates by the axis-locked delta converted
// to page fractions. Dropping outside every page changes nothing.
func (cv *ComposeView) commitDrag(pos r2.Vec) {
	if cv.hovered < 0 || cv.hovered >= len(cv.segments) {
		return
	}

	dropPage := bandAt(cv.bands(), pos)
	if dropPage < 0 {
		return
	}

	seg := cv.segments[cv.hovered]
	target := &seg.Target

	var dx, dy float64
	if target.PageIndex != dropPage {
		// Cross-page drop: move to the new page and center the rect
		// there. The rect keeps its fractional extent, so a large
		// selection may legitimately extend past [0,1].
		target.PageIndex = dropPage
		dx = 0.5 - (target.XMin+target.XMax)/2
		dy = 0.5 - (target.YMin+target.YMax)/2
	} else {
		scaled := cv.scaled[cv.hovered]
		original := seg.Image.Bounds()
		if original.Dx() == 0 {
			return
		}
		scaleFactor := float64(scaled.Bounds().Dx()) / float64(original.Dx())

		sourcePage := seg.Selected.PageIndex
		if sourcePage < 0 || sourcePage >= len(cv.pages) {
			return
		}
		pageSize := cv.pages[sourcePage].Scale(scaleFactor)
		if pageSize.Width == 0 || pageSize.Height == 0 {
			return
		}

		offset := cv.dragOffset()
		dx = offset.X / pageSize.Width
		dy = offset.Y / pageSize.Height
	}

	target.Translate(dx, dy)
}

// Paint renders the blank pages, all segments in z-order, the hover
// highlight (shifted by the live drag offset when a drag is active), and
// finally every page outline so borders are never hidden by segments.
func (cv *ComposeView) Paint(w, h int) image.Image {
	cv.SetSize(float64(w), float64(h))
	out := newFrame(w, h)

	if cv.scaled == nil || len(cv.scaled) != len(cv.segments) {
		cv.updateScaledSegments()
	}

	bands := cv.bands()

	for _, band := range bands {
		if !visible(band, cv.Height()) {
			continue
		}
		fillRect(out, band.Rect(), pageFillColor)
	}

	for i := range cv.segments {
		r, ok := cv.segmentRect(i, bands)
		if !ok {
			continue
		}
		blit(out, cv.scaled[i], int(r.X), int(r.Y))
	}

	if cv.hovered >= 0 && cv.hovered < len(cv.segments) {
		if r, ok := cv.segmentRect(cv.hovered, bands); ok {
			if cv.dragging {
				offset := cv.dragOffset()
				r.X += offset.X
				r.Y += offset.Y
			}
			strokeRect(out, r, hoverColor)
		}
	}

	for _, band := range bands {
		strokeRect(out, band.Rect(), pageBorderColor)
	}

	return out
}
