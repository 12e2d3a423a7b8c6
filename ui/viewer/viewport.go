// Package viewer provides the two document viewers of pdf-clip: a source
// page viewer with rubber-band region selection and a target composition
// viewer where clipped segments are placed onto virtual pages. Both share
// a scrollable, zoomable viewport. All gesture handling is plain method
// calls so the package is fully testable without a running GUI; the Fyne
// widget glue lives in widget.go.
package viewer

import (
	"math"
)

const (
	// PageSpacing is the vertical gap between stacked pages and the
	// horizontal margin used when fitting a page to the viewport width.
	PageSpacing = 10

	minZoom  = 0.1
	maxZoom  = 5.0
	zoomStep = 1.1

	// Drags shorter than this in both axes are treated as clicks.
	selectThreshold = 4
)

// ContentSizer reports the total scrollable content height at the current
// zoom. The viewport uses it only for scroll clamping.
type ContentSizer interface {
	ContentHeight() float64
}

// Viewport owns the scroll offset and zoom factor of a viewer and their
// clamping rules. Views embed it and register hooks to invalidate derived
// caches on state changes.
type Viewport struct {
	width  float64
	height float64

	offset float64 // vertical scroll offset in viewport pixels
	zoom   float64

	content ContentSizer

	onZoomChanged   func()
	onScrollChanged func()

	panning        bool
	panStartY      float64
	panStartOffset float64
}

// NewViewport creates a viewport with the initial state a freshly opened
// viewer has: zoom 1.0 and the top spacing scrolled into view.
func NewViewport(content ContentSizer) *Viewport {
	return &Viewport{
		offset:  -PageSpacing,
		zoom:    1.0,
		content: content,
	}
}

// SetHooks registers the zoom and scroll change callbacks. Either may be nil.
func (v *Viewport) SetHooks(onZoom, onScroll func()) {
	v.onZoomChanged = onZoom
	v.onScrollChanged = onScroll
}

// SetSize updates the viewport dimensions and re-clamps the scroll offset.
func (v *Viewport) SetSize(width, height float64) {
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height
	v.clampOffset()
}

// Width returns the viewport width.
func (v *Viewport) Width() float64 { return v.width }

// Height returns the viewport height.
func (v *Viewport) Height() float64 { return v.height }

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Offset returns the current scroll offset.
func (v *Viewport) Offset() float64 { return v.offset }

// Reset restores the initial scroll and zoom state.
func (v *Viewport) Reset() {
	v.offset = -PageSpacing
	v.zoom = 1.0
	v.panning = false
	v.notifyZoom()
}

// Wheel handles a wheel gesture: with the zoom modifier held it zooms by
// one step, otherwise it scrolls. deltaY follows the usual wheel
// convention where scrolling up is positive.
func (v *Viewport) Wheel(deltaY float64, zoomModifier bool) {
	if zoomModifier {
		v.ZoomStep(deltaY > 0)
		return
	}
	v.offset -= deltaY
	v.clampOffset()
	v.notifyScroll()
}

// ZoomStep multiplies or divides the zoom factor by one step, anchored at
// the viewport's vertical center: the content coordinate under the center
// before the change stays under the center after it.
func (v *Viewport) ZoomStep(in bool) {
	oldZoom := v.zoom
	centerY := v.height / 2
	contentYBefore := centerY + v.offset

	if in {
		v.zoom *= zoomStep
	} else {
		v.zoom /= zoomStep
	}
	v.zoom = math.Max(minZoom, math.Min(maxZoom, v.zoom))

	contentYAfter := contentYBefore * (v.zoom / oldZoom)
	v.offset = contentYAfter - centerY

	v.clampOffset()
	v.notifyZoom()
}

// FitWidth sets the zoom so content of the given unscaled width fills the
// viewport width with PageSpacing margins on both sides, and scrolls back
// to the top. Used when a document is loaded or the first target page is
// created.
func (v *Viewport) FitWidth(contentWidth float64) {
	if contentWidth > 0 && v.width > 0 {
		v.zoom = (v.width - 2*PageSpacing) / contentWidth
		v.zoom = math.Max(minZoom, math.Min(maxZoom, v.zoom))
	} else {
		v.zoom = 1.0
	}
	v.offset = -PageSpacing
	v.notifyZoom()
}

// BeginPan starts a drag-to-pan gesture at the given pointer y.
func (v *Viewport) BeginPan(y float64) {
	v.panning = true
	v.panStartY = y
	v.panStartOffset = v.offset
}

// PanTo continues a pan gesture: the content follows the pointer.
func (v *Viewport) PanTo(y float64) {
	if !v.panning {
		return
	}
	v.offset = v.panStartOffset - (y - v.panStartY)
	v.clampOffset()
	v.notifyScroll()
}

// EndPan finishes a pan gesture.
func (v *Viewport) EndPan() {
	v.panning = false
}

// clampOffset keeps the scroll offset within
// [-height/2, max(0, contentHeight-height/2)], leaving half a viewport of
// over-scroll at both ends.
func (v *Viewport) clampOffset() {
	var total float64
	if v.content != nil {
		total = v.content.ContentHeight()
	}
	maxOffset := math.Max(0, total-v.height/2)
	minOffset := -v.height / 2
	v.offset = math.Max(minOffset, math.Min(v.offset, maxOffset))
}

func (v *Viewport) notifyZoom() {
	if v.onZoomChanged != nil {
		v.onZoomChanged()
	}
}

func (v *Viewport) notifyScroll() {
	if v.onScrollChanged != nil {
		v.onScrollChanged()
	}
}
