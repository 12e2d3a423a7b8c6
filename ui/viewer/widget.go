package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"
)

// GestureView is the surface both viewers expose to the Fyne widget glue.
type GestureView interface {
	Paint(w, h int) image.Image
	Wheel(deltaY float64, zoomModifier bool)
	PointerDown(pos r2.Vec, selectModifier bool)
	PointerDrag(pos r2.Vec)
	PointerUp(pos r2.Vec)
	PointerMove(pos r2.Vec) bool
}

// Widget hosts a GestureView inside a Fyne raster and translates Fyne
// input events into view gestures. Wheel events in Fyne carry no modifier
// state, so the zoom modifier is supplied by a callback wired to the
// window's key handlers.
type Widget struct {
	widget.BaseWidget

	view   GestureView
	raster *fynecanvas.Raster

	// ZoomModifier reports whether the wheel-zoom modifier is currently
	// held. Nil means never.
	ZoomModifier func() bool
}

// NewWidget wraps a view in a renderable, interactive widget.
func NewWidget(view GestureView) *Widget {
	w := &Widget{view: view}
	w.raster = fynecanvas.NewRaster(func(pw, ph int) image.Image {
		return view.Paint(pw, ph)
	})
	w.ExtendBaseWidget(w)
	return w
}

// CreateRenderer implements fyne.Widget.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

func vec(p fyne.Position) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// Scrolled implements fyne.Scrollable.
func (w *Widget) Scrolled(ev *fyne.ScrollEvent) {
	w.view.Wheel(float64(ev.Scrolled.DY), w.zoomModifierDown())
	w.Refresh()
}

func (w *Widget) zoomModifierDown() bool {
	return w.ZoomModifier != nil && w.ZoomModifier()
}

// MouseDown implements desktop.Mouseable. Only the primary button starts
// a gesture; the control modifier selects between selection/drag and pan.
func (w *Widget) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.view.PointerDown(vec(ev.Position), ev.Modifier&fyne.KeyModifierControl != 0)
}

// MouseUp implements desktop.Mouseable.
func (w *Widget) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	w.view.PointerUp(vec(ev.Position))
	w.Refresh()
}

// Dragged implements fyne.Draggable.
func (w *Widget) Dragged(ev *fyne.DragEvent) {
	w.view.PointerDrag(vec(ev.Position))
	w.Refresh()
}

// DragEnd implements fyne.Draggable. The gesture is committed in MouseUp,
// which carries the release position.
func (w *Widget) DragEnd() {}

// MouseMoved implements desktop.Hoverable.
func (w *Widget) MouseMoved(ev *desktop.MouseEvent) {
	if w.view.PointerMove(vec(ev.Position)) {
		w.Refresh()
	}
}

// MouseIn implements desktop.Hoverable.
func (w *Widget) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (w *Widget) MouseOut() {
	if w.view.PointerMove(r2.Vec{X: -1, Y: -1}) {
		w.Refresh()
	}
}
