package viewer

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

func testPage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// newTestSourceView returns a 800x600 view showing two 780x390 pages, which
// yields zoom 1.0 after the fit-width on load. The first page band is then
// (10,10)-(790,400) and the second (10,410)-(790,800).
func newTestSourceView(t *testing.T) (*SourceView, *[]geometry.FracRect) {
	t.Helper()
	sv := NewSourceView()
	sv.SetSize(800, 600)
	sv.SetImages([]image.Image{testPage(780, 390), testPage(780, 390)})

	var got []geometry.FracRect
	sv.OnSelect = func(f geometry.FracRect) { got = append(got, f) }
	return sv, &got
}

func TestSourceViewFitWidthOnLoad(t *testing.T) {
	sv, _ := newTestSourceView(t)
	if got := sv.Zoom(); got != 1.0 {
		t.Fatalf("zoom after load = %v, want 1.0", got)
	}
	if got := sv.Offset(); got != -PageSpacing {
		t.Fatalf("offset after load = %v, want %v", got, float64(-PageSpacing))
	}
}

func TestSourceViewSelectionSinglePage(t *testing.T) {
	sv, got := newTestSourceView(t)

	sv.PointerDown(r2.Vec{X: 10, Y: 10}, true)
	sv.PointerDrag(r2.Vec{X: 200, Y: 100})
	sv.PointerUp(r2.Vec{X: 400, Y: 205})

	want := []geometry.FracRect{{
		PageIndex: 0,
		XMin:      0, XMax: 0.5,
		YMin: 0, YMax: 0.5,
	}}
	if diff := cmp.Diff(want, *got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceViewSelectionNormalized(t *testing.T) {
	sv, got := newTestSourceView(t)

	// Dragging from bottom-right to top-left yields the same rectangle.
	sv.PointerDown(r2.Vec{X: 400, Y: 205}, true)
	sv.PointerUp(r2.Vec{X: 10, Y: 10})

	want := []geometry.FracRect{{
		PageIndex: 0,
		XMin:      0, XMax: 0.5,
		YMin: 0, YMax: 0.5,
	}}
	if diff := cmp.Diff(want, *got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceViewSelectionSpansPages(t *testing.T) {
	sv, got := newTestSourceView(t)

	sv.PointerDown(r2.Vec{X: 10, Y: 205}, true)
	sv.PointerUp(r2.Vec{X: 400, Y: 605})

	want := []geometry.FracRect{
		{PageIndex: 0, XMin: 0, XMax: 0.5, YMin: 0.5, YMax: 1},
		{PageIndex: 1, XMin: 0, XMax: 0.5, YMin: 0, YMax: 0.5},
	}
	if diff := cmp.Diff(want, *got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceViewSelectionBelowThresholdDiscarded(t *testing.T) {
	sv, got := newTestSourceView(t)

	sv.PointerDown(r2.Vec{X: 100, Y: 100}, true)
	sv.PointerUp(r2.Vec{X: 103, Y: 103})

	if len(*got) != 0 {
		t.Errorf("near-click emitted %d selections, want 0", len(*got))
	}
}

func TestSourceViewSelectionInGapDiscarded(t *testing.T) {
	sv, got := newTestSourceView(t)

	// Entirely inside the spacing strip between the two pages.
	sv.PointerDown(r2.Vec{X: 100, Y: 401}, true)
	sv.PointerUp(r2.Vec{X: 300, Y: 409})

	if len(*got) != 0 {
		t.Errorf("gap selection emitted %d rects, want 0", len(*got))
	}
}

func TestSourceViewPanWithoutModifier(t *testing.T) {
	sv, got := newTestSourceView(t)

	sv.PointerDown(r2.Vec{X: 100, Y: 300}, false)
	sv.PointerDrag(r2.Vec{X: 100, Y: 100})
	sv.PointerUp(r2.Vec{X: 100, Y: 100})

	if len(*got) != 0 {
		t.Errorf("pan emitted %d selections, want 0", len(*got))
	}
	if want := -PageSpacing + 200.0; sv.Offset() != want {
		t.Errorf("offset after pan = %v, want %v", sv.Offset(), want)
	}
}
