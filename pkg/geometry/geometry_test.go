package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want Rect
	}{
		{"ordered", Point2D{10, 20}, Point2D{50, 70}, Rect{10, 20, 40, 50}},
		{"reversed", Point2D{50, 70}, Point2D{10, 20}, Rect{10, 20, 40, 50}},
		{"mixed", Point2D{50, 20}, Point2D{10, 70}, Rect{10, 20, 40, 50}},
		{"degenerate", Point2D{5, 5}, Point2D{5, 5}, Rect{5, 5, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RectFromPoints(tt.a, tt.b)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("RectFromPoints() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 100, 100)
	got := a.Intersect(b)
	want := Rect{50, 50, 50, 50}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Intersect() mismatch (-want +got):\n%s", diff)
	}

	c := NewRect(200, 200, 10, 10)
	if ov := a.Intersect(c); ov.Width > 0 && ov.Height > 0 {
		t.Errorf("Intersect() of disjoint rects has positive extent: %+v", ov)
	}
}

func TestFracRectNormalized(t *testing.T) {
	f := FracRect{PageIndex: 2, XMin: 0.8, XMax: 0.2, YMin: 0.9, YMax: 0.1}
	got := f.Normalized()
	want := FracRect{PageIndex: 2, XMin: 0.2, XMax: 0.8, YMin: 0.1, YMax: 0.9}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Normalized() mismatch (-want +got):\n%s", diff)
	}
}

func TestFracRectClamped(t *testing.T) {
	f := FracRect{XMin: -0.25, XMax: 1.5, YMin: 0.3, YMax: 0.7}
	got := f.Clamped()
	if got.XMin != 0 || got.XMax != 1 || got.YMin != 0.3 || got.YMax != 0.7 {
		t.Errorf("Clamped() = %+v, want [0,1] bounded", got)
	}
}

// Projecting to page space and back must reproduce the original values, at
// any scale.
func TestFracRectRoundTrip(t *testing.T) {
	scales := []float64{0.25, 1, 1.5, 4}
	f := FracRect{PageIndex: 1, XMin: 0.1, XMax: 0.4, YMin: 0.1, YMax: 0.3}
	base := NewSize(612, 792)

	for _, s := range scales {
		page := base.Scale(s)
		r := f.OnPage(page)
		back := FracOnPage(f.PageIndex, r, page)
		if diff := cmp.Diff(f, back, approx); diff != "" {
			t.Errorf("round trip at scale %v mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestRectMapping(t *testing.T) {
	from := NewRect(10, 20, 40, 80)
	to := NewRect(100, 200, 20, 40)
	m := RectMapping(from, to)

	corners := []struct {
		p, want Point2D
	}{
		{Point2D{10, 20}, Point2D{100, 200}},
		{Point2D{50, 100}, Point2D{120, 240}},
		{Point2D{30, 60}, Point2D{110, 220}},
	}
	for _, c := range corners {
		got := m.Apply(c.p)
		if math.Abs(got.X-c.want.X) > 1e-9 || math.Abs(got.Y-c.want.Y) > 1e-9 {
			t.Errorf("Apply(%+v) = %+v, want %+v", c.p, got, c.want)
		}
	}
}

func TestAffineCompose(t *testing.T) {
	m := Translation(5, 7).Compose(Scaling(2, 3))
	got := m.Apply(Point2D{1, 1})
	want := Point2D{7, 10}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Compose/Apply mismatch (-want +got):\n%s", diff)
	}
}
