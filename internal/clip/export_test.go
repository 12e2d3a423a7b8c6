package clip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

type fakeOp struct {
	Kind       string // "page" or "copy" or "save"
	Size       geometry.Size
	SourcePage int
	Dest, Clip geometry.Rect
	Path       string
}

// fakeComposer records backend calls in order.
type fakeComposer struct {
	sizes   []geometry.Size
	ops     []fakeOp
	failOn  string
	saveErr error
}

func (f *fakeComposer) SourcePageSize(index int) (geometry.Size, error) {
	if index < 0 || index >= len(f.sizes) {
		return geometry.Size{}, errors.New("page out of range")
	}
	return f.sizes[index], nil
}

func (f *fakeComposer) AddPage(size geometry.Size) error {
	if f.failOn == "page" {
		return errors.New("backend page failure")
	}
	f.ops = append(f.ops, fakeOp{Kind: "page", Size: size})
	return nil
}

func (f *fakeComposer) CopyRegion(sourcePage int, dest, clip geometry.Rect) error {
	if f.failOn == "copy" {
		return errors.New("backend copy failure")
	}
	f.ops = append(f.ops, fakeOp{Kind: "copy", SourcePage: sourcePage, Dest: dest, Clip: clip})
	return nil
}

func (f *fakeComposer) Save(path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.ops = append(f.ops, fakeOp{Kind: "save", Path: path})
	return nil
}

func frac(page int, xMin, xMax, yMin, yMax float64) geometry.FracRect {
	return geometry.FracRect{PageIndex: page, XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// Single page, single selection: one output page sized like source page 0,
// one region at the projected PDF rectangle.
func TestExportSinglePage(t *testing.T) {
	c := &fakeComposer{sizes: []geometry.Size{{Width: 612, Height: 792}}}
	seg := NewSegment(frac(0, 0.1, 0.4, 0.1, 0.3), nil)

	if err := Export(c, []*Segment{seg}, "out.pdf"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	want := []fakeOp{
		{Kind: "page", Size: geometry.Size{Width: 612, Height: 792}},
		{
			Kind: "copy",
			Dest: geometry.NewRect(61.2, 79.2, 183.6, 158.4),
			Clip: geometry.NewRect(61.2, 79.2, 183.6, 158.4),
		},
		{Kind: "save", Path: "out.pdf"},
	}
	if diff := cmp.Diff(want, c.ops, approx); diff != "" {
		t.Errorf("backend ops mismatch (-want +got):\n%s", diff)
	}
}

// Selections on pages 0 and 1 left at their source placement produce two
// output pages in index order with one region each.
func TestExportTwoPagesInOrder(t *testing.T) {
	c := &fakeComposer{sizes: []geometry.Size{
		{Width: 612, Height: 792},
		{Width: 595, Height: 842},
	}}
	segs := []*Segment{
		NewSegment(frac(1, 0.2, 0.5, 0.2, 0.4), nil),
		NewSegment(frac(0, 0.1, 0.3, 0.1, 0.2), nil),
	}

	if err := Export(c, segs, "out.pdf"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var kinds []string
	for _, op := range c.ops {
		kinds = append(kinds, op.Kind)
	}
	wantKinds := []string{"page", "copy", "page", "copy", "save"}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("op order mismatch (-want +got):\n%s", diff)
	}

	if c.ops[0].Size != c.sizes[0] {
		t.Errorf("first page sized %+v, want source page 0 size", c.ops[0].Size)
	}
	if c.ops[2].Size != c.sizes[1] {
		t.Errorf("second page sized %+v, want source page 1 size", c.ops[2].Size)
	}
}

// Two segments on the same target page share one output page and keep
// insertion order (paint order).
func TestExportStableOrderOnSharedPage(t *testing.T) {
	c := &fakeComposer{sizes: []geometry.Size{
		{Width: 100, Height: 100},
		{Width: 100, Height: 100},
	}}

	first := NewSegment(frac(1, 0.0, 0.1, 0.0, 0.1), nil)
	first.Target.PageIndex = 0
	second := NewSegment(frac(0, 0.5, 0.6, 0.5, 0.6), nil)

	if err := Export(c, []*Segment{first, second}, "out.pdf"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var copies []fakeOp
	pages := 0
	for _, op := range c.ops {
		switch op.Kind {
		case "page":
			pages++
		case "copy":
			copies = append(copies, op)
		}
	}
	if pages != 1 {
		t.Fatalf("got %d output pages, want 1", pages)
	}
	if len(copies) != 2 || copies[0].SourcePage != 1 || copies[1].SourcePage != 0 {
		t.Errorf("copy order not preserved: %+v", copies)
	}
}

// A segment dragged to another page is exported against that page's size.
func TestExportReassignedSegment(t *testing.T) {
	c := &fakeComposer{sizes: []geometry.Size{
		{Width: 612, Height: 792},
		{Width: 200, Height: 400},
	}}
	seg := NewSegment(frac(0, 0.25, 0.75, 0.25, 0.5), nil)
	seg.Target.PageIndex = 1

	if err := Export(c, []*Segment{seg}, "out.pdf"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	if c.ops[0].Size != c.sizes[1] {
		t.Errorf("output page sized %+v, want source page 1 size", c.ops[0].Size)
	}
	copyOp := c.ops[1]
	wantDest := geometry.NewRect(50, 100, 100, 100)
	if diff := cmp.Diff(wantDest, copyOp.Dest, approx); diff != "" {
		t.Errorf("dest rect mismatch (-want +got):\n%s", diff)
	}
	wantClip := geometry.NewRect(153, 198, 306, 198)
	if diff := cmp.Diff(wantClip, copyOp.Clip, approx); diff != "" {
		t.Errorf("clip rect mismatch (-want +got):\n%s", diff)
	}
}

func TestExportEmptyIsNoOp(t *testing.T) {
	c := &fakeComposer{}
	if err := Export(c, nil, "out.pdf"); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if len(c.ops) != 0 {
		t.Errorf("empty export issued %d backend ops, want none", len(c.ops))
	}
}

func TestExportBackendFailureAborts(t *testing.T) {
	c := &fakeComposer{
		sizes:  []geometry.Size{{Width: 612, Height: 792}},
		failOn: "copy",
	}
	seg := NewSegment(frac(0, 0.1, 0.4, 0.1, 0.3), nil)
	if err := Export(c, []*Segment{seg}, "out.pdf"); err == nil {
		t.Fatal("Export() succeeded despite backend failure")
	}
	for _, op := range c.ops {
		if op.Kind == "save" {
			t.Error("save was issued after a backend failure")
		}
	}
}
