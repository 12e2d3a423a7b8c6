package doc

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// region is one recorded copy operation. Rectangles are in top-down page
// coordinates; the flip to PDF's bottom-up space happens at save time.
type region struct {
	sourcePage int
	dest       geometry.Rect
	clip       geometry.Rect
}

// outputPage is one page of the document under construction.
type outputPage struct {
	size    geometry.Size
	regions []region
}

// Composer builds a new PDF out of regions copied from a source document.
// AddPage and CopyRegion only record; the whole output is assembled and
// written in Save, so a failing export never leaves a partial file.
//
// Copied regions stay vector: each one becomes a Form XObject carrying the
// source page's content and resources, with the form's BBox clipping to
// the region and a matrix placing it on the output page.
type Composer struct {
	src   *model.Context
	pages []*outputPage
}

// NewComposer reads and validates the source document.
func NewComposer(sourcePath string) (*Composer, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("compose: read %s: %w", sourcePath, err)
	}

	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("compose: parse %s: %w", sourcePath, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("compose: page count: %w", err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("compose: %s has no pages", sourcePath)
	}

	return &Composer{src: ctx}, nil
}

// sourcePageBox returns the visible box of a source page together with its
// rotation. index is zero-based.
func (c *Composer) sourcePageBox(index int) (*types.Rectangle, int, error) {
	if index < 0 || index >= c.src.PageCount {
		return nil, 0, fmt.Errorf("compose: page %d out of range", index)
	}

	_, _, inh, err := c.src.PageDict(index+1, false)
	if err != nil {
		return nil, 0, fmt.Errorf("compose: page %d: %w", index, err)
	}

	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	if box == nil {
		return nil, 0, fmt.Errorf("compose: page %d has no media box", index)
	}
	return box, inh.Rotate, nil
}

// SourcePageSize returns the displayed size of a source page in points,
// with width and height swapped for 90 and 270 degree rotations.
func (c *Composer) SourcePageSize(index int) (geometry.Size, error) {
	box, rotate, err := c.sourcePageBox(index)
	if err != nil {
		return geometry.Size{}, err
	}
	w, h := box.Width(), box.Height()
	if rotate%180 != 0 {
		w, h = h, w
	}
	return geometry.NewSize(w, h), nil
}

// AddPage appends an output page of the given size. Subsequent CopyRegion
// calls target this page.
func (c *Composer) AddPage(size geometry.Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("compose: invalid page size %gx%g", size.Width, size.Height)
	}
	c.pages = append(c.pages, &outputPage{size: size})
	return nil
}

// CopyRegion records placing the clip rectangle of a source page onto the
// dest rectangle of the current output page.
func (c *Composer) CopyRegion(sourcePage int, dest, clip geometry.Rect) error {
	if len(c.pages) == 0 {
		return fmt.Errorf("compose: no output page")
	}
	if sourcePage < 0 || sourcePage >= c.src.PageCount {
		return fmt.Errorf("compose: page %d out of range", sourcePage)
	}
	if dest.Width <= 0 || dest.Height <= 0 || clip.Width <= 0 || clip.Height <= 0 {
		return fmt.Errorf("compose: empty region")
	}

	page := c.pages[len(c.pages)-1]
	page.regions = append(page.regions, region{sourcePage: sourcePage, dest: dest, clip: clip})
	return nil
}

// flipRect converts a top-down rectangle to PDF's bottom-up coordinates on
// a page of the given height.
func flipRect(r geometry.Rect, pageHeight float64) *types.Rectangle {
	return types.NewRectangle(r.X, pageHeight-(r.Y+r.Height), r.X+r.Width, pageHeight-r.Y)
}

// Save assembles the output document and writes it to path.
//
// All needed source pages are extracted into a fresh context so their
// resources travel along, each recorded region is turned into a Form
// XObject over its source page's content, and the context's page tree is
// rebuilt to hold the new output pages.
func (c *Composer) Save(path string) error {
	if len(c.pages) == 0 {
		return fmt.Errorf("compose: nothing to save")
	}

	needed := c.neededSourcePages()

	ctx, err := pdfcpu.ExtractPages(c.src, needed, false)
	if err != nil {
		return fmt.Errorf("compose: extract pages: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("compose: extracted page count: %w", err)
	}

	// Source page index -> its 1-based position in the extracted context.
	extracted := make(map[int]int, len(needed))
	for i, pageNumber := range needed {
		extracted[pageNumber-1] = i + 1
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("compose: catalog: %w", err)
	}
	pagesRef := rootDict.IndirectRefEntry("Pages")
	if pagesRef == nil {
		return fmt.Errorf("compose: catalog has no page tree")
	}
	pagesDict, err := ctx.DereferenceDict(*pagesRef)
	if err != nil {
		return fmt.Errorf("compose: page tree: %w", err)
	}

	kids := types.Array{}
	for i, page := range c.pages {
		pageRef, err := c.buildOutputPage(ctx, page, extracted, *pagesRef)
		if err != nil {
			return fmt.Errorf("compose: output page %d: %w", i, err)
		}
		kids = append(kids, *pageRef)
	}

	pagesDict["Kids"] = kids
	pagesDict["Count"] = types.Integer(len(kids))

	if err := pdfapi.WriteContextFile(ctx, path); err != nil {
		return fmt.Errorf("compose: write %s: %w", path, err)
	}
	return nil
}

// neededSourcePages returns the sorted 1-based numbers of every source
// page referenced by a recorded region.
func (c *Composer) neededSourcePages() []int {
	seen := map[int]struct{}{}
	var pages []int
	for _, page := range c.pages {
		for _, reg := range page.regions {
			if _, ok := seen[reg.sourcePage]; ok {
				continue
			}
			seen[reg.sourcePage] = struct{}{}
			pages = append(pages, reg.sourcePage+1)
		}
	}
	sort.Ints(pages)
	return pages
}

// buildOutputPage creates one output page dict with a form per region and
// returns its indirect reference.
func (c *Composer) buildOutputPage(ctx *model.Context, page *outputPage, extracted map[int]int, parent types.IndirectRef) (*types.IndirectRef, error) {
	xObjects := types.Dict{}
	var content bytes.Buffer

	for i, reg := range page.regions {
		formRef, err := c.buildRegionForm(ctx, reg, extracted)
		if err != nil {
			return nil, err
		}

		name := fmt.Sprintf("Fm%d", i)
		xObjects[name] = *formRef

		srcSize, err := c.SourcePageSize(reg.sourcePage)
		if err != nil {
			return nil, err
		}

		// Map the region's box in form space onto its destination on
		// the page, both in bottom-up coordinates.
		from := flipRect(reg.clip, srcSize.Height)
		to := flipRect(reg.dest, page.size.Height)
		m := geometry.RectMapping(
			geometry.NewRect(from.LL.X, from.LL.Y, from.Width(), from.Height()),
			geometry.NewRect(to.LL.X, to.LL.Y, to.Width(), to.Height()),
		)
		fmt.Fprintf(&content, "q %.5f %.5f %.5f %.5f %.5f %.5f cm /%s Do Q\n",
			m.A, m.C, m.B, m.D, m.TX, m.TY, name)
	}

	contentSD, err := ctx.NewStreamDictForBuf(content.Bytes())
	if err != nil {
		return nil, fmt.Errorf("content stream: %w", err)
	}
	if err := contentSD.Encode(); err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	contentRef, err := ctx.IndRefForNewObject(*contentSD)
	if err != nil {
		return nil, fmt.Errorf("content object: %w", err)
	}

	mediaBox := types.RectForWidthAndHeight(0, 0, page.size.Width, page.size.Height)
	pageDict := types.Dict(map[string]types.Object{
		"Type":     types.Name("Page"),
		"Parent":   parent,
		"MediaBox": mediaBox.Array(),
		"Resources": types.Dict(map[string]types.Object{
			"XObject": xObjects,
		}),
		"Contents": *contentRef,
	})

	pageRef, err := ctx.IndRefForNewObject(pageDict)
	if err != nil {
		return nil, fmt.Errorf("page object: %w", err)
	}
	return pageRef, nil
}

// buildRegionForm wraps the extracted source page of one region into a
// Form XObject whose BBox is the region's clip rectangle. The form content
// normalizes page rotation and moves the page box origin to (0,0) so the
// clip rectangle addresses displayed coordinates.
func (c *Composer) buildRegionForm(ctx *model.Context, reg region, extracted map[int]int) (*types.IndirectRef, error) {
	pageNumber, ok := extracted[reg.sourcePage]
	if !ok {
		return nil, fmt.Errorf("source page %d not extracted", reg.sourcePage)
	}

	pageDict, _, inh, err := ctx.PageDict(pageNumber, false)
	if err != nil {
		return nil, fmt.Errorf("source page %d: %w", reg.sourcePage, err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("source page %d missing", reg.sourcePage)
	}

	pageContent, err := ctx.PageContent(pageDict, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("source page %d content: %w", reg.sourcePage, err)
	}

	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	if box == nil {
		return nil, fmt.Errorf("source page %d has no media box", reg.sourcePage)
	}

	var buf bytes.Buffer
	buf.WriteString("q ")
	if inh.Rotate != 0 {
		buf.Write(model.ContentBytesForPageRotation(inh.Rotate, box.Width(), box.Height()))
	}
	fmt.Fprintf(&buf, "1 0 0 1 %.5f %.5f cm ", -box.LL.X, -box.LL.Y)
	buf.Write(pageContent)
	buf.WriteString(" Q ")

	sd, err := ctx.NewStreamDictForBuf(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("form stream: %w", err)
	}

	srcSize, err := c.SourcePageSize(reg.sourcePage)
	if err != nil {
		return nil, err
	}
	bbox := flipRect(reg.clip, srcSize.Height)

	sd.Dict["Type"] = types.Name("XObject")
	sd.Dict["Subtype"] = types.Name("Form")
	sd.Dict["FormType"] = types.Integer(1)
	sd.Dict["BBox"] = bbox.Array()
	if inh.Resources != nil {
		sd.Dict["Resources"] = inh.Resources
	}

	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	formRef, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return nil, fmt.Errorf("form object: %w", err)
	}
	return formRef, nil
}
