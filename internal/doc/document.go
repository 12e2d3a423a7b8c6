// Package doc wraps the PDF backends: rasterizing pages for display,
// composing clipped regions into a new vector document and merging files.
package doc

import (
	"fmt"
	"image"

	"github.com/novvoo/go-pdf/pkg/gopdf"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// RenderDPI is the resolution page rasters are produced at. Display
// quality at typical zoom levels matters more than memory here.
const RenderDPI = 150

// Document is an opened source PDF. It serves page metadata and page
// rasters; vector composition reads the file independently.
type Document struct {
	path      string
	reader    *gopdf.PDFReader
	pageCount int
}

// Open opens and validates a PDF file.
func Open(path string) (*Document, error) {
	reader := gopdf.NewPDFReader(path)
	count, err := reader.GetPageCount()
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if count == 0 {
		reader.Close()
		return nil, fmt.Errorf("open %s: document has no pages", path)
	}
	return &Document{path: path, reader: reader, pageCount: count}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// PageSize returns the size of a page in PDF points. index is zero-based.
func (d *Document) PageSize(index int) (geometry.Size, error) {
	info, err := d.reader.GetPageInfo(index + 1)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("page %d size: %w", index, err)
	}
	return geometry.NewSize(info.Width, info.Height), nil
}

// RenderPage rasterizes one page at RenderDPI. index is zero-based.
func (d *Document) RenderPage(index int) (image.Image, error) {
	img, err := d.reader.RenderPageToImage(index+1, RenderDPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	return img, nil
}

// RenderAll rasterizes every page in order.
func (d *Document) RenderAll() ([]image.Image, error) {
	images := make([]image.Image, d.pageCount)
	for i := 0; i < d.pageCount; i++ {
		img, err := d.RenderPage(i)
		if err != nil {
			return nil, err
		}
		images[i] = img
	}
	return images, nil
}

// Close releases the reader's caches.
func (d *Document) Close() error {
	return d.reader.Close()
}
