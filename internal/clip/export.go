package clip

import (
	"fmt"
	"sort"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// Composer is the PDF composition capability the export needs. AddPage
// appends an output page which becomes the current page; CopyRegion places
// the clip rectangle of a source page onto the dest rectangle of the
// current page. Save must only write the file once the whole document has
// been assembled.
type Composer interface {
	SourcePageSize(index int) (geometry.Size, error)
	AddPage(size geometry.Size) error
	CopyRegion(sourcePage int, dest, clip geometry.Rect) error
	Save(path string) error
}

// Export projects the accumulated segments into a new PDF document at path.
//
// Segments are grouped by target page in ascending index order; segments
// sharing a target page keep their insertion order so that paint order is
// preserved. Each output page is sized to match the source page at the
// target index. Nothing is written unless every step succeeds.
func Export(c Composer, segments []*Segment, path string) error {
	if len(segments) == 0 {
		return nil
	}

	ordered := make([]*Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Target.PageIndex < ordered[j].Target.PageIndex
	})

	currentPage := -1
	for _, seg := range ordered {
		targetIndex := seg.Target.PageIndex

		// Output pages mirror the source page at the target index.
		if targetIndex != currentPage {
			size, err := c.SourcePageSize(targetIndex)
			if err != nil {
				return fmt.Errorf("export: size of page %d: %w", targetIndex, err)
			}
			if err := c.AddPage(size); err != nil {
				return fmt.Errorf("export: add page %d: %w", targetIndex, err)
			}
			currentPage = targetIndex
		}

		pageSize, err := c.SourcePageSize(targetIndex)
		if err != nil {
			return fmt.Errorf("export: size of page %d: %w", targetIndex, err)
		}
		sourceSize, err := c.SourcePageSize(seg.Selected.PageIndex)
		if err != nil {
			return fmt.Errorf("export: size of page %d: %w", seg.Selected.PageIndex, err)
		}

		dest := seg.Target.OnPage(pageSize)
		clipRect := seg.Selected.OnPage(sourceSize)
		if err := c.CopyRegion(seg.Selected.PageIndex, dest, clipRect); err != nil {
			return fmt.Errorf("export: copy region: %w", err)
		}
	}

	if err := c.Save(path); err != nil {
		return fmt.Errorf("export: save: %w", err)
	}
	return nil
}
