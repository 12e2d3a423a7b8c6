// Package clip holds the segment model and the projection of accumulated
// segments back into PDF page space.
package clip

import (
	"image"

	"github.com/jkjkil4/pdf-clip/pkg/geometry"
)

// Segment is a region clipped out of a source page together with its
// current placement on a target page. Selected never changes after
// creation; Target starts as a copy and is the only field mutated by
// later drag operations. The clipped raster is owned by the segment.
type Segment struct {
	Selected geometry.FracRect
	Target   geometry.FracRect
	Image    image.Image
}

// NewSegment creates a segment placed at its source location.
func NewSegment(selected geometry.FracRect, img image.Image) *Segment {
	return &Segment{
		Selected: selected,
		Target:   selected,
		Image:    img,
	}
}
