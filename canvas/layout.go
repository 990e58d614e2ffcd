package canvas

import "github.com/gogpu/docview"

// Layout is the arrangement of all pages in canvas coordinates: one
// rectangle per page plus the overall bounding box.
type Layout struct {
	Bounds docview.Bounds
	Rects  []docview.Rect
}

// LayoutProvider arranges pages with the given gap between them. Compute
// is a pure function over the page sizes.
type LayoutProvider interface {
	Compute(sizes []docview.Vec, gap float64) Layout
}

// VerticalLayout places pages top to bottom, centered horizontally
// within the widest page.
type VerticalLayout struct{}

// Compute implements LayoutProvider.
func (VerticalLayout) Compute(sizes []docview.Vec, gap float64) Layout {
	rects := make([]docview.Rect, len(sizes))

	var bounds docview.Bounds
	for _, size := range sizes {
		bounds.XMax = max(bounds.XMax, size.X)
	}

	for i, size := range sizes {
		if i > 0 {
			bounds.YMax += gap
		}

		x := (bounds.XMax - size.X) / 2
		rects[i] = docview.NewRect(docview.Pt(x, bounds.YMax), size)
		bounds.YMax += size.Y
	}

	return Layout{Bounds: bounds, Rects: rects}
}

// HorizontalLayout places pages left to right, centered vertically
// within the tallest page.
type HorizontalLayout struct{}

// Compute implements LayoutProvider.
func (HorizontalLayout) Compute(sizes []docview.Vec, gap float64) Layout {
	rects := make([]docview.Rect, len(sizes))

	var bounds docview.Bounds
	for _, size := range sizes {
		bounds.YMax = max(bounds.YMax, size.Y)
	}

	for i, size := range sizes {
		if i > 0 {
			bounds.XMax += gap
		}

		y := (bounds.YMax - size.Y) / 2
		rects[i] = docview.NewRect(docview.Pt(bounds.XMax, y), size)
		bounds.XMax += size.X
	}

	return Layout{Bounds: bounds, Rects: rects}
}
