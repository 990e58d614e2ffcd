package render

import (
	"github.com/gogpu/docview"
	"github.com/gogpu/docview/tile"
)

// PageRef is an opaque handle to a loaded page, produced by a Document
// and consumed by the matching Rasterizer.
type PageRef any

// Document is a paginated document pages can be loaded from.
//
// Implementations must be safe for concurrent use; the provider loads
// pages from its worker goroutines.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageSize returns the size of page i in points.
	PageSize(i int) (docview.Vec, error)

	// Page loads page i.
	Page(i int) (PageRef, error)
}

// Rasterizer renders pages into bitmaps.
//
// RenderPage renders the tileRect sub-rectangle (in pixels, aligned at
// the page origin) of the given page, rasterized at pageSize pixels
// overall, into dst. The destination is pre-sized to tileRect; areas of
// the tile outside the page are filled with the background color.
//
// Implementations must be safe for concurrent use.
type Rasterizer interface {
	RenderPage(page PageRef, pageSize docview.VecI, tileRect docview.RectI,
		opts tile.RenderOptions, dst docview.Bitmap) error
}
