// Package tile implements the tiling schemes, the tile cache manager and
// the multi-level fallback manager of the document viewer.
//
// A tiling scheme is a pure mapping between viewport geometry and tile
// identifiers. The tile manager tracks cached and pending tiles per page,
// pre-requests a halo of tiles around the visible area and performs
// occlusion-aware eviction against tiles of other zoom levels. The
// fallback manager keeps low-resolution whole-page bitmaps at discrete
// levels so that a page is never painted blank.
package tile

import "github.com/gogpu/docview"

// ID identifies a single tile of a page.
//
// Z is the zoom-level discriminator chosen by the tiling scheme; X and Y
// are tile-grid indices at that level. Tiles at different z-levels for
// the same page may coexist in the cache.
type ID struct {
	Page int
	X    int64
	Y    int64
	Z    int64
}

// NewID creates a tile ID.
func NewID(page int, x, y, z int64) ID {
	return ID{Page: page, X: x, Y: y, Z: z}
}

// Rect describes a rectangular set of tile-grid cells at one zoom level.
// The cell bounds are half-open: the maximum corner is exclusive.
type Rect struct {
	Cells docview.BoundsI
	Z     int64
}
