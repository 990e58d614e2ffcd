package tile

import (
	"math"

	"github.com/gogpu/docview"
)

// Scheme describes how a page is divided into tiles.
//
// A scheme is pure and stateless: it maps between viewport geometry and
// tile identifiers, and describes the bitmap geometry needed to render a
// given tile.
type Scheme interface {
	// Tiles returns the preferred set of tiles to cover the given area
	// of the page using the specified viewport.
	//
	// There are many combinations of tiles that can cover an area, even
	// more so when mixing z-levels. Tiles returns the required cells for
	// the z-level that best fits the viewport. The rect is given in
	// viewport pixels aligned at the page origin.
	Tiles(vp docview.Viewport, page docview.Rect, rect docview.Bounds) Rect

	// ScreenRect returns the area covered by the tile in pixels,
	// adjusted for the current z-level of the page and aligned at the
	// page origin. Tiles cached at a different z-level than the current
	// one scale accordingly, which is how coarser or finer tiles keep
	// painting correctly until replaced.
	ScreenRect(vp docview.Viewport, page docview.Rect, id ID) docview.Rect

	// RenderRect describes how the tile is rendered: it returns the
	// page size (in pixels) at which the page should be rasterized and
	// the sub-rectangle of that rasterization which yields the tile.
	RenderRect(pageSizePt, pageSizeVp docview.Vec, id ID) (docview.VecI, docview.RectI)
}

// HybridScheme divides a page into tiles if it is larger than a
// threshold and renders the page as a single tile if not.
//
// Above the threshold it follows the ExactLevelScheme approach,
// rendering tiles at the exact output resolution to bypass interpolation
// and provide visually better results.
type HybridScheme struct {
	tileSize docview.VecI
	minTileZ int64
}

// NewHybridScheme creates a hybrid tiling scheme.
//
// tileSize is the size of the tiles when the page is being tiled.
// minSize is the page-size threshold: if the maximum dimension of a page
// in viewport pixels exceeds it, the page is divided into tiles;
// otherwise the page is rendered as a single tile at its exact viewport
// size.
func NewHybridScheme(tileSize docview.VecI, minSize int64) HybridScheme {
	return HybridScheme{tileSize: tileSize, minTileZ: minSize}
}

// Tiles implements Scheme.
func (s HybridScheme) Tiles(_ docview.Viewport, page docview.Rect, rect docview.Bounds) Rect {
	z := int64(math.Max(page.Size.X, page.Size.Y))

	var cells docview.BoundsI
	if z > s.minTileZ {
		cells = rect.BoundsI().Tiled(s.tileSize)
	} else {
		cells = docview.BoundsI{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	}

	return Rect{Cells: cells, Z: z}
}

// ScreenRect implements Scheme.
func (s HybridScheme) ScreenRect(_ docview.Viewport, page docview.Rect, id ID) docview.Rect {
	if id.Z <= s.minTileZ {
		return docview.Rect{Size: page.Size}
	}

	z := math.Max(page.Size.X, page.Size.Y)
	tileSize := s.tileSize.Vec()

	r := docview.NewRect(
		docview.Pt(float64(id.X)*tileSize.X, float64(id.Y)*tileSize.Y),
		tileSize,
	)

	return r.Scale(z / float64(id.Z))
}

// RenderRect implements Scheme.
func (s HybridScheme) RenderRect(_, pageSizeVp docview.Vec, id ID) (docview.VecI, docview.RectI) {
	pageSize := docview.VecI{X: int64(pageSizeVp.X), Y: int64(pageSizeVp.Y)}
	z := int64(math.Max(pageSizeVp.X, pageSizeVp.Y))

	if z <= s.minTileZ {
		return pageSize, docview.NewRectI(docview.PointI{}, pageSize)
	}

	rect := docview.NewRectI(
		docview.PointI{X: id.X * s.tileSize.X, Y: id.Y * s.tileSize.Y},
		s.tileSize,
	)

	return pageSize, rect
}

// ExactLevelScheme tiles unconditionally at the exact viewport
// resolution.
//
// This avoids the need for interpolation and provides visually crisper
// results, especially for text, but means that tiles must be rendered
// specifically for each zoom level.
type ExactLevelScheme struct {
	tileSize docview.VecI
}

// NewExactLevelScheme creates an exact-level tiling scheme with the
// specified tile size.
func NewExactLevelScheme(tileSize docview.VecI) ExactLevelScheme {
	return ExactLevelScheme{tileSize: tileSize}
}

// Tiles implements Scheme.
func (s ExactLevelScheme) Tiles(_ docview.Viewport, page docview.Rect, rect docview.Bounds) Rect {
	return Rect{
		Cells: rect.BoundsI().Tiled(s.tileSize),
		Z:     int64(page.Size.X),
	}
}

// ScreenRect implements Scheme.
func (s ExactLevelScheme) ScreenRect(_ docview.Viewport, page docview.Rect, id ID) docview.Rect {
	tileSize := s.tileSize.Vec()

	r := docview.NewRect(
		docview.Pt(float64(id.X)*tileSize.X, float64(id.Y)*tileSize.Y),
		tileSize,
	)

	return r.Scale(page.Size.X / float64(id.Z))
}

// RenderRect implements Scheme.
func (s ExactLevelScheme) RenderRect(_, pageSizeVp docview.Vec, id ID) (docview.VecI, docview.RectI) {
	pageSize := docview.VecI{X: int64(pageSizeVp.X), Y: int64(pageSizeVp.Y)}

	rect := docview.NewRectI(
		docview.PointI{X: id.X * s.tileSize.X, Y: id.Y * s.tileSize.Y},
		s.tileSize,
	)

	return pageSize, rect
}

// QuadTreeScheme is a basic quad-tree-based tiling scheme.
//
// Tiles are rendered at discrete power-of-two zoom levels and
// interpolated to the desired output resolution.
type QuadTreeScheme struct {
	tileSize docview.VecI
}

// NewQuadTreeScheme creates a quad-tree tiling scheme with the specified
// tile size.
func NewQuadTreeScheme(tileSize docview.VecI) QuadTreeScheme {
	return QuadTreeScheme{tileSize: tileSize}
}

// Tiles implements Scheme.
func (s QuadTreeScheme) Tiles(vp docview.Viewport, _ docview.Rect, rect docview.Bounds) Rect {
	z := math.Ceil(math.Log2(vp.Scale))
	level := math.Exp2(z)

	cells := rect.Scale(level / vp.Scale).RoundOutwards().BoundsI().Tiled(s.tileSize)

	return Rect{Cells: cells, Z: int64(z)}
}

// ScreenRect implements Scheme.
func (s QuadTreeScheme) ScreenRect(vp docview.Viewport, _ docview.Rect, id ID) docview.Rect {
	tileSize := s.tileSize.Vec()

	r := docview.NewRect(
		docview.Pt(float64(id.X)*tileSize.X, float64(id.Y)*tileSize.Y),
		tileSize,
	)

	return r.Scale(vp.Scale / math.Exp2(float64(id.Z)))
}

// RenderRect implements Scheme.
func (s QuadTreeScheme) RenderRect(pageSizePt, _ docview.Vec, id ID) (docview.VecI, docview.RectI) {
	scale := math.Exp2(float64(id.Z))

	pageSize := docview.VecI{
		X: int64(math.Ceil(pageSizePt.X * scale)),
		Y: int64(math.Ceil(pageSizePt.Y * scale)),
	}

	rect := docview.NewRectI(
		docview.PointI{X: id.X * s.tileSize.X, Y: id.Y * s.tileSize.Y},
		s.tileSize,
	)

	return pageSize, rect
}
