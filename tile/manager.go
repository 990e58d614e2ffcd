package tile

import (
	"sort"

	"github.com/gogpu/docview"
)

// Manager is the per-page tile cache manager.
//
// For every visible page the manager tracks cached and pending tiles,
// pre-requests a halo of tiles around the visible area and evicts tiles
// that are out of view, too small to matter, or fully occluded by tiles
// of the current z-level.
//
// The manager is not safe for concurrent use; it is driven by the
// single-threaded canvas coordinator, once per frame.
type Manager[T any] struct {
	scheme Scheme
	cache  map[int]*pageCache[T]

	// halo is the number of extra tile rows/columns retained and
	// pre-requested around the visible tile set.
	halo docview.VecI

	// minRetainSize drops cross-level tiles whose on-screen size falls
	// below this threshold in both dimensions.
	minRetainSize docview.Vec
}

// pageCache holds the tile state of a single page.
//
// Invariant: the key sets of cached and pending are disjoint. A nil
// pending handle is a tombstone marking a harvested entry awaiting
// removal in the retire step.
type pageCache[T any] struct {
	cached  map[ID]T
	pending map[ID]Handle[T]
}

func newPageCache[T any]() *pageCache[T] {
	return &pageCache[T]{
		cached:  make(map[ID]T),
		pending: make(map[ID]Handle[T]),
	}
}

// PaintTile is one entry of the ordered paint list: a bitmap and the
// screen rectangle it covers.
type PaintTile[T any] struct {
	Rect docview.Rect
	Data T
}

// NewManager creates a tile manager.
//
// halo is the number of tiles pre-requested around the visible set;
// minRetainSize is the on-screen pixel size below which cross-level
// tiles are dropped.
func NewManager[T any](scheme Scheme, halo docview.VecI, minRetainSize docview.Vec) *Manager[T] {
	return &Manager[T]{
		scheme:        scheme,
		cache:         make(map[int]*pageCache[T]),
		halo:          halo,
		minRetainSize: minRetainSize,
	}
}

// Update drives the cache for one frame: it requests missing tiles for
// all visible pages, harvests completed renders, retires stale pending
// requests and evicts cached tiles that no longer serve the view.
func (m *Manager[T]) Update(source Source[T], pages *PageData, vp docview.Viewport, opts RenderOptions) {
	// Remove out-of-view pages from the cache, canceling their pending
	// renders.
	for page, entry := range m.cache {
		if !pages.Visible.Contains(page) {
			entry.releasePending()
			delete(m.cache, page)
		}
	}

	for i := pages.Visible.Start; i < pages.Visible.End; i++ {
		pageRectPt := pages.Layout[i]
		pageRect := pages.Transform(pageRectPt)

		// Recompute the scale for the rounded page rectangle.
		scale := pageRect.Size.X / pageRectPt.Size.X
		vpAdj := docview.Viewport{R: vp.R, Scale: scale}

		m.updatePage(source, vpAdj, i, pageRect, pageRectPt, opts)
	}
}

func (m *Manager[T]) updatePage(source Source[T], vp docview.Viewport, pageIndex int,
	pageRect, pageRectPt docview.Rect, opts RenderOptions) {

	// Area of the page visible on screen, in pixels aligned at the page
	// origin.
	visiblePage := docview.NewRect(pageRect.Offs.Neg(), vp.R.Size).
		Clip(docview.Rect{Size: pageRect.Size}).
		Bounds()

	// Tile cells for the visible part of the page.
	tiles := m.scheme.Tiles(vp, pageRect, visiblePage)

	// Tile cells for the full page.
	tilesPage := m.scheme.Tiles(vp, pageRect, docview.Rect{Size: pageRect.Size}.Bounds()).Cells

	// Tile cells for the extended viewport, including the halo.
	tilesVp := docview.BoundsI{
		XMin: tiles.Cells.XMin - m.halo.X,
		XMax: tiles.Cells.XMax + m.halo.X,
		YMin: tiles.Cells.YMin - m.halo.Y,
		YMax: tiles.Cells.YMax + m.halo.Y,
	}.Clip(tilesPage)

	entry := m.cache[pageIndex]
	if entry == nil {
		entry = newPageCache[T]()
		m.cache[pageIndex] = entry
	}

	requested := 0

	requestTiles := func(cells docview.BoundsI, pri Priority) {
		cells.Range(func(x, y int64) {
			id := NewID(pageIndex, x, y, tiles.Z)

			if _, ok := entry.cached[id]; ok {
				return
			}

			// Already requested: only refresh the priority.
			if h, ok := entry.pending[id]; ok {
				if h != nil {
					h.SetPriority(pri)
				}
				return
			}

			pageSize, rect := m.scheme.RenderRect(pageRectPt.Size, pageRect.Size, id)

			entry.pending[id] = source.Request(pageIndex, pageSize, rect, opts, pri)
			requested++
		})
	}

	// Request tiles in view, then pre-request the halo bands around it
	// with a lower priority.
	requestTiles(tiles.Cells, PriorityMedium)

	top := docview.BoundsI{
		XMin: tiles.Cells.XMin,
		XMax: tiles.Cells.XMax,
		YMin: max(tiles.Cells.YMin-m.halo.Y, tilesPage.YMin),
		YMax: tiles.Cells.YMin,
	}
	bottom := docview.BoundsI{
		XMin: tiles.Cells.XMin,
		XMax: tiles.Cells.XMax,
		YMin: tiles.Cells.YMax,
		YMax: min(tiles.Cells.YMax+m.halo.Y, tilesPage.YMax),
	}
	left := docview.BoundsI{
		XMin: max(tiles.Cells.XMin-m.halo.X, tilesPage.XMin),
		XMax: tiles.Cells.XMin,
		YMin: max(tiles.Cells.YMin-m.halo.Y, tilesPage.YMin),
		YMax: min(tiles.Cells.YMax+m.halo.Y, tilesPage.YMax),
	}
	right := docview.BoundsI{
		XMin: tiles.Cells.XMax,
		XMax: min(tiles.Cells.XMax+m.halo.X, tilesPage.XMax),
		YMin: max(tiles.Cells.YMin-m.halo.Y, tilesPage.YMin),
		YMax: min(tiles.Cells.YMax+m.halo.Y, tilesPage.YMax),
	}

	requestTiles(bottom, PriorityLow)
	requestTiles(top, PriorityLow)
	requestTiles(left, PriorityLow)
	requestTiles(right, PriorityLow)

	// Harvest finished renders into the cached map, leaving a tombstone
	// in the pending slot. Failed renders are dropped and re-requested
	// on a later frame.
	for id, h := range entry.pending {
		if h == nil || !h.Finished() {
			continue
		}

		data, err := h.Join()
		if err != nil {
			docview.Logger().Warn("tile: render failed, dropping entry",
				"page", id.Page, "x", id.X, "y", id.Y, "z", id.Z, "err", err)
			delete(entry.pending, id)
			continue
		}

		entry.cached[id] = data
		entry.pending[id] = nil
	}

	// Retire pending requests: tombstones, stale z-levels, and anything
	// outside the extended viewport.
	for id, h := range entry.pending {
		switch {
		case h == nil:
			delete(entry.pending, id)
		case id.Z != tiles.Z:
			h.Release()
			delete(entry.pending, id)
		case !tilesVp.Contains(id.X, id.Y):
			h.Release()
			delete(entry.pending, id)
		}
	}

	// Evict cached tiles.
	evicted := 0
	screenBounds := docview.Rect{Size: vp.R.Size}.Bounds()

	for id := range entry.cached {
		if id.Z == tiles.Z {
			// Current level: keep iff inside the extended viewport.
			if !tilesVp.Contains(id.X, id.Y) {
				delete(entry.cached, id)
				evicted++
			}
			continue
		}

		tileBounds := m.scheme.ScreenRect(vp, pageRect, id).Bounds().RoundOutwards()
		tileScreen := tileBounds.Translate(pageRect.Offs.Vec())

		// Drop tiles that are no longer on screen.
		if !tileScreen.Intersects(screenBounds) {
			delete(entry.cached, id)
			evicted++
			continue
		}

		// Drop tiles that became too small to matter.
		size := tileScreen.Rect().Size
		if size.X < m.minRetainSize.X && size.Y < m.minRetainSize.Y {
			delete(entry.cached, id)
			evicted++
			continue
		}

		// Drop the tile if it is fully replaced by tiles on the current
		// z-level.
		//
		// Note: this does not check whether e.g. a lower-z tile is
		// occluded by higher-z tiles, only whether a tile is fully
		// occluded by tiles on the current z-level.
		required := m.scheme.Tiles(vp, pageRect, tileBounds).Cells.Clip(tiles.Cells)

		if m.allCached(entry, pageIndex, required, tiles.Z) {
			delete(entry.cached, id)
			evicted++
		}
	}

	if requested > 0 || evicted > 0 {
		docview.Logger().Debug("tile: page updated",
			"page", pageIndex, "z", tiles.Z,
			"requested", requested, "evicted", evicted,
			"cached", len(entry.cached), "pending", len(entry.pending))
	}
}

// allCached reports whether every cell of the given bounds is present in
// the cache at level z.
func (m *Manager[T]) allCached(entry *pageCache[T], page int, cells docview.BoundsI, z int64) bool {
	for y := cells.YMin; y < cells.YMax; y++ {
		for x := cells.XMin; x < cells.XMax; x++ {
			if _, ok := entry.cached[NewID(page, x, y, z)]; !ok {
				return false
			}
		}
	}
	return true
}

// Tiles returns the ordered list of tiles to paint for the given page.
//
// Tiles on the current z-level outside the visible tile set are
// filtered; cross-level tiles are always kept, as anything not serving
// the view has been evicted during Update. Cross-level tiles come first,
// sorted by z descending, with current-level tiles last. Overdraw is
// bounded by the occlusion-aware eviction, not by paint order.
func (m *Manager[T]) Tiles(vp docview.Viewport, pageIndex int, pageRect docview.Rect) []PaintTile[T] {
	visiblePage := docview.NewRect(pageRect.Offs.Neg(), vp.R.Size).
		Clip(docview.Rect{Size: pageRect.Size}).
		Bounds()

	tiles := m.scheme.Tiles(vp, pageRect, visiblePage)

	entry := m.cache[pageIndex]
	if entry == nil {
		return nil
	}

	ids := make([]ID, 0, len(entry.cached))
	for id := range entry.cached {
		if id.Z != tiles.Z || tiles.Cells.Contains(id.X, id.Y) {
			ids = append(ids, id)
		}
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		switch {
		case a.Z == b.Z:
			return false
		case a.Z == tiles.Z:
			return false
		case b.Z == tiles.Z:
			return true
		default:
			return a.Z > b.Z
		}
	})

	list := make([]PaintTile[T], 0, len(ids))
	for _, id := range ids {
		rect := m.scheme.ScreenRect(vp, pageRect, id).Translate(pageRect.Offs.Vec())
		list = append(list, PaintTile[T]{Rect: rect, Data: entry.cached[id]})
	}

	return list
}

// releasePending cancels all in-flight requests of a page cache.
func (c *pageCache[T]) releasePending() {
	for _, h := range c.pending {
		if h != nil {
			h.Release()
		}
	}
}
