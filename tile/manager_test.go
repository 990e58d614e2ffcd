package tile

import (
	"testing"

	"github.com/gogpu/docview"
)

func testScheme() HybridScheme {
	return NewHybridScheme(docview.VecI{X: 1024, Y: 1024}, 3072)
}

func viewport(w, h, scale float64) docview.Viewport {
	return docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 0), docview.V(w, h)),
		Scale: scale,
	}
}

// onePage builds PageData for one 600x800pt page at the given scale.
func onePage(scale float64) *PageData {
	layout := []docview.Rect{docview.NewRect(docview.Pt(0, 0), docview.V(600, 800))}
	return identityPages(layout, Range{Start: 0, End: 1}, scale)
}

func TestManagerSmallPageSingleTile(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	vp := viewport(600, 800, 1.0)
	pages := onePage(1.0)

	m.Update(src, pages, vp, RenderOptions{})

	if len(src.requests) != 1 {
		t.Fatalf("requests = %d, want 1 (single tile below threshold)", len(src.requests))
	}

	req := src.requests[0]
	if req.pri != PriorityMedium {
		t.Errorf("priority = %v, want Medium", req.pri)
	}
	if req.pageSize != (docview.VecI{X: 600, Y: 800}) {
		t.Errorf("pageSize = %v, want 600x800", req.pageSize)
	}
	if req.rect.Size != (docview.VecI{X: 600, Y: 800}) {
		t.Errorf("tile rect = %v, want the whole page", req.rect)
	}

	// Complete the render; the next update harvests it.
	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})

	entry := m.cache[0]
	if len(entry.cached) != 1 {
		t.Fatalf("cached tiles = %d, want 1", len(entry.cached))
	}
	if _, ok := entry.cached[NewID(0, 0, 0, 800)]; !ok {
		t.Errorf("cache is missing tile {page:0 x:0 y:0 z:800}")
	}
	if len(entry.pending) != 0 {
		t.Errorf("pending tiles = %d, want 0 after harvest", len(entry.pending))
	}

	list := m.Tiles(vp, 0, pages.Transform(pages.Layout[0]))
	if len(list) != 1 {
		t.Fatalf("paint list length = %d, want 1", len(list))
	}
	if list[0].Rect.Size != docview.V(600, 800) {
		t.Errorf("paint rect = %v, want the whole page", list[0].Rect)
	}
}

func TestManagerZoomPastThreshold(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	// 600x800pt page at scale 6: 3600x4800px, above the 3072 threshold.
	vp := viewport(3600, 4800, 6.0)
	pages := onePage(6.0)

	m.Update(src, pages, vp, RenderOptions{})

	// ceil(3600/1024) * ceil(4800/1024) = 4*5 tiles.
	if len(src.requests) != 20 {
		t.Fatalf("requests = %d, want 20", len(src.requests))
	}
	if n := src.countPriority(PriorityMedium); n != 20 {
		t.Errorf("medium-priority requests = %d, want 20 (whole page visible)", n)
	}

	for _, req := range src.requests {
		if req.pageSize != (docview.VecI{X: 3600, Y: 4800}) {
			t.Errorf("pageSize = %v, want 3600x4800", req.pageSize)
			break
		}
	}

	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})

	entry := m.cache[0]
	if len(entry.cached) != 20 {
		t.Errorf("cached tiles = %d, want 20", len(entry.cached))
	}
	for id := range entry.cached {
		if id.Z != 4800 {
			t.Errorf("cached tile at z=%d, want 4800", id.Z)
			break
		}
	}
}

func TestManagerPanByOneTile(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 0, Y: 0}, docview.V(25, 25))
	src := &fakeSource{}

	// Viewport narrower than the page: 2048x4800 of a 3600x4800 page.
	vp := viewport(2048, 4800, 6.0)

	layout := []docview.Rect{docview.NewRect(docview.Pt(0, 0), docview.V(600, 800))}
	panX := 0.0
	pages := &PageData{
		Layout:  layout,
		Visible: Range{Start: 0, End: 1},
		Transform: func(r docview.Rect) docview.Rect {
			return r.Scale(6.0).Translate(docview.V(-panX, 0)).Round()
		},
	}

	m.Update(src, pages, vp, RenderOptions{})

	// Columns 0..1 of rows 0..4 are visible.
	if len(src.requests) != 10 {
		t.Fatalf("requests = %d, want 10", len(src.requests))
	}

	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})
	if got := len(m.cache[0].cached); got != 10 {
		t.Fatalf("cached tiles = %d, want 10", got)
	}

	// Pan right by one tile width: columns 1..2 are now visible.
	panX = 1024
	before := len(src.requests)
	m.Update(src, pages, vp, RenderOptions{})

	fresh := src.requests[before:]
	if len(fresh) != 5 {
		t.Errorf("new requests = %d, want 5 (one new column)", len(fresh))
	}
	for _, req := range fresh {
		if req.pri != PriorityMedium {
			t.Errorf("new request priority = %v, want Medium", req.pri)
			break
		}
	}

	// The old leftmost column was evicted (halo is zero).
	entry := m.cache[0]
	for id := range entry.cached {
		if id.X == 0 {
			t.Errorf("tile column 0 still cached after pan: %+v", id)
			break
		}
	}
	if got := len(entry.cached); got != 5 {
		t.Errorf("cached tiles = %d, want 5 (column 1 kept, column 0 evicted)", got)
	}
}

func TestManagerHaloPreRequest(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	// Columns 0..1 visible of a 4-column page; halo adds column 2.
	vp := viewport(2048, 4800, 6.0)
	pages := onePage(6.0)

	m.Update(src, pages, vp, RenderOptions{})

	if n := src.countPriority(PriorityMedium); n != 10 {
		t.Errorf("medium requests = %d, want 10 (visible tiles)", n)
	}
	if n := src.countPriority(PriorityLow); n != 5 {
		t.Errorf("low requests = %d, want 5 (halo column)", n)
	}
}

func TestManagerPendingAndCachedDisjoint(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	vp := viewport(3600, 4800, 6.0)
	pages := onePage(6.0)

	check := func(step string) {
		t.Helper()
		for _, entry := range m.cache {
			for id := range entry.cached {
				if _, ok := entry.pending[id]; ok {
					t.Fatalf("%s: tile %+v is both cached and pending", step, id)
				}
			}
		}
	}

	m.Update(src, pages, vp, RenderOptions{})
	check("after first update")

	// Finish half of the renders.
	for i, r := range src.requests {
		if i%2 == 0 {
			r.handle.finished = true
		}
	}
	m.Update(src, pages, vp, RenderOptions{})
	check("after partial harvest")

	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})
	check("after full harvest")
}

func TestManagerRenderFailureRetries(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	vp := viewport(600, 800, 1.0)
	pages := onePage(1.0)

	m.Update(src, pages, vp, RenderOptions{})
	src.failAll()

	// The failed entry is dropped, not cached.
	m.Update(src, pages, vp, RenderOptions{})

	entry := m.cache[0]
	if len(entry.cached) != 0 {
		t.Errorf("cached tiles = %d, want 0 after render failure", len(entry.cached))
	}
	if len(src.requests) != 1 {
		t.Fatalf("requests = %d, want 1 (no retry while the failure is harvested)", len(src.requests))
	}

	// The next update re-requests the tile.
	m.Update(src, pages, vp, RenderOptions{})
	if len(src.requests) != 2 {
		t.Errorf("requests = %d, want 2 (initial + retry)", len(src.requests))
	}
}

func TestManagerDropsOutOfViewPages(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	layout := []docview.Rect{
		docview.NewRect(docview.Pt(0, 0), docview.V(600, 800)),
		docview.NewRect(docview.Pt(0, 810), docview.V(600, 800)),
	}

	// The viewport shows all of page 0 and the top of page 1.
	vp := viewport(600, 900, 1.0)
	pages := identityPages(layout, Range{Start: 0, End: 2}, 1.0)

	m.Update(src, pages, vp, RenderOptions{})
	if len(m.cache) != 2 {
		t.Fatalf("page caches = %d, want 2", len(m.cache))
	}

	// Page 1 scrolls out of view; its pending render must be canceled.
	pages.Visible = Range{Start: 0, End: 1}
	m.Update(src, pages, vp, RenderOptions{})

	if len(m.cache) != 1 {
		t.Errorf("page caches = %d, want 1", len(m.cache))
	}
	canceled := false
	for _, r := range src.requests {
		if r.page == 1 && r.handle.released {
			canceled = true
		}
	}
	if !canceled {
		t.Error("pending render of the dropped page was not released")
	}
}

func TestManagerOcclusionEviction(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	// Render the page below the tiling threshold first: one whole-page
	// tile at z=800.
	vp := viewport(3600, 4800, 1.0)
	pages := onePage(1.0)

	m.Update(src, pages, vp, RenderOptions{})
	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})

	if _, ok := m.cache[0].cached[NewID(0, 0, 0, 800)]; !ok {
		t.Fatal("whole-page tile at z=800 not cached")
	}

	// Zoom past the threshold. The z=800 tile still covers the page and
	// must be retained until all z=4800 tiles that cover it are cached.
	pages = onePage(6.0)
	m.Update(src, pages, vp, RenderOptions{})

	if _, ok := m.cache[0].cached[NewID(0, 0, 0, 800)]; !ok {
		t.Fatal("coarse tile evicted before the fine level was complete")
	}

	// The paint list puts the coarse tile before the (still missing)
	// fine tiles.
	list := m.Tiles(vp, 0, pages.Transform(pages.Layout[0]))
	if len(list) != 1 {
		t.Fatalf("paint list length = %d, want 1 (coarse tile only)", len(list))
	}

	// Once every fine tile is cached, the coarse tile is occluded and
	// evicted.
	src.finishAll()
	m.Update(src, pages, vp, RenderOptions{})
	m.Update(src, pages, vp, RenderOptions{})

	if _, ok := m.cache[0].cached[NewID(0, 0, 0, 800)]; ok {
		t.Error("fully occluded coarse tile was not evicted")
	}
}

func TestManagerStaleZRetired(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))
	src := &fakeSource{}

	vp := viewport(3600, 4800, 6.0)
	pages := onePage(6.0)

	m.Update(src, pages, vp, RenderOptions{})
	if len(src.requests) == 0 {
		t.Fatal("no requests issued")
	}

	// Zoom changes the z-level; all in-flight requests at the old z are
	// canceled.
	pages = onePage(7.0)
	vp.Scale = 7.0
	m.Update(src, pages, vp, RenderOptions{})

	for _, r := range src.requests {
		if r.pageSize == (docview.VecI{X: 3600, Y: 4800}) && !r.handle.released {
			t.Errorf("stale request (z=4800) not released: page %d rect %+v", r.page, r.rect)
			break
		}
	}
}

func TestManagerPaintOrderCoarseFirst(t *testing.T) {
	m := NewManager[int](testScheme(), docview.VecI{X: 1, Y: 1}, docview.V(25, 25))

	// Hand-craft a cache with tiles on three z-levels.
	entry := newPageCache[int]()
	entry.cached[NewID(0, 0, 0, 800)] = 1   // coarsest
	entry.cached[NewID(0, 0, 0, 2400)] = 2  // finer, still not current
	entry.cached[NewID(0, 0, 0, 4800)] = 3  // current z
	entry.cached[NewID(0, 1, 0, 4800)] = 4  // current z
	m.cache[0] = entry

	vp := viewport(3600, 4800, 6.0)
	pages := onePage(6.0)
	pageRect := pages.Transform(pages.Layout[0])

	list := m.Tiles(vp, 0, pageRect)
	if len(list) != 4 {
		t.Fatalf("paint list length = %d, want 4", len(list))
	}

	// Cross-level tiles first, z descending; current z last.
	if list[0].Data != 2 {
		t.Errorf("list[0] = %d, want 2 (finer non-current z first)", list[0].Data)
	}
	if list[1].Data != 1 {
		t.Errorf("list[1] = %d, want 1 (coarsest non-current z second)", list[1].Data)
	}
	for _, pt := range list[2:] {
		if pt.Data != 3 && pt.Data != 4 {
			t.Errorf("current-z tiles not last: got %d", pt.Data)
		}
	}
}
