package tile

import (
	"math"
	"sort"

	"github.com/gogpu/docview"
)

// FallbackSpec configures one level of the fallback manager.
type FallbackSpec struct {
	// Halo is the number of pages around the visible range for which
	// fallbacks are rendered. Use UnboundedHalo to cover the whole
	// document.
	Halo int

	// RenderThreshold is the minimum page width and/or height (in
	// viewport pixels) required for a fallback of this level to be
	// rendered.
	RenderThreshold docview.Vec

	// RenderLimits is the maximum bitmap size for the rendered page.
	// The page is scaled to fit inside the limits, preserving aspect
	// ratio.
	RenderLimits docview.VecI
}

// UnboundedHalo marks a fallback level covering every page of the
// document. A lowest level configured with an unbounded halo and a zero
// threshold guarantees that the painter never has to show a blank page.
const UnboundedHalo = math.MaxInt

// FallbackManager keeps low-resolution whole-page bitmaps at discrete
// levels beneath the tile cache.
//
// Like the tile manager it is driven by the coordinator once per frame
// and is not safe for concurrent use.
type FallbackManager[T any] struct {
	levels []*fallbackLevel[T]
}

type fallbackLevel[T any] struct {
	spec  FallbackSpec
	cache map[int]*fallbackEntry[T]

	// snapshot records the last fully-completed (scale, range) of this
	// level; it is cleared whenever a page of the range is missing.
	snapshot *fallbackSnapshot
}

// fallbackEntry is a three-state cache slot: empty, pending (handle set)
// or cached (data set).
type fallbackEntry[T any] struct {
	pending Handle[T]
	data    T
	cached  bool
}

type fallbackSnapshot struct {
	scale float64
	pages Range
}

// NewFallbackManager creates a fallback manager from the given level
// specifications. Levels are sorted ascending by their render limits.
func NewFallbackManager[T any](specs []FallbackSpec) *FallbackManager[T] {
	levels := make([]*fallbackLevel[T], 0, len(specs))
	for _, spec := range specs {
		levels = append(levels, &fallbackLevel[T]{
			spec:  spec,
			cache: make(map[int]*fallbackEntry[T]),
		})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		a, b := levels[i].spec.RenderLimits, levels[j].spec.RenderLimits
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	return &FallbackManager[T]{levels: levels}
}

// Update renders missing fallbacks for all pages in each level's
// extended range.
//
// Levels are processed from highest resolution to lowest so that a
// complete coarser level remains usable while finer ones are still
// re-rendering, and a finer completion supersedes a coarser one within
// the same frame.
func (m *FallbackManager[T]) Update(source Source[T], pages *PageData, vp docview.Viewport, opts RenderOptions) {
	for i := len(m.levels) - 1; i >= 0; i-- {
		level := m.levels[i]

		pageRange := level.spec.pageRange(len(pages.Layout), pages.Visible)

		if !level.outdated(vp, pageRange) {
			continue
		}

		// Remove fallbacks for out-of-range pages.
		for page, entry := range level.cache {
			if !pageRange.Contains(page) {
				entry.release()
				delete(level.cache, page)
			}
		}

		complete := true

		for page := pageRange.Start; page < pageRange.End; page++ {
			pageRectPt := pages.Layout[page]
			pageRect := pages.Transform(pageRectPt)

			// Skip pages below the render threshold, dropping any entry
			// we have for them.
			if pageRect.Size.X < level.spec.RenderThreshold.X &&
				pageRect.Size.Y < level.spec.RenderThreshold.Y {
				if entry, ok := level.cache[page]; ok {
					entry.release()
					delete(level.cache, page)
				}
				continue
			}

			entry := level.cache[page]
			if entry == nil {
				entry = &fallbackEntry[T]{}
				level.cache[page] = entry
			}

			if entry.cached {
				continue
			}

			pri := PriorityLow
			if pages.Visible.Contains(page) {
				pri = PriorityHigh
			}

			// Harvest a finished render.
			if entry.pending != nil && entry.pending.Finished() {
				data, err := entry.pending.Join()
				entry.pending = nil

				if err != nil {
					docview.Logger().Warn("tile: fallback render failed, dropping entry",
						"page", page, "limits", level.spec.RenderLimits, "err", err)
					complete = false
					continue
				}

				entry.data = data
				entry.cached = true
				continue
			}

			// Still in flight: refresh the priority.
			if entry.pending != nil {
				entry.pending.SetPriority(pri)
				complete = false
				continue
			}

			// Scale the page to fit inside the render limits, preserving
			// aspect ratio.
			scaleX := float64(level.spec.RenderLimits.X) / pageRectPt.Size.X
			scaleY := float64(level.spec.RenderLimits.Y) / pageRectPt.Size.Y
			scale := math.Min(scaleX, scaleY)

			pageSize := docview.VecI{
				X: int64(math.Round(pageRectPt.Size.X * scale)),
				Y: int64(math.Round(pageRectPt.Size.Y * scale)),
			}
			rect := docview.NewRectI(docview.PointI{}, pageSize)

			entry.pending = source.Request(page, pageSize, rect, opts, pri)
			complete = false
		}

		if complete {
			level.snapshot = &fallbackSnapshot{scale: vp.Scale, pages: pageRange}
		} else {
			level.snapshot = nil
		}
	}
}

// Fallback returns the cached bitmap from the highest-resolution level
// that has one for the given page.
func (m *FallbackManager[T]) Fallback(page int) (T, bool) {
	for i := len(m.levels) - 1; i >= 0; i-- {
		if entry, ok := m.levels[i].cache[page]; ok && entry.cached {
			return entry.data, true
		}
	}

	var zero T
	return zero, false
}

// pageRange returns the level's extended page range, clamped to the
// document.
func (s FallbackSpec) pageRange(n int, base Range) Range {
	halo := s.Halo
	if halo > n {
		halo = n
	}

	return Range{
		Start: max(base.Start-halo, 0),
		End:   min(base.End+halo, n),
	}
}

// outdated reports whether the level needs an update for the given
// viewport and page range.
func (l *fallbackLevel[T]) outdated(vp docview.Viewport, pageRange Range) bool {
	if l.snapshot == nil {
		return true
	}

	if l.snapshot.pages != pageRange {
		return true
	}

	// Levels that render unconditionally are scale-independent: their
	// bitmaps are sized by the render limits alone.
	if l.spec.RenderThreshold.X < 1 || l.spec.RenderThreshold.Y < 1 {
		return false
	}

	return l.snapshot.scale != vp.Scale
}

// release cancels an in-flight render of the entry.
func (e *fallbackEntry[T]) release() {
	if e.pending != nil {
		e.pending.Release()
	}
}
