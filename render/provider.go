package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/exec"
	"github.com/gogpu/docview/tile"
)

// maxPooledBuffers bounds the render buffer free list.
const maxPooledBuffers = 16

// Provider turns tile render requests into executor tasks.
//
// The provider owns the worker executor and a cache of loaded page
// objects. The page cache is touched only from worker tasks, keeping
// document access off the frame path.
type Provider struct {
	doc    Document
	raster Rasterizer
	exec   *exec.Executor
	mon    exec.Monitor

	mu    sync.Mutex
	pages map[int]PageRef

	pool *bufferPool
}

var _ tile.Provider[docview.Bitmap] = (*Provider)(nil)

// NewProvider creates a render provider for the given document and
// rasterizer with the given number of render workers. The monitor is
// attached to every render task; pass nil if no notifications are
// needed.
func NewProvider(doc Document, r Rasterizer, workers int, m exec.Monitor) *Provider {
	if m == nil {
		m = exec.NopMonitor{}
	}

	return &Provider{
		doc:    doc,
		raster: r,
		exec:   exec.NewExecutor(tile.PriorityCount, workers),
		mon:    m,
		pages:  make(map[int]PageRef),
		pool:   newBufferPool(maxPooledBuffers),
	}
}

// Close stops the render workers. Outstanding handles remain valid but
// queued renders will not complete.
func (p *Provider) Close() {
	p.exec.Close()
}

// Request implements tile.Provider.
//
// A high-priority prune task runs before the renders of the scope so
// that page objects of scrolled-away pages are dropped quickly; a
// low-priority prune after the scope catches pages loaded by renders
// that were still in flight during the first one.
func (p *Provider) Request(visible tile.Range, fn func(tile.Source[docview.Bitmap])) {
	p.prune(visible, exec.Priority(tile.PriorityHigh))
	fn(&source{p: p, visible: visible})
	p.prune(visible, exec.Priority(tile.PriorityLow))
}

func (p *Provider) prune(visible tile.Range, pri exec.Priority) {
	exec.Submit(p.exec, pri, func() struct{} {
		p.mu.Lock()
		defer p.mu.Unlock()

		for i := range p.pages {
			if !visible.Contains(i) {
				delete(p.pages, i)
			}
		}

		return struct{}{}
	})
}

// page returns the cached page object, loading it on a miss. Only pages
// of the visible range are inserted into the cache; out-of-range renders
// (fallback halos) load the page for the single render.
func (p *Provider) page(i int, visible tile.Range) (PageRef, error) {
	p.mu.Lock()
	if ref, ok := p.pages[i]; ok {
		p.mu.Unlock()
		return ref, nil
	}
	p.mu.Unlock()

	ref, err := p.doc.Page(i)
	if err != nil {
		return nil, err
	}

	if visible.Contains(i) {
		p.mu.Lock()
		p.pages[i] = ref
		p.mu.Unlock()
	}

	return ref, nil
}

// render runs on a worker goroutine. Rasterizer panics are converted to
// render errors so the managers can retry instead of crashing the
// worker's joiner.
func (p *Provider) render(page int, visible tile.Range, pageSize docview.VecI,
	rect docview.RectI, opts tile.RenderOptions) (res renderResult) {

	defer func() {
		if r := recover(); r != nil {
			res = renderResult{err: &docview.RenderError{
				Page: page,
				Err:  fmt.Errorf("rasterizer panic: %v", r),
			}}
		}
	}()

	ref, err := p.page(page, visible)
	if err != nil {
		return renderResult{err: &docview.RenderError{Page: page, Err: err}}
	}

	w, h := int(rect.Size.X), int(rect.Size.Y)
	bmp := docview.Bitmap{
		Data:   p.pool.Get(w * h * 3),
		Width:  w,
		Height: h,
		Stride: w * 3,
	}

	if err := p.raster.RenderPage(ref, pageSize, rect, opts, bmp); err != nil {
		p.pool.Put(bmp.Data)
		return renderResult{err: &docview.RenderError{Page: page, Err: err}}
	}

	return renderResult{bmp: bmp}
}

// source issues render requests within one provider request scope.
type source struct {
	p       *Provider
	visible tile.Range
}

type renderResult struct {
	bmp docview.Bitmap
	err error
}

// Request implements tile.Source.
func (s *source) Request(page int, pageSize docview.VecI, rect docview.RectI,
	opts tile.RenderOptions, pri tile.Priority) tile.Handle[docview.Bitmap] {

	p := s.p
	visible := s.visible

	h := exec.SubmitMonitored(p.exec, p.mon, exec.Priority(pri), func() renderResult {
		return p.render(page, visible, pageSize, rect, opts)
	})

	docview.Logger().Debug("render: tile submitted",
		"page", page, "w", rect.Size.X, "h", rect.Size.Y,
		"pri", int(pri), "queued", p.exec.Pending())

	return &handle{h: h}
}

// handle adapts an executor handle to the tile.Handle contract.
type handle struct {
	h *exec.Handle[renderResult]
}

func (h *handle) Finished() bool                 { return h.h.Finished() }
func (h *handle) SetPriority(pri tile.Priority)  { h.h.SetPriority(exec.Priority(pri)) }
func (h *handle) Release()                       { h.h.Release() }

func (h *handle) Join() (docview.Bitmap, error) {
	res, err := h.h.Join()
	if err != nil {
		return docview.Bitmap{}, err
	}
	return res.bmp, res.err
}
