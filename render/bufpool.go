package render

import (
	"sync"

	"github.com/gogpu/docview"
)

// bufferPool recycles bitmap pixel buffers between renders.
//
// Get zeroes a reused buffer so rasterizers start from a clean canvas.
// The free list is bounded; buffers beyond the bound are dropped and
// left to the garbage collector. Bitmaps handed to the tile caches keep
// their buffers, so the pool mainly absorbs the churn of failed and
// retried renders.
type bufferPool struct {
	mu   sync.Mutex
	free [][]byte
	max  int
}

func newBufferPool(max int) *bufferPool {
	return &bufferPool{max: max}
}

// Get returns a zeroed buffer of n bytes, reusing a pooled one when its
// capacity suffices.
func (p *bufferPool) Get(n int) []byte {
	p.mu.Lock()
	for i := len(p.free) - 1; i >= 0; i-- {
		buf := p.free[i]
		if cap(buf) < n {
			continue
		}

		p.free = append(p.free[:i], p.free[i+1:]...)
		p.mu.Unlock()

		docview.Logger().Debug("render: buffer reused", "cap", cap(buf), "size", n)

		buf = buf[:n]
		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]byte, n)
}

// Put returns a buffer to the pool.
func (p *bufferPool) Put(buf []byte) {
	if cap(buf) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) < p.max {
		p.free = append(p.free, buf)
	}
}
