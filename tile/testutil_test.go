package tile

import (
	"errors"

	"github.com/gogpu/docview"
)

// fakeHandle is a manually-driven render handle for tests. The data type
// is int: a token identifying the request.
type fakeHandle struct {
	data     int
	err      error
	pri      Priority
	finished bool
	released bool
	joined   bool
}

func (h *fakeHandle) Finished() bool            { return h.finished }
func (h *fakeHandle) SetPriority(pri Priority)  { h.pri = pri }
func (h *fakeHandle) Release()                  { h.released = true }
func (h *fakeHandle) Join() (int, error) {
	h.joined = true
	return h.data, h.err
}

// fakeRequest records the geometry of one render request.
type fakeRequest struct {
	page     int
	pageSize docview.VecI
	rect     docview.RectI
	pri      Priority
	handle   *fakeHandle
}

// fakeSource hands out fakeHandles and records every request.
type fakeSource struct {
	requests []fakeRequest
	next     int
}

func (s *fakeSource) Request(page int, pageSize docview.VecI, rect docview.RectI,
	_ RenderOptions, pri Priority) Handle[int] {

	s.next++
	h := &fakeHandle{data: s.next, pri: pri}

	s.requests = append(s.requests, fakeRequest{
		page:     page,
		pageSize: pageSize,
		rect:     rect,
		pri:      pri,
		handle:   h,
	})

	return h
}

// finishAll marks every outstanding handle as finished.
func (s *fakeSource) finishAll() {
	for _, r := range s.requests {
		r.handle.finished = true
	}
}

// failAll marks every outstanding handle as finished with an error.
func (s *fakeSource) failAll() {
	for _, r := range s.requests {
		r.handle.finished = true
		r.handle.err = errors.New("render rejected")
	}
}

// countPriority returns the number of recorded requests at the given
// priority.
func (s *fakeSource) countPriority(pri Priority) int {
	n := 0
	for _, r := range s.requests {
		if r.pri == pri {
			n++
		}
	}
	return n
}

// identityPages builds PageData for a single-page document whose page
// rectangle in viewport coordinates is given directly.
func identityPages(layout []docview.Rect, visible Range, scale float64) *PageData {
	return &PageData{
		Layout:  layout,
		Visible: visible,
		Transform: func(r docview.Rect) docview.Rect {
			return r.Scale(scale).Round()
		},
	}
}
