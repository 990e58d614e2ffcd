package canvas

import (
	"testing"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/tile"
)

// stubHandle is a manually-driven bitmap handle.
type stubHandle struct {
	bmp      docview.Bitmap
	finished bool
	released bool
	pri      tile.Priority
}

func (h *stubHandle) Finished() bool                { return h.finished }
func (h *stubHandle) SetPriority(pri tile.Priority) { h.pri = pri }
func (h *stubHandle) Release()                      { h.released = true }

func (h *stubHandle) Join() (docview.Bitmap, error) {
	return h.bmp, nil
}

// stubProvider records request scopes and hands out stub handles.
type stubProvider struct {
	scopes  []tile.Range
	handles []*stubHandle
}

func (p *stubProvider) Request(visible tile.Range, fn func(tile.Source[docview.Bitmap])) {
	p.scopes = append(p.scopes, visible)
	fn(stubSource{p: p})
}

// finishAll completes every outstanding render with a 1x1 bitmap.
func (p *stubProvider) finishAll() {
	for _, h := range p.handles {
		h.bmp = docview.NewBitmap(1, 1)
		h.finished = true
	}
}

type stubSource struct {
	p *stubProvider
}

func (s stubSource) Request(page int, pageSize docview.VecI, rect docview.RectI,
	opts tile.RenderOptions, pri tile.Priority) tile.Handle[docview.Bitmap] {

	h := &stubHandle{pri: pri}
	s.p.handles = append(s.p.handles, h)
	return h
}

// threePageCanvas builds a canvas with three 100x100 pages in a vertical
// layout with a 10pt gap.
func threePageCanvas(p *stubProvider) *Canvas {
	sizes := []docview.Vec{{X: 100, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 100}}
	layout := VerticalLayout{}.Compute(sizes, 10)
	return New(layout, p)
}

func ops(r *Recorder) []Op {
	list := make([]Op, len(r.Commands))
	for i, c := range r.Commands {
		list[i] = c.Op
	}
	return list
}

func opsEqual(a, b []Op) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCanvasVisibleRange(t *testing.T) {
	p := &stubProvider{}
	c := threePageCanvas(p)

	// The viewport shows exactly the second page (canvas y 110..210).
	vp := docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 110), docview.V(100, 100)),
		Scale: 1,
	}

	c.Render(vp, &Recorder{})

	if len(p.scopes) != 1 {
		t.Fatalf("request scopes = %d, want 1", len(p.scopes))
	}
	if p.scopes[0] != (tile.Range{Start: 1, End: 2}) {
		t.Errorf("visible range = %+v, want [1, 2)", p.scopes[0])
	}
}

func TestCanvasEmptyVisibleRange(t *testing.T) {
	p := &stubProvider{}
	c := threePageCanvas(p)

	// The viewport is scrolled past the document.
	vp := docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 5000), docview.V(100, 100)),
		Scale: 1,
	}

	rec := &Recorder{}
	c.Render(vp, rec)

	if p.scopes[0] != (tile.Range{}) {
		t.Errorf("visible range = %+v, want [0, 0)", p.scopes[0])
	}
	if len(rec.Commands) != 0 {
		t.Errorf("recorded %d commands, want none for an empty range", len(rec.Commands))
	}
}

func TestCanvasPaintOrder(t *testing.T) {
	p := &stubProvider{}
	c := threePageCanvas(p)

	vp := docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 0), docview.V(100, 100)),
		Scale: 1,
	}

	// First frame: nothing rendered yet, but the page still gets its
	// shadow and background.
	rec := &Recorder{}
	c.Render(vp, rec)

	want := []Op{OpShadow, OpColor, OpPushClip, OpPopClip}
	if got := ops(rec); !opsEqual(got, want) {
		t.Fatalf("first frame ops = %v, want %v", got, want)
	}

	shadow := rec.Commands[0]
	if shadow.Dy != 1 || shadow.Blur != 3.5 || shadow.Color.A != 0.5 {
		t.Errorf("shadow = dy %v blur %v alpha %v, want dy 1 blur 3.5 alpha 0.5",
			shadow.Dy, shadow.Blur, shadow.Color.A)
	}
	if rec.Commands[1].Color != docview.White {
		t.Errorf("background color = %+v, want white", rec.Commands[1].Color)
	}

	// Let every render complete; the next frame paints the fallback
	// under the clipped tile.
	p.finishAll()
	c.Render(vp, &Recorder{}) // harvest frame

	rec.Reset()
	c.Render(vp, rec)

	want = []Op{OpShadow, OpColor, OpTexture, OpPushClip, OpTexture, OpPopClip}
	if got := ops(rec); !opsEqual(got, want) {
		t.Fatalf("ops after completion = %v, want %v", got, want)
	}
}

func TestCanvasClipsTilesToScreen(t *testing.T) {
	p := &stubProvider{}
	c := threePageCanvas(p)

	// Zoomed in: the page extends past the 100x100 screen on the right
	// and bottom.
	vp := docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 0), docview.V(100, 100)),
		Scale: 2,
	}

	rec := &Recorder{}
	c.Render(vp, rec)

	var clip *Command
	for i := range rec.Commands {
		if rec.Commands[i].Op == OpPushClip {
			clip = &rec.Commands[i]
			break
		}
	}
	if clip == nil {
		t.Fatal("no clip recorded")
	}

	want := docview.NewRect(docview.Pt(0, 0), docview.V(100, 100))
	if clip.Rect != want {
		t.Errorf("clip rect = %+v, want the screen %+v", clip.Rect, want)
	}
}

func TestCanvasFallbackAndTilePriorities(t *testing.T) {
	p := &stubProvider{}
	c := threePageCanvas(p)

	vp := docview.Viewport{
		R:     docview.NewRect(docview.Pt(0, 0), docview.V(100, 100)),
		Scale: 1,
	}

	c.Render(vp, &Recorder{})

	// Fallbacks for visible pages are requested at high priority,
	// fallbacks for halo pages at low, visible tiles at medium.
	var high, medium, low int
	for _, h := range p.handles {
		switch h.pri {
		case tile.PriorityHigh:
			high++
		case tile.PriorityMedium:
			medium++
		case tile.PriorityLow:
			low++
		}
	}

	if high != 1 {
		t.Errorf("high-priority requests = %d, want 1 (visible page fallback)", high)
	}
	if medium != 1 {
		t.Errorf("medium-priority requests = %d, want 1 (visible tile)", medium)
	}
	if low != 2 {
		t.Errorf("low-priority requests = %d, want 2 (fallbacks of pages 1 and 2)", low)
	}
}

func TestClampScale(t *testing.T) {
	if got := ClampScale(0); got != MinScale {
		t.Errorf("ClampScale(0) = %v, want %v", got, MinScale)
	}
	if got := ClampScale(1e6); got != MaxScale {
		t.Errorf("ClampScale(1e6) = %v, want %v", got, MaxScale)
	}
	if got := ClampScale(2); got != 2 {
		t.Errorf("ClampScale(2) = %v, want 2", got)
	}
}
