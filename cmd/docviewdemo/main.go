// Package main renders a synthetic document to PNG frames.
//
// It wires the full stack end to end: a placeholder rasterizer behind
// the render provider, the tile and fallback caches, and the software
// painter. Three viewports are rendered: a zoomed-out overview, a
// zoomed-in detail and a panned detail. Frames are re-rendered until
// the asynchronous tile renders settle, mimicking a toolkit scheduling
// repaints on render completion.
//
// Output: docview_overview.png, docview_detail.png, docview_panned.png.
package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/canvas"
	"github.com/gogpu/docview/render"
)

const (
	frameW = 800
	frameH = 1000

	workers = 4

	// settleTimeout is how long a frame waits for further render
	// completions before it is considered final.
	settleTimeout = 250 * time.Millisecond

	maxFrames = 100
)

// repaintMonitor signals render completions, like a toolkit scheduling
// the next repaint.
type repaintMonitor struct {
	notify chan struct{}
}

func (m repaintMonitor) OnExecute()  {}
func (m repaintMonitor) OnCanceled() {}

func (m repaintMonitor) OnComplete() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func main() {
	// A handful of A4-ish pages with a couple of landscape ones mixed
	// in.
	sizes := []docview.Vec{
		{X: 595, Y: 842},
		{X: 595, Y: 842},
		{X: 842, Y: 595},
		{X: 595, Y: 842},
		{X: 420, Y: 595},
		{X: 595, Y: 842},
	}

	doc := &render.SyntheticDocument{Sizes: sizes}
	layout := canvas.VerticalLayout{}.Compute(sizes, 10)

	monitor := repaintMonitor{notify: make(chan struct{}, 64)}

	cfg := canvas.NewConfig(canvas.WithWorkers(workers))

	provider := render.NewProvider(doc, render.Placeholder{}, cfg.Workers, monitor)
	defer provider.Close()

	c := canvas.New(layout, provider)

	// Fit the document width into the frame with a small margin.
	overview := (frameW - 40.0) / layout.Bounds.XMax

	views := []struct {
		name string
		vp   docview.Viewport
	}{
		{
			name: "overview",
			vp: docview.Viewport{
				R:     docview.NewRect(docview.Pt(-20, -20), docview.V(frameW, frameH)),
				Scale: overview,
			},
		},
		{
			name: "detail",
			vp: docview.Viewport{
				R:     docview.NewRect(docview.Pt(200, 3500), docview.V(frameW, frameH)),
				Scale: 4,
			},
		},
		{
			name: "panned",
			vp: docview.Viewport{
				R:     docview.NewRect(docview.Pt(800, 4300), docview.V(frameW, frameH)),
				Scale: 4,
			},
		},
	}

	for _, view := range views {
		img := renderSettled(c, monitor.notify, view.vp)

		name := fmt.Sprintf("docview_%s.png", view.name)
		if err := writePNG(name, img); err != nil {
			log.Fatalf("writing %s: %v", name, err)
		}

		fmt.Printf("wrote %s (scale %g)\n", name, view.vp.Scale)
	}
}

// renderSettled renders frames until no further render completes within
// the settle timeout, then returns the last frame.
func renderSettled(c *canvas.Canvas, notify <-chan struct{}, vp docview.Viewport) *image.RGBA {
	var img *image.RGBA

	for i := 0; i < maxFrames; i++ {
		img = image.NewRGBA(image.Rect(0, 0, frameW, frameH))
		c.Render(vp, canvas.NewSoftwarePainter(img))

		select {
		case <-notify:
		case <-time.After(settleTimeout):
			return img
		}
	}

	return img
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}

	return f.Close()
}
