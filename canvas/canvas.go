package canvas

import (
	"math"

	"github.com/gogpu/docview"
	"github.com/gogpu/docview/tile"
)

// Zoom scale bounds, for the gesture glue of embedding toolkits.
const (
	MinScale = 1e-2
	MaxScale = 1e4
)

// ClampScale clamps a zoom scale to the supported range.
func ClampScale(s float64) float64 {
	return math.Min(math.Max(s, MinScale), MaxScale)
}

// Page shadow parameters.
var shadowColor = docview.RGBA{A: 0.5}

const (
	shadowDx   = 0.0
	shadowDy   = 1.0
	shadowBlur = 3.5
)

// Canvas coordinates the rendering of one document.
//
// All methods must be called from a single goroutine, typically the UI
// thread of the embedding toolkit. Render never blocks on the render
// workers.
type Canvas struct {
	layout   Layout
	provider tile.Provider[docview.Bitmap]

	tiles    *tile.Manager[docview.Bitmap]
	fallback *tile.FallbackManager[docview.Bitmap]

	mainOpts tile.RenderOptions
	fbckOpts tile.RenderOptions
}

// New creates a canvas painting the given layout with bitmaps from the
// given provider.
func New(layout Layout, provider tile.Provider[docview.Bitmap], opts ...Option) *Canvas {
	cfg := NewConfig(opts...)

	scheme := tile.NewHybridScheme(cfg.TileSize, cfg.MinTileZ)

	docview.Logger().Info("canvas: document attached",
		"pages", len(layout.Rects),
		"bounds_w", layout.Bounds.XMax-layout.Bounds.XMin,
		"bounds_h", layout.Bounds.YMax-layout.Bounds.YMin)

	return &Canvas{
		layout:   layout,
		provider: provider,
		tiles:    tile.NewManager[docview.Bitmap](scheme, cfg.Halo, cfg.MinRetainSize),
		fallback: tile.NewFallbackManager[docview.Bitmap](cfg.FallbackSpecs),
		mainOpts: cfg.MainOptions,
		fbckOpts: cfg.FallbackOptions,
	}
}

// Bounds returns the canvas extent of the whole document, in points.
func (c *Canvas) Bounds() docview.Bounds {
	return c.layout.Bounds
}

// Render produces the paint commands for one frame.
//
// It determines the visible page range, updates the fallback and tile
// caches within one provider request scope and paints each visible page:
// drop shadow, background, best fallback, then the cached tiles clipped
// to the on-screen part of the page.
func (c *Canvas) Render(vp docview.Viewport, painter Painter) {
	// Page rectangles move from canvas coordinates (points) to viewport
	// coordinates (pixels): scale, shift by the viewport offset, round
	// for pixel-perfect placement.
	transform := func(r docview.Rect) docview.Rect {
		offs := docview.Pt(
			r.Offs.X*vp.Scale-vp.R.Offs.X,
			r.Offs.Y*vp.Scale-vp.R.Offs.Y,
		)
		return docview.NewRect(offs, r.Size.Mul(vp.Scale)).Round()
	}

	screen := docview.Rect{Size: vp.R.Size}

	visible := tile.Range{Start: len(c.layout.Rects), End: 0}
	for i, r := range c.layout.Rects {
		if transform(r).Intersects(screen) {
			visible.Start = min(visible.Start, i)
			visible.End = max(visible.End, i+1)
		}
	}
	if visible.Start > visible.End {
		visible = tile.Range{}
	}

	pages := &tile.PageData{
		Layout:    c.layout.Rects,
		Visible:   visible,
		Transform: transform,
	}

	c.provider.Request(visible, func(src tile.Source[docview.Bitmap]) {
		c.fallback.Update(src, pages, vp, c.fbckOpts)
		c.tiles.Update(src, pages, vp, c.mainOpts)
	})

	for i := visible.Start; i < visible.End; i++ {
		pageRect := transform(c.layout.Rects[i])
		pageClipped := pageRect.Clip(screen)

		// Recompute the scale for the rounded page rectangle.
		scale := pageRect.Size.X / c.layout.Rects[i].Size.X
		vpAdj := docview.Viewport{R: vp.R, Scale: scale}

		painter.Shadow(pageRect, shadowColor, shadowDx, shadowDy, 0, shadowBlur)
		painter.Color(docview.White, pageClipped)

		if bmp, ok := c.fallback.Fallback(i); ok {
			painter.Texture(bmp, pageRect)
		}

		list := c.tiles.Tiles(vpAdj, i, pageRect)

		painter.PushClip(pageClipped)
		for _, pt := range list {
			painter.Texture(pt.Data, pt.Rect)
		}
		painter.PopClip()
	}
}
