package docview

// Viewport describes the currently visible part of the canvas.
//
// R is the viewport rectangle in screen pixels: its offset is the canvas
// translation (in pixels) and its size is the window size. Scale converts
// canvas points to pixels. The viewport is mutated by the UI and read-only
// to the rendering core.
type Viewport struct {
	R     Rect
	Scale float64
}

// ScreenRect returns the origin-aligned viewport rectangle, i.e. the
// screen area in viewport coordinates.
func (vp Viewport) ScreenRect() Rect {
	return Rect{Offs: Point{}, Size: vp.R.Size}
}
