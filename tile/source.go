package tile

import "github.com/gogpu/docview"

// Priority orders render requests. Higher priorities are rendered first.
type Priority int

// Render priorities, from lowest to highest.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// PriorityCount is the number of distinct priorities.
const PriorityCount = 3

// RenderFlags select rasterizer features for a request.
type RenderFlags uint32

// Rasterizer feature flags.
const (
	// FlagAnnotations renders page annotations.
	FlagAnnotations RenderFlags = 1 << iota

	// FlagLCDText enables subpixel text rendering.
	FlagLCDText
)

// RenderOptions carries per-request rasterizer settings.
type RenderOptions struct {
	Flags      RenderFlags
	Background docview.RGBA
}

// Handle is a remote handle for a requested bitmap.
//
// Joining a handle whose render failed returns the error; the managers
// respond by dropping the entry and re-requesting on the next frame.
type Handle[T any] interface {
	// Finished reports whether the render has completed.
	Finished() bool

	// SetPriority updates the priority of the underlying task. A no-op
	// if the task is already executing or has completed.
	SetPriority(pri Priority)

	// Join consumes the handle and returns the rendered data.
	Join() (T, error)

	// Release cancels the underlying task if it has not started.
	// Discarding a pending handle without releasing it leaves the stale
	// request in the render queues.
	Release()
}

// Source issues render requests within a provider request scope.
//
// Request asks for a bitmap of the tile rectangle rect (in pixels,
// aligned at the page origin) of the given page rendered at pageSize
// pixels overall.
type Source[T any] interface {
	Request(page int, pageSize docview.VecI, rect docview.RectI, opts RenderOptions, pri Priority) Handle[T]
}

// Provider opens batched request scopes. The provider may acquire
// per-range resources (such as cached page objects) when the scope
// begins and release them when it ends.
type Provider[T any] interface {
	Request(visible Range, fn func(Source[T]))
}

// Range is a half-open range of page indices.
type Range struct {
	Start, End int
}

// Contains reports whether the page index i lies in the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Len returns the number of pages in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// PageData describes the document layout for one frame.
type PageData struct {
	// Layout holds one rectangle per page, in canvas coordinates.
	Layout []docview.Rect

	// Visible is the range of pages intersecting the screen.
	Visible Range

	// Transform maps a page rectangle from canvas coordinates to
	// viewport coordinates, rounded for pixel-perfect placement.
	Transform func(docview.Rect) docview.Rect
}
