// Package docview implements the multi-resolution tile rendering subsystem
// behind an interactive viewer for paginated documents.
//
// # Overview
//
// Given a sequence of pages laid out on an infinite scrolling and zooming
// canvas, docview decides which bitmaps to ask a rasterizer to produce, at
// which resolutions and in what priority order, and retains and evicts
// previously produced bitmaps so that every frame can be composited from the
// best currently-available data without blocking the UI thread.
//
// # Architecture
//
// The module is organized into:
//   - docview (root): geometry, viewport, bitmap and error types, logging
//   - exec: a fixed thread-pool executor with cancellable, reprioritisable
//     tasks backed by intrusive per-priority queues
//   - tile: tiling schemes, the tile cache manager and the multi-level
//     fallback manager
//   - render: the executor-backed tile source, the rasterizer contract and
//     a built-in placeholder rasterizer
//   - canvas: the per-frame coordinator, page layout providers and the
//     painter contract
//
// # Coordinate Systems
//
// Three coordinate systems are used throughout:
//   - Canvas coordinates: document points on the scroll surface
//   - Viewport coordinates: window pixels, origin at the top-left
//   - Page coordinates: pixels relative to a single page's top-left corner
//
// The relation between canvas and viewport coordinates is defined by the
// viewport scale and offset; the relation between page and canvas
// coordinates by the page offset in the layout.
//
// # Threading
//
// The coordinator runs on a single thread and never blocks waiting for a
// tile: it either finds a bitmap cached or paints the best lower-resolution
// fallback. Rendering runs on a fixed pool of worker goroutines.
package docview
