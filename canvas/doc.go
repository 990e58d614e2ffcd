// Package canvas coordinates document frames.
//
// The Canvas owns the page layout and the tile and fallback caches. Once
// per frame, Render computes the visible page range, drives the cache
// updates through the render provider and emits paint commands to a
// Painter. The coordinator never blocks on a render: a page is painted
// from whatever the caches currently hold, backed by a whole-page
// fallback bitmap.
package canvas
