// Package render bridges the tile managers to a page rasterizer.
//
// The Provider turns tile render requests into tasks on a priority
// executor and caches loaded page objects across requests. The actual
// pixel work is delegated to a Rasterizer; the built-in Placeholder
// rasterizer draws schematic page content for demos and tests.
package render
