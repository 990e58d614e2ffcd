package canvas

import (
	"github.com/gogpu/docview"
	"github.com/gogpu/docview/tile"
)

// Config holds the tunable parameters of a canvas. Build one through
// Option funcs:
//
//	c := canvas.New(layout, provider,
//		canvas.WithWorkers(4),
//		canvas.WithHalo(2, 2))
type Config struct {
	// TileSize is the pixel size of tiles when a page is tiled.
	TileSize docview.VecI

	// MinTileZ is the page-size threshold above which pages are split
	// into tiles.
	MinTileZ int64

	// Workers is the number of render worker goroutines. The canvas
	// itself does not start workers; callers pass this to the render
	// provider.
	Workers int

	// Halo is the number of extra tile rows/columns pre-requested
	// around the visible area.
	Halo docview.VecI

	// MinRetainSize drops cross-level tiles below this on-screen size.
	MinRetainSize docview.Vec

	// FallbackSpecs configures the whole-page fallback levels.
	FallbackSpecs []tile.FallbackSpec

	// MainOptions are the render options for tiles, FallbackOptions for
	// whole-page fallbacks.
	MainOptions     tile.RenderOptions
	FallbackOptions tile.RenderOptions
}

// Option configures a Canvas during creation.
type Option func(*Config)

// DefaultConfig returns the default canvas configuration: 1024x1024
// tiles above a 3072px threshold, a one-tile halo, one render worker and
// five fallback levels. The lowest fallback level covers every page of
// the document unconditionally, so a page is never painted blank.
func DefaultConfig() Config {
	return Config{
		TileSize:      docview.VecI{X: 1024, Y: 1024},
		MinTileZ:      3072,
		Workers:       1,
		Halo:          docview.VecI{X: 1, Y: 1},
		MinRetainSize: docview.V(25, 25),
		FallbackSpecs: []tile.FallbackSpec{
			{
				Halo:         tile.UnboundedHalo,
				RenderLimits: docview.VecI{X: 128, Y: 128},
			},
			{
				Halo:            24,
				RenderThreshold: docview.V(256, 256),
				RenderLimits:    docview.VecI{X: 256, Y: 256},
			},
			{
				Halo:            1,
				RenderThreshold: docview.V(1024, 1024),
				RenderLimits:    docview.VecI{X: 1024, Y: 1024},
			},
			{
				Halo:            0,
				RenderThreshold: docview.V(2048, 2048),
				RenderLimits:    docview.VecI{X: 2048, Y: 2048},
			},
			{
				Halo:            0,
				RenderThreshold: docview.V(3072, 3072),
				RenderLimits:    docview.VecI{X: 3072, Y: 3072},
			},
		},
		MainOptions: tile.RenderOptions{
			Flags:      tile.FlagLCDText | tile.FlagAnnotations,
			Background: docview.White,
		},
		FallbackOptions: tile.RenderOptions{
			Flags:      tile.FlagAnnotations,
			Background: docview.White,
		},
	}
}

// NewConfig builds a configuration from the defaults and the given
// options.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTileSize sets the tile pixel size.
func WithTileSize(w, h int64) Option {
	return func(c *Config) {
		c.TileSize = docview.VecI{X: w, Y: h}
	}
}

// WithMinTileZ sets the page-size threshold above which pages are
// tiled.
func WithMinTileZ(z int64) Option {
	return func(c *Config) {
		c.MinTileZ = z
	}
}

// WithWorkers sets the number of render workers.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithHalo sets the number of pre-requested tile rows and columns
// around the visible area.
func WithHalo(x, y int64) Option {
	return func(c *Config) {
		c.Halo = docview.VecI{X: x, Y: y}
	}
}

// WithMinRetainSize sets the on-screen size below which cross-level
// tiles are dropped.
func WithMinRetainSize(w, h float64) Option {
	return func(c *Config) {
		c.MinRetainSize = docview.V(w, h)
	}
}

// WithFallbackSpecs replaces the fallback level configuration.
func WithFallbackSpecs(specs ...tile.FallbackSpec) Option {
	return func(c *Config) {
		c.FallbackSpecs = specs
	}
}

// WithRenderOptions sets the render options for tiles and fallbacks.
func WithRenderOptions(main, fallback tile.RenderOptions) Option {
	return func(c *Config) {
		c.MainOptions = main
		c.FallbackOptions = fallback
	}
}
