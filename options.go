// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/lazyglyph/face"
	"github.com/gogpu/lazyglyph/internal/pictograph"
	"github.com/gogpu/lazyglyph/raster"
)

const (
	// DefaultWorkerDelay is the pause between two background generations.
	DefaultWorkerDelay = time.Millisecond

	// DefaultBasePath is where bundled font files are looked up.
	DefaultBasePath = "Assets/FontFile"
)

// Option configures an Engine during creation.
//
// Example:
//
//	e := lazyglyph.New(
//	    lazyglyph.WithAssetSource(face.NewDirSource("content")),
//	    lazyglyph.WithStrategy(lazyglyph.StrategyLazy),
//	)
type Option func(*config)

// config holds Engine configuration.
type config struct {
	strategy    Strategy
	workerDelay time.Duration
	basePath    string
	source      face.AssetSource
	allocator   raster.Allocator
	creator     gpucontext.TextureCreator
	parser      string
	overrides   face.Overrides
	reserved    pictograph.Set
}

// defaultConfig returns the configuration New starts from.
func defaultConfig() config {
	return config{
		strategy:    StrategyDialog,
		workerDelay: DefaultWorkerDelay,
		basePath:    DefaultBasePath,
		source:      face.NewDirSource("."),
		parser:      face.DefaultParser,
		overrides:   face.DefaultOverrides(),
		reserved:    pictograph.Default(),
	}
}

// WithStrategy sets the initial generation strategy.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithWorkerDelay sets the pause between background generations.
// Zero disables the pause; the worker still checks for cancellation
// between items.
func WithWorkerDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.workerDelay = d
		}
	}
}

// WithBasePath sets the virtual directory bundled fonts live in.
func WithBasePath(p string) Option {
	return func(c *config) {
		c.basePath = p
	}
}

// WithAssetSource sets where font files are read from.
// The default is the current directory.
func WithAssetSource(src face.AssetSource) Option {
	return func(c *config) {
		if src != nil {
			c.source = src
		}
	}
}

// WithAllocator sets the texture allocator used for rasterized glyphs.
// It takes precedence over WithTextureCreator.
func WithAllocator(a raster.Allocator) Option {
	return func(c *config) {
		c.allocator = a
	}
}

// WithTextureCreator allocates glyph textures through a GPU texture
// creator. If the creator also has a SetPriorityQuery(func(context.Context) bool)
// method, the engine installs its priority query there.
func WithTextureCreator(tc gpucontext.TextureCreator) Option {
	return func(c *config) {
		c.creator = tc
	}
}

// WithParser selects the registered font parser backend by name.
func WithParser(name string) Option {
	return func(c *config) {
		c.parser = name
	}
}

// WithScaleOverrides replaces the per-identity scale override table.
// Pass nil to disable overrides entirely.
func WithScaleOverrides(o face.Overrides) Option {
	return func(c *config) {
		c.overrides = o
	}
}

// WithReservedRanges adds inclusive code point ranges that are never
// rasterized and always served from the fallback table.
func WithReservedRanges(ranges ...[2]rune) Option {
	return func(c *config) {
		for _, r := range ranges {
			c.reserved = append(c.reserved, pictograph.Range{Lo: r[0], Hi: r[1]})
		}
		c.reserved = c.reserved.Normalize()
	}
}
