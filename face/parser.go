// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"image"
	"iter"
	"sync"
)

// FontParser is an interface for font parsing backends.
// This abstraction allows swapping the font parsing library.
//
// The default implementation uses golang.org/x/image/font/sfnt.
type FontParser interface {
	// Parse parses font data and returns a ParsedFont.
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont represents a parsed font file.
// Implementations must be safe for concurrent use.
type ParsedFont interface {
	// Name returns the font family name.
	// Returns empty string if not available.
	Name() string

	// Scalable reports whether the font has outlines that can be rendered
	// at any size. Bitmap-only fonts return false.
	Scalable() bool

	// FixedSizes returns the pixel sizes of embedded bitmap strikes.
	FixedSizes() []float64

	// GlyphIndex returns the glyph index for a rune.
	// Returns 0 if the glyph is not found.
	GlyphIndex(r rune) uint16

	// Metrics returns the font metrics at the given pixels per em.
	Metrics(ppem float64) Metrics

	// Render rasterizes a glyph at the given pixels per em.
	// A glyph without ink yields a Bitmap with a nil Mask.
	Render(glyphIndex uint16, ppem float64) (Bitmap, error)

	// Chars iterates over every code point the font maps to a glyph,
	// in the font's native order.
	Chars() iter.Seq[rune]
}

// Metrics holds font-level metrics at a specific size, in pixels.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float64

	// Height is the recommended line height.
	Height float64
}

// Bitmap is a rendered glyph coverage mask.
type Bitmap struct {
	// Mask is the single-channel coverage, origin at its top-left corner.
	// Nil when the glyph has no ink.
	Mask *image.Alpha

	// Left is the horizontal distance from the pen position to the mask's
	// left edge, in pixels.
	Left int

	// Top is the distance from the baseline up to the mask's top edge,
	// in pixels.
	Top int

	// Advance is the horizontal advance in pixels.
	Advance float64
}

// Empty reports whether the bitmap has zero width or height.
func (b Bitmap) Empty() bool {
	if b.Mask == nil {
		return true
	}
	r := b.Mask.Bounds()
	return r.Dx() == 0 || r.Dy() == 0
}

// parserRegistry holds registered font parsers.
// The default parser is "ximage" (golang.org/x/image).
var (
	parserMu       sync.RWMutex
	parserRegistry = map[string]FontParser{
		DefaultParser: &ximageParser{},
	}
)

// DefaultParser is the name of the default parser.
const DefaultParser = "ximage"

// RegisterParser registers a custom font parser under name, replacing any
// parser previously registered under that name.
func RegisterParser(name string, parser FontParser) {
	parserMu.Lock()
	defer parserMu.Unlock()
	parserRegistry[name] = parser
}

// getParser returns the parser by name, or the default if not found.
func getParser(name string) FontParser {
	parserMu.RLock()
	defer parserMu.RUnlock()
	if p, ok := parserRegistry[name]; ok {
		return p
	}
	return parserRegistry[DefaultParser]
}
