// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// FontIdentity is the logical name the renderer uses for a font, such as a
// language's display font. It is independent of the file backing it: one
// identity can be served by different font files over time.
type FontIdentity string

// GlyphRecord is a render-ready glyph. Records are immutable once built and
// shared by pointer; callers must not modify them.
type GlyphRecord struct {
	Rune rune

	// Width and Height are the bitmap size in pixels.
	Width  int
	Height int

	// Texture holds the premultiplied RGBA bitmap. Rasterized records own
	// their texture through the engine's disposal queue; fallback records
	// point at host textures.
	Texture gpucontext.Texture

	// XAdvance is how far the pen moves after this glyph.
	XAdvance int

	// XOffset and YOffset place the bitmap's top-left corner relative to
	// the pen position and the top of the line.
	XOffset int
	YOffset int

	// Baseline is the distance from the bottom of the line to the baseline.
	Baseline float64

	// Epoch and Serial identify the rasterization that produced the record.
	// Both are zero for fallback records.
	Epoch  uint64
	Serial uint64
}

// Fallback reports whether the record came from the host's fallback table
// rather than the engine's rasterizer.
func (g *GlyphRecord) Fallback() bool {
	return g.Epoch == 0
}

func (g *GlyphRecord) String() string {
	if g == nil {
		return "<nil glyph>"
	}
	return fmt.Sprintf("%U %dx%d adv=%d off=(%d,%d) epoch=%d", g.Rune, g.Width, g.Height, g.XAdvance, g.XOffset, g.YOffset, g.Epoch)
}

// Language describes the host language a font selection applies to.
type Language struct {
	// ID is the host's language key, e.g. "english".
	ID string

	// FontFace is the identity of the language's display font. A bundled
	// font file whose stem equals FontFace is its default.
	FontFace FontIdentity

	// FontFaceSize is the line height, in pixels, text is drawn at.
	FontFaceSize float64

	// Dialog holds the language's loaded text by key. The eager-minimal
	// strategy pre-generates every character it contains.
	Dialog map[string]string
}
