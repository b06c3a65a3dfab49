// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"iter"
	"math"
)

// ReferencePixelSize is the pixel size a face is measured at before it is
// scaled to the requested target size.
const ReferencePixelSize = 64

// Handle is a parsed font together with the size state of the current
// request. The parsed font never changes; the size state is rewritten by
// Configure.
//
// Handle is not safe for concurrent use. The glyph engine reads and
// configures it only while holding its own lock.
type Handle struct {
	path   string
	format string
	parsed ParsedFont

	identity   string
	pixelSize  float64
	scale      float64
	baseline   float64
	targetSize float64
}

// NewHandle wraps an already parsed font. Most callers get a Handle from
// Resolver.Open instead.
func NewHandle(path string, parsed ParsedFont) *Handle {
	return &Handle{
		path:      path,
		format:    FormatOf(path),
		parsed:    parsed,
		pixelSize: ReferencePixelSize,
		scale:     1,
	}
}

// Configure sizes the face so that one line of text is targetSize pixels
// tall.
//
// The face is measured at ReferencePixelSize and the scale derived from its
// line height. An override registered for identity adjusts that scale.
// Faces without outlines cannot be transformed; they pick the embedded
// strike closest to the equivalent pixel size and keep a scale of 1.
func (h *Handle) Configure(identity string, targetSize float64, overrides Overrides) {
	h.identity = identity
	h.targetSize = targetSize
	h.pixelSize = ReferencePixelSize

	ref := h.parsed.Metrics(ReferencePixelSize)
	lineHeight := ref.Height
	if lineHeight <= 0 {
		lineHeight = ReferencePixelSize
	}

	scale := overrides.Apply(identity, targetSize/lineHeight)

	if h.parsed.Scalable() {
		h.scale = scale
		h.baseline = ref.Descent * scale
		return
	}

	h.pixelSize = nearestStrike(h.parsed.FixedSizes(), targetSize*targetSize/lineHeight)
	h.scale = 1
	h.baseline = h.parsed.Metrics(h.pixelSize).Descent
}

// nearestStrike returns the strike size closest to want, or want rounded
// when the font lists no strikes.
func nearestStrike(strikes []float64, want float64) float64 {
	if len(strikes) == 0 {
		return math.Max(1, math.Round(want))
	}
	best := strikes[0]
	for _, s := range strikes[1:] {
		if math.Abs(s-want) < math.Abs(best-want) {
			best = s
		}
	}
	return best
}

// Path returns the virtual path the font was opened from.
func (h *Handle) Path() string { return h.path }

// Format returns the font file format (extension without the dot).
func (h *Handle) Format() string { return h.format }

// Name returns the family name recorded in the font, if any.
func (h *Handle) Name() string { return h.parsed.Name() }

// Parsed returns the underlying parsed font.
func (h *Handle) Parsed() ParsedFont { return h.parsed }

// Identity returns the font identity of the last Configure call.
func (h *Handle) Identity() string { return h.identity }

// PixelSize returns the nominal pixel size of the face.
func (h *Handle) PixelSize() float64 { return h.pixelSize }

// Scale returns the uniform transform applied on top of PixelSize.
func (h *Handle) Scale() float64 { return h.scale }

// Baseline returns the distance from the bottom of a line to its baseline,
// in target pixels.
func (h *Handle) Baseline() float64 { return h.baseline }

// TargetSize returns the requested line height in pixels.
func (h *Handle) TargetSize() float64 { return h.targetSize }

// PPEM returns the effective pixels per em used for rendering.
func (h *Handle) PPEM() float64 { return h.pixelSize * h.scale }

// GlyphIndex returns the glyph index for r, or 0 if the font lacks it.
func (h *Handle) GlyphIndex(r rune) uint16 { return h.parsed.GlyphIndex(r) }

// Render rasterizes glyphIndex at the face's current effective size.
func (h *Handle) Render(glyphIndex uint16) (Bitmap, error) {
	return h.parsed.Render(glyphIndex, h.PPEM())
}

// Chars iterates over every code point the font maps, in native cmap order.
func (h *Handle) Chars() iter.Seq[rune] { return h.parsed.Chars() }
