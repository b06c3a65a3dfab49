// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"iter"
	"unicode/utf8"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ximageParser implements FontParser using golang.org/x/image/font/sfnt.
// The cmap traversal and bitmap strike list come from go-text/typesetting,
// which exposes both; sfnt does not.
type ximageParser struct{}

// Parse implements FontParser.Parse.
func (p *ximageParser) Parse(data []byte) (ParsedFont, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("face: failed to parse font: %w", err)
	}

	xf := &ximageParsedFont{font: f}
	if buf, err := f.Name(nil, sfnt.NameIDFamily); err == nil {
		xf.name = buf
	}

	// go-text is only consulted for metadata; a font it rejects still
	// renders, and Chars falls back to probing the cmap.
	if gf, err := gotext.ParseTTF(bytes.NewReader(data)); err == nil {
		xf.cmap = gf.Font.Cmap
		for _, s := range gf.Font.BitmapSizes() {
			xf.strikes = append(xf.strikes, float64(s.YPpem))
		}
	}
	return xf, nil
}

// ximageParsedFont implements ParsedFont using sfnt.Font.
type ximageParsedFont struct {
	font    *sfnt.Font
	cmap    gotext.Cmap
	strikes []float64
	name    string
}

// Name implements ParsedFont.Name.
func (f *ximageParsedFont) Name() string {
	return f.name
}

// Scalable implements ParsedFont.Scalable.
// sfnt only parses fonts with glyf or CFF outlines.
func (f *ximageParsedFont) Scalable() bool {
	return true
}

// FixedSizes implements ParsedFont.FixedSizes.
func (f *ximageParsedFont) FixedSizes() []float64 {
	return f.strikes
}

// GlyphIndex implements ParsedFont.GlyphIndex.
func (f *ximageParsedFont) GlyphIndex(r rune) uint16 {
	var buf sfnt.Buffer
	idx, err := f.font.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return uint16(idx)
}

// Metrics implements ParsedFont.Metrics.
func (f *ximageParsedFont) Metrics(ppem float64) Metrics {
	var buf sfnt.Buffer

	m, err := f.font.Metrics(&buf, floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return Metrics{}
	}
	return Metrics{
		Ascent:  fixedToFloat64(m.Ascent),
		Descent: fixedToFloat64(m.Descent),
		Height:  fixedToFloat64(m.Height),
	}
}

// Render implements ParsedFont.Render.
func (f *ximageParsedFont) Render(glyphIndex uint16, ppem float64) (Bitmap, error) {
	var buf sfnt.Buffer
	x := sfnt.GlyphIndex(glyphIndex)
	size := floatToFixed(ppem)

	// GlyphAdvance must run before LoadGlyph: the segments are only valid
	// until buf is reused.
	advance, err := f.font.GlyphAdvance(&buf, x, size, font.HintingNone)
	if err != nil {
		return Bitmap{}, fmt.Errorf("face: glyph %d advance: %w", glyphIndex, err)
	}
	segments, err := f.font.LoadGlyph(&buf, x, size, nil)
	if err != nil {
		return Bitmap{}, fmt.Errorf("face: glyph %d outline: %w", glyphIndex, err)
	}

	bounds := segments.Bounds()
	dr := image.Rectangle{
		Min: image.Point{X: bounds.Min.X.Floor(), Y: bounds.Min.Y.Floor()},
		Max: image.Point{X: bounds.Max.X.Ceil(), Y: bounds.Max.Y.Ceil()},
	}
	bm := Bitmap{
		Left:    dr.Min.X,
		Top:     -dr.Min.Y,
		Advance: fixedToFloat64(advance),
	}
	width, height := dr.Dx(), dr.Dy()
	if width <= 0 || height <= 0 {
		return bm, nil
	}

	// Shift glyph space (origin on the baseline, Y down) so the bounding
	// box starts at the rasterizer's top-left corner.
	biasX := -fixed.Int26_6(dr.Min.X << 6)
	biasY := -fixed.Int26_6(dr.Min.Y << 6)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X+biasX) / 64, float32(p.Y+biasY) / 64
	}

	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Src
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			rast.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			rast.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	bm.Mask = mask
	return bm, nil
}

// Chars implements ParsedFont.Chars.
func (f *ximageParsedFont) Chars() iter.Seq[rune] {
	if f.cmap != nil {
		return func(yield func(rune) bool) {
			it := f.cmap.Iter()
			for it.Next() {
				r, gid := it.Char()
				if gid == 0 {
					continue
				}
				if !yield(r) {
					return
				}
			}
		}
	}
	return func(yield func(rune) bool) {
		for r := rune(0); r <= utf8.MaxRune; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			if f.GlyphIndex(r) == 0 {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
