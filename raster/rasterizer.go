// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/lazyglyph/face"
)

// Glyph is a rasterized glyph with an uploaded texture.
type Glyph struct {
	// Texture holds Width x Height premultiplied RGBA pixels.
	// The caller owns it.
	Texture gpucontext.Texture

	Width  int
	Height int

	// XOffset is the distance from the pen position to the texture's
	// left edge.
	XOffset int

	// YOffset is the distance from the top of the line to the texture's
	// top edge.
	YOffset int

	// XAdvance is how far the pen moves after this glyph.
	XAdvance int
}

// Stats reports rasterizer activity.
type Stats struct {
	Calls       uint64
	Allocations uint64
	Failures    uint64
}

// Rasterizer renders glyphs into textures.
// Rasterizer is safe for concurrent use if its Allocator is.
type Rasterizer struct {
	alloc Allocator

	calls       atomic.Uint64
	allocations atomic.Uint64
	failures    atomic.Uint64
}

// New creates a Rasterizer that allocates textures through alloc.
func New(alloc Allocator) *Rasterizer {
	return &Rasterizer{alloc: alloc}
}

// Rasterize renders r at h's current size, uploads the pixels, and returns
// the glyph with its metrics. label names the texture for debugging.
//
// A missing or inkless glyph yields ErrGlyphNotFound and allocates nothing.
// A failed allocation is returned as is and leaves no texture behind.
func (rz *Rasterizer) Rasterize(ctx context.Context, h *face.Handle, r rune, label string) (Glyph, error) {
	rz.calls.Add(1)
	if h == nil {
		rz.failures.Add(1)
		return Glyph{}, ErrNilFace
	}
	if rz.alloc == nil {
		rz.failures.Add(1)
		return Glyph{}, ErrNoAllocator
	}

	gid := h.GlyphIndex(r)
	if gid == 0 {
		return Glyph{}, ErrGlyphNotFound
	}

	bm, err := render(h, gid)
	if err != nil {
		rz.failures.Add(1)
		return Glyph{}, fmt.Errorf("raster: render %U: %w", r, err)
	}
	if bm.Empty() {
		return Glyph{}, ErrGlyphNotFound
	}

	if err := ctx.Err(); err != nil {
		return Glyph{}, err
	}

	width, height := bm.Mask.Bounds().Dx(), bm.Mask.Bounds().Dy()
	tex, err := rz.alloc.Allocate(ctx, Descriptor(label, width, height), ExpandCoverage(bm.Mask))
	if err != nil {
		rz.failures.Add(1)
		return Glyph{}, err
	}
	if tex == nil {
		rz.failures.Add(1)
		return Glyph{}, ErrTextureCreationFailed
	}
	rz.allocations.Add(1)

	return Glyph{
		Texture:  tex,
		Width:    width,
		Height:   height,
		XOffset:  bm.Left,
		YOffset:  int(h.TargetSize() - float64(bm.Top) - h.Baseline()),
		XAdvance: int(math.Round(bm.Advance)),
	}, nil
}

// render calls the parser backend, converting a panic into an error.
func render(h *face.Handle, gid uint16) (bm face.Bitmap, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return h.Render(gid)
}

// Stats returns a snapshot of the rasterizer counters.
func (rz *Rasterizer) Stats() Stats {
	return Stats{
		Calls:       rz.calls.Load(),
		Allocations: rz.allocations.Load(),
		Failures:    rz.failures.Load(),
	}
}

// ExpandCoverage converts a coverage mask to RGBA pixels with every channel
// set to the coverage value, which is white premultiplied by its alpha.
func ExpandCoverage(mask *image.Alpha) []byte {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		start := mask.PixOffset(b.Min.X, b.Min.Y+y)
		row := mask.Pix[start : start+w]
		o := out[y*w*4:]
		for x, a := range row {
			i := x * 4
			o[i] = a
			o[i+1] = a
			o[i+2] = a
			o[i+3] = a
		}
	}
	return out
}
