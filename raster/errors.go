// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import "errors"

var (
	// ErrGlyphNotFound is returned when the face has no glyph for a rune,
	// or the glyph renders to an empty bitmap.
	ErrGlyphNotFound = errors.New("raster: glyph not found")

	// ErrNoAllocator is returned when no texture allocator is configured.
	ErrNoAllocator = errors.New("raster: no texture allocator")

	// ErrTextureCreationFailed is returned when an allocator reports success
	// without a texture.
	ErrTextureCreationFailed = errors.New("raster: texture creation failed")

	// ErrNilFace is returned when Rasterize is called without a face.
	ErrNilFace = errors.New("raster: nil face")
)
