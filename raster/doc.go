// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster turns a single glyph of a sized face into an uploaded
// texture plus the placement metrics a text renderer needs.
//
// Coverage comes from the face's parser backend and is expanded to
// premultiplied white RGBA, so the renderer can tint glyphs by multiplying
// with the text color. Textures are created through an Allocator; any
// gpucontext.TextureCreator can serve as one via CreatorAllocator.
//
// Every successful Rasterize call allocates exactly one texture and hands
// ownership of it to the caller.
package raster
