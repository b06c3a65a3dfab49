// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"context"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Allocator creates textures for rasterized glyphs.
//
// Allocate must return a texture that already holds rgba, or an error and
// no texture. The context carries the caller's priority lane; allocators
// backed by a resource loader may use it to schedule the upload.
type Allocator interface {
	Allocate(ctx context.Context, desc gputypes.TextureDescriptor, rgba []byte) (gpucontext.Texture, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(ctx context.Context, desc gputypes.TextureDescriptor, rgba []byte) (gpucontext.Texture, error)

// Allocate calls f.
func (f AllocatorFunc) Allocate(ctx context.Context, desc gputypes.TextureDescriptor, rgba []byte) (gpucontext.Texture, error) {
	return f(ctx, desc, rgba)
}

// CreatorAllocator allocates through a gpucontext.TextureCreator, which
// creates and uploads in one call.
type CreatorAllocator struct {
	Creator gpucontext.TextureCreator
}

// Allocate implements Allocator.
func (a CreatorAllocator) Allocate(_ context.Context, desc gputypes.TextureDescriptor, rgba []byte) (gpucontext.Texture, error) {
	if a.Creator == nil {
		return nil, ErrNoAllocator
	}
	tex, err := a.Creator.NewTextureFromRGBA(int(desc.Size.Width), int(desc.Size.Height), rgba)
	if err != nil {
		return nil, fmt.Errorf("raster: NewTextureFromRGBA failed: %w", err)
	}
	if tex == nil {
		return nil, ErrTextureCreationFailed
	}
	// Glyph pixels are premultiplied.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	return tex, nil
}

// Descriptor returns the descriptor of a sampled RGBA glyph texture.
func Descriptor(label string, width, height int) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(uint32(width), uint32(height)),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// textureDestroyer matches the Destroy method of GPU texture implementations.
type textureDestroyer interface {
	Destroy()
}

// Release destroys tex if its implementation supports it. Textures that do
// not are left to the garbage collector.
func Release(tex gpucontext.Texture) {
	if tex == nil {
		return
	}
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
