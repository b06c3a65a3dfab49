// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Texture is an RGBA texture held in memory.
type Texture struct {
	owner  *Memory
	label  string
	width  int
	height int

	// priority is fixed at creation.
	priority bool

	mu        sync.Mutex
	pix       []byte
	updates   int
	destroyed bool
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// Label returns the debug label given at creation.
func (t *Texture) Label() string { return t.label }

// Priority reports whether the texture was allocated on the priority lane.
func (t *Texture) Priority() bool { return t.priority }

// UpdateData implements gpucontext.TextureUpdater.
func (t *Texture) UpdateData(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	if len(data) != len(t.pix) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), len(t.pix))
	}
	copy(t.pix, data)
	t.updates++
	return nil
}

// UpdateRegion implements gpucontext.TextureRegionUpdater.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrRegionOutOfBounds, w, h, x, y, t.width, t.height)
	}
	if len(data) != w*h*bytesPerPixel {
		return fmt.Errorf("%w: got %d bytes for %dx%d region", ErrDataSize, len(data), w, h)
	}
	stride := t.width * bytesPerPixel
	for row := 0; row < h; row++ {
		dst := (y+row)*stride + x*bytesPerPixel
		src := row * w * bytesPerPixel
		copy(t.pix[dst:dst+w*bytesPerPixel], data[src:src+w*bytesPerPixel])
	}
	t.updates++
	return nil
}

// Destroy releases the texture. Calling Destroy more than once is a no-op.
func (t *Texture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	t.mu.Unlock()

	if t.owner != nil {
		t.owner.release(t)
	}
}

// Destroyed reports whether Destroy has been called.
func (t *Texture) Destroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}

// Updates returns the number of successful UpdateData/UpdateRegion calls.
func (t *Texture) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Pixels returns a copy of the RGBA pixel data.
func (t *Texture) Pixels() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.pix))
	copy(out, t.pix)
	return out
}

// Image returns a copy of the texture as an *image.RGBA.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.Pixels())
	return img
}
