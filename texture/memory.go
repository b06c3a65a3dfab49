// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Errors returned by Memory and Texture.
var (
	// ErrInvalidDimensions is returned for non-positive texture sizes.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrDataSize is returned when pixel data does not match the texture size.
	ErrDataSize = errors.New("texture: data size mismatch")

	// ErrDestroyed is returned when updating a destroyed texture.
	ErrDestroyed = errors.New("texture: texture destroyed")

	// ErrBudgetExceeded is returned when a Memory is at its texture limit.
	ErrBudgetExceeded = errors.New("texture: budget exceeded")

	// ErrRegionOutOfBounds is returned when an update region exceeds the texture.
	ErrRegionOutOfBounds = errors.New("texture: region out of bounds")
)

const bytesPerPixel = 4

// Stats reports Memory activity.
type Stats struct {
	// Created counts successful allocations.
	Created int

	// Destroyed counts textures released through Destroy.
	Destroyed int

	// Live is Created minus Destroyed.
	Live int

	// LiveBytes is the pixel storage held by live textures.
	LiveBytes int

	// Priority and Background split Created by the priority query.
	Priority   int
	Background int
}

// Memory is a gpucontext.TextureCreator that keeps textures in memory.
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	live     map[*Texture]struct{}
	stats    Stats
	limit    int
	priority func(context.Context) bool
}

var _ gpucontext.TextureCreator = (*Memory)(nil)

// NewMemory creates an unlimited in-memory texture creator.
func NewMemory() *Memory {
	return &Memory{live: make(map[*Texture]struct{})}
}

// SetLimit caps the number of live textures. Zero or negative removes the cap.
func (m *Memory) SetLimit(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = n
}

// SetPriorityQuery installs the function that decides whether an
// allocation happens on the priority lane. It has the shape of a host
// resource loader's "is this the priority context" query.
func (m *Memory) SetPriorityQuery(q func(context.Context) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priority = q
}

// NewTextureFromRGBA implements gpucontext.TextureCreator.
func (m *Memory) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	t, err := m.create(context.Background(), "", width, height, data)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Allocate creates a texture described by desc holding rgba. It has the
// shape of raster.Allocator.
func (m *Memory) Allocate(ctx context.Context, desc gputypes.TextureDescriptor, rgba []byte) (gpucontext.Texture, error) {
	t, err := m.create(ctx, desc.Label, int(desc.Size.Width), int(desc.Size.Height), rgba)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (m *Memory) create(ctx context.Context, label string, width, height int, data []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(data) != width*height*bytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrDataSize, len(data), width, height)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.limit > 0 && len(m.live) >= m.limit {
		return nil, ErrBudgetExceeded
	}

	t := &Texture{
		owner:  m,
		label:  label,
		width:  width,
		height: height,
		pix:    make([]byte, len(data)),
	}
	copy(t.pix, data)

	if m.priority != nil && m.priority(ctx) {
		t.priority = true
		m.stats.Priority++
	} else {
		m.stats.Background++
	}
	m.live[t] = struct{}{}
	m.stats.Created++
	return t, nil
}

func (m *Memory) release(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[t]; !ok {
		return
	}
	delete(m.live, t)
	m.stats.Destroyed++
}

// Stats returns a snapshot of allocation counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Live = len(m.live)
	for t := range m.live {
		s.LiveBytes += len(t.pix)
	}
	return s
}

// Live returns the number of textures not yet destroyed.
func (m *Memory) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
