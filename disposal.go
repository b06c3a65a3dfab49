// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/lazyglyph/raster"
)

// disposal is one texture allocated by the rasterizer.
type disposal struct {
	epoch   uint64
	serial  uint64
	rune    rune
	texture gpucontext.Texture
}

// disposalQueue records every texture the engine allocated, per identity,
// in allocation order. Guarded by the engine lock.
type disposalQueue struct {
	entries map[FontIdentity][]disposal
}

func newDisposalQueue() *disposalQueue {
	return &disposalQueue{entries: make(map[FontIdentity][]disposal)}
}

func (q *disposalQueue) enqueue(id FontIdentity, d disposal) {
	q.entries[id] = append(q.entries[id], d)
}

// drain releases and forgets every texture queued for id.
func (q *disposalQueue) drain(id FontIdentity) int {
	pending := q.entries[id]
	delete(q.entries, id)
	for _, d := range pending {
		raster.Release(d.texture)
	}
	return len(pending)
}

// drainAll releases every queued texture.
func (q *disposalQueue) drainAll() int {
	n := 0
	for id := range q.entries {
		n += q.drain(id)
	}
	return n
}

// remove forgets the texture queued for id under serial and returns it
// without releasing it.
func (q *disposalQueue) remove(id FontIdentity, serial uint64) gpucontext.Texture {
	entries := q.entries[id]
	for i, d := range entries {
		if d.serial == serial {
			q.entries[id] = append(entries[:i], entries[i+1:]...)
			return d.texture
		}
	}
	return nil
}

// pending returns the number of queued textures for id.
func (q *disposalQueue) pending(id FontIdentity) int {
	return len(q.entries[id])
}

// len returns the number of queued textures across identities.
func (q *disposalQueue) len() int {
	n := 0
	for _, e := range q.entries {
		n += len(e)
	}
	return n
}

// entriesFor returns a copy of id's queue.
func (q *disposalQueue) entriesFor(id FontIdentity) []disposal {
	return append([]disposal(nil), q.entries[id]...)
}
