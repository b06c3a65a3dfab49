// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/gogpu/lazyglyph/raster"
)

// counters are the engine's running totals. Guarded by the engine lock.
type counters struct {
	rasterized uint64
	fallback   uint64
	missing    uint64
	merged     uint64
	dropped    uint64
	released   uint64
}

// Stats is a snapshot of engine activity.
type Stats struct {
	// Rasterized counts glyphs generated from the active face.
	Rasterized uint64

	// Fallback counts requests answered from the fallback table.
	Fallback uint64

	// Missing counts requests with no answer at all.
	Missing uint64

	// Merged counts records installed into live tables.
	Merged uint64

	// Dropped counts pending records that never reached a live table,
	// either discarded by cancellation or answered for an identity that had
	// no table yet.
	Dropped uint64

	// Released counts textures destroyed by the engine.
	Released uint64

	// Queued is the number of textures awaiting release.
	Queued int

	// Staged is the number of records awaiting a merge.
	Staged int

	// LiveGlyphs is the number of records in live tables.
	LiveGlyphs int

	// Hits and Misses count live-table lookups.
	Hits   uint64
	Misses uint64

	// Epoch increases with every font switch.
	Epoch uint64

	// Running reports whether a background worker is active.
	Running bool
}

// Stats returns a snapshot of engine activity.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	staged := 0
	for id := range e.staging {
		staged += e.staging.pending(id)
	}
	live := e.live.stats()
	return Stats{
		Rasterized: e.counters.rasterized,
		Fallback:   e.counters.fallback,
		Missing:    e.counters.missing,
		Merged:     e.counters.merged,
		Dropped:    e.counters.dropped,
		Released:   e.counters.released,
		Queued:     e.disposal.len(),
		Staged:     staged,
		LiveGlyphs: live.Len,
		Hits:       live.Hits,
		Misses:     live.Misses,
		Epoch:      e.epoch,
		Running:    e.gate.running(),
	}
}

// RasterStats returns the rasterizer's counters.
func (e *Engine) RasterStats() raster.Stats {
	return e.rasterizer.Stats()
}

// Cached returns the characters in id's live table, ascending.
func (e *Engine) Cached(id FontIdentity) []rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live.runes(id)
}

// Staged returns the characters of id awaiting a merge, ascending.
func (e *Engine) Staged(id FontIdentity) []rune {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.SortedFunc(maps.Keys(e.staging[id]), cmp.Compare[rune])
}

// Queued returns the number of textures awaiting release for id.
func (e *Engine) Queued(id FontIdentity) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposal.pending(id)
}
