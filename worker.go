// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"iter"
	"time"

	"github.com/gogpu/lazyglyph/raster"
)

// runSummary counts what one worker run did.
type runSummary struct {
	rasterized int
	fallback   int
	missing    int
	existing   int
}

// run generates every character of seq for id, pausing between items.
// If ctx is cancelled, the records this run staged and nobody merged yet
// are dropped; records already merged are kept.
func (e *Engine) run(ctx context.Context, id FontIdentity, lane Lane, seq iter.Seq[rune]) {
	log := Logger().With("identity", string(id))
	start := time.Now()
	staged := make(map[rune]*GlyphRecord)
	var sum runSummary

	defer e.priority.Clear(lane)

	cancelled := func() (cancelled bool) {
		defer func() {
			if p := recover(); p != nil {
				log.Error("lazyglyph: worker panicked", "panic", p)
			}
		}()
		for r := range seq {
			if ctx.Err() != nil {
				return true
			}
			e.priority.Mark(lane)

			rec, out := e.step(ctx, id, r)
			switch out {
			case outcomeRasterized:
				sum.rasterized++
				staged[r] = rec
			case outcomeFallback:
				sum.fallback++
				staged[r] = rec
			case outcomeMissing:
				sum.missing++
			case outcomeInterrupted:
				return true
			default:
				sum.existing++
			}

			if !e.pause(ctx) {
				return true
			}
		}
		return false
	}()

	attrs := []any{
		"rasterized", sum.rasterized,
		"fallback", sum.fallback,
		"missing", sum.missing,
		"existing", sum.existing,
		"duration", time.Since(start),
	}
	if cancelled {
		dropped := e.dropStaged(id, staged)
		log.Info("lazyglyph: generation cancelled", append(attrs, "dropped", dropped)...)
		return
	}
	log.Info("lazyglyph: generation finished", attrs...)
}

// step runs the pipeline for one character under the engine lock.
func (e *Engine) step(ctx context.Context, id FontIdentity, r rune) (*GlyphRecord, outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generateSafeLocked(ctx, r, id)
}

// pause waits for the worker delay. It reports false if ctx was cancelled.
func (e *Engine) pause(ctx context.Context) bool {
	d := e.cfg.workerDelay
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// dropStaged removes the records a cancelled run staged that are still
// pending. They were never handed to the render path, so their textures
// are released right away.
func (e *Engine) dropStaged(id FontIdentity, staged map[rune]*GlyphRecord) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for r, rec := range staged {
		if !e.staging.dropIf(id, r, rec) {
			continue
		}
		delete(e.resolved[id], r)
		if !rec.Fallback() {
			if tex := e.disposal.remove(id, rec.Serial); tex != nil {
				raster.Release(tex)
				e.counters.released++
			}
		}
		n++
	}
	e.counters.dropped += uint64(n)
	if n > 0 {
		Logger().Debug("lazyglyph: dropped staged glyphs", "identity", string(id), "count", n)
	}
	return n
}
