// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/lazyglyph/raster"
)

// outcome tells how the pipeline answered a request.
type outcome int

const (
	outcomeExisting outcome = iota
	outcomeRasterized
	outcomeFallback
	outcomeMissing

	// outcomeInterrupted means the request's context ended before the
	// glyph was generated; nothing was recorded.
	outcomeInterrupted
)

// Lookup returns the glyph for r in font id, or nil if neither the active
// face nor the fallback table has one. It is the render path's entry
// point: it never waits for the background worker, generating the glyph
// itself if needed, and it installs every pending record before returning.
func (e *Engine) Lookup(ctx context.Context, r rune, id FontIdentity) *GlyphRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	defer e.mergeLocked()

	if rec, ok := e.live.get(id, r); ok {
		return rec
	}
	if rec, ok := e.staging.get(id, r); ok {
		return rec
	}
	rec, _ := e.generateSafeLocked(ctx, r, id)
	return rec
}

// Glyph is Lookup without a context. It has the MissHandler signature.
func (e *Engine) Glyph(id FontIdentity, r rune) *GlyphRecord {
	return e.Lookup(context.Background(), r, id)
}

// generateSafeLocked runs the pipeline, turning a panic in the font
// backend into a missing glyph.
func (e *Engine) generateSafeLocked(ctx context.Context, r rune, id FontIdentity) (rec *GlyphRecord, out outcome) {
	defer func() {
		if p := recover(); p != nil {
			Logger().Error("lazyglyph: glyph generation panicked",
				"identity", string(id), "rune", fmt.Sprintf("%U", r), "panic", p)
			e.markResolvedLocked(id, r)
			e.counters.missing++
			rec, out = nil, outcomeMissing
		}
	}()
	return e.generateLocked(ctx, r, id)
}

// generateLocked produces the record for (id, r): rasterized from the
// active face when possible, otherwise taken from the fallback table.
// A character is answered at most once per identity reset; repeated calls
// return the same record without rasterizing again.
func (e *Engine) generateLocked(ctx context.Context, r rune, id FontIdentity) (*GlyphRecord, outcome) {
	if e.isResolvedLocked(id, r) {
		if rec, ok := e.staging.get(id, r); ok {
			return rec, outcomeExisting
		}
		if rec, ok := e.live.peek(id, r); ok {
			return rec, outcomeExisting
		}
		if rec, ok := e.uncached[id][r]; ok {
			return rec, outcomeExisting
		}
		return nil, outcomeExisting
	}
	e.markResolvedLocked(id, r)

	if e.active == nil || id != e.activeID {
		return e.fallbackLocked(id, r, "no custom face")
	}
	if e.cfg.reserved.Contains(r) {
		return e.fallbackLocked(id, r, "reserved range")
	}

	serial := e.serial + 1
	g, err := e.rasterizer.Rasterize(ctx, e.active, r, textureLabel(id, r, serial))
	if err != nil {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			// Not an answer: a later request with a live context retries.
			delete(e.resolved[id], r)
			rec, _ := e.fallback.get(id, r)
			return rec, outcomeInterrupted
		}
		if errors.Is(err, raster.ErrGlyphNotFound) {
			return e.fallbackLocked(id, r, err.Error())
		}
		Logger().Warn("lazyglyph: rasterization failed",
			"identity", string(id), "rune", fmt.Sprintf("%U", r), "err", err)
		return e.fallbackLocked(id, r, "rasterization failed")
	}

	e.serial = serial
	rec := &GlyphRecord{
		Rune:     r,
		Width:    g.Width,
		Height:   g.Height,
		Texture:  g.Texture,
		XAdvance: g.XAdvance,
		XOffset:  g.XOffset,
		YOffset:  g.YOffset,
		Baseline: e.active.Baseline(),
		Epoch:    e.epoch,
		Serial:   serial,
	}
	// Queue before exposing, so the texture is released with its identity
	// whatever happens to the record.
	e.disposal.enqueue(id, disposal{epoch: e.epoch, serial: serial, rune: r, texture: g.Texture})
	e.staging.put(id, rec)
	e.counters.rasterized++
	return rec, outcomeRasterized
}

// fallbackLocked stages the fallback record for (id, r), if there is one.
func (e *Engine) fallbackLocked(id FontIdentity, r rune, reason string) (*GlyphRecord, outcome) {
	rec, ok := e.fallback.get(id, r)
	if !ok {
		e.counters.missing++
		Logger().Debug("lazyglyph: no glyph",
			"identity", string(id), "rune", fmt.Sprintf("%U", r), "reason", reason, "err", ErrNoFallback)
		return nil, outcomeMissing
	}
	e.staging.put(id, rec)
	e.counters.fallback++
	Logger().Debug("lazyglyph: using fallback glyph",
		"identity", string(id), "rune", fmt.Sprintf("%U", r), "reason", reason)
	return rec, outcomeFallback
}

// mergeLocked installs pending records into the live tables. Records for
// identities without a live table are dropped from staging but not
// retried: they stay answered, and their textures stay queued until the
// identity is superseded or unregistered or the engine shuts down.
func (e *Engine) mergeLocked() {
	for id, pending := range e.staging {
		if t, ok := e.live.table(id); ok {
			for r, rec := range pending {
				t.Set(r, rec)
			}
			e.counters.merged += uint64(len(pending))
		} else {
			u, ok := e.uncached[id]
			if !ok {
				u = make(map[rune]*GlyphRecord, len(pending))
				e.uncached[id] = u
			}
			for r, rec := range pending {
				u[r] = rec
			}
			e.counters.dropped += uint64(len(pending))
		}
		delete(e.staging, id)
	}
}

func (e *Engine) isResolvedLocked(id FontIdentity, r rune) bool {
	_, ok := e.resolved[id][r]
	return ok
}

func (e *Engine) markResolvedLocked(id FontIdentity, r rune) {
	m, ok := e.resolved[id]
	if !ok {
		m = make(map[rune]struct{})
		e.resolved[id] = m
	}
	m[r] = struct{}{}
}

func textureLabel(id FontIdentity, r rune, serial uint64) string {
	return fmt.Sprintf("lazyglyph/%s/%U/%d", id, r, serial)
}
