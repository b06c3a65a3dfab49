// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"cmp"

	"github.com/gogpu/lazyglyph/internal/cache"
)

// glyphCache holds the render-visible character table of every registered
// font identity. An identity without a table is not registered; merges for
// it are dropped. Guarded by the engine lock.
type glyphCache struct {
	tables map[FontIdentity]*cache.Cache[rune, *GlyphRecord]
}

func newGlyphCache() *glyphCache {
	return &glyphCache{tables: make(map[FontIdentity]*cache.Cache[rune, *GlyphRecord])}
}

// create installs an empty table for id, replacing any existing one.
func (c *glyphCache) create(id FontIdentity) *cache.Cache[rune, *GlyphRecord] {
	t := cache.New[rune, *GlyphRecord]()
	c.tables[id] = t
	return t
}

func (c *glyphCache) table(id FontIdentity) (*cache.Cache[rune, *GlyphRecord], bool) {
	t, ok := c.tables[id]
	return t, ok
}

func (c *glyphCache) get(id FontIdentity, r rune) (*GlyphRecord, bool) {
	t, ok := c.tables[id]
	if !ok {
		return nil, false
	}
	return t.Get(r)
}

// peek looks a record up without touching hit statistics.
func (c *glyphCache) peek(id FontIdentity, r rune) (*GlyphRecord, bool) {
	t, ok := c.tables[id]
	if !ok {
		return nil, false
	}
	return t.Peek(r)
}

// clear empties id's table but keeps it registered.
func (c *glyphCache) clear(id FontIdentity) {
	if t, ok := c.tables[id]; ok {
		t.Clear()
	}
}

func (c *glyphCache) remove(id FontIdentity) {
	delete(c.tables, id)
}

func (c *glyphCache) removeAll() {
	clear(c.tables)
}

// runes returns id's cached characters in ascending order.
func (c *glyphCache) runes(id FontIdentity) []rune {
	t, ok := c.tables[id]
	if !ok {
		return nil
	}
	return t.Keys(func(a, b rune) bool { return cmp.Less(a, b) })
}

func (c *glyphCache) stats() cache.Stats {
	var s cache.Stats
	for _, t := range c.tables {
		ts := t.Stats()
		s.Len += ts.Len
		s.Hits += ts.Hits
		s.Misses += ts.Misses
	}
	return s
}
