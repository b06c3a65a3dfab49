// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import "maps"

// fallbackTable holds the glyphs the host's default loader produced, per
// identity. An identity is recorded once; later registrations do not
// replace it. Guarded by the engine lock.
type fallbackTable map[FontIdentity]map[rune]*GlyphRecord

// record stores glyphs for id unless id is already present. It reports
// whether the table changed.
func (f fallbackTable) record(id FontIdentity, glyphs map[rune]*GlyphRecord) bool {
	if _, ok := f[id]; ok {
		return false
	}
	f[id] = maps.Clone(glyphs)
	if f[id] == nil {
		f[id] = make(map[rune]*GlyphRecord)
	}
	return true
}

func (f fallbackTable) get(id FontIdentity, r rune) (*GlyphRecord, bool) {
	rec, ok := f[id][r]
	return rec, ok && rec != nil
}
