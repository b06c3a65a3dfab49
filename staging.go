// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

// stagingBuffer holds generated records until the next merge.
// Guarded by the engine lock.
type stagingBuffer map[FontIdentity]map[rune]*GlyphRecord

func (s stagingBuffer) get(id FontIdentity, r rune) (*GlyphRecord, bool) {
	rec, ok := s[id][r]
	return rec, ok
}

// put stores rec, superseding any pending record for the same key.
func (s stagingBuffer) put(id FontIdentity, rec *GlyphRecord) {
	m, ok := s[id]
	if !ok {
		m = make(map[rune]*GlyphRecord)
		s[id] = m
	}
	m[rec.Rune] = rec
}

// dropIf removes the pending record for (id, r) only if it is rec.
func (s stagingBuffer) dropIf(id FontIdentity, r rune, rec *GlyphRecord) bool {
	m := s[id]
	if m == nil || m[r] != rec {
		return false
	}
	delete(m, r)
	if len(m) == 0 {
		delete(s, id)
	}
	return true
}

func (s stagingBuffer) clear(id FontIdentity) {
	delete(s, id)
}

func (s stagingBuffer) pending(id FontIdentity) int {
	return len(s[id])
}
