// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pictograph classifies code points that are reserved for
// pictographs: emoji blocks and the host's private-use range, where the
// host keeps its own inline icons. Glyphs in these ranges are never
// rasterized from an outline font.
package pictograph

import "sort"

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether r lies in the range.
func (g Range) Contains(r rune) bool {
	return g.Lo <= r && r <= g.Hi
}

// Set is a list of ranges. The zero Set contains nothing.
type Set []Range

// Contains reports whether r lies in any range of the set.
func (s Set) Contains(r rune) bool {
	for _, g := range s {
		if g.Contains(r) {
			return true
		}
	}
	return false
}

// Normalize returns the set sorted by Lo with overlapping or adjacent
// ranges merged. Ranges with Lo > Hi are dropped.
func (s Set) Normalize() Set {
	out := make(Set, 0, len(s))
	for _, g := range s {
		if g.Lo <= g.Hi {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })

	merged := out[:0]
	for _, g := range out {
		if n := len(merged); n > 0 && g.Lo <= merged[n-1].Hi+1 {
			if g.Hi > merged[n-1].Hi {
				merged[n-1].Hi = g.Hi
			}
			continue
		}
		merged = append(merged, g)
	}
	return merged
}

// PrivateUse is the Basic Multilingual Plane private-use area, where hosts
// conventionally place their inline emoji and button icons.
var PrivateUse = Range{Lo: 0xE000, Hi: 0xF8FF}

// Emoji lists the blocks whose code points default to emoji presentation.
var Emoji = Set{
	{Lo: 0x2600, Hi: 0x27BF},   // Miscellaneous Symbols, Dingbats
	{Lo: 0x1F000, Hi: 0x1F02F}, // Mahjong Tiles
	{Lo: 0x1F0A0, Hi: 0x1F0FF}, // Playing Cards
	{Lo: 0x1F1E6, Hi: 0x1F1FF}, // Regional Indicators
	{Lo: 0x1F300, Hi: 0x1F5FF}, // Misc Symbols and Pictographs
	{Lo: 0x1F600, Hi: 0x1F64F}, // Emoticons
	{Lo: 0x1F680, Hi: 0x1F6FF}, // Transport and Map
	{Lo: 0x1F900, Hi: 0x1F9FF}, // Supplemental Symbols and Pictographs
	{Lo: 0x1FA70, Hi: 0x1FAFF}, // Symbols and Pictographs Extended-A
}

// Default returns the reserved set used when the host configures none:
// the emoji blocks plus the private-use area.
func Default() Set {
	s := make(Set, 0, len(Emoji)+1)
	s = append(s, Emoji...)
	s = append(s, PrivateUse)
	return s.Normalize()
}
