// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import "iter"

// baselineRanges is the character set of the legacy display font: ASCII,
// Latin-1, the Latin Extended letters used by European languages, and
// common typographic punctuation. Bounds are inclusive.
var baselineRanges = [][2]rune{
	{32, 126}, {160, 163}, {165, 180}, {182, 263}, {268, 275}, {278, 283},
	{286, 287}, {290, 291}, {298, 299}, {302, 305}, {310, 311}, {313, 318},
	{321, 321}, {322, 328}, {332, 333}, {336, 347}, {350, 357}, {362, 363},
	{366, 371}, {376, 382}, {536, 539}, {710, 711}, {728, 733}, {1460, 1460},
	{8211, 8212}, {8216, 8218}, {8220, 8222}, {8224, 8226}, {8230, 8230},
	{8240, 8240}, {8249, 8250}, {8260, 8260}, {8364, 8364}, {8482, 8482},
	{8800, 8800}, {8804, 8805},
}

// BaselineSet iterates over the legacy baseline character set in
// ascending order.
func BaselineSet() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, rg := range baselineRanges {
			for r := rg[0]; r <= rg[1]; r++ {
				if !yield(r) {
					return
				}
			}
		}
	}
}
