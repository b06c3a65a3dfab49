// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/lazyglyph/face"
)

// Strategy selects which characters the background worker generates after
// a font switch.
type Strategy int

const (
	// StrategyDialog generates the characters of the language's loaded
	// text plus the legacy baseline set.
	StrategyDialog Strategy = iota

	// StrategyLoaded generates every character of the identity's
	// fallback table.
	StrategyLoaded

	// StrategyAll generates every character the font maps.
	StrategyAll

	// StrategyLazy generates nothing ahead of time.
	StrategyLazy
)

// String returns the canonical strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyDialog:
		return "dialog"
	case StrategyLoaded:
		return "loaded"
	case StrategyAll:
		return "all"
	case StrategyLazy:
		return "lazy"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s >= StrategyDialog && s <= StrategyLazy
}

// ParseStrategy parses a strategy name. Both the short names and the
// descriptive aliases are accepted, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dialog", "eager-minimal":
		return StrategyDialog, nil
	case "loaded", "eager-loaded":
		return StrategyLoaded, nil
	case "all", "eager-complete":
		return StrategyAll, nil
	case "lazy":
		return StrategyLazy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// dialogSeq yields the NFC-normalized characters of the language's text,
// keys in sorted order, then the baseline set, skipping repeats.
func dialogSeq(lang Language) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		seen := make(map[rune]struct{})
		emit := func(r rune) bool {
			if _, ok := seen[r]; ok {
				return true
			}
			seen[r] = struct{}{}
			return yield(r)
		}
		for _, key := range slices.Sorted(maps.Keys(lang.Dialog)) {
			for _, r := range norm.NFC.String(lang.Dialog[key]) {
				if !emit(r) {
					return
				}
			}
		}
		for r := range BaselineSet() {
			if !emit(r) {
				return
			}
		}
	}
}

// loadedSeq yields a snapshot of the fallback table's keys, ascending.
func loadedSeq(fallback map[rune]*GlyphRecord) iter.Seq[rune] {
	return slices.Values(slices.Sorted(maps.Keys(fallback)))
}

// allSeq yields the font's characters in cmap order. The parsed font is
// immutable, so the sequence can be consumed outside the engine lock.
func allSeq(h *face.Handle) iter.Seq[rune] {
	return h.Chars()
}
