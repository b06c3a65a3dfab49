// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import "context"

// MissHandler answers a render-path lookup that missed the host's own
// glyph table. It returns nil when no glyph is available.
type MissHandler func(id FontIdentity, r rune) *GlyphRecord

// PriorityQuery reports whether an allocation made under ctx is on the
// priority execution context.
type PriorityQuery func(ctx context.Context) bool

// Host is the embedding renderer. OnLoad installs the engine's handlers;
// OnUnload installs nil to remove them.
type Host interface {
	SetGlyphMissHandler(MissHandler)
	SetPriorityQuery(PriorityQuery)
}
