// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"errors"

	"github.com/gogpu/lazyglyph/face"
	"github.com/gogpu/lazyglyph/raster"
)

// Sentinel errors.
var (
	// ErrUnresolvedFont is returned when a selected font file is missing,
	// has an unsupported format, or cannot be parsed. The previously
	// active font stays active.
	ErrUnresolvedFont = face.ErrUnresolvedFont

	// ErrGlyphNotFound marks a character the active face cannot draw.
	// It never leaves the engine: such characters use the fallback table.
	ErrGlyphNotFound = raster.ErrGlyphNotFound

	// ErrNoFallback marks a character neither the face nor the fallback
	// table can provide. Lookup reports it as a nil record.
	ErrNoFallback = errors.New("lazyglyph: no fallback glyph")

	// ErrUnsupportedStrategy is returned for unknown generation strategies.
	ErrUnsupportedStrategy = errors.New("lazyglyph: unsupported generation strategy")

	// ErrClosed is returned by operations on an engine after Shutdown.
	ErrClosed = errors.New("lazyglyph: engine is shut down")
)
