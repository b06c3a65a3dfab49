// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"errors"
	"fmt"
)

// Sentinel errors for face package.
var (
	// ErrUnresolvedFont is returned when a font asset is missing, has a
	// format outside the allow-list, or cannot be parsed.
	ErrUnresolvedFont = errors.New("face: unresolved font")

	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("face: empty font data")

	// ErrUnsupportedFormat is the cause recorded when a file extension is
	// not on the allow-list.
	ErrUnsupportedFormat = errors.New("face: unsupported font format")

	// ErrAssetNotFound is returned when a source has no asset at a path.
	ErrAssetNotFound = errors.New("face: asset not found")
)

// UnresolvedFontError describes why a font asset could not become a Handle.
type UnresolvedFontError struct {
	Path   string
	Format string
	Err    error
}

func (e *UnresolvedFontError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("face: unresolved font %q (%s)", e.Path, e.Format)
	}
	return fmt.Sprintf("face: unresolved font %q (%s): %v", e.Path, e.Format, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UnresolvedFontError) Unwrap() error {
	return e.Err
}

// Is makes every UnresolvedFontError match ErrUnresolvedFont.
func (e *UnresolvedFontError) Is(target error) bool {
	return target == ErrUnresolvedFont
}
