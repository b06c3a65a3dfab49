// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package face

import (
	"path"
	"slices"
	"strings"
)

// allowedFormats lists the font file extensions a Resolver accepts.
// The list mirrors the container formats FreeType-class parsers understand;
// whether a given file actually parses depends on the registered FontParser.
var allowedFormats = []string{"ttf", "otf", "pfb", "pfm", "cid", "cff", "fon", "fnt", "pcf"}

// AllowedFormats returns a copy of the accepted font file extensions,
// lower-case and without the leading dot.
func AllowedFormats() []string {
	return slices.Clone(allowedFormats)
}

// FormatOf returns the lower-case extension of p without the leading dot.
func FormatOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// IsAllowedFormat reports whether format (an extension without the dot,
// any case) is on the allow-list.
func IsAllowedFormat(format string) bool {
	return slices.Contains(allowedFormats, strings.ToLower(format))
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
