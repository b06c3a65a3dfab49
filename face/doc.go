// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package face resolves font files into sized, rasterization-ready faces.
//
// The pipeline has three layers:
//
//   - AssetSource: where font bytes come from (a directory, an fs.FS, or the
//     system font directories)
//   - FontParser: pluggable parsing backend (default: golang.org/x/image sfnt,
//     with go-text/typesetting for cmap traversal)
//   - Handle: a parsed font plus the pixel size, scale and baseline of the
//     current request
//
// A Resolver parses each virtual path once and keeps the Handle for the
// lifetime of the process:
//
//	r := face.NewResolver()
//	asset, _ := face.NewDirSource("content").TryGet("Assets/FontFile/Noto.otf")
//	h, err := r.Open(asset)
//	if err != nil {
//	    // errors.Is(err, face.ErrUnresolvedFont)
//	}
//	h.Configure("Noto Sans", 64, face.DefaultOverrides())
//
// A Handle's size state is mutable and not synchronized; callers that share
// a Handle across goroutines must serialize Configure against any reader.
package face
