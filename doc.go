// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lazyglyph rasterizes glyphs of a user-selected font on demand and
// caches them for a host text renderer.
//
// # Overview
//
// The host keeps its own glyph tables for the fonts its default loader
// produces. lazyglyph substitutes a custom font file for one of those
// fonts without pre-baking an atlas: characters are rasterized the first
// time they are needed, or ahead of time by a background worker, and
// characters the custom font cannot draw fall back to the host's own
// glyphs.
//
// # Quick Start
//
//	e := lazyglyph.New(lazyglyph.WithAssetSource(face.NewDirSource("content")))
//	e.OnLoad(host)
//	e.RegisterFont("Renogare", vanillaGlyphs)
//
//	lang := lazyglyph.Language{ID: "english", FontFace: "Renogare", FontFaceSize: 32}
//	if err := e.OnFontSelectionChanged(ctx, "Noto Sans.otf", lang); err != nil {
//	    // errors.Is(err, lazyglyph.ErrUnresolvedFont): previous font stays
//	}
//
//	g := e.Lookup(ctx, 'é', "Renogare") // never blocks on the worker
//
// # Generation strategies
//
// After a font switch the worker pre-generates characters according to
// the engine's Strategy:
//
//   - StrategyDialog: characters of the language's loaded text plus a
//     fixed Latin baseline set
//   - StrategyLoaded: every character of the identity's fallback table
//   - StrategyAll: every character the font maps
//   - StrategyLazy: nothing; glyphs are generated on first lookup
//
// # Concurrency
//
// A single lock guards the staging buffer, the live tables, the disposal
// queue and the active face's size. The render path and at most one
// worker contend for it. Font switches cancel the worker and wait for it
// before touching any state.
//
// # Resources
//
// Every texture the engine allocates is queued for release before the
// glyph that uses it is visible. Textures are destroyed when their font
// identity is switched, unregistered, or the engine shuts down.
//
// # Logging
//
// The engine logs through log/slog and is silent by default; see SetLogger.
package lazyglyph
