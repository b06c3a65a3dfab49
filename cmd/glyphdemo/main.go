// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command glyphdemo switches a lazyglyph engine to a font, lays out a line
// of text from the generated glyphs, and writes it as a PNG.
package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing/fstest"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/lazyglyph"
	"github.com/gogpu/lazyglyph/face"
	"github.com/gogpu/lazyglyph/texture"
)

const identity lazyglyph.FontIdentity = "Demo"

// demoHost stands in for the renderer: it keeps the engine's miss handler
// and forwards the priority query to the texture loader.
type demoHost struct {
	miss lazyglyph.MissHandler
	mem  *texture.Memory
}

func (h *demoHost) SetGlyphMissHandler(fn lazyglyph.MissHandler) { h.miss = fn }
func (h *demoHost) SetPriorityQuery(q lazyglyph.PriorityQuery)   { h.mem.SetPriorityQuery(q) }

func main() {
	var (
		fontPath = flag.String("font", "", "font file (default: embedded Go Regular)")
		system   = flag.Bool("system", false, "look -font up among installed system fonts")
		size     = flag.Float64("size", 32, "target glyph height in pixels")
		strategy = flag.String("strategy", "dialog", "generation strategy: dialog, loaded, all, lazy")
		text     = flag.String("text", "Hello, lazyglyph! Ærø ≠ €", "text to render")
		output   = flag.String("output", "glyphs.png", "output file")
		verbose  = flag.Bool("v", false, "log engine activity")
	)
	flag.Parse()

	if *verbose {
		lazyglyph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	s, err := lazyglyph.ParseStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}

	source, name := fontSource(*fontPath, *system)
	mem := texture.NewMemory()
	e := lazyglyph.New(
		lazyglyph.WithAssetSource(source),
		lazyglyph.WithBasePath(""),
		lazyglyph.WithAllocator(mem),
		lazyglyph.WithStrategy(s),
	)
	defer e.Shutdown()

	host := &demoHost{mem: mem}
	e.OnLoad(host)
	// The engine draws nothing for blank characters; the host's own table
	// supplies the space.
	e.RegisterFont(identity, map[rune]*lazyglyph.GlyphRecord{
		' ': {Rune: ' ', XAdvance: int(math.Round(*size / 4))},
	})

	lang := lazyglyph.Language{
		ID:           "demo",
		FontFace:     identity,
		FontFaceSize: *size,
		Dialog:       map[string]string{"text": *text},
	}
	ctx := context.Background()
	if err := e.OnFontSelectionChanged(ctx, name, lang); err != nil {
		log.Fatalf("Failed to select font: %v", err)
	}

	var glyphs []*lazyglyph.GlyphRecord
	width := 0
	for _, r := range *text {
		g := host.miss(identity, r)
		if g == nil {
			log.Printf("No glyph for %U", r)
			continue
		}
		glyphs = append(glyphs, g)
		width += g.XAdvance
	}
	if width == 0 {
		log.Fatal("Nothing to draw")
	}

	const pad = 4
	height := int(math.Ceil(*size))
	atlas, err := newAtlas(mem, width+2*pad, height+2*pad)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}

	x := pad
	for _, g := range glyphs {
		if tex, ok := g.Texture.(*texture.Texture); ok {
			err := atlas.UpdateRegion(x+g.XOffset, pad+g.YOffset, g.Width, g.Height, tex.Pixels())
			if err != nil {
				log.Printf("Skipping %U: %v", g.Rune, err)
			}
		}
		x += g.XAdvance
	}

	if err := e.Wait(ctx); err != nil {
		log.Fatal(err)
	}
	if err := savePNG(atlas, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	st := e.Stats()
	log.Printf("Saved %s (%dx%d): %d rasterized, %d cached, %d fallback, %d missing, %d live textures",
		*output, atlas.Width(), atlas.Height(), st.Rasterized, st.LiveGlyphs, st.Fallback, st.Missing, mem.Live())
}

// fontSource returns the asset source to serve and the selection name for
// the font flag.
func fontSource(fontPath string, system bool) (face.AssetSource, string) {
	switch {
	case fontPath == "":
		return face.NewFSSource(fstest.MapFS{
			"Go-Regular.ttf": {Data: goregular.TTF},
		}), "Go-Regular.ttf"
	case system:
		return face.SystemSource{}, fontPath
	default:
		return face.NewDirSource(filepath.Dir(fontPath)), filepath.Base(fontPath)
	}
}

func newAtlas(mem *texture.Memory, w, h int) (*texture.Texture, error) {
	tex, err := mem.NewTextureFromRGBA(w, h, make([]byte, w*h*4))
	if err != nil {
		return nil, err
	}
	return tex.(*texture.Texture), nil
}

func savePNG(t *texture.Texture, path string) error {
	f, err := os.Create(path) // #nosec G304 -- output path from the command line
	if err != nil {
		return err
	}
	if err := png.Encode(f, t.Image()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
