// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"fmt"
	"iter"
	"path"
	"strings"
	"sync"

	"github.com/gogpu/lazyglyph/face"
	"github.com/gogpu/lazyglyph/raster"
	"github.com/gogpu/lazyglyph/texture"
)

// Engine generates glyphs for a custom font on demand and caches them.
//
// A font switch resolves the selected file, resets the caches of the
// affected identity, and starts a background worker that pre-generates the
// characters chosen by the Strategy. Render-path lookups never wait for
// the worker: a miss is generated synchronously, and characters the face
// cannot draw come from the fallback table the host registered.
//
// Engine is safe for concurrent use. One coarse lock guards all glyph
// state; at most one background worker runs at a time.
type Engine struct {
	cfg        config
	resolver   *face.Resolver
	rasterizer *raster.Rasterizer
	priority   PriorityMarker
	gate       gate

	// switchMu serializes font switches and lifecycle transitions.
	switchMu sync.Mutex

	mu       sync.Mutex
	strategy Strategy
	fallback fallbackTable
	staging  stagingBuffer
	live     *glyphCache
	disposal *disposalQueue

	// resolved records the characters the pipeline has already answered
	// for each identity since its last reset.
	resolved map[FontIdentity]map[rune]struct{}

	// uncached holds the records answered for identities without a live
	// table, so repeated requests reuse them until the table exists.
	uncached map[FontIdentity]map[rune]*GlyphRecord

	activeID FontIdentity
	active   *face.Handle
	epoch    uint64
	serial   uint64
	host     Host
	closed   bool
	counters counters
}

// New creates an Engine.
//
// Without WithAllocator or WithTextureCreator, glyph textures are kept in
// memory by a texture.Memory.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		cfg:      cfg,
		resolver: face.NewResolver(face.WithParser(cfg.parser)),
		strategy: cfg.strategy,
		fallback: make(fallbackTable),
		staging:  make(stagingBuffer),
		live:     newGlyphCache(),
		disposal: newDisposalQueue(),
		resolved: make(map[FontIdentity]map[rune]struct{}),
		uncached: make(map[FontIdentity]map[rune]*GlyphRecord),
	}
	e.rasterizer = raster.New(e.newAllocator())
	return e
}

// prioritySetter is implemented by allocators that can schedule uploads by
// priority lane, such as texture.Memory.
type prioritySetter interface {
	SetPriorityQuery(func(context.Context) bool)
}

func (e *Engine) newAllocator() raster.Allocator {
	switch {
	case e.cfg.allocator != nil:
		if ps, ok := e.cfg.allocator.(prioritySetter); ok {
			ps.SetPriorityQuery(e.priority.Active)
		}
		return e.cfg.allocator
	case e.cfg.creator != nil:
		if ps, ok := e.cfg.creator.(prioritySetter); ok {
			ps.SetPriorityQuery(e.priority.Active)
		}
		return raster.CreatorAllocator{Creator: e.cfg.creator}
	default:
		mem := texture.NewMemory()
		mem.SetPriorityQuery(e.priority.Active)
		return mem
	}
}

// Discover lists the bundled font files under the base path.
func (e *Engine) Discover() []face.Asset {
	return e.cfg.source.List(e.cfg.basePath)
}

// SelectableFonts returns the bundled font files a user may choose, as
// paths relative to the base path. Files that are some language's default
// font are left out; they are selected by choosing no custom font.
func (e *Engine) SelectableFonts(langs []Language) []string {
	defaults := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		defaults[string(l.FontFace)] = struct{}{}
	}

	var names []string
	for _, a := range e.Discover() {
		if _, ok := defaults[a.Stem()]; ok {
			continue
		}
		names = append(names, e.relPath(a.Path))
	}
	return names
}

func (e *Engine) relPath(p string) string {
	prefix := strings.TrimSuffix(e.cfg.basePath, "/") + "/"
	if rel, ok := strings.CutPrefix(p, prefix); ok {
		return rel
	}
	return path.Base(p)
}

// OnLoad installs the engine's miss handler and priority query on host.
func (e *Engine) OnLoad(host Host) {
	e.mu.Lock()
	e.host = host
	e.mu.Unlock()

	host.SetGlyphMissHandler(e.Glyph)
	host.SetPriorityQuery(e.priority.Active)
}

// OnUnload stops the worker and removes the engine's hooks from the host.
// Cached glyphs are kept until Shutdown.
func (e *Engine) OnUnload() {
	e.switchMu.Lock()
	defer e.switchMu.Unlock()

	e.gate.cancelAndWait()

	e.mu.Lock()
	host := e.host
	e.host = nil
	e.mu.Unlock()

	if host != nil {
		host.SetGlyphMissHandler(nil)
		host.SetPriorityQuery(nil)
	}
}

// RegisterFont tells the engine the host's default loader produced the
// font for id. The first registration of an identity records vanilla as
// its fallback table. Registration also creates the identity's live table,
// seeded with the records answered while it had none and then with the
// vanilla glyphs; if the table already exists, only characters it lacks
// are seeded.
func (e *Engine) RegisterFont(id FontIdentity, vanilla map[rune]*GlyphRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	if e.fallback.record(id, vanilla) {
		Logger().Debug("lazyglyph: fallback table recorded", "identity", string(id), "glyphs", len(vanilla))
	}

	t, ok := e.live.table(id)
	if !ok {
		t = e.live.create(id)
		for r, rec := range e.uncached[id] {
			t.Set(r, rec)
		}
		e.counters.merged += uint64(len(e.uncached[id]))
		delete(e.uncached, id)
	}
	for r, rec := range vanilla {
		if rec == nil {
			continue
		}
		if _, exists := t.Peek(r); !exists {
			t.Set(r, rec)
		}
	}
}

// UnregisterFont tells the engine the host unloaded the font for id.
// Its live table is removed and the textures generated for it released.
func (e *Engine) UnregisterFont(id FontIdentity) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live.remove(id)
	e.staging.clear(id)
	delete(e.resolved, id)
	delete(e.uncached, id)
	n := e.disposal.drain(id)
	e.counters.released += uint64(n)
}

// Strategy returns the generation strategy the next font switch uses.
func (e *Engine) Strategy() Strategy {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strategy
}

// SetStrategy sets the generation strategy. It takes effect at the next
// font switch, which fails with ErrUnsupportedStrategy if s is unknown.
func (e *Engine) SetStrategy(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategy = s
}

// ActiveFont returns the identity currently served by a custom face.
func (e *Engine) ActiveFont() (FontIdentity, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID, e.active != nil
}

// OnFontSelectionChanged switches lang's font to the bundled file name,
// relative to the base path. An empty name selects the bundled file whose
// stem equals lang.FontFace, or no custom font if there is none.
//
// The previous worker is stopped before any state changes, so when
// OnFontSelectionChanged returns no generation for the old font can still
// be in flight. A font that cannot be resolved leaves the previous font
// active and returns an error matching ErrUnresolvedFont.
//
// The new worker inherits ctx's values but not its cancellation; it runs
// until its sequence ends, the next switch, OnUnload, or Shutdown.
func (e *Engine) OnFontSelectionChanged(ctx context.Context, name string, lang Language) error {
	e.switchMu.Lock()
	defer e.switchMu.Unlock()

	e.mu.Lock()
	closed, strategy := e.closed, e.strategy
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}

	id := lang.FontFace
	log := Logger().With("identity", string(id), "font", name, "language", lang.ID)

	if !strategy.Valid() {
		log.Error("lazyglyph: unsupported generation strategy, using vanilla font", "strategy", strategy.String())
		e.deactivate(id)
		return fmt.Errorf("lazyglyph: font %q: %w: %s", name, ErrUnsupportedStrategy, strategy)
	}

	asset, err := e.selectAsset(name, id)
	if err != nil {
		if name == "" {
			log.Info("lazyglyph: no bundled font for identity, using vanilla font")
			e.deactivate(id)
			return nil
		}
		log.Warn("lazyglyph: font not found, keeping previous font", "err", err)
		return err
	}

	h, err := e.resolver.Open(asset)
	if err != nil {
		log.Warn("lazyglyph: font unresolved, keeping previous font", "err", err)
		return err
	}

	e.gate.cancelAndWait()

	e.mu.Lock()
	if prev := e.activeID; prev != "" && prev != id {
		e.supersedeLocked(prev)
	}
	e.supersedeLocked(id)
	h.Configure(string(id), lang.FontFaceSize, e.cfg.overrides)
	e.epoch++
	e.activeID, e.active = id, h
	epoch := e.epoch
	seq := e.demandLocked(strategy, id, lang, h)
	e.mu.Unlock()

	log.Info("lazyglyph: font switched",
		"path", asset.Path,
		"strategy", strategy.String(),
		"epoch", epoch,
		"ppem", h.PPEM(),
		"baseline", h.Baseline())

	if seq != nil {
		lane := e.priority.NewLane()
		parent := WithLane(context.WithoutCancel(ctx), lane)
		e.gate.start(parent, func(ctx context.Context) {
			e.run(ctx, id, lane, seq)
		})
	}
	return nil
}

// selectAsset finds the font file for a selection.
func (e *Engine) selectAsset(name string, id FontIdentity) (face.Asset, error) {
	if name == "" {
		for _, a := range e.Discover() {
			if a.Stem() == string(id) {
				return a, nil
			}
		}
		return face.Asset{}, &face.UnresolvedFontError{
			Path: path.Join(e.cfg.basePath, string(id)),
			Err:  face.ErrAssetNotFound,
		}
	}

	p := path.Join(e.cfg.basePath, name)
	a, ok := e.cfg.source.TryGet(p)
	if !ok {
		return face.Asset{}, &face.UnresolvedFontError{Path: p, Format: face.FormatOf(p), Err: face.ErrAssetNotFound}
	}
	return a, nil
}

// deactivate stops the worker and drops every custom glyph of id and of
// the active identity, leaving no custom face.
func (e *Engine) deactivate(id FontIdentity) {
	e.gate.cancelAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev := e.activeID; prev != "" && prev != id {
		e.supersedeLocked(prev)
	}
	e.supersedeLocked(id)
	e.activeID, e.active = "", nil
	e.epoch++
}

// supersedeLocked discards everything generated for id: pending records,
// the live table's contents, and the queued textures.
func (e *Engine) supersedeLocked(id FontIdentity) {
	e.staging.clear(id)
	e.live.clear(id)
	delete(e.resolved, id)
	delete(e.uncached, id)
	n := e.disposal.drain(id)
	e.counters.released += uint64(n)
}

// demandLocked returns the characters the worker should generate, or nil
// if there is nothing to do.
func (e *Engine) demandLocked(s Strategy, id FontIdentity, lang Language, h *face.Handle) iter.Seq[rune] {
	switch s {
	case StrategyDialog:
		return dialogSeq(lang)
	case StrategyLoaded:
		return loadedSeq(e.fallback[id])
	case StrategyAll:
		return allSeq(h)
	default:
		return nil
	}
}

// Wait blocks until the current background worker returns or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	return e.gate.wait(ctx)
}

// Shutdown stops the worker, releases every texture the engine allocated,
// and drops all live tables. Further font switches fail with ErrClosed and
// lookups return nil.
func (e *Engine) Shutdown() {
	e.switchMu.Lock()
	defer e.switchMu.Unlock()

	e.gate.cancelAndWait()

	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.staging)
	clear(e.resolved)
	clear(e.uncached)
	e.live.removeAll()
	n := e.disposal.drainAll()
	e.counters.released += uint64(n)
	e.activeID, e.active = "", nil
	e.closed = true

	Logger().Info("lazyglyph: shut down", "released", n)
}
