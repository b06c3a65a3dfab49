// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lazyglyph

import (
	"context"
	"errors"
	"image"
	"iter"
	"slices"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/lazyglyph/face"
	"github.com/gogpu/lazyglyph/texture"
)

// fakeFont is a scalable ParsedFont that maps a fixed set of characters
// and renders each as a small opaque box.
type fakeFont struct {
	chars   []rune
	index   map[rune]uint16
	panicOn rune
	renders atomic.Int64
}

func newFakeFont(chars ...rune) *fakeFont {
	f := &fakeFont{chars: chars, index: make(map[rune]uint16, len(chars))}
	for i, r := range chars {
		f.index[r] = uint16(i + 1)
	}
	return f
}

func runeRange(lo rune, n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = lo + rune(i)
	}
	return out
}

func (f *fakeFont) Name() string             { return "Fake" }
func (f *fakeFont) Scalable() bool           { return true }
func (f *fakeFont) FixedSizes() []float64    { return nil }
func (f *fakeFont) GlyphIndex(r rune) uint16 { return f.index[r] }
func (f *fakeFont) Chars() iter.Seq[rune]    { return slices.Values(f.chars) }

func (f *fakeFont) Metrics(ppem float64) face.Metrics {
	return face.Metrics{Ascent: ppem * 0.75, Descent: ppem * 0.25, Height: ppem}
}

func (f *fakeFont) Render(gid uint16, ppem float64) (face.Bitmap, error) {
	f.renders.Add(1)
	if f.panicOn != 0 && gid == f.index[f.panicOn] {
		panic("corrupt outline")
	}
	mask := image.NewAlpha(image.Rect(0, 0, 2, 3))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return face.Bitmap{Mask: mask, Left: 1, Top: 3, Advance: ppem / 2}, nil
}

// fakeParser serves fonts by file content.
type fakeParser struct {
	fonts map[string]*fakeFont
}

func (p fakeParser) Parse(data []byte) (face.ParsedFont, error) {
	f, ok := p.fonts[string(data)]
	if !ok {
		return nil, errors.New("fake: unknown font")
	}
	return f, nil
}

type fakeHost struct {
	miss     MissHandler
	priority PriorityQuery
}

func (h *fakeHost) SetGlyphMissHandler(m MissHandler) { h.miss = m }
func (h *fakeHost) SetPriorityQuery(q PriorityQuery)  { h.priority = q }

var english = Language{ID: "english", FontFace: "Renogare", FontFaceSize: 32}

// testEngine builds an engine over an in-memory asset tree with two custom
// fonts, Custom.ttf and Other.otf, and a broken one, Broken.ttf.
func testEngine(t *testing.T, custom, other *fakeFont, opts ...Option) (*Engine, *texture.Memory) {
	t.Helper()
	parser := "fake/" + t.Name()
	face.RegisterParser(parser, fakeParser{fonts: map[string]*fakeFont{
		"custom": custom,
		"other":  other,
	}})
	fsys := fstest.MapFS{
		"Assets/FontFile/Custom.ttf": {Data: []byte("custom")},
		"Assets/FontFile/Other.otf":  {Data: []byte("other")},
		"Assets/FontFile/Broken.ttf": {Data: []byte("broken")},
	}
	mem := texture.NewMemory()
	base := []Option{
		WithAssetSource(face.NewFSSource(fsys)),
		WithParser(parser),
		WithAllocator(mem),
		WithWorkerDelay(0),
		WithStrategy(StrategyLazy),
	}
	e := New(append(base, opts...)...)
	t.Cleanup(e.Shutdown)
	return e, mem
}

func vanilla(runes ...rune) map[rune]*GlyphRecord {
	m := make(map[rune]*GlyphRecord, len(runes))
	for _, r := range runes {
		m[r] = &GlyphRecord{Rune: r, Width: 1, Height: 1, XAdvance: 1}
	}
	return m
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func wait(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestLookupIdempotent(t *testing.T) {
	e, mem := testEngine(t, newFakeFont('A', 'B'), newFakeFont())
	e.RegisterFont("Renogare", vanilla('A'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatalf("OnFontSelectionChanged: %v", err)
	}

	first := e.Lookup(context.Background(), 'B', "Renogare")
	if first == nil || first.Fallback() {
		t.Fatalf("Lookup(B) = %v, want a rasterized glyph", first)
	}
	second := e.Lookup(context.Background(), 'B', "Renogare")
	if first != second {
		t.Error("second lookup returned a different record")
	}

	e.mu.Lock()
	third, _ := e.generateLocked(context.Background(), 'B', "Renogare")
	e.mu.Unlock()
	if third != first {
		t.Error("pipeline regenerated an answered character")
	}

	if calls := e.RasterStats().Calls; calls != 1 {
		t.Errorf("rasterizer calls = %d, want 1", calls)
	}
	if mem.Live() != 1 {
		t.Errorf("live textures = %d, want 1", mem.Live())
	}
	if diff := cmp.Diff([]rune{'B'}, e.Cached("Renogare")); diff != "" {
		t.Errorf("Cached mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupMetrics(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A'), newFakeFont())
	e.RegisterFont("Noto", nil)
	lang := Language{ID: "russian", FontFace: "Noto", FontFaceSize: 32}
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", lang); err != nil {
		t.Fatal(err)
	}

	// Line height at 64 ppem is 64, so the scale is 0.5 and ppem 32.
	// Baseline is descent(64) * 0.5 = 8.
	got := e.Lookup(context.Background(), 'A', "Noto")
	want := &GlyphRecord{
		Rune:     'A',
		Width:    2,
		Height:   3,
		XAdvance: 16,
		XOffset:  1,
		YOffset:  int(32 - 3 - 8.0),
		Baseline: 8,
		Epoch:    1,
		Serial:   1,
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(GlyphRecord{}, "Texture")); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if got.Texture.Width() != 2 || got.Texture.Height() != 3 {
		t.Errorf("texture %dx%d, want 2x3", got.Texture.Width(), got.Texture.Height())
	}
}

func TestRenogareScaleOverride(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A'), newFakeFont())
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	// 0.5 squared gives ppem 16, advance 8.
	if g := e.Lookup(context.Background(), 'A', "Renogare"); g == nil || g.XAdvance != 8 {
		t.Errorf("Lookup(A) = %v, want XAdvance 8", g)
	}
}

func TestReservedRangeNeverRasterized(t *testing.T) {
	const grin = 0x1F600
	font := newFakeFont('A', grin, 0xE000)

	tests := []struct {
		name     string
		r        rune
		vanilla  map[rune]*GlyphRecord
		wantNil  bool
		reserved [][2]rune
	}{
		{"emoji with fallback", grin, vanilla(grin), false, nil},
		{"emoji without fallback", grin, nil, true, nil},
		{"private use", 0xE000, vanilla(0xE000), false, nil},
		{"custom range", 'A', vanilla('A'), false, [][2]rune{{'A', 'A'}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testEngine(t, font, newFakeFont(), WithReservedRanges(tt.reserved...))
			e.RegisterFont("Renogare", tt.vanilla)
			if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
				t.Fatal(err)
			}

			got := e.Lookup(context.Background(), tt.r, "Renogare")
			if tt.wantNil {
				if got != nil {
					t.Errorf("Lookup = %v, want nil", got)
				}
			} else if got != tt.vanilla[tt.r] {
				t.Errorf("Lookup = %v, want the fallback record", got)
			}
			if calls := e.RasterStats().Calls; calls != 0 {
				t.Errorf("rasterizer calls = %d, want 0", calls)
			}
		})
	}
}

func TestFallback(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A'), newFakeFont())
	v := vanilla('Z')
	e.RegisterFont("Renogare", v)

	// No custom face yet: the live table answers with vanilla glyphs.
	if got := e.Lookup(context.Background(), 'Z', "Renogare"); got != v['Z'] {
		t.Errorf("Lookup(Z) before switch = %v", got)
	}

	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	if got := e.Lookup(context.Background(), 'Z', "Renogare"); got != v['Z'] {
		t.Errorf("Lookup(Z) for an unmapped rune = %v, want fallback", got)
	}
	if got := e.Lookup(context.Background(), 'Q', "Renogare"); got != nil {
		t.Errorf("Lookup(Q) = %v, want nil", got)
	}

	// Identities other than the active one always use their fallback.
	e.RegisterFont("Noto", vanilla('A'))
	if got := e.Lookup(context.Background(), 'A', "Noto"); got == nil || !got.Fallback() {
		t.Errorf("Lookup(A, Noto) = %v, want fallback", got)
	}

	// Noto's vanilla glyph came straight from its live table.
	s := e.Stats()
	if s.Fallback != 1 || s.Missing != 1 {
		t.Errorf("Stats = %+v, want 1 fallback and 1 missing", s)
	}
}

func TestLookupRecoversParserPanic(t *testing.T) {
	font := newFakeFont('A', 'B')
	font.panicOn = 'B'
	e, _ := testEngine(t, font, newFakeFont())
	e.RegisterFont("Renogare", vanilla('B'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	if got := e.Lookup(context.Background(), 'B', "Renogare"); got == nil || !got.Fallback() {
		t.Errorf("Lookup(B) = %v, want fallback after a backend panic", got)
	}
	if got := e.Lookup(context.Background(), 'A', "Renogare"); got == nil || got.Fallback() {
		t.Errorf("Lookup(A) = %v, want rasterized", got)
	}
}

func TestLazyStrategyStartsEmpty(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A', 'B'), newFakeFont())
	e.RegisterFont("Renogare", vanilla('A', 'B'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}

	if s := e.Stats(); s.Running || s.Staged != 0 || s.LiveGlyphs != 0 {
		t.Fatalf("after switch: %+v, want no worker and empty caches", s)
	}
	e.Lookup(context.Background(), 'A', "Renogare")
	if diff := cmp.Diff([]rune{'A'}, e.Cached("Renogare")); diff != "" {
		t.Errorf("Cached mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteStrategy(t *testing.T) {
	font := newFakeFont(65, 66, 67)
	e, _ := testEngine(t, font, newFakeFont(), WithStrategy(StrategyAll))
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	wait(t, e)

	if diff := cmp.Diff([]rune{65, 66, 67}, e.Staged("Renogare")); diff != "" {
		t.Errorf("Staged mismatch (-want +got):\n%s", diff)
	}
	if s := e.Stats(); s.Running {
		t.Error("worker still running after its sequence ended")
	}

	for range 3 {
		for _, r := range []rune{65, 66, 67} {
			if e.Lookup(context.Background(), r, "Renogare") == nil {
				t.Fatalf("Lookup(%c) = nil", r)
			}
		}
	}
	if diff := cmp.Diff([]rune{65, 66, 67}, e.Cached("Renogare")); diff != "" {
		t.Errorf("Cached mismatch (-want +got):\n%s", diff)
	}
	if calls := font.renders.Load(); calls != 3 {
		t.Errorf("renders = %d, want 3", calls)
	}
}

func TestLoadedStrategy(t *testing.T) {
	font := newFakeFont('A', 'B')
	e, _ := testEngine(t, font, newFakeFont(), WithStrategy(StrategyLoaded))
	e.RegisterFont("Renogare", vanilla('B', 'C', 'A'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	wait(t, e)

	if diff := cmp.Diff([]rune{'A', 'B', 'C'}, e.Staged("Renogare")); diff != "" {
		t.Errorf("Staged mismatch (-want +got):\n%s", diff)
	}
	s := e.Stats()
	if s.Rasterized != 2 || s.Fallback != 1 {
		t.Errorf("Stats = %+v, want 2 rasterized and 1 fallback", s)
	}
}

func TestDialogStrategy(t *testing.T) {
	font := newFakeFont('é', 'x')
	e, _ := testEngine(t, font, newFakeFont(), WithStrategy(StrategyDialog))
	e.RegisterFont("Renogare", nil)
	lang := english
	lang.Dialog = map[string]string{"greeting": "xe\u0301"}
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", lang); err != nil {
		t.Fatal(err)
	}
	wait(t, e)

	staged := e.Staged("Renogare")
	if !slices.Contains(staged, 'é') || !slices.Contains(staged, 'x') {
		t.Errorf("Staged = %q, want the normalized dialog characters", staged)
	}
	if font.renders.Load() != 2 {
		t.Errorf("renders = %d, want 2", font.renders.Load())
	}
}

func TestSwitchCancelsRunningWorker(t *testing.T) {
	first := newFakeFont(runeRange(0x4E00, 10000)...)
	e, mem := testEngine(t, first, newFakeFont('A'),
		WithStrategy(StrategyAll), WithWorkerDelay(time.Millisecond))
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "worker progress", func() bool { return e.Stats().Staged >= 10 })

	e.SetStrategy(StrategyLazy)
	if err := e.OnFontSelectionChanged(context.Background(), "Other.otf", english); err != nil {
		t.Fatal(err)
	}

	s := e.Stats()
	if s.Running {
		t.Error("previous worker still running after the switch returned")
	}
	if s.Staged != 0 || s.Dropped == 0 {
		t.Errorf("Stats = %+v, want partial staging dropped", s)
	}
	if mem.Live() != 0 {
		t.Errorf("live textures = %d, want 0 after the switch", mem.Live())
	}

	renders := first.renders.Load()
	time.Sleep(20 * time.Millisecond)
	if first.renders.Load() != renders {
		t.Error("old font kept rendering after the switch")
	}
	if renders >= 10000 {
		t.Errorf("renders = %d, worker was never interrupted", renders)
	}
}

func TestSwitchNeverLeaksOldGlyphs(t *testing.T) {
	first := newFakeFont(runeRange('A', 26)...)
	second := newFakeFont('A', 'B')
	e, _ := testEngine(t, first, second)
	e.RegisterFont("Renogare", vanilla('1'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	for _, r := range "ABC1" {
		e.Lookup(context.Background(), r, "Renogare")
	}

	if err := e.OnFontSelectionChanged(context.Background(), "Other.otf", english); err != nil {
		t.Fatal(err)
	}
	if got := e.Cached("Renogare"); len(got) != 0 {
		t.Fatalf("Cached after switch = %q, want empty", got)
	}

	epoch := e.Stats().Epoch
	for _, r := range "ABC1" {
		g := e.Lookup(context.Background(), r, "Renogare")
		switch r {
		case 'A', 'B':
			if g == nil || g.Epoch != epoch {
				t.Errorf("Lookup(%c) = %v, want a glyph from epoch %d", r, g, epoch)
			}
		default:
			if g != nil && !g.Fallback() {
				t.Errorf("Lookup(%c) = %v, want fallback or nil", r, g)
			}
		}
	}
	if first.renders.Load() != 3 {
		t.Errorf("old font renders = %d, want 3", first.renders.Load())
	}
}

func TestCancelKeepsMergedGlyphs(t *testing.T) {
	font := newFakeFont(runeRange(0x4E00, 10000)...)
	e, _ := testEngine(t, font, newFakeFont(),
		WithStrategy(StrategyAll), WithWorkerDelay(time.Millisecond))
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "worker progress", func() bool { return e.Stats().Staged >= 5 })

	// A render-path lookup merges what the worker has staged so far.
	e.Lookup(context.Background(), 0x4E00, "Renogare")
	merged := e.Cached("Renogare")
	waitFor(t, "more staging", func() bool { return e.Stats().Staged >= 3 })

	e.OnUnload()

	if diff := cmp.Diff(merged, e.Cached("Renogare")); diff != "" {
		t.Errorf("merged glyphs changed by cancellation (-want +got):\n%s", diff)
	}
	if got := e.Staged("Renogare"); len(got) != 0 {
		t.Errorf("Staged after cancellation = %d runes, want 0", len(got))
	}
	if q := e.Queued("Renogare"); q != len(merged) {
		t.Errorf("Queued = %d, want %d (one per merged glyph)", q, len(merged))
	}
}

func TestDisposalOnePerGlyph(t *testing.T) {
	e, _ := testEngine(t, newFakeFont(runeRange('A', 26)...), newFakeFont(), WithStrategy(StrategyAll))
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	for _, r := range "HELLOWORLD" {
		e.Lookup(context.Background(), r, "Renogare")
	}
	wait(t, e)
	for _, r := range "HELLO" {
		e.Lookup(context.Background(), r, "Renogare")
	}

	e.mu.Lock()
	entries := e.disposal.entriesFor("Renogare")
	e.mu.Unlock()

	type key struct {
		epoch uint64
		r     rune
	}
	seen := make(map[key]bool)
	for _, d := range entries {
		k := key{d.epoch, d.rune}
		if seen[k] {
			t.Errorf("texture queued twice for %c in epoch %d", d.rune, d.epoch)
		}
		seen[k] = true
	}
	if len(entries) != 26 {
		t.Errorf("queued textures = %d, want 26", len(entries))
	}
}

func TestUnresolvedFontKeepsPrevious(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A'), newFakeFont())
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	before := e.Lookup(context.Background(), 'A', "Renogare")

	for _, name := range []string{"Missing.ttf", "Broken.ttf", "Custom.woff2"} {
		t.Run(name, func(t *testing.T) {
			err := e.OnFontSelectionChanged(context.Background(), name, english)
			if !errors.Is(err, ErrUnresolvedFont) {
				t.Fatalf("error = %v, want ErrUnresolvedFont", err)
			}
			if id, ok := e.ActiveFont(); !ok || id != "Renogare" {
				t.Errorf("ActiveFont = %q, %v; previous font should stay", id, ok)
			}
			if got := e.Lookup(context.Background(), 'A', "Renogare"); got != before {
				t.Error("cached glyph lost after a failed switch")
			}
		})
	}
}

func TestEmptySelection(t *testing.T) {
	e, _ := testEngine(t, newFakeFont('A'), newFakeFont('A'))
	e.RegisterFont("Custom", vanilla('A'))
	lang := Language{ID: "english", FontFace: "Custom", FontFaceSize: 32}

	// The bundled file named after the identity is its default.
	if err := e.OnFontSelectionChanged(context.Background(), "", lang); err != nil {
		t.Fatal(err)
	}
	if g := e.Lookup(context.Background(), 'A', "Custom"); g == nil || g.Fallback() {
		t.Errorf("Lookup(A) = %v, want rasterized from Custom.ttf", g)
	}

	// Without a bundled match, the custom face is dropped.
	lang.FontFace = "Unbundled"
	e.RegisterFont("Unbundled", vanilla('A'))
	if err := e.OnFontSelectionChanged(context.Background(), "", lang); err != nil {
		t.Fatalf("empty selection without a bundled font: %v", err)
	}
	if _, ok := e.ActiveFont(); ok {
		t.Error("custom face still active")
	}
	if g := e.Lookup(context.Background(), 'A', "Unbundled"); g == nil || !g.Fallback() {
		t.Errorf("Lookup(A) = %v, want vanilla", g)
	}
}

func TestUnsupportedStrategy(t *testing.T) {
	e, mem := testEngine(t, newFakeFont('A'), newFakeFont())
	e.RegisterFont("Renogare", vanilla('A'))
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	e.Lookup(context.Background(), 'A', "Renogare")

	e.SetStrategy(Strategy(42))
	err := e.OnFontSelectionChanged(context.Background(), "Other.otf", english)
	if !errors.Is(err, ErrUnsupportedStrategy) {
		t.Fatalf("error = %v, want ErrUnsupportedStrategy", err)
	}
	if _, ok := e.ActiveFont(); ok {
		t.Error("custom face still active")
	}
	if mem.Live() != 0 {
		t.Errorf("live textures = %d, want 0", mem.Live())
	}
	if g := e.Lookup(context.Background(), 'A', "Renogare"); g == nil || !g.Fallback() {
		t.Errorf("Lookup(A) = %v, want vanilla", g)
	}
}

func TestUnregisterFont(t *testing.T) {
	e, mem := testEngine(t, newFakeFont('A', 'B'), newFakeFont())
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	e.Lookup(context.Background(), 'A', "Renogare")
	e.Lookup(context.Background(), 'B', "Renogare")

	e.UnregisterFont("Renogare")
	if mem.Live() != 0 {
		t.Errorf("live textures = %d, want 0", mem.Live())
	}
	if s := e.Stats(); s.Released != 2 || s.Queued != 0 {
		t.Errorf("Released = %d, Queued = %d, want 2 and 0", s.Released, s.Queued)
	}
	if got := e.Cached("Renogare"); got != nil {
		t.Errorf("Cached = %q, want nil", got)
	}

	// Without a live table, lookups still answer but nothing is kept.
	if g := e.Lookup(context.Background(), 'A', "Renogare"); g == nil {
		t.Error("Lookup(A) = nil after unregister")
	}
	if s := e.Stats(); s.Staged != 0 || s.Dropped != 1 {
		t.Errorf("Stats = %+v, want the record dropped at merge", s)
	}
}

func TestLookupBeforeRegister(t *testing.T) {
	e, mem := testEngine(t, newFakeFont('A'), newFakeFont())
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}

	first := e.Lookup(context.Background(), 'A', "Renogare")
	if first == nil || first.Fallback() {
		t.Fatalf("Lookup(A) = %v, want a rasterized glyph", first)
	}
	for range 100 {
		if g := e.Lookup(context.Background(), 'A', "Renogare"); g != first {
			t.Fatalf("Lookup(A) = %v, want the first record", g)
		}
	}
	if calls := e.RasterStats().Calls; calls != 1 {
		t.Errorf("rasterizer calls = %d, want 1", calls)
	}
	if mem.Live() != 1 || e.Queued("Renogare") != 1 {
		t.Errorf("live textures = %d, queued = %d, want 1 and 1", mem.Live(), e.Queued("Renogare"))
	}

	// Registering installs the record answered so far.
	e.RegisterFont("Renogare", vanilla('B'))
	if diff := cmp.Diff([]rune{'A', 'B'}, e.Cached("Renogare")); diff != "" {
		t.Errorf("Cached mismatch (-want +got):\n%s", diff)
	}
	if g := e.Lookup(context.Background(), 'A', "Renogare"); g != first {
		t.Errorf("Lookup(A) after register = %v, want the first record", g)
	}
	if calls := e.RasterStats().Calls; calls != 1 {
		t.Errorf("rasterizer calls after register = %d, want 1", calls)
	}
}

func TestCancelledLookupNotCached(t *testing.T) {
	e, mem := testEngine(t, newFakeFont('A', 'B'), newFakeFont())
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if g := e.Lookup(ctx, 'A', "Renogare"); g != nil {
		t.Errorf("Lookup(cancelled, A) = %v, want nil", g)
	}
	if mem.Live() != 0 {
		t.Errorf("live textures = %d after a cancelled lookup, want 0", mem.Live())
	}

	g := e.Lookup(context.Background(), 'A', "Renogare")
	if g == nil || g.Fallback() {
		t.Fatalf("Lookup(A) = %v, want a rasterized glyph", g)
	}
	if s := e.Stats(); s.Missing != 0 || s.Rasterized != 1 {
		t.Errorf("Stats = %+v, want one rasterized and none missing", s)
	}
}

func TestShutdown(t *testing.T) {
	e, mem := testEngine(t, newFakeFont(runeRange('A', 26)...), newFakeFont(),
		WithStrategy(StrategyAll), WithWorkerDelay(time.Millisecond))
	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	e.Lookup(context.Background(), 'Z', "Renogare")

	e.Shutdown()
	if mem.Live() != 0 {
		t.Errorf("live textures = %d after Shutdown, want 0", mem.Live())
	}
	if s := e.Stats(); s.Running || s.Queued != 0 || s.LiveGlyphs != 0 {
		t.Errorf("Stats after Shutdown = %+v", s)
	}
	if g := e.Lookup(context.Background(), 'A', "Renogare"); g != nil {
		t.Errorf("Lookup after Shutdown = %v, want nil", g)
	}
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); !errors.Is(err, ErrClosed) {
		t.Errorf("switch after Shutdown = %v, want ErrClosed", err)
	}
	e.Shutdown()
}

func TestHostHooks(t *testing.T) {
	e, mem := testEngine(t, newFakeFont(runeRange('A', 26)...), newFakeFont(), WithStrategy(StrategyAll))
	host := &fakeHost{}
	e.OnLoad(host)
	if host.miss == nil || host.priority == nil {
		t.Fatal("OnLoad did not install the hooks")
	}

	e.RegisterFont("Renogare", nil)
	if err := e.OnFontSelectionChanged(context.Background(), "Custom.ttf", english); err != nil {
		t.Fatal(err)
	}
	wait(t, e)
	if g := host.miss("Renogare", 'Q'); g == nil || g.Rune != 'Q' {
		t.Errorf("miss handler = %v", g)
	}
	if host.priority(context.Background()) {
		t.Error("a context without a lane is never priority")
	}

	// The worker allocated on its own lane; the render path did not.
	if s := mem.Stats(); s.Priority != 26 || s.Background != 0 {
		t.Errorf("allocation lanes = %+v, want all 26 on the priority lane", s)
	}

	e.OnUnload()
	if host.miss != nil || host.priority != nil {
		t.Error("OnUnload did not remove the hooks")
	}
}

func TestDiscoverAndSelectableFonts(t *testing.T) {
	fsys := fstest.MapFS{
		"Assets/FontFile/Renogare.otf":   {Data: []byte("r")},
		"Assets/FontFile/Noto Sans.ttf":  {Data: []byte("n")},
		"Assets/FontFile/Handwrite.ttf":  {Data: []byte("h")},
		"Assets/FontFile/readme.txt":     {Data: []byte("x")},
		"Assets/FontFile/pixel/Tiny.fon": {Data: []byte("t")},
	}
	e := New(WithAssetSource(face.NewFSSource(fsys)))
	t.Cleanup(e.Shutdown)

	if got := len(e.Discover()); got != 4 {
		t.Errorf("Discover found %d fonts, want 4", got)
	}
	langs := []Language{
		{ID: "english", FontFace: "Renogare"},
		{ID: "russian", FontFace: "Noto Sans"},
	}
	want := []string{"Handwrite.ttf", "pixel/Tiny.fon"}
	if diff := cmp.Diff(want, e.SelectableFonts(langs)); diff != "" {
		t.Errorf("SelectableFonts mismatch (-want +got):\n%s", diff)
	}
}
