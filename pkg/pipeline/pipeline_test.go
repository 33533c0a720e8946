package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/proctex/pkg/cache"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/node/library"
	"github.com/matzehuels/proctex/pkg/observability"
	"github.com/matzehuels/proctex/pkg/value"
)

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"png", "bmp", "rgba"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"png", "svg"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("svg should be INVALID_FORMAT, got %v", err)
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}
	if o.Preset != "noise-map" {
		t.Errorf("Preset = %q, want noise-map", o.Preset)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want defaults", o.Width, o.Height)
	}
	if len(o.Formats) != 1 || o.Formats[0] != "png" {
		t.Errorf("Formats = %v, want [png]", o.Formats)
	}
	if o.Scale != 1 || o.NoiseScale != DefaultNoiseScale || o.Timeout != DefaultTimeout {
		t.Errorf("unexpected defaults: %+v", o)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	before := o
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Width != before.Width || o.Preset != before.Preset || o.Scale != before.Scale {
		t.Error("second call should not change options")
	}
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown preset", Options{Preset: "nope"}, errors.ErrCodeInvalidPreset},
		{"bad preset name", Options{Preset: "Bad Name"}, errors.ErrCodeInvalidPreset},
		{"too wide", Options{Width: errors.MaxDimension + 1}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
		{"huge scale", Options{Scale: 1000}, errors.ErrCodeInvalidInput},
		{"negative timeout", Options{Timeout: -time.Second}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{
		Preset:  "noise-map",
		Width:   16,
		Height:  8,
		Formats: []string{"png", "rgba"},
		Scale:   2,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheHit {
		t.Error("null cache should never hit")
	}
	if res.Surface == nil || res.Surface.Width() != 16 || res.Surface.Height() != 8 {
		t.Fatalf("unexpected surface: %+v", res.Surface)
	}

	img, err := png.Decode(bytes.NewReader(res.Artifacts["png"]))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Errorf("png bounds = %v, want 32x16", b)
	}
	if got := len(res.Artifacts["rgba"]); got != 32*16*4 {
		t.Errorf("rgba length = %d, want %d", got, 32*16*4)
	}

	if res.Stats.Steps != 3 || res.Stats.Pruned != 1 {
		t.Errorf("stats = %+v, want 3 steps and 1 pruned", res.Stats)
	}
}

func TestExecute_Deterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Preset: "gradient-map", Width: 12, Height: 12, Seed: 9, Formats: []string{"rgba"}}

	a, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Workers = 3
	b, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Artifacts["rgba"], b.Artifacts["rgba"]) {
		t.Error("same preset and seed should render identical bytes")
	}
}

func TestExecute_Cache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	opts := Options{Preset: "checker", Width: 8, Height: 8, Formats: []string{"bmp"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if second.Surface != nil {
		t.Error("cache hit should not generate a surface")
	}
	if !bytes.Equal(first.Artifacts["bmp"], second.Artifacts["bmp"]) {
		t.Error("cached artifact differs from generated one")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	// A new format is not cached yet, so the whole run regenerates.
	opts.Refresh = false
	opts.Formats = []string{"bmp", "png"}
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("partially cached formats should regenerate")
	}
}

func TestRenderGenerator(t *testing.T) {
	g := generator.New()
	red, err := g.AddNode(library.NewConstant(value.FromPixel(value.NewPixel(255, 0, 0, 255))))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddLink(red, generator.OutputID, ""); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.RenderGenerator(context.Background(), g, Options{Width: 2, Height: 2, Formats: []string{"rgba"}})
	if err != nil {
		t.Fatalf("RenderGenerator: %v", err)
	}
	want := bytes.Repeat([]byte{255, 0, 0, 255}, 4)
	if !bytes.Equal(res.Artifacts["rgba"], want) {
		t.Errorf("rgba = %v, want %v", res.Artifacts["rgba"], want)
	}
	if res.Stats.Nodes != 2 || res.Stats.Steps != 2 || res.Stats.Pruned != 0 {
		t.Errorf("stats = %+v, want 2 nodes, 2 steps, 0 pruned", res.Stats)
	}
}

func TestRenderGenerator_ConfigurationError(t *testing.T) {
	g := generator.New()
	r := NewRunner(nil, nil, nil)

	_, err := r.RenderGenerator(context.Background(), g, Options{Width: 2, Height: 2})
	if !errors.IsConfiguration(err) {
		t.Errorf("unlinked sink: err = %v, want configuration error", err)
	}
}

func TestExecute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(ctx, Options{Preset: "noise", Width: 64, Height: 64})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("err = %v, want CANCELED", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu      sync.Mutex
	started []string
	errs    []error
	hits    int
	misses  int
	sets    int
}

func (h *recordingHooks) OnRenderStart(_ context.Context, preset string, _ []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, preset)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ string, _ []string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Preset: "constant", Width: 4, Height: 4}

	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if len(hooks.started) != 2 || hooks.started[0] != "constant" {
		t.Errorf("started = %v", hooks.started)
	}
	for _, err := range hooks.errs {
		if err != nil {
			t.Errorf("OnRenderComplete got error %v", err)
		}
	}
	if hooks.misses != 1 || hooks.hits != 1 || hooks.sets != 1 {
		t.Errorf("cache events: %d misses, %d hits, %d sets; want 1 each", hooks.misses, hooks.hits, hooks.sets)
	}
}
