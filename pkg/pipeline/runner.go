package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/proctex/pkg/cache"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/observability"
	"github.com/matzehuels/proctex/pkg/preset"
)

// DefaultTTL is how long cached artifacts live when the runner has no TTL.
const DefaultTTL = 7 * 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute renders a preset, serving artifacts from the cache when every
// requested format is present.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Preset, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Preset, opts.Formats, time.Since(start), err)
	}()

	graphKey := r.Keyer.GraphKey(opts.Preset, opts.GraphKeyOpts())

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, graphKey, opts); ok {
			opts.Logger.Debug("artifacts served from cache", "preset", opts.Preset, "formats", opts.Formats)
			return &Result{Artifacts: artifacts, CacheHit: true}, nil
		}
	}

	buildStart := time.Now()
	g, err := preset.Build(opts.Preset, opts.Params(),
		generator.WithWorkers(opts.Workers),
		generator.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(buildStart)

	result, err = r.RenderGenerator(ctx, g, opts)
	if err != nil {
		return nil, errors.Annotate(err, "render preset %q", opts.Preset)
	}
	result.Stats.BuildTime = buildTime

	for format, data := range result.Artifacts {
		key := r.Keyer.ArtifactKey(graphKey, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	opts.Logger.Info("rendered preset",
		"preset", opts.Preset,
		"size", node.Extent{Width: opts.Width, Height: opts.Height},
		"formats", opts.Formats,
		"duration", time.Since(start))

	return result, nil
}

// RenderGenerator generates and encodes a caller-owned generator. Nothing is
// cached since the graph has no stable identity.
func (r *Runner) RenderGenerator(ctx context.Context, g *generator.Generator, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	genStart := time.Now()
	s, plan, err := g.GeneratePlan(genCtx, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	genTime := time.Since(genStart)

	encStart := time.Now()
	artifacts, err := Encode(s, opts.Formats, opts.Scale)
	if err != nil {
		return nil, err
	}

	return &Result{
		Surface:   s,
		Artifacts: artifacts,
		Stats: Stats{
			Nodes:        plan.Len() + plan.Pruned(),
			Steps:        plan.Len(),
			Pruned:       plan.Pruned(),
			GenerateTime: genTime,
			EncodeTime:   time.Since(encStart),
		},
	}, nil
}

// cached returns the artifacts for every requested format, or false if any
// is missing.
func (r *Runner) cached(ctx context.Context, graphKey string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphKey, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL <= 0 {
		return DefaultTTL
	}
	return r.TTL
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
