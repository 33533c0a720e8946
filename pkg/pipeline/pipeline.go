// Package pipeline turns a preset or a caller-owned generator into encoded
// image artifacts.
//
// This package implements the build → generate → encode pipeline shared by
// the CLI and the HTTP API, so both apply the same defaults, validation and
// caching rules.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: instantiate a named preset graph with the requested noise parameters
//  2. Generate: evaluate every pixel of the surface under an optional timeout
//  3. Encode: write the surface in each requested format (PNG, BMP, raw RGBA)
//
// Generation is deterministic, so encoded artifacts of presets are cached by
// preset, noise parameters, surface size, pixel scale and format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Preset:  "noise-map",
//	    Width:   512,
//	    Height:  512,
//	    Formats: []string{"png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Render a graph assembled by hand:
//
//	g := generator.New()
//	// ... add nodes and links ...
//	result, err := runner.RenderGenerator(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/proctex/pkg/cache"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/preset"
	"github.com/matzehuels/proctex/pkg/render"
	"github.com/matzehuels/proctex/pkg/surface"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 256

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 256

	// DefaultNoiseScale is the default spatial frequency of noise sources.
	DefaultNoiseScale = 4.0

	// DefaultPixelScale draws every generated pixel once.
	DefaultPixelScale = 1

	// DefaultTimeout bounds a single generation.
	DefaultTimeout = 30 * time.Second
)

// DefaultFormat is the default output format.
const DefaultFormat = render.FormatPNG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Preset     string  `json:"preset,omitempty"`
	Seed       int64   `json:"seed,omitempty"`
	NoiseScale float64 `json:"noise_scale,omitempty"`

	// Generate options
	Width   uint32        `json:"width,omitempty"`
	Height  uint32        `json:"height,omitempty"`
	Workers int           `json:"workers,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`

	// Encode options
	Formats []string `json:"formats,omitempty"`
	Scale   int      `json:"scale,omitempty"`

	// Refresh skips cached artifacts and regenerates them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Surface is the generated surface. It is nil when every artifact came
	// from the cache.
	Surface *surface.Surface

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether all artifacts came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes        int
	Steps        int
	Pruned       int
	BuildTime    time.Duration
	GenerateTime time.Duration
	EncodeTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Preset == "" {
		o.Preset = preset.DefaultName
	}
	if _, err := preset.Describe(o.Preset); err != nil {
		return err
	}
	if o.NoiseScale == 0 {
		o.NoiseScale = DefaultNoiseScale
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	return nil
}

// ValidateForRender validates and defaults the options used when rendering a
// caller-owned generator. Preset fields are ignored.
func (o *Options) ValidateForRender() error {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Scale == 0 {
		o.Scale = DefaultPixelScale
	}
	if o.Scale < 1 || o.Scale > render.MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d (got %d)", render.MaxScale, o.Scale)
	}

	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative")
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Params returns the preset parameters.
func (o *Options) Params() preset.Params {
	return preset.Params{Seed: o.Seed, Scale: o.NoiseScale}
}

// GraphKeyOpts returns cache key options identifying the preset graph.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{Seed: o.Seed, Scale: o.NoiseScale}
}

// ArtifactKeyOpts returns cache key options for one encoded format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Width:  o.Width,
		Height: o.Height,
		Format: format,
		Scale:  o.Scale,
	}
}
