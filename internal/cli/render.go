package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/pipeline"
	"github.com/matzehuels/proctex/pkg/preset"
	"github.com/matzehuels/proctex/pkg/render"
)

// renderOpts holds the command-line flags for the render command. Zero
// values mean "use the config file".
type renderOpts struct {
	output     string        // output file (single format) or base path (multiple)
	formats    string        // comma-separated: png, bmp, rgba
	width      uint32        // surface width in pixels
	height     uint32        // surface height in pixels
	scale      int           // pixel upscale factor
	workers    int           // generation goroutines
	seed       int64         // noise seed
	noiseScale float64       // noise spatial frequency
	timeout    time.Duration // generation deadline
	noCache    bool          // bypass the artifact cache entirely
	refresh    bool          // regenerate and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "Render a preset texture to image files",
		Long: `Render a preset texture graph to one or more image files.

Without a preset argument, an interactive picker is shown on a terminal and
the default preset is used otherwise. Run "proctex presets" to list presets.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return preset.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := c.resolvePreset(args)
			if err != nil || name == "" {
				return err
			}
			return c.runRender(cmd.Context(), name, c.pipelineOptions(cmd, name, opts), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, bmp, rgba (comma-separated)")
	cmd.Flags().Uint32Var(&opts.width, "width", 0, "surface width in pixels")
	cmd.Flags().Uint32Var(&opts.height, "height", 0, "surface height in pixels")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "draw each pixel as a scale x scale block")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "generation goroutines (default GOMAXPROCS)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "noise seed")
	cmd.Flags().Float64Var(&opts.noiseScale, "noise-scale", 0, "noise spatial frequency")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort generation after this long")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate cached artifacts")

	return cmd
}

// resolvePreset returns the preset named in args, asks on a terminal, or
// falls back to the default. An empty name means the user quit the picker.
func (c *CLI) resolvePreset(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return preset.DefaultName, nil
	}
	name, err := pickPreset()
	if err != nil {
		return "", err
	}
	if name == "" {
		printInfo("No preset selected")
	}
	return name, nil
}

// pipelineOptions merges flags over the loaded config.
func (c *CLI) pipelineOptions(cmd *cobra.Command, name string, opts renderOpts) pipeline.Options {
	cfg := c.Config
	po := pipeline.Options{
		Preset:     name,
		Seed:       cfg.Noise.Seed,
		NoiseScale: cfg.Noise.Scale,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Workers:    cfg.Render.Workers,
		Timeout:    cfg.Render.Timeout.Duration,
		Formats:    parseFormats(cfg.Render.Format),
		Scale:      cfg.Render.Scale,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		po.Seed = opts.seed
	}
	if flags.Changed("noise-scale") {
		po.NoiseScale = opts.noiseScale
	}
	if flags.Changed("width") {
		po.Width = opts.width
	}
	if flags.Changed("height") {
		po.Height = opts.height
	}
	if flags.Changed("workers") {
		po.Workers = opts.workers
	}
	if flags.Changed("timeout") {
		po.Timeout = opts.timeout
	}
	if flags.Changed("format") {
		po.Formats = parseFormats(opts.formats)
	}
	if flags.Changed("scale") {
		po.Scale = opts.scale
	}
	return po
}

func (c *CLI) runRender(ctx context.Context, name string, po pipeline.Options, opts renderOpts) error {
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	size := node.Extent{Width: po.Width, Height: po.Height}.String()

	var spinner *Spinner
	if isatty.IsTerminal(os.Stderr.Fd()) {
		spinner = newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Generating %s %s...", name, size))
		spinner.Start()
	}
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, po)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeCanceled) {
			return context.Canceled
		}
		return err
	}
	c.Logger.Debug("pipeline stats",
		"build", result.Stats.BuildTime,
		"generate", result.Stats.GenerateTime,
		"encode", result.Stats.EncodeTime)
	prog.done(fmt.Sprintf("Rendered %s", name))

	paths := outputPaths(opts.output, name, po.Formats)
	for _, format := range po.Formats {
		path := paths[format]
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
	}

	printSuccess("Rendered %s", StyleValue.Render(name))
	printStats(size, result.Stats.Steps, result.Stats.Pruned, result.CacheHit)
	for _, format := range po.Formats {
		printFile(paths[format])
	}
	if po.Formats[0] != render.FormatRGBA {
		printNextStep("Inspect the graph", fmt.Sprintf("%s graph %s -f svg", appName, name))
	}
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats share output as a base name.
func outputPaths(output, name string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = name
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + render.Extension(f)
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
