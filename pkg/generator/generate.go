package generator

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/observability"
	"github.com/matzehuels/proctex/pkg/surface"
)

// Generate evaluates the graph for every pixel of a width x height surface.
//
// Each pixel is evaluated at (x, y, 0). Rows are interleaved across the
// configured workers and ctx is checked between rows; an expired or canceled
// context aborts the pass with a TIMEOUT or CANCELED error. Any node error
// aborts the whole pass; no partial surface is returned.
func (g *Generator) Generate(ctx context.Context, width, height uint32) (*surface.Surface, error) {
	s, _, err := g.GeneratePlan(ctx, width, height)
	return s, err
}

// GeneratePlan is Generate that also returns the plan the surface was
// evaluated with. Both come from the same graph version even when the graph
// is edited concurrently.
func (g *Generator) GeneratePlan(ctx context.Context, width, height uint32) (*surface.Surface, *Plan, error) {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	plan, err := g.compile(ctx)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	hooks := observability.Generator()
	hooks.OnGenerateStart(ctx, width, height)

	surf, err := g.run(ctx, plan, width, height)
	hooks.OnGenerateComplete(ctx, width, height, time.Since(start), err)
	if err != nil {
		g.logger.Debug("generation failed", "size", node.Extent{Width: width, Height: height}, "err", err)
		return nil, nil, err
	}

	g.logger.Debug("generated surface",
		"width", width,
		"height", height,
		"steps", plan.Len(),
		"workers", g.workers,
		"elapsed", time.Since(start))
	return surf, plan, nil
}

func (g *Generator) run(ctx context.Context, plan *Plan, width, height uint32) (*surface.Surface, error) {
	surf := surface.New(width, height)
	ext := node.Extent{Width: width, Height: height}

	bands := uint32(g.workers)
	if bands > height {
		bands = height
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for band := range bands {
		eg.Go(func() error {
			scratch := plan.NewScratch()
			for y := band; y < height; y += bands {
				if err := egCtx.Err(); err != nil {
					return err
				}
				for x := range width {
					v, err := plan.Eval(coord.NewXY(float64(x), float64(y)), ext, scratch)
					if err != nil {
						return err
					}
					if err := surf.PutPixel(x, y, v.ToPixel()); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, err
	}
	return surf, nil
}

func contextError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "generation exceeded its deadline")
	}
	return errors.Wrap(errors.ErrCodeCanceled, err, "generation canceled")
}
