// Package preset provides named, ready-made texture graphs.
//
// Presets replace a single hard-wired demo graph: every call to [Build]
// returns a fresh, caller-owned generator.
//
//	g, err := preset.Build("noise-map", preset.Params{Seed: 7, Scale: 4})
package preset

import (
	"slices"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/node/library"
	"github.com/matzehuels/proctex/pkg/value"
)

// DefaultName is the preset used when none is requested.
const DefaultName = "noise-map"

// Params tunes the noise sources of a preset.
type Params struct {
	Seed  int64
	Scale float64 // spatial frequency on x and y, 0 selects 1
}

func (p Params) noise() *library.Noise {
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	return library.NewNoise(p.Seed, library.WithScale(coord.New(scale, scale, 1)))
}

type preset struct {
	description string
	build       func(g *generator.Generator, p Params) error
}

var presets = map[string]preset{
	"noise-map": {
		description: "Perlin noise thresholded into a white and black mask",
		build: func(g *generator.Generator, p Params) error {
			if err := chain(g, p.noise(), mustMap(
				library.Step{Value: value.Scalar(1), Threshold: 0.30},
				library.Step{Value: value.Scalar(0), Threshold: 0.3001},
			)); err != nil {
				return err
			}
			// left unconnected; it is pruned at compile time
			_, err := g.AddNode(library.NewConstant(px(255, 100, 0, 255)))
			return err
		},
	},
	"noise": {
		description: "raw Perlin noise as grayscale",
		build: func(g *generator.Generator, p Params) error {
			return chain(g, p.noise())
		},
	},
	"constant": {
		description: "a solid red surface",
		build: func(g *generator.Generator, _ Params) error {
			return chain(g, library.NewConstant(px(255, 0, 0, 255)))
		},
	},
	"invert": {
		description: "inverted Perlin noise",
		build: func(g *generator.Generator, p Params) error {
			return chain(g, p.noise(), library.NewInvert())
		},
	},
	"checker": {
		description: "Perlin noise masked by a one pixel checkerboard",
		build: func(g *generator.Generator, p Params) error {
			return chain(g, p.noise(), library.NewPattern())
		},
	},
	"gradient-map": {
		description: "Perlin noise through a five color terrain ramp",
		build: func(g *generator.Generator, p Params) error {
			return chain(g, p.noise(), mustMap(
				library.Step{Value: px(10, 30, 90, 255), Threshold: 0.0},
				library.Step{Value: px(30, 90, 170, 255), Threshold: 0.35},
				library.Step{Value: px(230, 210, 150, 255), Threshold: 0.45},
				library.Step{Value: px(60, 140, 60, 255), Threshold: 0.6},
				library.Step{Value: px(250, 250, 250, 255), Threshold: 0.85},
			))
		},
	},
	"blend": {
		description: "two colors mixed by Perlin noise",
		build: func(g *generator.Generator, p Params) error {
			a, err := g.AddNode(library.NewConstant(px(200, 60, 40, 255)))
			if err != nil {
				return err
			}
			b, err := g.AddNode(library.NewConstant(px(40, 80, 200, 255)))
			if err != nil {
				return err
			}
			f, err := g.AddNode(p.noise())
			if err != nil {
				return err
			}
			mix, err := g.AddNode(library.NewMix())
			if err != nil {
				return err
			}
			for _, l := range []struct {
				from generator.NodeID
				name string
			}{{a, library.MixA}, {b, library.MixB}, {f, library.MixFactor}} {
				if _, err := g.AddLink(l.from, mix, l.name); err != nil {
					return err
				}
			}
			_, err = g.AddLink(mix, generator.OutputID, "")
			return err
		},
	},
}

// Names returns all preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Describe returns a one-line description of a preset.
func Describe(name string) (string, error) {
	p, err := lookup(name)
	if err != nil {
		return "", err
	}
	return p.description, nil
}

// Build returns a new generator holding the named graph. Options are passed
// to generator.New.
func Build(name string, params Params, opts ...generator.Option) (*generator.Generator, error) {
	p, err := lookup(name)
	if err != nil {
		return nil, err
	}
	g := generator.New(opts...)
	if err := p.build(g, params); err != nil {
		return nil, errors.Annotate(err, "build preset %q", name)
	}
	return g, nil
}

func lookup(name string) (preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return preset{}, err
	}
	p, ok := presets[name]
	if !ok {
		return preset{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q", name)
	}
	return p, nil
}

// chain links nodes in order and the last one to the output.
func chain(g *generator.Generator, nodes ...node.Node) error {
	prev := generator.NodeID(-1)
	for _, n := range nodes {
		id, err := g.AddNode(n)
		if err != nil {
			return err
		}
		if prev >= 0 {
			if _, err := g.AddLink(prev, id, ""); err != nil {
				return err
			}
		}
		prev = id
	}
	_, err := g.AddLink(prev, generator.OutputID, "")
	return err
}

func mustMap(steps ...library.Step) *library.Map {
	m, err := library.NewMap(steps...)
	if err != nil {
		panic(err)
	}
	return m
}

func px(r, g, b, a uint8) value.Value {
	return value.FromPixel(value.NewPixel(r, g, b, a))
}
