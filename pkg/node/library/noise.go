package library

import (
	"github.com/aquilax/go-perlin"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Perlin parameters: persistence, frequency multiplier and octaves.
const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 1
)

// Noise is a deterministic Perlin scalar field.
//
// The sampled point is ((x/(w-1) + off.x) * scale.x, (y/(h-1) + off.y) * scale.y,
// (z + off.z) * scale.z). The raw noise value is returned as a Scalar and may
// be negative; it saturates when converted to a pixel.
type Noise struct {
	node.Base
	seed   int64
	offset coord.Coordinate
	scale  coord.Coordinate
	field  *perlin.Perlin
}

// NoiseOption configures a Noise node.
type NoiseOption func(*Noise)

// WithOffset shifts the sampled point before scaling.
func WithOffset(off coord.Coordinate) NoiseOption {
	return func(n *Noise) { n.offset = off }
}

// WithScale sets the per-axis frequency.
func WithScale(scale coord.Coordinate) NoiseOption {
	return func(n *Noise) { n.scale = scale }
}

// NewNoise returns a noise source for the given seed with zero offset and
// unit scale.
func NewNoise(seed int64, opts ...NoiseOption) *Noise {
	n := &Noise{
		seed:  seed,
		scale: coord.New(1, 1, 1),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.field = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
	return n
}

func (n *Noise) Seed() int64              { return n.seed }
func (n *Noise) Offset() coord.Coordinate { return n.offset }
func (n *Noise) Scale() coord.Coordinate  { return n.scale }

func (n *Noise) Kind() string { return "noise" }

func (n *Noise) Generate(pos coord.Coordinate, ext node.Extent, _ node.Inputs) (value.Value, error) {
	span := coord.NewXY(normSpan(ext.Width), normSpan(ext.Height))
	p := pos.Div(span).Add(n.offset).Mul(n.scale)
	return value.Scalar(n.field.Noise3D(p.X(), p.Y(), p.Z())), nil
}

// normSpan is the divisor mapping pixel indices onto [0, 1]. Single pixel
// extents use 1.
func normSpan(size uint32) float64 {
	if size <= 1 {
		return 1
	}
	return float64(size - 1)
}
