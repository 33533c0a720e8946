package library

import (
	"math"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Pattern masks its input with a one-pixel checkerboard. Cells where x and y
// have the same parity are black; the others pass the input color through.
// The result is always opaque.
type Pattern struct {
	node.Base
}

// NewPattern returns a checkerboard node.
func NewPattern() *Pattern { return &Pattern{} }

func (*Pattern) Kind() string    { return "pattern" }
func (*Pattern) Spec() node.Spec { return node.Exactly(1) }

func (*Pattern) Generate(pos coord.Coordinate, _ node.Extent, in node.Inputs) (value.Value, error) {
	v, err := in.Only()
	if err != nil {
		return value.Nothing(), err
	}
	if parity(pos.X()) == parity(pos.Y()) {
		return value.FromPixel(value.NewPixel(0, 0, 0, 255)), nil
	}
	p := v.ToPixel()
	return value.FromPixel(value.NewPixel(p.R, p.G, p.B, 255)), nil
}

func parity(f float64) int64 {
	return int64(math.Floor(f)) & 1
}
