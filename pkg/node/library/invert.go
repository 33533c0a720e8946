package library

import (
	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Invert returns 1 - p for every channel percentage of its input, alpha
// included.
type Invert struct {
	node.Base
}

// NewInvert returns an inversion node.
func NewInvert() *Invert { return &Invert{} }

func (*Invert) Kind() string    { return "invert" }
func (*Invert) Spec() node.Spec { return node.Exactly(1) }

func (*Invert) Generate(_ coord.Coordinate, _ node.Extent, in node.Inputs) (value.Value, error) {
	v, err := in.Only()
	if err != nil {
		return value.Nothing(), err
	}
	p := v.Percentages()
	return value.Floats4([4]float64{1 - p[0], 1 - p[1], 1 - p[2], 1 - p[3]}), nil
}
