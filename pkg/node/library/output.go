package library

import (
	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Output is the sink marker. The generator never calls Generate on it during
// evaluation; the pixel value is whatever its single input produced.
type Output struct{}

// NewOutput returns a sink node.
func NewOutput() *Output { return &Output{} }

func (*Output) Kind() string    { return "output" }
func (*Output) IsOutput() bool  { return true }
func (*Output) Spec() node.Spec { return node.Exactly(1) }

// Generate passes its single input through.
func (*Output) Generate(_ coord.Coordinate, _ node.Extent, in node.Inputs) (value.Value, error) {
	return in.Only()
}
