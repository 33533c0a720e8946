package library

import (
	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Input names of a Mix node.
const (
	MixA      = "input1"
	MixB      = "input2"
	MixFactor = "value"
)

// Mix blends two operands channel by channel: out = a*t + b*(1-t).
//
// The factor may be a Scalar (applied to all four channels), Floats3 (alpha
// factor 1) or Floats4. Any other variant is INVALID_OPERAND.
type Mix struct {
	node.Base
}

// NewMix returns a blend node.
func NewMix() *Mix { return &Mix{} }

func (*Mix) Kind() string    { return "mix" }
func (*Mix) Spec() node.Spec { return node.Named(MixA, MixB, MixFactor) }

func (*Mix) Generate(_ coord.Coordinate, _ node.Extent, in node.Inputs) (value.Value, error) {
	a, err := in.Get(MixA)
	if err != nil {
		return value.Nothing(), err
	}
	b, err := in.Get(MixB)
	if err != nil {
		return value.Nothing(), err
	}
	f, err := in.Get(MixFactor)
	if err != nil {
		return value.Nothing(), err
	}
	t, err := mixFactor(f)
	if err != nil {
		return value.Nothing(), err
	}

	ra, rb := a.ToPixel().Raw(), b.ToPixel().Raw()
	var out [4]uint8
	for i := range out {
		out[i] = value.RawToByte(ra[i]*t[i] + rb[i]*(1-t[i]))
	}
	return value.FromPixel(value.NewPixel(out[0], out[1], out[2], out[3])), nil
}

func mixFactor(v value.Value) ([4]float64, error) {
	if f, ok := v.AsScalar(); ok {
		return [4]float64{f, f, f, f}, nil
	}
	if f, n, ok := v.AsFloats(); ok {
		if n == 3 {
			f[3] = 1
		}
		return f, nil
	}
	return [4]float64{}, errors.New(errors.ErrCodeInvalidOperand, "mix factor must be scalar or float tuple, got %s", v.Kind())
}
