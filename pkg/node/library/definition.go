package library

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Definition is the JSON description of a built-in node.
//
//	{"kind": "noise", "seed": 7, "scale": [4, 4, 1]}
//	{"kind": "constant", "value": {"kind": "pixel", "data": [255, 0, 0, 255]}}
//	{"kind": "map", "steps": [{"value": ..., "threshold": 0.2}, ...]}
//	{"kind": "mix"}
type Definition struct {
	Kind   string       `json:"kind"`
	Seed   int64        `json:"seed,omitempty"`
	Offset *[3]float64  `json:"offset,omitempty"`
	Scale  *[3]float64  `json:"scale,omitempty"`
	Value  *value.Value `json:"value,omitempty"`
	Steps  []Step       `json:"steps,omitempty"`
}

var kinds = []string{"constant", "invert", "map", "mix", "noise", "output", "pattern"}

// Kinds lists the node kinds FromDefinition understands.
func Kinds() []string {
	return slices.Clone(kinds)
}

// Parse decodes a JSON definition and builds the node.
func Parse(data []byte) (node.Node, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid node definition")
	}
	return FromDefinition(def)
}

// FromDefinition builds the node described by def.
func FromDefinition(def Definition) (node.Node, error) {
	switch def.Kind {
	case "noise":
		var opts []NoiseOption
		if def.Offset != nil {
			opts = append(opts, WithOffset(coord.New(def.Offset[0], def.Offset[1], def.Offset[2])))
		}
		if def.Scale != nil {
			opts = append(opts, WithScale(coord.New(def.Scale[0], def.Scale[1], def.Scale[2])))
		}
		return NewNoise(def.Seed, opts...), nil
	case "constant":
		if def.Value == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "constant node needs a value")
		}
		return NewConstant(*def.Value), nil
	case "map":
		m, err := NewMap(def.Steps...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "mix":
		return NewMix(), nil
	case "invert":
		return NewInvert(), nil
	case "pattern":
		return NewPattern(), nil
	case "output":
		return NewOutput(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown node kind %q (valid: %v)", def.Kind, kinds)
}

// Describe returns the definition of a built-in node. Foreign node types are
// described by kind only.
func Describe(n node.Node) Definition {
	def := Definition{Kind: n.Kind()}
	switch n := n.(type) {
	case *Noise:
		def.Seed = n.seed
		off := [3]float64{n.offset.X(), n.offset.Y(), n.offset.Z()}
		scale := [3]float64{n.scale.X(), n.scale.Y(), n.scale.Z()}
		def.Offset, def.Scale = &off, &scale
	case *Constant:
		v := n.v
		def.Value = &v
	case *Map:
		def.Steps = n.Steps()
	}
	return def
}
