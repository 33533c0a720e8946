package library

import (
	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Constant ignores its position and inputs and always returns the same value.
type Constant struct {
	node.Base
	v value.Value
}

// NewConstant returns a node producing v.
func NewConstant(v value.Value) *Constant {
	return &Constant{v: v}
}

// Value returns the constant.
func (c *Constant) Value() value.Value { return c.v }

func (c *Constant) Kind() string { return "constant" }

func (c *Constant) Generate(coord.Coordinate, node.Extent, node.Inputs) (value.Value, error) {
	return c.v, nil
}
