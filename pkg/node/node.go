// Package node defines the contract every graph node implements.
//
// A node is a pure function of a position, the evaluation extent and a set of
// named input values. Nodes hold no per-pixel state, so the generator may
// evaluate the same node from many goroutines at once.
//
// # Input contracts
//
// Each node publishes a [Spec] describing the inputs it needs. The generator
// checks every reachable node against its Spec once, before the pixel loop
// starts, so a malformed graph fails fast with the node id and the missing
// input name instead of failing at some arbitrary pixel.
package node

import (
	"fmt"
	"slices"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/value"
)

// Node produces one value per position.
//
// Generate must not retain in after it returns; the generator reuses the map
// between pixels.
type Node interface {
	Generate(pos coord.Coordinate, ext Extent, in Inputs) (value.Value, error)
	IsOutput() bool
	Spec() Spec
	Kind() string
}

// Extent is the size of the surface being generated.
type Extent struct {
	Width  uint32
	Height uint32
}

// String formats the extent as "WxH".
func (e Extent) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

// Inputs maps input names to the values bound to them for one pixel.
type Inputs map[string]value.Value

// Get returns the named input or a MISSING_INPUT error.
func (in Inputs) Get(name string) (value.Value, error) {
	v, ok := in[name]
	if !ok {
		return value.Nothing(), errors.New(errors.ErrCodeMissingInput, "missing input %q", name)
	}
	return v, nil
}

// Only returns the single bound input regardless of its name.
func (in Inputs) Only() (value.Value, error) {
	if len(in) != 1 {
		return value.Nothing(), errors.New(errors.ErrCodeInputArity, "expected exactly 1 input, got %d", len(in))
	}
	for _, v := range in {
		return v, nil
	}
	return value.Nothing(), nil
}

// Names returns the bound input names in sorted order.
func (in Inputs) Names() []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AnyArity disables the input count check of a Spec.
const AnyArity = -1

// Spec is the input contract of a node.
type Spec struct {
	// Required lists names that must be bound.
	Required []string
	// Arity is the exact number of bound inputs, or AnyArity.
	Arity int
}

// Sources is the Spec of nodes that ignore their inputs.
var Sources = Spec{Arity: AnyArity}

// Exactly returns a Spec requiring n inputs under any names.
func Exactly(n int) Spec {
	return Spec{Arity: n}
}

// Named returns a Spec requiring exactly the given names.
func Named(names ...string) Spec {
	return Spec{Required: names, Arity: len(names)}
}

// Check validates the bound input names against the contract.
//
// A required name that is not bound, or fewer inputs than Arity, is
// MISSING_INPUT. More inputs than Arity is INPUT_ARITY.
func (s Spec) Check(bound []string) error {
	for _, name := range s.Required {
		if !slices.Contains(bound, name) {
			return errors.New(errors.ErrCodeMissingInput, "missing input %q", name)
		}
	}
	if s.Arity == AnyArity {
		return nil
	}
	switch {
	case len(bound) < s.Arity:
		return errors.New(errors.ErrCodeMissingInput, "expected %d inputs, got %d", s.Arity, len(bound))
	case len(bound) > s.Arity:
		return errors.New(errors.ErrCodeInputArity, "expected %d inputs, got %d", s.Arity, len(bound))
	}
	return nil
}

// Base provides defaults for nodes that are not the sink and need no inputs.
// Embed it and override what differs.
type Base struct{}

// IsOutput reports false.
func (Base) IsOutput() bool { return false }

// Spec returns Sources.
func (Base) Spec() Spec { return Sources }
