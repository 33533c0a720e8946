package library

import (
	"math"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

// Step is one color stop of a Map.
type Step struct {
	Value     value.Value `json:"value"`
	Threshold float64     `json:"threshold"`
}

// Map remaps the intensity of its input through an ordered list of steps.
//
// The intensity is the mean of the input's red, green and blue percentages.
// Below the first threshold the first step's value is returned unchanged; at
// or above the last bracketing threshold that step's value is returned
// unchanged. Between two steps the canonical pixels are interpolated
// linearly. Thresholds are expected to be non-decreasing but this is not
// enforced.
type Map struct {
	node.Base
	steps []Step
}

// NewMap returns a remap node. At least two steps are required.
func NewMap(steps ...Step) (*Map, error) {
	if len(steps) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "map needs at least 2 steps, got %d", len(steps))
	}
	return &Map{steps: append([]Step(nil), steps...)}, nil
}

// Steps returns a copy of the color stops.
func (m *Map) Steps() []Step {
	return append([]Step(nil), m.steps...)
}

func (*Map) Kind() string    { return "map" }
func (*Map) Spec() node.Spec { return node.Exactly(1) }

func (m *Map) Generate(_ coord.Coordinate, _ node.Extent, in node.Inputs) (value.Value, error) {
	v, err := in.Only()
	if err != nil {
		return value.Nothing(), err
	}
	avg := v.Intensity()

	first, last := m.bracket(avg)
	if avg < first.Threshold {
		return first.Value, nil
	}
	if avg >= last.Threshold {
		return last.Value, nil
	}

	span := last.Threshold - first.Threshold
	if span == 0 {
		span = math.SmallestNonzeroFloat64
	}
	t := (avg - first.Threshold) / span

	v1, v2 := first.Value.Percentages(), last.Value.Percentages()
	var out [4]uint8
	for i := range out {
		out[i] = value.FloatToByte(v1[i]*(1-t) + v2[i]*t)
	}
	return value.FromPixel(value.NewPixel(out[0], out[1], out[2], out[3])), nil
}

// bracket returns the steps surrounding avg: the last step whose threshold is
// below avg and the first one that is not.
func (m *Map) bracket(avg float64) (first, last Step) {
	first, last = m.steps[0], m.steps[len(m.steps)-1]
	if len(m.steps) == 2 {
		return first, last
	}
	for _, s := range m.steps {
		if s.Threshold < avg {
			first = s
			continue
		}
		last = s
		break
	}
	return first, last
}
