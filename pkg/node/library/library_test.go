package library

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/proctex/pkg/coord"
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/node"
	"github.com/matzehuels/proctex/pkg/value"
)

var (
	black = value.FromPixel(value.NewPixel(0, 0, 0, 255))
	white = value.FromPixel(value.NewPixel(255, 255, 255, 255))
	red   = value.FromPixel(value.NewPixel(255, 0, 0, 255))
	ext   = node.Extent{Width: 16, Height: 16}
)

func TestConstant(t *testing.T) {
	c := NewConstant(red)

	for _, pos := range []coord.Coordinate{coord.NewXY(0, 0), coord.NewXY(7, 3), coord.New(-1, 99, 4)} {
		got, err := c.Generate(pos, ext, node.Inputs{"ignored": white})
		require.NoError(t, err)
		assert.Equal(t, red, got)
	}
	assert.False(t, c.IsOutput())
	assert.NoError(t, c.Spec().Check([]string{"anything"}))
}

func TestMix_Blend(t *testing.T) {
	got, err := NewMix().Generate(coord.NewXY(0, 0), ext, node.Inputs{
		MixA:      black,
		MixB:      white,
		MixFactor: value.Scalar(0.25),
	})
	require.NoError(t, err)
	assert.Equal(t, value.NewPixel(191, 191, 191, 255), got.ToPixel())
}

func TestMix_Factors(t *testing.T) {
	tests := []struct {
		name   string
		factor value.Value
		want   value.Pixel
	}{
		{"scalar one takes a", value.Scalar(1), value.NewPixel(255, 0, 0, 255)},
		{"scalar zero takes b", value.Scalar(0), value.NewPixel(0, 0, 0, 0)},
		{"floats3 keeps alpha of a", value.Floats3([3]float64{1, 0, 0}), value.NewPixel(255, 0, 0, 255)},
		{"floats4 per channel", value.Floats4([4]float64{0, 0, 0, 1}), value.NewPixel(0, 0, 0, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMix().Generate(coord.NewXY(0, 0), ext, node.Inputs{
				MixA:      red,
				MixB:      value.Nothing(),
				MixFactor: tt.factor,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ToPixel())
		})
	}
}

func TestMix_Errors(t *testing.T) {
	_, err := NewMix().Generate(coord.NewXY(0, 0), ext, node.Inputs{
		MixA: black, MixB: white, MixFactor: white,
	})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOperand), "got %v", err)

	_, err = NewMix().Generate(coord.NewXY(0, 0), ext, node.Inputs{MixA: black, MixB: white})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingInput), "got %v", err)

	assert.Error(t, NewMix().Spec().Check([]string{MixA, MixB}))
	assert.NoError(t, NewMix().Spec().Check([]string{MixFactor, MixB, MixA}))
}

func TestInvert(t *testing.T) {
	got, err := NewInvert().Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": red})
	require.NoError(t, err)
	assert.Equal(t, value.KindFloats4, got.Kind())
	assert.Equal(t, value.NewPixel(0, 255, 255, 0), got.ToPixel())

	_, err = NewInvert().Generate(coord.NewXY(0, 0), ext, node.Inputs{})
	assert.Error(t, err)
}

func TestMap_Clamp(t *testing.T) {
	m, err := NewMap(Step{Value: black, Threshold: 0.2}, Step{Value: white, Threshold: 0.8})
	require.NoError(t, err)

	low, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": value.Scalar(0)})
	require.NoError(t, err)
	assert.Equal(t, black, low, "below range returns the first step unmodified")

	high, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": value.Scalar(1)})
	require.NoError(t, err)
	assert.Equal(t, white, high, "above range returns the last step unmodified")
}

func TestMap_Interpolates(t *testing.T) {
	m, err := NewMap(Step{Value: black, Threshold: 0.2}, Step{Value: white, Threshold: 0.8})
	require.NoError(t, err)

	got, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": value.FromPixel(value.Gray(153))})
	require.NoError(t, err)
	p := got.ToPixel()
	// intensity 0.6 sits two thirds of the way from 0.2 to 0.8
	assert.InDelta(t, 170, int(p.R), 1)
	assert.Equal(t, p.R, p.G)
	assert.Equal(t, p.R, p.B)
	assert.Equal(t, uint8(255), p.A)
}

func TestMap_MultipleSteps(t *testing.T) {
	m, err := NewMap(
		Step{Value: black, Threshold: 0},
		Step{Value: red, Threshold: 0.5},
		Step{Value: white, Threshold: 1},
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   value.Value
		want value.Value
	}{
		{"zero hits first", black, black},
		{"full hits last", white, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want.ToPixel(), got.ToPixel())
		})
	}
}

func TestMap_LowerBracket(t *testing.T) {
	m, err := NewMap(
		Step{Value: black, Threshold: 0},
		Step{Value: red, Threshold: 0.5},
		Step{Value: white, Threshold: 1},
	)
	require.NoError(t, err)

	// intensity 127/255 lies just below the red step
	got, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": value.Scalar(0.5)})
	require.NoError(t, err)
	p := got.ToPixel()
	assert.InDelta(t, 254, int(p.R), 2)
	assert.Zero(t, p.G)
	assert.Zero(t, p.B)
	assert.Equal(t, uint8(255), p.A)
}

func TestMap_EqualThresholds(t *testing.T) {
	m, err := NewMap(Step{Value: black, Threshold: 0.5}, Step{Value: white, Threshold: 0.5})
	require.NoError(t, err)

	for _, in := range []value.Value{value.Scalar(0), value.Scalar(0.5), value.Scalar(1)} {
		got, err := m.Generate(coord.NewXY(0, 0), ext, node.Inputs{"in": in})
		require.NoError(t, err)
		assert.Contains(t, []value.Value{black, white}, got)
	}
}

func TestNewMap_TooFewSteps(t *testing.T) {
	_, err := NewMap(Step{Value: black})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestNoise_Deterministic(t *testing.T) {
	a := NewNoise(42, WithScale(coord.New(4, 4, 1)))
	b := NewNoise(42, WithScale(coord.New(4, 4, 1)))

	for y := 0.0; y < 16; y += 3 {
		for x := 0.0; x < 16; x += 3 {
			pos := coord.NewXY(x, y)
			va, err := a.Generate(pos, ext, nil)
			require.NoError(t, err)
			vb, err := b.Generate(pos, ext, nil)
			require.NoError(t, err)

			assert.Equal(t, va, vb)
			f, ok := va.AsScalar()
			require.True(t, ok)
			assert.False(t, math.IsNaN(f))
		}
	}
}

func TestNoise_SinglePixelExtent(t *testing.T) {
	n := NewNoise(1, WithOffset(coord.New(0.3, 0.7, 0.1)))
	v, err := n.Generate(coord.NewXY(0, 0), node.Extent{Width: 1, Height: 1}, nil)
	require.NoError(t, err)
	f, _ := v.AsScalar()
	assert.False(t, math.IsNaN(f) || math.IsInf(f, 0))
}

func TestPattern(t *testing.T) {
	p := NewPattern()
	in := node.Inputs{"in": value.FromPixel(value.NewPixel(10, 20, 30, 40))}

	tests := []struct {
		x, y float64
		want value.Pixel
	}{
		{0, 0, value.NewPixel(0, 0, 0, 255)},
		{1, 1, value.NewPixel(0, 0, 0, 255)},
		{1, 0, value.NewPixel(10, 20, 30, 255)},
		{0, 3, value.NewPixel(10, 20, 30, 255)},
	}
	for _, tt := range tests {
		got, err := p.Generate(coord.NewXY(tt.x, tt.y), ext, in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.ToPixel(), "at (%g, %g)", tt.x, tt.y)
	}
}

func TestOutput(t *testing.T) {
	o := NewOutput()
	assert.True(t, o.IsOutput())
	got, err := o.Generate(coord.NewXY(0, 0), ext, node.Inputs{"x": red})
	require.NoError(t, err)
	assert.Equal(t, red, got)
}

func TestParse(t *testing.T) {
	n, err := Parse([]byte(`{"kind":"constant","value":{"kind":"pixel","data":[255,0,0,255]}}`))
	require.NoError(t, err)
	got, err := n.Generate(coord.NewXY(0, 0), ext, nil)
	require.NoError(t, err)
	assert.Equal(t, red, got)

	n, err = Parse([]byte(`{"kind":"noise","seed":9,"scale":[2,2,1]}`))
	require.NoError(t, err)
	def := Describe(n)
	assert.Equal(t, "noise", def.Kind)
	assert.Equal(t, int64(9), def.Seed)
	assert.Equal(t, [3]float64{2, 2, 1}, *def.Scale)

	_, err = Parse([]byte(`{"kind":"map","steps":[]}`))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Parse([]byte(`{"kind":"teapot"}`))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Parse([]byte(`not json`))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	for _, kind := range Kinds() {
		if kind == "constant" || kind == "map" {
			continue
		}
		_, err := FromDefinition(Definition{Kind: kind})
		assert.NoError(t, err, kind)
	}
}
