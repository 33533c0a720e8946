package value_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/proctex/pkg/value"
)

// TestToPixel_AllVariants checks the conversion of every variant to the canonical pixel.
func TestToPixel_AllVariants(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want value.Pixel
	}{
		{"nothing", value.Nothing(), value.NewPixel(0, 0, 0, 0)},
		{"zero value", value.Value{}, value.NewPixel(0, 0, 0, 0)},
		{"scalar one", value.Scalar(1), value.NewPixel(255, 255, 255, 255)},
		{"scalar half", value.Scalar(0.5), value.NewPixel(127, 127, 127, 255)},
		{"scalar negative saturates", value.Scalar(-0.4), value.NewPixel(0, 0, 0, 255)},
		{"scalar above one saturates", value.Scalar(3), value.NewPixel(255, 255, 255, 255)},
		{"scalar NaN", value.Scalar(math.NaN()), value.NewPixel(0, 0, 0, 255)},
		{"pixel", value.FromPixel(value.NewPixel(1, 2, 3, 4)), value.NewPixel(1, 2, 3, 4)},
		{"bytes3 implies opaque", value.Bytes3([3]uint8{10, 20, 30}), value.NewPixel(10, 20, 30, 255)},
		{"bytes4", value.Bytes4([4]uint8{10, 20, 30, 40}), value.NewPixel(10, 20, 30, 40)},
		{"floats3 implies opaque", value.Floats3([3]float64{0, 1, 0.2}), value.NewPixel(0, 255, 51, 255)},
		{"floats4 truncates", value.Floats4([4]float64{1.0, 0.5, 0.0, 1.0}), value.NewPixel(255, 127, 0, 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.ToPixel())
		})
	}
}

// TestToPixel_PixelIdentity verifies Pixel -> Pixel is the identity for every byte.
func TestToPixel_PixelIdentity(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := uint8(i)
		p := value.NewPixel(b, 255-b, b/2, b)
		require.Equal(t, p, value.FromPixel(p).ToPixel())
	}
}

// TestFloatToByte_Truncates confirms truncation toward zero rather than rounding.
func TestFloatToByte_Truncates(t *testing.T) {
	assert.Equal(t, uint8(127), value.FloatToByte(0.5))     // 127.5
	assert.Equal(t, uint8(191), value.FloatToByte(0.75))    // 191.25
	assert.Equal(t, uint8(254), value.FloatToByte(0.99999)) // 254.997
	assert.Equal(t, uint8(0), value.FloatToByte(-1))
	assert.Equal(t, uint8(255), value.FloatToByte(math.Inf(1)))
	assert.Equal(t, uint8(191), value.RawToByte(191.25))
	assert.Equal(t, uint8(191), value.RawToByte(191))
}

func TestComponentPercentage(t *testing.T) {
	v := value.FromPixel(value.NewPixel(255, 0, 51, 102))

	assert.InDelta(t, 1.0, v.ComponentPercentage(value.Red), 1e-12)
	assert.InDelta(t, 0.0, v.ComponentPercentage(value.Green), 1e-12)
	assert.InDelta(t, 0.2, v.ComponentPercentage(value.Blue), 1e-12)
	assert.InDelta(t, 0.4, v.ComponentPercentage(value.Alpha), 1e-12)

	for _, ch := range value.Channels {
		p := value.Nothing().ComponentPercentage(ch)
		assert.Zero(t, p, "nothing has no %s", ch)
	}
}

func TestIntensity(t *testing.T) {
	assert.InDelta(t, 0.0, value.FromPixel(value.NewPixel(0, 0, 0, 255)).Intensity(), 1e-12)
	assert.InDelta(t, 1.0, value.Bytes3([3]uint8{255, 255, 255}).Intensity(), 1e-12)
	// alpha does not count
	assert.InDelta(t, 1.0/3, value.Bytes4([4]uint8{255, 0, 0, 0}).Intensity(), 1e-12)
}

func TestAccessors(t *testing.T) {
	f, ok := value.Scalar(0.25).AsScalar()
	assert.True(t, ok)
	assert.Equal(t, 0.25, f)

	_, ok = value.Floats3([3]float64{1, 2, 3}).AsScalar()
	assert.False(t, ok)

	floats, n, ok := value.Floats3([3]float64{1, 2, 3}).AsFloats()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, [4]float64{1, 2, 3, 0}, floats)

	bytes, n, ok := value.FromPixel(value.Gray(9)).AsBytes()
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, [4]uint8{9, 9, 9, 255}, bytes)

	assert.True(t, value.Nothing().IsNothing())
	assert.Equal(t, value.KindBytes3, value.Bytes3([3]uint8{}).Kind())
}

func TestValueEquality(t *testing.T) {
	assert.True(t, value.Scalar(1) == value.Scalar(1))
	assert.False(t, value.Scalar(1) == value.Floats4([4]float64{1, 1, 1, 1}))
	// same canonical pixel, different variants
	assert.Equal(t, value.Bytes3([3]uint8{1, 2, 3}).ToPixel(), value.Bytes4([4]uint8{1, 2, 3, 255}).ToPixel())
	assert.NotEqual(t, value.Bytes3([3]uint8{1, 2, 3}), value.Bytes4([4]uint8{1, 2, 3, 255}))
}

func TestPixelImplementsColor(t *testing.T) {
	r, g, b, a := value.NewPixel(255, 0, 0, 255).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestString(t *testing.T) {
	assert.Equal(t, "nothing", value.Nothing().String())
	assert.Equal(t, "scalar(0.5)", value.Scalar(0.5).String())
	assert.Equal(t, "pixel(255, 0, 0, 255)", value.FromPixel(value.NewPixel(255, 0, 0, 255)).String())
	assert.Equal(t, "floats3(1, 0.5, 0)", value.Floats3([3]float64{1, 0.5, 0}).String())
	assert.Equal(t, "rgba(1, 2, 3, 4)", value.NewPixel(1, 2, 3, 4).String())
}

func TestJSON(t *testing.T) {
	in := value.FromPixel(value.NewPixel(255, 100, 0, 255))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"pixel","data":[255,100,0,255]}`, string(data))

	var out value.Value
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var bad value.Value
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"bytes3","data":[1,2]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"pixel","data":[1,2,3,300]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"rainbow"}`), &bad))

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"nothing"}`), &bad))
	assert.True(t, bad.IsNothing())
}
