package value

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNothing Kind = iota
	KindScalar
	KindPixel
	KindBytes3
	KindBytes4
	KindFloats3
	KindFloats4
)

var kindNames = map[Kind]string{
	KindNothing: "nothing",
	KindScalar:  "scalar",
	KindPixel:   "pixel",
	KindBytes3:  "bytes3",
	KindBytes4:  "bytes4",
	KindFloats3: "floats3",
	KindFloats4: "floats4",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNothing, fmt.Errorf("unknown value kind %q", s)
}

// Value is a node output. The zero value is Nothing.
//
// Values are comparable with ==; two values are equal when they hold the same
// variant with the same components.
type Value struct {
	kind   Kind
	bytes  [4]uint8
	floats [4]float64
}

// Nothing returns the empty value.
func Nothing() Value { return Value{} }

// Scalar returns a single-float value.
func Scalar(f float64) Value {
	return Value{kind: KindScalar, floats: [4]float64{f}}
}

// FromPixel wraps a canonical pixel.
func FromPixel(p Pixel) Value {
	return Value{kind: KindPixel, bytes: p.Array()}
}

// Bytes3 returns an RGB byte tuple; alpha is implied opaque.
func Bytes3(b [3]uint8) Value {
	return Value{kind: KindBytes3, bytes: [4]uint8{b[0], b[1], b[2]}}
}

// Bytes4 returns an RGBA byte tuple.
func Bytes4(b [4]uint8) Value {
	return Value{kind: KindBytes4, bytes: b}
}

// Floats3 returns an RGB unit-float tuple; alpha is implied 1.0.
func Floats3(f [3]float64) Value {
	return Value{kind: KindFloats3, floats: [4]float64{f[0], f[1], f[2]}}
}

// Floats4 returns an RGBA unit-float tuple.
func Floats4(f [4]float64) Value {
	return Value{kind: KindFloats4, floats: f}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNothing reports whether v is the empty value.
func (v Value) IsNothing() bool { return v.kind == KindNothing }

// AsScalar returns the float held by a Scalar.
func (v Value) AsScalar() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.floats[0], true
}

// AsFloats returns the components of a Floats3 or Floats4 value and the
// number of meaningful components.
func (v Value) AsFloats() ([4]float64, int, bool) {
	switch v.kind {
	case KindFloats3:
		return v.floats, 3, true
	case KindFloats4:
		return v.floats, 4, true
	}
	return [4]float64{}, 0, false
}

// AsBytes returns the components of a Pixel, Bytes3 or Bytes4 value and the
// number of meaningful components.
func (v Value) AsBytes() ([4]uint8, int, bool) {
	switch v.kind {
	case KindPixel, KindBytes4:
		return v.bytes, 4, true
	case KindBytes3:
		return v.bytes, 3, true
	}
	return [4]uint8{}, 0, false
}

// ToPixel converts any variant to the canonical pixel. It never fails.
func (v Value) ToPixel() Pixel {
	switch v.kind {
	case KindScalar:
		f := v.floats[0]
		return Floats4([4]float64{f, f, f, 1}).ToPixel()
	case KindPixel, KindBytes4:
		return NewPixel(v.bytes[0], v.bytes[1], v.bytes[2], v.bytes[3])
	case KindBytes3:
		return NewPixel(v.bytes[0], v.bytes[1], v.bytes[2], 255)
	case KindFloats3:
		return NewPixel(FloatToByte(v.floats[0]), FloatToByte(v.floats[1]), FloatToByte(v.floats[2]), 255)
	case KindFloats4:
		return NewPixel(FloatToByte(v.floats[0]), FloatToByte(v.floats[1]), FloatToByte(v.floats[2]), FloatToByte(v.floats[3]))
	default:
		return Transparent
	}
}

// ComponentPercentage returns one channel of the canonical pixel scaled to [0, 1].
func (v Value) ComponentPercentage(ch Channel) float64 {
	return float64(v.ToPixel().Channel(ch)) / 255
}

// Percentages returns all four channels of the canonical pixel scaled to [0, 1].
func (v Value) Percentages() [4]float64 {
	p := v.ToPixel()
	return [4]float64{
		float64(p.R) / 255,
		float64(p.G) / 255,
		float64(p.B) / 255,
		float64(p.A) / 255,
	}
}

// Intensity is the mean of the red, green and blue percentages.
func (v Value) Intensity() float64 {
	p := v.Percentages()
	return (p[0] + p[1] + p[2]) / 3
}

// String formats the value as "kind(components)".
func (v Value) String() string {
	switch v.kind {
	case KindNothing:
		return "nothing"
	case KindScalar:
		return fmt.Sprintf("scalar(%g)", v.floats[0])
	}
	parts := make([]string, 0, 4)
	for _, c := range v.components() {
		parts = append(parts, fmt.Sprintf("%g", c))
	}
	return fmt.Sprintf("%s(%s)", v.kind, strings.Join(parts, ", "))
}

// components returns the meaningful components as floats.
func (v Value) components() []float64 {
	if f, n, ok := v.AsFloats(); ok {
		return f[:n]
	}
	if b, n, ok := v.AsBytes(); ok {
		out := make([]float64, n)
		for i := range n {
			out[i] = float64(b[i])
		}
		return out
	}
	if f, ok := v.AsScalar(); ok {
		return []float64{f}
	}
	return nil
}

// wireValue is the JSON form of a Value.
type wireValue struct {
	Kind string    `json:"kind"`
	Data []float64 `json:"data,omitempty"`
}

// MarshalJSON encodes the value as {"kind": "...", "data": [...]}.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireValue{Kind: v.kind.String(), Data: v.components()})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := ParseKind(w.Kind)
	if err != nil {
		return err
	}
	want := map[Kind]int{
		KindNothing: 0, KindScalar: 1, KindPixel: 4,
		KindBytes3: 3, KindBytes4: 4, KindFloats3: 3, KindFloats4: 4,
	}[kind]
	if len(w.Data) != want {
		return fmt.Errorf("value kind %s needs %d components, got %d", kind, want, len(w.Data))
	}

	d := w.Data
	toByte := func(f float64) (uint8, error) {
		if f < 0 || f > 255 || f != float64(uint8(f)) {
			return 0, fmt.Errorf("byte component out of range: %g", f)
		}
		return uint8(f), nil
	}
	var b [4]uint8
	if kind == KindPixel || kind == KindBytes3 || kind == KindBytes4 {
		for i, f := range d {
			if b[i], err = toByte(f); err != nil {
				return err
			}
		}
	}

	switch kind {
	case KindNothing:
		*v = Nothing()
	case KindScalar:
		*v = Scalar(d[0])
	case KindPixel:
		*v = FromPixel(NewPixel(b[0], b[1], b[2], b[3]))
	case KindBytes3:
		*v = Bytes3([3]uint8{b[0], b[1], b[2]})
	case KindBytes4:
		*v = Bytes4(b)
	case KindFloats3:
		*v = Floats3([3]float64{d[0], d[1], d[2]})
	case KindFloats4:
		*v = Floats4([4]float64{d[0], d[1], d[2], d[3]})
	}
	return nil
}
