package value

import (
	"fmt"
	"image/color"
)

// Pixel is the canonical 4-channel byte color every value converges to.
// Channels are straight (non-premultiplied) alpha.
type Pixel struct {
	R, G, B, A uint8
}

// Transparent is the zero pixel, the canonical form of Nothing.
var Transparent = Pixel{}

// NewPixel returns the pixel (r, g, b, a).
func NewPixel(r, g, b, a uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// Gray returns an opaque gray pixel.
func Gray(v uint8) Pixel {
	return Pixel{R: v, G: v, B: v, A: 255}
}

// Array returns the channels in RGBA order.
func (p Pixel) Array() [4]uint8 {
	return [4]uint8{p.R, p.G, p.B, p.A}
}

// Channel returns a single channel.
func (p Pixel) Channel(ch Channel) uint8 {
	switch ch {
	case Red:
		return p.R
	case Green:
		return p.G
	case Blue:
		return p.B
	default:
		return p.A
	}
}

// Raw returns the channels as floats in [0, 255].
func (p Pixel) Raw() [4]float64 {
	return [4]float64{float64(p.R), float64(p.G), float64(p.B), float64(p.A)}
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// String formats the pixel as "rgba(r, g, b, a)".
func (p Pixel) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", p.R, p.G, p.B, p.A)
}

// Channel identifies one component of a pixel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Alpha
)

// Channels lists all channels in RGBA order.
var Channels = [4]Channel{Red, Green, Blue, Alpha}

func (c Channel) String() string {
	switch c {
	case Red:
		return "r"
	case Green:
		return "g"
	case Blue:
		return "b"
	case Alpha:
		return "a"
	default:
		return "unknown"
	}
}

// FloatToByte converts a unit float to a byte by multiplying by 255 and
// truncating toward zero. Out-of-range input saturates; NaN maps to 0.
func FloatToByte(f float64) uint8 {
	return RawToByte(f * 255)
}

// RawToByte converts a float in [0, 255] to a byte by truncation, saturating
// outside the range.
func RawToByte(v float64) uint8 {
	switch {
	case v != v: // NaN
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
