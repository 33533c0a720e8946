// Package value implements the closed lattice of values a node can produce.
//
// A [Value] is one of seven variants:
//
//   - Nothing
//   - Scalar(float64)
//   - Pixel{R, G, B, A uint8}
//   - Bytes3([3]uint8) and Bytes4([4]uint8)
//   - Floats3([3]float64) and Floats4([4]float64)
//
// Every variant converts to the canonical [Pixel] form with [Value.ToPixel].
// The conversion is total: Nothing becomes (0, 0, 0, 0), a scalar becomes an
// opaque gray, and 3-component arrays imply full alpha.
//
// Float components are converted to bytes by multiplying by 255 and
// truncating toward zero, so 0.5 maps to 127, not 128. Components outside
// [0, 1] saturate and NaN maps to 0.
package value
