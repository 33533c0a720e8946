// Package surface provides the RGBA pixel buffer a generator writes into.
package surface

import (
	"image"
	"image/color"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/value"
)

// BytesPerPixel is the stride of one pixel in the flat buffer.
const BytesPerPixel = 4

// Surface is a rectangular, row-major RGBA buffer with its origin at the top
// left. Channels are straight alpha.
//
// Writes to distinct pixels may happen concurrently.
type Surface struct {
	width  uint32
	height uint32
	data   []uint8
}

// New creates a transparent surface with the given dimensions.
func New(width, height uint32) *Surface {
	return &Surface{
		width:  width,
		height: height,
		data:   make([]uint8, int(width)*int(height)*BytesPerPixel),
	}
}

// Width returns the width of the surface.
func (s *Surface) Width() uint32 {
	return s.width
}

// Height returns the height of the surface.
func (s *Surface) Height() uint32 {
	return s.height
}

// Bytes returns the flat pixel buffer, 4 bytes per pixel. The slice aliases
// the surface.
func (s *Surface) Bytes() []uint8 {
	return s.data
}

// PutPixel stores p at (x, y). Out of range coordinates are SURFACE_BOUNDS.
func (s *Surface) PutPixel(x, y uint32, p value.Pixel) error {
	if x >= s.width || y >= s.height {
		return errors.New(errors.ErrCodeSurfaceBounds, "pixel (%d, %d) outside %dx%d surface", x, y, s.width, s.height)
	}
	i := s.offset(x, y)
	s.data[i+0] = p.R
	s.data[i+1] = p.G
	s.data[i+2] = p.B
	s.data[i+3] = p.A
	return nil
}

// Pixel returns the pixel at (x, y), or false when out of range.
func (s *Surface) Pixel(x, y uint32) (value.Pixel, bool) {
	if x >= s.width || y >= s.height {
		return value.Transparent, false
	}
	i := s.offset(x, y)
	return value.NewPixel(s.data[i], s.data[i+1], s.data[i+2], s.data[i+3]), true
}

func (s *Surface) offset(x, y uint32) int {
	return (int(y)*int(s.width) + int(x)) * BytesPerPixel
}

// Fill sets every pixel to p.
func (s *Surface) Fill(p value.Pixel) {
	for i := 0; i < len(s.data); i += BytesPerPixel {
		s.data[i+0] = p.R
		s.data[i+1] = p.G
		s.data[i+2] = p.B
		s.data[i+3] = p.A
	}
}

// Equal reports whether both surfaces have the same size and bytes.
func (s *Surface) Equal(o *Surface) bool {
	if s.width != o.width || s.height != o.height {
		return false
	}
	return string(s.data) == string(o.data)
}

// ToImage copies the surface into an image.NRGBA.
func (s *Surface) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	copy(img.Pix, s.data)
	return img
}

// At implements the image.Image interface.
func (s *Surface) At(x, y int) color.Color {
	if x < 0 || y < 0 {
		return value.Transparent
	}
	p, _ := s.Pixel(uint32(x), uint32(y))
	return p
}

// Bounds implements the image.Image interface.
func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(s.width), int(s.height))
}

// ColorModel implements the image.Image interface.
func (s *Surface) ColorModel() color.Model {
	return color.NRGBAModel
}
