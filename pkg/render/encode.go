package render

import (
	"bytes"
	"image"
	"image/png"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/surface"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatRGBA = "rgba"
)

// MaxScale bounds the pixel scale factor.
const MaxScale = 32

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatPNG, FormatBMP, FormatRGBA}

// ValidateFormat returns INVALID_FORMAT for unsupported formats.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for a format, including the dot.
func Extension(format string) string {
	if format == FormatRGBA {
		return ".rgba"
	}
	return "." + format
}

// Encode renders s in the given format. A scale above 1 enlarges each pixel
// to a scale x scale block.
func Encode(s *surface.Surface, format string, scale int) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if scale < 1 || scale > MaxScale {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d (got %d)", MaxScale, scale)
	}

	img := Upscale(s.ToImage(), scale)

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
	case FormatBMP:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode bmp")
		}
	case FormatRGBA:
		buf.Write(img.Pix)
	}
	return buf.Bytes(), nil
}

// Upscale enlarges img by an integer factor with nearest-neighbor sampling.
// A factor of 1 returns img unchanged.
func Upscale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
