// Package render encodes generated surfaces into image files.
//
// # Overview
//
// A [surface.Surface] is a flat RGBA buffer. This package turns it into the
// bytes of a file a user can open:
//
//   - png: lossless PNG via image/png
//   - bmp: uncompressed bitmap via golang.org/x/image/bmp
//   - rgba: the raw buffer, 4 bytes per pixel, row-major
//
// A pixel scale above 1 enlarges the surface with nearest-neighbor sampling
// before encoding, so small procedural textures stay crisp.
//
//	data, err := render.Encode(surf, render.FormatPNG, 4)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the graph behind a surface as a
// Graphviz diagram.
//
// [nodelink]: github.com/matzehuels/proctex/pkg/render/nodelink
package render
