// Package library provides the built-in node kinds.
//
// Sources:
//   - [Noise]: Perlin scalar field over the normalized position
//   - [Constant]: a fixed value
//
// Filters:
//   - [Mix]: per-channel linear blend of two operands by a factor
//   - [Invert]: one minus each channel percentage
//   - [Map]: intensity remap through an ordered list of color steps
//   - [Pattern]: checkerboard mask over its input
//
// [Output] is the sink. Every generator owns exactly one.
//
// Nodes are immutable after construction and safe for concurrent use.
// [FromDefinition] builds a node from its JSON description.
package library
