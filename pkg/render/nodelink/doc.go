// Package nodelink renders texture graphs as node-link diagrams.
//
// # Usage
//
// Convert a generator's graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT output lays the graph out left to right, sources first, ending at
// the output node. Links are labelled with the input name they bind.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
