// Package pkg provides the core libraries for proctex procedural textures.
//
// # Overview
//
// proctex evaluates a graph of texture nodes once per pixel and writes the
// sink's value into an RGBA surface. The pkg directory is organized into
// three areas:
//
//  1. Domain logic: values, nodes, the graph and its evaluation
//  2. Orchestration: presets, the render pipeline, encoders
//  3. Infrastructure: caching, sessions, the HTTP server, configuration
//
// # Architecture
//
// The typical data flow:
//
//	[preset] or hand-built graph
//	         ↓
//	    [generator] (compile plan, evaluate per pixel)
//	         ↓
//	    [surface] (RGBA buffer)
//	         ↓
//	    [render] (PNG/BMP/raw bytes)
//
// # Quick Start
//
//	g := generator.New()
//	noise, _ := g.AddNode(library.NewNoise(42))
//	g.AddLink(noise, generator.OutputID, "")
//
//	s, _ := g.Generate(ctx, 256, 256)
//	png, _ := render.Encode(s, render.FormatPNG, 1)
//
// # Main Packages
//
// ## Domain
//
// [value] - The closed set of values a node produces, with the component-wise
// arithmetic and bounds rules shared by all nodes.
//
// [coord] - Spatial positions handed to every node.
//
// [node] - The node contract. [node/library] holds the built-in kinds
// (constant, noise, map, mix, invert) and their JSON definitions.
//
// [dag] - Edge-labelled multigraph with pruned topological ordering.
//
// [generator] - Owns the graph, compiles it into a plan and fills a
// [surface] row by row across worker goroutines.
//
// ## Orchestration
//
// [preset] - Named, ready-made graphs.
//
// [pipeline] - Preset to encoded artifacts with caching. Used by both the CLI
// and the server so they behave the same.
//
// [render] - Surface encoders. [render/nodelink] draws the graph itself.
//
// ## Infrastructure
//
// [cache] - File, Redis and no-op artifact caches with retry.
//
// [session] - Editable generators kept alive between HTTP requests.
//
// [server] - HTTP API over presets and sessions.
//
// [config] - TOML settings. [errors] - Coded errors. [observability] - Hooks.
//
// [value]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/value
// [coord]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/coord
// [node]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/node
// [node/library]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/node/library
// [dag]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/dag
// [generator]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/generator
// [surface]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/surface
// [preset]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/preset
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/proctex/pkg/observability
package pkg
