// Package generator owns a texture graph and evaluates it once per pixel.
//
// # Building a graph
//
// A [Generator] starts with a single node, the sink, at [OutputID]. Callers
// add nodes and connect them with links; every link carries the input name
// under which the consumer receives the producer's value:
//
//	g := generator.New()
//	noise, _ := g.AddNode(library.NewNoise(7))
//	inv, _ := g.AddNode(library.NewInvert())
//	g.AddLink(noise, inv, "in")
//	g.AddLink(inv, generator.OutputID, "")
//
// An empty name asks for a synthetic one. Synthetic names start with
// [errors.ReservedLinkPrefix] and never collide with a caller's name.
//
// # Evaluation
//
// [Generator.Compile] reduces the graph to a [Plan]: the nodes that can reach
// the sink, ordered so producers run before consumers, each with its input
// bindings resolved. Nodes that do not feed the sink are pruned and never
// checked or evaluated. When several links bind the same name on a consumer
// the link added last wins. The sink takes exactly one binding.
//
// [Generator.Generate] runs the plan for every pixel, sharding rows across
// worker goroutines, and writes the canonical pixel of the sink's input into
// a [surface.Surface].
//
// # Concurrency
//
// A Generator is safe for concurrent use. Mutations take an exclusive lock;
// Generate holds a shared lock for the whole pass, so the graph cannot change
// under a running evaluation.
package generator
