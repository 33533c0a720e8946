package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
	"github.com/matzehuels/proctex/pkg/node/library"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node parameters and positions in labels.
	// When false, only the ID and display name are shown.
	Detailed bool
}

// ToDOT converts a generator's graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// The output node is drawn as a double octagon. Links show their input name;
// synthetic names are omitted. Nodes that do not reach the output are drawn
// dashed.
func ToDOT(g *generator.Generator, opts Options) string {
	live := make(map[generator.NodeID]bool)
	if plan, err := g.Compile(); err == nil {
		for _, s := range plan.Steps() {
			live[s.Node] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		n, _ := g.Node(id)
		info, _ := g.Info(id)
		label := fmt.Sprintf("#%d %s", id, info.Name)
		if opts.Detailed {
			label += "\n" + detail(n, info.X, info.Y)
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		switch {
		case n.IsOutput():
			attrs = append(attrs, "shape=doubleoctagon", "fillcolor=lightblue")
		case len(live) > 0 && !live[id]:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range g.Links() {
		if l.Synthetic {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", l.From, l.To)
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", l.From, l.To, l.Name)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func detail(n interface{ Kind() string }, x, y float64) string {
	var parts []string
	switch n := n.(type) {
	case *library.Noise:
		parts = append(parts, fmt.Sprintf("seed: %d", n.Seed()), fmt.Sprintf("scale: %v", n.Scale()))
	case *library.Constant:
		parts = append(parts, fmt.Sprintf("value: %v", n.Value()))
	case *library.Map:
		parts = append(parts, fmt.Sprintf("steps: %d", len(n.Steps())))
	}
	parts = append(parts, fmt.Sprintf("at: %g,%g", x, y))
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
