package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nsize/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds input sizes and divisibility factors to vertex labels.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	vertices := g.Vertices()
	for _, v := range vertices {
		fmt.Fprintf(&buf, "  %q [%s];\n", v.Name(), strings.Join(fmtAttrs(v, fmtLabel(v, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	for _, v := range vertices {
		ins := v.Inputs()
		delta := v.DeltaNin()
		for i, in := range ins {
			label := sizeLabel(in.Nout(), delta[i])
			if len(ins) > 1 {
				label = fmt.Sprintf("[%d] %s", i, label)
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", in.Name(), v.Name(), label)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func sizeLabel(size, delta int) string {
	if delta == 0 {
		return strconv.Itoa(size)
	}
	return fmt.Sprintf("%d → %d", size, size+delta)
}

func fmtLabel(v *graph.Vertex, detailed bool) string {
	kind := v.Class().String()
	if v.IsInput() {
		kind = "input"
	}
	lines := []string{v.Name(), fmt.Sprintf("%s · %s", kind, sizeLabel(v.Nout(), v.DeltaNout()))}
	if !detailed {
		return strings.Join(lines, "\n")
	}

	if nin := v.Nin(); len(nin) > 0 {
		lines = append(lines, fmt.Sprintf("nin: %v", nin))
	}
	if f := v.MinDeltaNinFactor(); f > 1 {
		lines = append(lines, fmt.Sprintf("nin factor: %d", f))
	}
	if f := v.MinDeltaNoutFactor(); f > 1 {
		lines = append(lines, fmt.Sprintf("nout factor: %d", f))
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(v *graph.Vertex, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case v.IsInput():
		attrs = append(attrs, "shape=invhouse", "fillcolor=lightgrey")
	case v.Class() == graph.Stack:
		attrs = append(attrs, "fillcolor=lightblue")
	case v.Class() == graph.Invariant:
		attrs = append(attrs, "shape=ellipse", "style=filled")
	}
	if v.Pending() {
		attrs = append(attrs, "color=orange", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose width and
// height match the view box, so the image scales without point units.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
