package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/nsize/pkg/graph"
)

func testGraph(t *testing.T) (*graph.Graph, *graph.Vertex) {
	t.Helper()
	in, err := graph.NewInput("in", 3)
	if err != nil {
		t.Fatal(err)
	}
	dense, err := graph.NewVertex(graph.Factored{Relation: graph.Named{Relation: graph.NewAbsorb(), Name: "dense"}, Nout: 2}, 4, in)
	if err != nil {
		t.Fatal(err)
	}
	relu, err := graph.NewVertex(graph.Named{Relation: graph.NewInvariant(), Name: "relu"}, 0, dense)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := graph.NewVertex(graph.Named{Relation: graph.NewStack(), Name: "cat"}, 0, relu, in)
	if err != nil {
		t.Fatal(err)
	}
	return graph.New([]*graph.Vertex{in}, []*graph.Vertex{cat}), dense
}

func TestToDOT(t *testing.T) {
	g, _ := testGraph(t)
	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G {",
		`"in" [label="in\ninput · 3", shape=invhouse, fillcolor=lightgrey];`,
		`"dense" [label="dense\nabsorb · 4"];`,
		`"relu" [label="relu\ninvariant · 4", shape=ellipse, style=filled];`,
		`"cat" [label="cat\nstack · 7", fillcolor=lightblue];`,
		`"dense" -> "relu" [label="4"];`,
		`"relu" -> "cat" [label="[0] 4"];`,
		`"in" -> "cat" [label="[1] 3"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "orange") {
		t.Error("ToDOT() highlights vertices without pending state")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g, _ := testGraph(t)
	dot := ToDOT(g, Options{Detailed: true})

	for _, want := range []string{`nin: [3]`, `nout factor: 2`, `nin: [4 3]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT(detailed) missing %s\n%s", want, dot)
		}
	}
}

func TestToDOTPending(t *testing.T) {
	g, dense := testGraph(t)
	if err := dense.SetDelta([]int{0}, 2); err != nil {
		t.Fatalf("SetDelta() error: %v", err)
	}
	relu, _ := g.Vertex("relu")
	if err := relu.SetDelta([]int{2}, 2); err != nil {
		t.Fatalf("SetDelta() error: %v", err)
	}

	dot := ToDOT(g, Options{})
	for _, want := range []string{
		`"dense" [label="dense\nabsorb · 4 → 6", color=orange, penwidth=2];`,
		`"dense" -> "relu" [label="4 → 6"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g, _ := testGraph(t)
	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("dense")) {
		t.Errorf("RenderSVG() output is not an SVG of the graph:\n%s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites tag",
			in:   `<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`,
		},
		{
			name: "no view box",
			in:   `<svg><g/></svg>`,
			want: `<svg><g/></svg>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.in))); got != tt.want {
				t.Errorf("normalizeViewBox() = %s, want %s", got, tt.want)
			}
		})
	}
}
