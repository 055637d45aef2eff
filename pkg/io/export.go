package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nsize/pkg/graph"
)

// WriteTOML encodes the committed state of m.Graph as a graph description.
// Pending deltas are not written. The output can be re-read with
// [ReadTOML].
func WriteTOML(m *Model, w io.Writer) error {
	doc := document{}
	for _, v := range m.Graph.Outputs() {
		doc.Outputs = append(doc.Outputs, v.Name())
	}
	for _, v := range m.Graph.Vertices() {
		doc.Vertices = append(doc.Vertices, specOf(v, m.Utilities[v.Name()]))
	}

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTOML writes m to a graph description file at path.
// This is a convenience wrapper around [WriteTOML] for file-based output.
func ExportTOML(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTOML(m, f)
}

func specOf(v *graph.Vertex, utility []float64) vertexSpec {
	s := vertexSpec{
		Name:    v.Name(),
		Kind:    v.Class().String(),
		Size:    v.Nout(),
		Utility: slices.Clone(utility),
	}
	if v.IsInput() {
		s.Kind = KindInput
	}
	for _, in := range v.Inputs() {
		s.Inputs = append(s.Inputs, in.Name())
	}
	if f := v.MinDeltaNinFactor(); f > 1 {
		s.NinFactor = f
	}
	if f := v.MinDeltaNoutFactor(); f > 1 {
		s.NoutFactor = f
	}
	_, s.Log = graph.Find(v.Relation(), func(r graph.Relation) bool {
		_, ok := r.(graph.Logged)
		return ok
	})
	return s
}

type plan struct {
	Changes []change `json:"changes"`
}

type change struct {
	Vertex          string  `json:"vertex"`
	Class           string  `json:"class"`
	Nin             []int   `json:"nin"`
	DeltaNin        []int   `json:"delta_nin"`
	Nout            int     `json:"nout"`
	DeltaNout       int     `json:"delta_nout"`
	InputSelections [][]int `json:"input_selections,omitempty"`
	OutputSelection []int   `json:"output_selection,omitempty"`
}

// WritePlanJSON encodes the pending state of every vertex of g that has
// one, in topological order:
//
//	{
//	  "changes": [
//	    {"vertex": "dense", "class": "absorb", "nin": [3], "delta_nin": [0],
//	     "nout": 4, "delta_nout": -2, "output_selection": [0, 2]}
//	  ]
//	}
func WritePlanJSON(g *graph.Graph, w io.Writer) error {
	out := plan{Changes: []change{}}
	for _, v := range g.Pending() {
		out.Changes = append(out.Changes, change{
			Vertex:          v.Name(),
			Class:           v.Class().String(),
			Nin:             v.Nin(),
			DeltaNin:        v.DeltaNin(),
			Nout:            v.Nout(),
			DeltaNout:       v.DeltaNout(),
			InputSelections: v.InputSelections(),
			OutputSelection: v.OutputSelection(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportPlanJSON writes the pending state of g to a JSON file at path.
func ExportPlanJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlanJSON(g, f)
}
