package selection

import (
	"time"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/observability"
)

// Select computes neuron selections for the pending size plan of g and
// records them on the vertices.
//
// Every vertex whose output changes, or whose surviving neurons move,
// receives an output selection in its own index space. Every consumer of
// such a vertex receives the same sequence as the selection of that input
// edge. Vertices that keep all of their neurons in place get no selection.
//
// Select returns a SELECTION_SHAPE_INVALID error when s returns a utility
// slice whose length differs from the vertex's committed nout, and an
// INVALID_GRAPH error when the pending plan itself is inconsistent. A plan
// can be consistent in sizes and still have no selection: an Invariant fed
// by Stack(in, in, v) and Stack(in, v, in) cannot keep the neurons of the
// fixed input in place once v grows. Select then returns a
// SELECTION_INFEASIBLE error. In every error case no selection is written.
// A nil s is [Uniform].
func Select(g *graph.Graph, s Scorer) error {
	start := time.Now()
	hooks := observability.Selection()
	hooks.OnSelectStart(g.VertexCount())

	n, err := selectAll(g, s)
	hooks.OnSelectComplete(n, time.Since(start), err)
	return err
}

func selectAll(g *graph.Graph, s Scorer) (int, error) {
	if s == nil {
		s = Uniform()
	}
	if err := g.ValidatePlan(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidGraph, err, "pending plan is inconsistent")
	}

	vertices := g.Vertices()
	var changed []*graph.Vertex
	for _, v := range vertices {
		if v.DeltaNout() != 0 {
			changed = append(changed, v)
		}
	}
	if len(changed) == 0 {
		return 0, nil
	}

	outs := make(map[*graph.Vertex][]int)
	for _, comp := range graph.Components(changed) {
		c := newComponent(comp)
		if err := c.score(s); err != nil {
			return 0, err
		}
		c.drop()
		if err := c.align(); err != nil {
			return 0, err
		}
		sel, err := c.selections()
		if err != nil {
			return 0, err
		}
		for v, out := range sel {
			outs[v] = out
		}
	}

	type write struct {
		v   *graph.Vertex
		in  [][]int
		out []int
	}
	var writes []write
	for _, v := range vertices {
		ins := v.Inputs()
		var in [][]int
		for i, u := range ins {
			if sel := outs[u]; sel != nil {
				if in == nil {
					in = make([][]int, len(ins))
				}
				in[i] = sel
			}
		}
		if in == nil && outs[v] == nil {
			continue
		}
		writes = append(writes, write{v, in, outs[v]})
	}

	for _, w := range writes {
		if err := w.v.SetSelection(w.in, w.out); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInternal, err, "write selection of %s", w.v.Name())
		}
	}
	return len(writes), nil
}
