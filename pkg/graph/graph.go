package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownVertex is returned when a vertex is looked up that is not
	// part of the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrGraphHasCycle is returned when a vertex set cannot be ordered
	// topologically. Graphs built with [NewVertex] are acyclic by
	// construction; the error guards externally assembled vertex sets.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Graph is an ordered set of designated input and output vertices. The DAG
// itself is implicit in the vertices' input lists; the graph owns no
// execution semantics.
//
// The zero value is an empty graph. Graph is not safe for concurrent use.
type Graph struct {
	inputs  []*Vertex
	outputs []*Vertex
}

// New creates a graph over the given input and output vertices.
func New(inputs, outputs []*Vertex) *Graph {
	return &Graph{inputs: slices.Clone(inputs), outputs: slices.Clone(outputs)}
}

// Inputs returns the designated input vertices.
func (g *Graph) Inputs() []*Vertex { return slices.Clone(g.inputs) }

// Outputs returns the designated output vertices.
func (g *Graph) Outputs() []*Vertex { return slices.Clone(g.outputs) }

// Vertices returns every vertex reachable from the designated inputs and
// outputs in topological order: each vertex appears after all of its inputs.
func (g *Graph) Vertices() []*Vertex {
	var (
		seen  = make(map[*Vertex]bool)
		found []*Vertex
		stack []*Vertex
	)
	visit := func(v *Vertex) {
		if !seen[v] {
			seen[v] = true
			found = append(found, v)
			stack = append(stack, v)
		}
	}
	for _, v := range g.outputs {
		visit(v)
	}
	for _, v := range g.inputs {
		visit(v)
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, in := range v.inputs {
			visit(in)
		}
		for _, out := range v.outputs {
			visit(out)
		}
	}

	order, err := TopoSort(found)
	if err != nil {
		// Vertices created by NewVertex cannot form cycles.
		panic(err)
	}
	return order
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() int { return len(g.Vertices()) }

// Vertex returns the vertex with the given name (or ID) and true, or nil
// and false if not found.
func (g *Graph) Vertex(name string) (*Vertex, bool) {
	for _, v := range g.Vertices() {
		if v.Name() == name || v.id == name {
			return v, true
		}
	}
	return nil, false
}

// Pending returns the vertices holding a pending delta or selection, in
// topological order.
func (g *Graph) Pending() []*Vertex {
	var out []*Vertex
	for _, v := range g.Vertices() {
		if v.Pending() {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks the relation invariants of the committed state:
//   - every size is positive
//   - Stack: nout == sum(nin)
//   - Invariant: every nin equals nout
//
// Pending state is ignored; use [Graph.ValidatePlan] for that.
func (g *Graph) Validate() error {
	for _, v := range g.Vertices() {
		if err := checkRelation(v, v.Nin(), v.nout); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePlan checks that applying every pending delta at once would
// re-establish the relation invariants, and that every input delta matches
// the pending nout delta of the edge's source.
func (g *Graph) ValidatePlan() error {
	for _, v := range g.Vertices() {
		nin := v.Nin()
		for i, in := range v.inputs {
			if v.deltaNin[i] != in.deltaNout {
				return fmt.Errorf("vertex %s: input %d delta %d, source %s plans %d: %w",
					v.Name(), i, v.deltaNin[i], in.Name(), in.deltaNout, ErrSizeMismatch)
			}
			nin[i] += v.deltaNin[i]
		}
		if err := checkRelation(v, nin, v.nout+v.deltaNout); err != nil {
			return err
		}
	}
	return nil
}

// CheckDeltas reports whether applying the nout deltas (missing vertices
// count as zero) keeps every relation invariant of the affected vertices
// and their consumers intact. Input vertices must not change.
func CheckDeltas(deltas map[*Vertex]int) error {
	affected := make(map[*Vertex]bool)
	for v := range deltas {
		affected[v] = true
		for _, c := range v.outputs {
			affected[c] = true
		}
	}
	for v := range affected {
		if v.IsInput() && deltas[v] != 0 {
			return fmt.Errorf("vertex %s: input size is fixed: %w", v.Name(), ErrSizeMismatch)
		}
		nin := v.Nin()
		for i, in := range v.inputs {
			nin[i] += deltas[in]
		}
		if err := checkRelation(v, nin, v.nout+deltas[v]); err != nil {
			return err
		}
	}
	return nil
}

func checkRelation(v *Vertex, nin []int, nout int) error {
	if nout < 1 {
		return fmt.Errorf("vertex %s: nout %d: %w", v.Name(), nout, ErrInvalidSize)
	}
	for i, n := range nin {
		if n < 1 {
			return fmt.Errorf("vertex %s: nin[%d] %d: %w", v.Name(), i, n, ErrInvalidSize)
		}
	}
	switch v.Class() {
	case Stack, Invariant:
		want, err := derivedNout(v.Class(), nin)
		if err != nil {
			return fmt.Errorf("vertex %s: %w", v.Name(), err)
		}
		if want != nout {
			return fmt.Errorf("vertex %s: %s nout %d, inputs %v: %w", v.Name(), v.Class(), nout, nin, ErrSizeMismatch)
		}
	}
	return nil
}

// Clone returns an independent deep copy of the graph. Sizes, pending
// deltas, selections and relations are copied; mutators implementing
// [Cloner] are cloned, other mutators are shared with the original.
// Vertex IDs are preserved so copies can be matched to their originals.
func (g *Graph) Clone() *Graph {
	copies := make(map[*Vertex]*Vertex)
	for _, v := range g.Vertices() {
		c := &Vertex{
			id:        v.id,
			rel:       v.rel,
			nout:      v.nout,
			mutator:   v.mutator,
			deltaNin:  slices.Clone(v.deltaNin),
			deltaNout: v.deltaNout,
			selOut:    slices.Clone(v.selOut),
		}
		if cl, ok := v.mutator.(Cloner); ok {
			c.mutator = cl.Clone()
		}
		if v.selIn != nil {
			c.selIn = make([][]int, len(v.selIn))
			for i, s := range v.selIn {
				c.selIn[i] = slices.Clone(s)
			}
		}
		c.inputs = make([]*Vertex, len(v.inputs))
		for i, in := range v.inputs {
			c.inputs[i] = copies[in]
			c.inputs[i].addOutput(c)
		}
		copies[v] = c
	}

	out := &Graph{
		inputs:  make([]*Vertex, len(g.inputs)),
		outputs: make([]*Vertex, len(g.outputs)),
	}
	for i, v := range g.inputs {
		out.inputs[i] = copies[v]
	}
	for i, v := range g.outputs {
		out.outputs[i] = copies[v]
	}
	return out
}
