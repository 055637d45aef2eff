// Package graph provides the vertex and graph model of a size-annotated
// computation DAG.
//
// # Overview
//
// Each vertex has an output size (nout, the number of neurons or channels it
// produces) and one input size per input edge (nin). How these sizes relate
// is given by the vertex [Relation]:
//
//   - [Absorb]: nin and nout are independent (e.g. a dense or conv layer)
//   - [Stack]: nout == sum(nin) (concatenation)
//   - [Invariant]: nout == nin[0] == nin[1] == ... (element-wise ops)
//
// The graph owns no execution semantics. The caller's real computation is
// reached through a [Mutator] installed on each vertex.
//
// # Basic Usage
//
//	in, _ := graph.NewInput("in", 3)
//	dense, _ := graph.NewVertex(graph.Named{Relation: graph.NewAbsorb(), Name: "dense"}, 4, in)
//	cat, _ := graph.NewVertex(graph.NewStack(), 0, dense, dense)
//	g := graph.New([]*graph.Vertex{in}, []*graph.Vertex{cat})
//
// # Decorators
//
// Relations are decorated by wrapping: [Named] attaches a name, [Factored]
// overrides divisibility factors and [Logged] reports committed changes.
// Every decorator forwards the queries it does not override, so decorators
// compose in any order.
//
// # Pending State
//
// Size changes are planned before they happen. The propagation engine
// (package resize) writes pending deltas, the selection engine (package
// selection) writes pending neuron selections, and [Apply] commits both,
// calling each vertex's mutator on the way.
//
// # Constraint Closure
//
// [Closure] returns the set of vertices whose sizes are tied to a seed
// through Stack and Invariant relations. Both engines work on whole
// closures so that merge points see every path at once.
//
// # Concurrency
//
// Graphs and vertices are not safe for concurrent use. A size change and
// the matching Apply must complete before another one starts. Use
// [Graph.Clone] to keep an independent snapshot.
package graph
