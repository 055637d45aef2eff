// Package selection decides which neurons survive a planned size change.
//
// After package resize has recorded a plan of pending deltas, [Select]
// ranks the original output neurons of every changing vertex by a
// caller-supplied [Scorer] and writes a selection for every affected
// output and input edge. A selection has one entry per neuron of the new
// size: the index of a retained original neuron, or -1 for a fresh one.
//
// # Alignment
//
// Neurons are shared across vertices. A Stack vertex carries the neurons of
// all its inputs side by side, an Invariant vertex carries the neurons of
// its inputs element-wise. Select therefore treats neurons meeting at the
// same position of an Invariant vertex as one logical neuron: their
// utilities add up and they are kept or dropped together. The result
// satisfies, for every vertex v:
//
//   - len(selection) == v.Nout() + v.DeltaNout()
//   - retained indices are distinct, below the original nout and appear in
//     their original order when the vertex only shrinks
//   - every input edge of an Invariant vertex carries the same selection
//   - the output selection of a Stack vertex is the concatenation of its
//     input selections, each shifted by the input's original offset
//
// Fresh neurons are appended after the retained neurons of the Absorb
// vertex that grows. When an Invariant vertex joins a Stack with a vertex
// that grows as a whole, the fresh neurons of the latter are moved to the
// positions where the Stack inserts them.
//
// # Usage
//
//	_, err := resize.ChangeNout(resize.ExactOrFail(), dense, -2)
//	...
//	err = selection.Select(g, selection.ByName(map[string][]float64{
//	    "dense": {10, 1, 10, 1},
//	}))
//	...
//	err = graph.Apply(g)
package selection
