// Package resize implements the size-change propagation engine.
//
// # Overview
//
// Changing the size of one vertex usually forces changes elsewhere: a
// Stack vertex must grow with its inputs, the inputs of an Invariant vertex
// must stay equal, and grouped operations only accept multiples of their
// group count. Given one or more [Request]s, the engine derives a plan of
// nout deltas for the whole closure of the requested vertices (see
// graph.Closure) that keeps every relation invariant and every
// divisibility factor intact.
//
// # Algorithm
//
// The deltas of the mutable Absorb vertices in the closure are the free
// variables; every other delta is an integer combination of them. Invariant
// equalities and divisibility factors become homogeneous integer rows, so
// the realizable deltas at any vertex are exactly the multiples of one
// number, returned by [MinDeltaFactor]. Plans are found in the integer
// kernel of the system and then pulled toward the smallest sum of squared
// deltas, which spreads a change over the inputs of a Stack vertex.
//
// # Strategies
//
// How to react when a request cannot be met is decided by a chain of
// [Strategy] values:
//
//	s := resize.Exact(resize.Logged(logger, log.WarnLevel, "relaxing",
//	    resize.Relaxed(resize.Fail("no feasible size"))))
//	out, err := resize.Resize(s, resize.Nout(v, 3))
//
// [Exact] and [Relaxed] hand unsolved problems to their fallback, [Fail]
// returns a SIZE_CHANGE_INFEASIBLE error, [NoOp] changes nothing and
// [Logged] logs and delegates.
//
// # Side Effects
//
// [Resize] writes pending deltas only when the chain produced a plan, and
// writes all of them or none. It never calls mutators and never touches
// selections.
package resize
