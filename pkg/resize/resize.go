package resize

import (
	"time"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/observability"
)

// Resize plans the requested size changes with strategy s and records the
// plan as pending deltas on the graph.
//
// The write is all-or-nothing: on any failure, including a failing
// strategy, no vertex is modified. Only pending deltas are written; no
// mutator is called and no selection is touched. Commit the plan with
// [graph.Apply], optionally after computing selections.
//
// A Failed outcome is also returned as a SIZE_CHANGE_INFEASIBLE error.
// Vertices that can be touched must not already hold pending state.
func Resize(s Strategy, reqs ...Request) (Outcome, error) {
	start := time.Now()
	hooks := observability.Resize()
	hooks.OnResizeStart(len(reqs))

	out, err := resize(s, reqs)
	touched := 0
	if out.Plan != nil {
		touched = len(out.Plan.order)
	}
	hooks.OnResizeComplete(out.Status.String(), touched, time.Since(start), err)
	return out, err
}

func resize(s Strategy, reqs []Request) (Outcome, error) {
	if s == nil {
		s = Default()
	}
	p, err := NewProblem(reqs...)
	if err != nil {
		return Outcome{Status: Failed, Err: err}, err
	}
	if v := p.pendingConflict(); v != nil {
		err := errors.New(errors.ErrCodeInvalidInput, "vertex %s has a pending change; apply it first", v.Name())
		return Outcome{Status: Failed, Err: err}, err
	}

	out := s.Resolve(p)
	switch out.Status {
	case Changed:
		p.write(out.Plan)
	case Failed:
		if out.Err == nil {
			out.Err = errors.New(errors.ErrCodeSizeChangeInfeasible, "strategy failed for %s", p)
		}
		return out, out.Err
	}
	return out, nil
}

// ChangeNout is a shorthand for Resize(s, Nout(v, delta)).
func ChangeNout(s Strategy, v *graph.Vertex, delta int) (Outcome, error) {
	return Resize(s, Nout(v, delta))
}

// ChangeNin is a shorthand for Resize(s, Nin(v, i, delta)).
func ChangeNin(s Strategy, v *graph.Vertex, i, delta int) (Outcome, error) {
	return Resize(s, Nin(v, i, delta))
}

// MinDeltaFactor returns the smallest positive |Δnout| realizable at v
// given every relation and divisibility constraint reachable from it, or
// 0 if v's size cannot change. An exact request of d at v succeeds iff d
// is a multiple of this factor (and no size drops below 1).
func MinDeltaFactor(v *graph.Vertex) int {
	return int(newSystem(graph.Closure(v)).factor(v))
}
