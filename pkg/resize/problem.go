package resize

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
)

// Problem is a set of size-change requests together with the constraint
// system of every vertex they can reach. Strategies resolve a Problem into
// an [Outcome]; solving never modifies the graph.
type Problem struct {
	requests []Request
	targets  []int
	sys      *system
}

// NewProblem validates the requests and builds the constraint system over
// the closure of their targets.
func NewProblem(reqs ...Request) (*Problem, error) {
	if len(reqs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no size change requested")
	}
	seeds := make([]*graph.Vertex, len(reqs))
	for i, r := range reqs {
		t, err := r.Target()
		if err != nil {
			return nil, err
		}
		seeds[i] = t
	}

	p := &Problem{
		requests: append([]Request(nil), reqs...),
		targets:  make([]int, len(reqs)),
		sys:      newSystem(graph.Closure(seeds...)),
	}
	for i, s := range seeds {
		p.targets[i] = p.sys.index[s]
	}
	return p, nil
}

// Requests returns the requests of the problem.
func (p *Problem) Requests() []Request { return append([]Request(nil), p.requests...) }

// Closure returns the vertices whose sizes the problem may change, in
// topological order.
func (p *Problem) Closure() []*graph.Vertex { return append([]*graph.Vertex(nil), p.sys.verts...) }

// Factor returns the smallest positive change realizable at the target of
// request i, or 0 if the target cannot change.
func (p *Problem) Factor(i int) int {
	return int(p.sys.factor(p.sys.verts[p.targets[i]]))
}

func (p *Problem) String() string { return formatRequests(p.requests) }

// Solve computes a plan under the given policy. It returns a
// SIZE_CHANGE_INFEASIBLE error when the policy cannot be met.
//
// Under [RelaxedPolicy] each request is rounded with [Relax] using the
// factor of its target. If the rounded plan would shrink a size below 1,
// the magnitudes are reduced by one factor at a time; a plan of all zeros
// always exists.
func (p *Problem) Solve(policy Policy) (*Plan, error) {
	requested := make([]int, len(p.requests))
	for i, r := range p.requests {
		requested[i] = r.Delta
	}

	switch policy {
	case ExactPolicy:
		return p.solve(requested, requested)
	case RelaxedPolicy:
		factors := make([]int, len(p.requests))
		rounded := make([]int, len(p.requests))
		for i, d := range requested {
			factors[i] = p.Factor(i)
			rounded[i] = Relax(d, factors[i])
		}
		var lastErr error
		for step := 0; ; step++ {
			cand := make([]int, len(rounded))
			zero := true
			for i, r := range rounded {
				cand[i] = shrinkToward(r, step*factors[i])
				zero = zero && cand[i] == 0
			}
			plan, err := p.solve(requested, cand)
			if err == nil {
				return plan, nil
			}
			lastErr = err
			if zero {
				return nil, lastErr
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown policy %v", policy)
	}
}

func shrinkToward(r, by int) int {
	switch {
	case r > 0:
		return max(0, r-by)
	case r < 0:
		return min(0, r+by)
	}
	return 0
}

func (p *Problem) solve(requested, realized []int) (*Plan, error) {
	targets := make([]target, len(realized))
	for i, d := range realized {
		targets[i] = target{vertex: p.targets[i], delta: int64(d)}
	}

	roots, ok := p.sys.solve(targets)
	if !ok {
		return nil, errors.New(errors.ErrCodeSizeChangeInfeasible,
			"no size change satisfies %s", describe(p.requests, realized, p.factors()))
	}

	plan := &Plan{
		deltas:    make(map[*graph.Vertex]int),
		Requested: append([]int(nil), requested...),
		Realized:  append([]int(nil), realized...),
	}
	for i, d := range p.sys.deltas(roots) {
		if d == 0 {
			continue
		}
		v := p.sys.verts[i]
		if n := v.Nout() + int(d); n < 1 {
			return nil, errors.New(errors.ErrCodeSizeChangeInfeasible,
				"%s would shrink %s to %d", describe(p.requests, realized, nil), v.Name(), n)
		}
		plan.order = append(plan.order, v)
		plan.deltas[v] = int(d)
	}

	if err := graph.CheckDeltas(plan.deltas); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "inconsistent plan for %s", p)
	}
	return plan, nil
}

func (p *Problem) factors() []int {
	out := make([]int, len(p.requests))
	for i := range p.requests {
		out[i] = p.Factor(i)
	}
	return out
}

func describe(reqs []Request, realized, factors []int) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		r.Delta = realized[i]
		parts[i] = r.String()
		if factors != nil {
			parts[i] += fmt.Sprintf(" (factor %d)", factors[i])
		}
	}
	return strings.Join(parts, ", ")
}

// write stores the plan as pending deltas on every vertex it changes and
// on every consumer of such a vertex.
func (p *Problem) write(plan *Plan) {
	for _, v := range plan.affected() {
		ins := v.Inputs()
		deltaNin := make([]int, len(ins))
		for i, in := range ins {
			deltaNin[i] = plan.deltas[in]
		}
		// Shapes are derived from v itself and cannot mismatch.
		_ = v.SetDelta(deltaNin, plan.deltas[v])
	}
}

// pendingConflict returns a vertex the problem could touch that already
// carries pending state.
func (p *Problem) pendingConflict() *graph.Vertex {
	for _, v := range p.sys.verts {
		if v.Pending() {
			return v
		}
		for _, c := range v.Outputs() {
			if c.Pending() {
				return c
			}
		}
	}
	return nil
}

// Plan is a consistent assignment of nout deltas. Input deltas follow from
// it: the delta of an edge is the delta of its source.
type Plan struct {
	order  []*graph.Vertex
	deltas map[*graph.Vertex]int

	// Requested holds the delta of every request as issued.
	Requested []int
	// Realized holds the delta the plan achieves for every request.
	Realized []int
}

// Delta returns the planned nout delta of v.
func (p *Plan) Delta(v *graph.Vertex) int { return p.deltas[v] }

// Vertices returns the vertices with a nonzero delta in topological order.
func (p *Plan) Vertices() []*graph.Vertex { return append([]*graph.Vertex(nil), p.order...) }

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool { return len(p.order) == 0 }

// Relaxed reports whether any request was realized with a different delta.
func (p *Plan) Relaxed() bool {
	for i := range p.Requested {
		if p.Requested[i] != p.Realized[i] {
			return true
		}
	}
	return false
}

func (p *Plan) affected() []*graph.Vertex {
	seen := make(map[*graph.Vertex]bool)
	var out []*graph.Vertex
	add := func(v *graph.Vertex) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range p.order {
		add(v)
		for _, c := range v.Outputs() {
			add(c)
		}
	}
	return out
}

func (p *Plan) String() string {
	if p.Empty() {
		return "no change"
	}
	parts := make([]string, len(p.order))
	for i, v := range p.order {
		parts[i] = fmt.Sprintf("%s %+d", v.Name(), p.deltas[v])
	}
	return strings.Join(parts, ", ")
}
