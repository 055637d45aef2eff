package resize

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
)

// Request asks for a signed change of one size.
//
// Input < 0 targets the vertex's nout; otherwise it targets the size of
// input edge Input, which is realized as a change of the upstream vertex's
// nout since an edge always reports its source's size.
type Request struct {
	Vertex *graph.Vertex
	Input  int
	Delta  int
}

// Nout requests a change of v's output size by delta.
func Nout(v *graph.Vertex, delta int) Request {
	return Request{Vertex: v, Input: -1, Delta: delta}
}

// Nin requests a change of the size of v's input edge i by delta.
func Nin(v *graph.Vertex, i, delta int) Request {
	return Request{Vertex: v, Input: i, Delta: delta}
}

// Target returns the vertex whose nout the request changes.
func (r Request) Target() (*graph.Vertex, error) {
	if r.Vertex == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no vertex")
	}
	if r.Input < 0 {
		return r.Vertex, nil
	}
	ins := r.Vertex.Inputs()
	if r.Input >= len(ins) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vertex %s has %d inputs, no input %d", r.Vertex.Name(), len(ins), r.Input)
	}
	return ins[r.Input], nil
}

func (r Request) String() string {
	name := "<nil>"
	if r.Vertex != nil {
		name = r.Vertex.Name()
	}
	if r.Input < 0 {
		return fmt.Sprintf("nout(%s) %+d", name, r.Delta)
	}
	return fmt.Sprintf("nin(%s)[%d] %+d", name, r.Input, r.Delta)
}

func formatRequests(reqs []Request) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// Policy controls how closely a plan must match the requested deltas.
type Policy int

const (
	// ExactPolicy accepts only plans realizing every requested delta.
	ExactPolicy Policy = iota
	// RelaxedPolicy rounds every requested delta to the nearest realizable
	// one in the requested direction.
	RelaxedPolicy
)

func (p Policy) String() string {
	switch p {
	case ExactPolicy:
		return "exact"
	case RelaxedPolicy:
		return "relaxed"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Relax rounds delta to a multiple of factor.
//
// The result is the multiple nearest to delta, ties broken toward the
// larger magnitude. It never points against delta, and a nonzero delta is
// never rounded to zero: Relax(1, 3) is 3. A zero factor yields zero.
func Relax(delta, factor int) int {
	if delta == 0 || factor <= 0 {
		return 0
	}
	mag, sign := delta, 1
	if delta < 0 {
		mag, sign = -delta, -1
	}
	lo := mag / factor * factor
	hi := lo + factor
	r := hi
	if mag-lo < hi-mag {
		r = lo
	}
	if r == 0 {
		r = factor
	}
	return sign * r
}
