package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	// ErrNilVertex is returned when a nil vertex is passed where a vertex
	// is required, e.g. as an input of [NewVertex].
	ErrNilVertex = errors.New("vertex is nil")

	// ErrNilRelation is returned by [NewVertex] when no relation is given.
	ErrNilRelation = errors.New("relation is nil")

	// ErrNoInputs is returned by [NewVertex] for Stack and Invariant
	// vertices without inputs. Their output size is defined by their inputs.
	ErrNoInputs = errors.New("stack and invariant vertices need at least one input")

	// ErrInvalidSize is returned when a size is not strictly positive.
	ErrInvalidSize = errors.New("size must be positive")

	// ErrSizeMismatch is returned when sizes violate a vertex relation,
	// e.g. an Invariant vertex with inputs of different sizes.
	ErrSizeMismatch = errors.New("sizes violate the vertex relation")

	// ErrShapeMismatch is returned by the pending-state setters when a
	// delta or selection does not match the shape of the vertex.
	ErrShapeMismatch = errors.New("pending state does not match vertex shape")
)

// Mutator is implemented by the caller's real computation behind a vertex.
// It is invoked by [Apply], exactly once per commit and per side, to resize
// or reindex the external representation. Implementations must not change
// the graph topology.
//
// A selection has one entry per neuron of the new size. A nonnegative entry
// is the index of a retained original neuron, -1 marks a fresh neuron.
// Selections are nil when only sizes changed and no selection was computed.
type Mutator interface {
	ResizeInputs(sizes []int, selections [][]int) error
	ResizeOutput(size int, selection []int) error
}

// Cloner is implemented by mutators that can produce an independent copy
// of themselves. [Graph.Clone] uses it; other mutators are shared.
type Cloner interface {
	Clone() Mutator
}

// Vertex is a node of the computation graph together with its size state.
//
// The current input sizes are not stored: input edge i always reports the
// current nout of Inputs()[i], so edges cannot desynchronize from their
// source. Pending deltas and selections are written by the engines and
// cleared by [Apply]. Once the source of an edge commits, the edge reports
// the new size with a zero delta, but the consumer stays pending until its
// own inputs are resized.
//
// Vertex is not safe for concurrent use.
type Vertex struct {
	id      string
	rel     Relation
	inputs  []*Vertex
	outputs []*Vertex
	nout    int
	mutator Mutator

	deltaNin  []int
	deltaNout int
	selIn     [][]int
	selOut    []int
	// an input edge changed size before v committed
	ninResized bool
}

// NewInput creates a graph input vertex of the given size. Input vertices
// have no inputs and their size is fixed.
func NewInput(name string, size int) (*Vertex, error) {
	return NewVertex(Named{Relation: NewAbsorb(), Name: name}, size)
}

// NewVertex creates a vertex with relation rel consuming inputs in order.
// The same input may be listed more than once.
//
// For Absorb vertices nout is required. For Stack and Invariant vertices
// nout may be 0, in which case it is derived from the inputs; a nonzero
// value must agree with the relation or ErrSizeMismatch is returned.
func NewVertex(rel Relation, nout int, inputs ...*Vertex) (*Vertex, error) {
	if rel == nil {
		return nil, ErrNilRelation
	}
	for _, in := range inputs {
		if in == nil {
			return nil, ErrNilVertex
		}
	}

	v := &Vertex{
		id:       uuid.NewString(),
		rel:      rel,
		inputs:   slices.Clone(inputs),
		deltaNin: make([]int, len(inputs)),
	}

	switch rel.Class() {
	case Absorb:
		if nout < 1 {
			return nil, fmt.Errorf("nout %d: %w", nout, ErrInvalidSize)
		}
		v.nout = nout
	case Stack, Invariant:
		if len(inputs) == 0 {
			return nil, ErrNoInputs
		}
		want, err := derivedNout(rel.Class(), v.Nin())
		if err != nil {
			return nil, err
		}
		if nout != 0 && nout != want {
			return nil, fmt.Errorf("nout %d, inputs imply %d: %w", nout, want, ErrSizeMismatch)
		}
		v.nout = want
	default:
		return nil, fmt.Errorf("unknown relation class %v", rel.Class())
	}

	for _, in := range inputs {
		in.addOutput(v)
	}
	return v, nil
}

func derivedNout(c Class, nin []int) (int, error) {
	switch c {
	case Stack:
		sum := 0
		for _, n := range nin {
			sum += n
		}
		return sum, nil
	case Invariant:
		for _, n := range nin[1:] {
			if n != nin[0] {
				return 0, fmt.Errorf("input sizes %v: %w", nin, ErrSizeMismatch)
			}
		}
		return nin[0], nil
	}
	return 0, fmt.Errorf("class %v has no derived size", c)
}

func (v *Vertex) addOutput(c *Vertex) {
	if !slices.Contains(v.outputs, c) {
		v.outputs = append(v.outputs, c)
	}
}

// ID returns the opaque identity of the vertex.
func (v *Vertex) ID() string { return v.id }

// Name returns the name given by a [Named] decorator, or the ID.
func (v *Vertex) Name() string {
	if n, ok := nameOf(v.rel); ok {
		return n
	}
	return v.id
}

func (v *Vertex) String() string { return v.Name() }

// Relation returns the relation including all decorators.
func (v *Vertex) Relation() Relation { return v.rel }

// Class returns the size relation class.
func (v *Vertex) Class() Class { return v.rel.Class() }

// IsInput reports whether the vertex has no inputs. Such vertices are
// graph inputs and their size never changes.
func (v *Vertex) IsInput() bool { return len(v.inputs) == 0 }

// Inputs returns the upstream vertex of every input edge, in edge order.
func (v *Vertex) Inputs() []*Vertex { return slices.Clone(v.inputs) }

// Outputs returns the distinct vertices consuming this vertex, in the
// order they were created.
func (v *Vertex) Outputs() []*Vertex { return slices.Clone(v.outputs) }

// Nin returns the current size of every input edge.
func (v *Vertex) Nin() []int {
	nin := make([]int, len(v.inputs))
	for i, in := range v.inputs {
		nin[i] = in.nout
	}
	return nin
}

// Nout returns the current output size.
func (v *Vertex) Nout() int { return v.nout }

// MinDeltaNinFactor forwards to the relation, clamped to at least 1.
func (v *Vertex) MinDeltaNinFactor() int { return max(1, v.rel.MinDeltaNinFactor()) }

// MinDeltaNoutFactor forwards to the relation, clamped to at least 1.
func (v *Vertex) MinDeltaNoutFactor() int { return max(1, v.rel.MinDeltaNoutFactor()) }

// Mutator returns the caller hook, or nil.
func (v *Vertex) Mutator() Mutator { return v.mutator }

// SetMutator installs the caller hook invoked by [Apply].
func (v *Vertex) SetMutator(m Mutator) { v.mutator = m }

// DeltaNin returns the pending change of every input edge.
func (v *Vertex) DeltaNin() []int { return slices.Clone(v.deltaNin) }

// DeltaNout returns the pending change of nout.
func (v *Vertex) DeltaNout() int { return v.deltaNout }

// InputSelections returns the pending selection of every input edge.
// Entries are nil for edges without a selection.
func (v *Vertex) InputSelections() [][]int {
	if v.selIn == nil {
		return nil
	}
	out := make([][]int, len(v.selIn))
	for i, s := range v.selIn {
		out[i] = slices.Clone(s)
	}
	return out
}

// OutputSelection returns the pending output selection, or nil.
func (v *Vertex) OutputSelection() []int { return slices.Clone(v.selOut) }

// Pending reports whether the vertex carries a pending delta or selection.
func (v *Vertex) Pending() bool {
	return v.inputsPending() || v.outputPending()
}

func (v *Vertex) inputsPending() bool {
	if v.ninResized {
		return true
	}
	for i, d := range v.deltaNin {
		if d != 0 || (v.selIn != nil && v.selIn[i] != nil) {
			return true
		}
	}
	return false
}

func (v *Vertex) outputPending() bool {
	return v.deltaNout != 0 || v.selOut != nil
}

// SetDelta records a pending size plan for the vertex. It is used by the
// propagation engine; deltaNin must have one entry per input edge.
func (v *Vertex) SetDelta(deltaNin []int, deltaNout int) error {
	if len(deltaNin) != len(v.inputs) {
		return fmt.Errorf("vertex %s: %d input deltas for %d inputs: %w", v.Name(), len(deltaNin), len(v.inputs), ErrShapeMismatch)
	}
	v.deltaNin = slices.Clone(deltaNin)
	v.deltaNout = deltaNout
	return nil
}

// SetSelection records pending neuron selections. It is used by the
// selection engine. in may be nil; otherwise it needs one entry per input
// edge, each nil or of length nin[i]+deltaNin[i]. out must be nil or of
// length nout+deltaNout.
func (v *Vertex) SetSelection(in [][]int, out []int) error {
	if in != nil {
		if len(in) != len(v.inputs) {
			return fmt.Errorf("vertex %s: %d input selections for %d inputs: %w", v.Name(), len(in), len(v.inputs), ErrShapeMismatch)
		}
		for i, s := range in {
			if want := v.inputs[i].nout + v.deltaNin[i]; s != nil && len(s) != want {
				return fmt.Errorf("vertex %s: input %d selection has %d entries, want %d: %w", v.Name(), i, len(s), want, ErrShapeMismatch)
			}
		}
	}
	if want := v.nout + v.deltaNout; out != nil && len(out) != want {
		return fmt.Errorf("vertex %s: output selection has %d entries, want %d: %w", v.Name(), len(out), want, ErrShapeMismatch)
	}

	if in == nil {
		v.selIn = nil
	} else {
		v.selIn = make([][]int, len(in))
		for i, s := range in {
			v.selIn[i] = slices.Clone(s)
		}
	}
	v.selOut = slices.Clone(out)
	return nil
}

// ClearPending drops every pending delta and selection.
func (v *Vertex) ClearPending() {
	clear(v.deltaNin)
	v.deltaNout = 0
	v.selIn = nil
	v.selOut = nil
	v.ninResized = false
}

func equalInts(a, b []int) bool { return slices.Equal(a, b) }
