package graph

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Class is the size relation between a vertex's inputs and its output.
type Class int

const (
	// Absorb vertices own a parameterized mapping: nin and nout are
	// independent and size changes stop propagating at them.
	Absorb Class = iota
	// Stack vertices concatenate their inputs: nout == sum(nin).
	Stack
	// Invariant vertices act element-wise: nout == nin[0] == nin[1] == ...
	Invariant
)

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case Absorb:
		return "absorb"
	case Stack:
		return "stack"
	case Invariant:
		return "invariant"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass parses a class name as produced by [Class.String].
func ParseClass(s string) (Class, bool) {
	switch s {
	case "absorb":
		return Absorb, true
	case "stack":
		return Stack, true
	case "invariant":
		return Invariant, true
	}
	return 0, false
}

// Relation classifies how a vertex constrains the sizes of its neighbors.
//
// Implementations are either one of the base relations returned by
// [NewAbsorb], [NewStack] and [NewInvariant], or decorators that hold an
// inner Relation and forward every method they do not override. Decorators
// should expose the inner relation through an Unwrap method so [Find] can
// walk the chain.
type Relation interface {
	Class() Class
	// MinDeltaNinFactor is the granularity any change of an input edge's
	// size must be a multiple of.
	MinDeltaNinFactor() int
	// MinDeltaNoutFactor is the granularity any change of nout must be a
	// multiple of.
	MinDeltaNoutFactor() int
}

type base struct{ class Class }

func (b base) Class() Class            { return b.class }
func (b base) MinDeltaNinFactor() int  { return 1 }
func (b base) MinDeltaNoutFactor() int { return 1 }
func (b base) String() string          { return b.class.String() }

// NewAbsorb returns the base Absorb relation.
func NewAbsorb() Relation { return base{Absorb} }

// NewStack returns the base Stack relation.
func NewStack() Relation { return base{Stack} }

// NewInvariant returns the base Invariant relation.
func NewInvariant() Relation { return base{Invariant} }

// NewRelation returns the base relation for c.
func NewRelation(c Class) Relation { return base{c} }

// Named attaches a display name to a relation. All queries are forwarded.
type Named struct {
	Relation
	Name string
}

// Unwrap returns the decorated relation.
func (n Named) Unwrap() Relation { return n.Relation }

func (n Named) String() string { return fmt.Sprintf("%s(%s)", n.Name, n.Relation.Class()) }

// Factored overrides the divisibility factors of the relation it wraps.
// A zero factor forwards the query to the inner relation.
//
// Grouped operations typically need Factored{Nin: groups, Nout: groups}.
type Factored struct {
	Relation
	Nin  int
	Nout int
}

// Unwrap returns the decorated relation.
func (f Factored) Unwrap() Relation { return f.Relation }

// MinDeltaNinFactor implements [Relation].
func (f Factored) MinDeltaNinFactor() int {
	if f.Nin > 0 {
		return f.Nin
	}
	return f.Relation.MinDeltaNinFactor()
}

// MinDeltaNoutFactor implements [Relation].
func (f Factored) MinDeltaNoutFactor() int {
	if f.Nout > 0 {
		return f.Nout
	}
	return f.Relation.MinDeltaNoutFactor()
}

// Logged reports every committed size change of its vertex to Logger.
// Queries are forwarded unchanged. The zero Level is log.InfoLevel and a nil
// Logger means log.Default().
type Logged struct {
	Relation
	Logger *log.Logger
	Level  log.Level
}

// Unwrap returns the decorated relation.
func (l Logged) Unwrap() Relation { return l.Relation }

// OnCommit implements [CommitObserver].
func (l Logged) OnCommit(v *Vertex, oldNin, newNin []int, oldNout, newNout int) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	if !equalInts(oldNin, newNin) {
		logger.Log(l.Level, "change nin", "vertex", v.Name(), "from", oldNin, "to", newNin)
	}
	if oldNout != newNout {
		logger.Log(l.Level, "change nout", "vertex", v.Name(), "from", oldNout, "to", newNout)
	}
}

// CommitObserver is implemented by relations that want to observe commits
// of their vertex. [Apply] calls every observer found in the decorator chain
// after the vertex has been committed.
type CommitObserver interface {
	OnCommit(v *Vertex, oldNin, newNin []int, oldNout, newNout int)
}

// Find walks the decorator chain starting at r and returns the first
// relation that satisfies match.
func Find(r Relation, match func(Relation) bool) (Relation, bool) {
	for r != nil {
		if match(r) {
			return r, true
		}
		u, ok := r.(interface{ Unwrap() Relation })
		if !ok {
			return nil, false
		}
		r = u.Unwrap()
	}
	return nil, false
}

// Base returns the innermost relation of a decorator chain.
func Base(r Relation) Relation {
	for {
		u, ok := r.(interface{ Unwrap() Relation })
		if !ok {
			return r
		}
		r = u.Unwrap()
	}
}

func nameOf(r Relation) (string, bool) {
	found, ok := Find(r, func(r Relation) bool {
		_, ok := r.(Named)
		return ok
	})
	if !ok {
		return "", false
	}
	return found.(Named).Name, true
}

func observers(r Relation) []CommitObserver {
	var out []CommitObserver
	for r != nil {
		if o, ok := r.(CommitObserver); ok {
			out = append(out, o)
		}
		u, ok := r.(interface{ Unwrap() Relation })
		if !ok {
			break
		}
		r = u.Unwrap()
	}
	return out
}
