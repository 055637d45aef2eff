package selection

import (
	"cmp"
	"slices"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
)

// component resolves the selections of one constraint closure.
//
// Every original output neuron of an Absorb vertex (a root) is a token.
// Stack vertices carry the concatenation of their inputs' tokens and
// Invariant vertices carry the tokens of their first input. Tokens that
// meet at the same position of an Invariant vertex are the same logical
// neuron and share a class; classes are kept or dropped as a whole.
type component struct {
	verts []*graph.Vertex
	index map[*graph.Vertex]int
	roots []int
	orig  [][]int

	// Per original token.
	rootOf  []int
	utility []float64
	fixed   []bool

	uf   unionFind
	next [][]int // new token sequence of every root, by vertex index
}

func newComponent(verts []*graph.Vertex) *component {
	c := &component{
		verts: verts,
		index: make(map[*graph.Vertex]int, len(verts)),
		orig:  make([][]int, len(verts)),
		next:  make([][]int, len(verts)),
	}
	for i, v := range verts {
		c.index[v] = i
		switch v.Class() {
		case graph.Absorb:
			c.roots = append(c.roots, i)
			for range v.Nout() {
				c.orig[i] = append(c.orig[i], len(c.rootOf))
				c.rootOf = append(c.rootOf, i)
			}
		case graph.Stack:
			for _, in := range v.Inputs() {
				c.orig[i] = append(c.orig[i], c.orig[c.index[in]]...)
			}
		case graph.Invariant:
			c.orig[i] = slices.Clone(c.orig[c.index[v.Inputs()[0]]])
		}
	}

	c.utility = make([]float64, len(c.rootOf))
	c.fixed = make([]bool, len(c.rootOf))
	c.uf = newUnionFind(len(c.rootOf))
	for _, v := range verts {
		if v.Class() != graph.Invariant {
			continue
		}
		ins := v.Inputs()
		first := c.orig[c.index[ins[0]]]
		for _, in := range ins[1:] {
			for k, t := range c.orig[c.index[in]] {
				c.uf.union(t, first[k])
			}
		}
	}
	return c
}

// score reads the utility of every token of a mutable root. Tokens of graph
// inputs are fixed: their classes are never dropped.
func (c *component) score(s Scorer) error {
	for _, r := range c.roots {
		v := c.verts[r]
		if v.IsInput() {
			for _, t := range c.orig[r] {
				c.fixed[t] = true
			}
			continue
		}
		u := s.Utility(v)
		if u == nil {
			continue
		}
		if len(u) != v.Nout() {
			return errors.New(errors.ErrCodeSelectionShapeInvalid,
				"vertex %s: %d utilities for %d output neurons", v.Name(), len(u), v.Nout())
		}
		for k, t := range c.orig[r] {
			c.utility[t] = u[k]
		}
	}
	return nil
}

type class struct {
	id      int
	utility float64
	fixed   bool
	count   map[int]int // tokens per root
}

func (c *component) classes() []*class {
	byID := make(map[int]*class)
	var out []*class
	for t, r := range c.rootOf {
		id := c.uf.find(t)
		cl, ok := byID[id]
		if !ok {
			cl = &class{id: id, count: make(map[int]int)}
			byID[id] = cl
			out = append(out, cl)
		}
		cl.utility += c.utility[t]
		cl.fixed = cl.fixed || c.fixed[t]
		cl.count[r]++
	}
	return out
}

// drop removes the least useful classes until no root keeps more tokens
// than its new size, then fills every root up to its new size with fresh
// tokens appended after the kept ones.
//
// A class is only dropped when it holds tokens of a root that still has too
// many. Classes whose removal leaves no root short are preferred; among
// them fixed classes come last, then lower utility, then later neurons.
func (c *component) drop() {
	kept := make(map[int]int, len(c.roots))
	want := make(map[int]int, len(c.roots))
	for _, r := range c.roots {
		v := c.verts[r]
		kept[r] = v.Nout()
		want[r] = v.Nout() + v.DeltaNout()
	}

	classes := c.classes()
	slices.SortStableFunc(classes, func(a, b *class) int {
		if a.fixed != b.fixed {
			if a.fixed {
				return 1
			}
			return -1
		}
		if n := cmp.Compare(a.utility, b.utility); n != 0 {
			return n
		}
		return cmp.Compare(b.id, a.id)
	})

	dropped := make(map[int]bool)
	for {
		pick, fallback := -1, -1
		for i, cl := range classes {
			if dropped[cl.id] {
				continue
			}
			touches, safe := false, true
			for r, n := range cl.count {
				if kept[r] > want[r] {
					touches = true
				}
				if kept[r]-n < want[r] {
					safe = false
				}
			}
			if !touches {
				continue
			}
			if safe {
				pick = i
				break
			}
			if fallback < 0 {
				fallback = i
			}
		}
		if pick < 0 {
			pick = fallback
		}
		if pick < 0 {
			break
		}
		cl := classes[pick]
		dropped[cl.id] = true
		for r, n := range cl.count {
			kept[r] -= n
		}
	}

	for _, r := range c.roots {
		var seq []int
		for _, t := range c.orig[r] {
			if !dropped[c.uf.find(t)] {
				seq = append(seq, t)
			}
		}
		for len(seq) < want[r] {
			seq = append(seq, c.uf.add())
		}
		c.next[r] = seq
	}
}

// eval derives the new token sequence of every vertex from the roots.
func (c *component) eval() [][]int {
	out := make([][]int, len(c.verts))
	for i, v := range c.verts {
		switch v.Class() {
		case graph.Absorb:
			out[i] = c.next[i]
		case graph.Stack:
			var seq []int
			for _, in := range v.Inputs() {
				seq = append(seq, out[c.index[in]]...)
			}
			out[i] = seq
		case graph.Invariant:
			out[i] = out[c.index[v.Inputs()[0]]]
		}
	}
	return out
}

func (c *component) sameClasses(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if c.uf.find(a[k]) != c.uf.find(b[k]) {
			return false
		}
	}
	return true
}

// align makes every input of every Invariant vertex carry the same classes
// in the same order. Fresh tokens meeting at one position are merged;
// remaining differences are settled by overwriting the sequence of the root
// that solely determines one side. When neither side has such a root, for
// example when fixed input neurons would have to move, alignment fails with
// SELECTION_INFEASIBLE.
func (c *component) align() error {
	for round := 0; round <= 2*len(c.verts); round++ {
		seqs := c.eval()
		settled := true
	scan:
		for i, v := range c.verts {
			if v.Class() != graph.Invariant {
				continue
			}
			ins := v.Inputs()
			first := c.index[ins[0]]
			for _, in := range ins[1:] {
				j := c.index[in]
				a, b := seqs[j], seqs[first]
				if c.sameClasses(a, b) {
					continue
				}
				settled = false
				if len(a) != len(b) {
					return errors.New(errors.ErrCodeInternal,
						"vertex %s: inputs carry %d and %d neurons", v.Name(), len(a), len(b))
				}

				for k := range a {
					if c.isFresh(a[k]) && c.isFresh(b[k]) {
						c.uf.union(a[k], b[k])
					}
				}
				if c.sameClasses(a, b) {
					break scan
				}

				if o := c.owner(j); o >= 0 {
					c.next[o] = slices.Clone(b)
				} else if o := c.owner(first); o >= 0 {
					c.next[o] = slices.Clone(a)
				} else {
					return errors.New(errors.ErrCodeSelectionInfeasible,
						"vertex %s: cannot align neurons of %s and %s", c.verts[i].Name(), ins[0].Name(), in.Name())
				}
				break scan
			}
		}
		if settled {
			return nil
		}
	}
	return errors.New(errors.ErrCodeSelectionInfeasible, "neuron alignment did not converge")
}

// isFresh reports whether t belongs to a class of inserted neurons only.
// Classes are represented by their smallest token, and original tokens
// come first.
func (c *component) isFresh(t int) bool {
	return c.uf.find(t) >= len(c.rootOf)
}

// owner returns the mutable root whose sequence alone determines the
// sequence of vertex i, or -1.
func (c *component) owner(i int) int {
	v := c.verts[i]
	switch {
	case v.Class() == graph.Absorb:
		if v.IsInput() {
			return -1
		}
		return i
	case v.Class() == graph.Invariant, len(v.Inputs()) == 1:
		return c.owner(c.index[v.Inputs()[0]])
	}
	return -1
}

// selections maps the new token sequence of every vertex to indices of
// its original neurons. The k-th occurrence of a class takes the position
// of the k-th occurrence of that class in the original sequence; surplus
// and fresh occurrences become -1. Vertices keeping their neurons in place
// map to nil.
func (c *component) selections() (map[*graph.Vertex][]int, error) {
	seqs := c.eval()
	out := make(map[*graph.Vertex][]int, len(c.verts))
	for i, v := range c.verts {
		want := v.Nout() + v.DeltaNout()
		if len(seqs[i]) != want {
			return nil, errors.New(errors.ErrCodeInternal,
				"vertex %s: selected %d neurons, want %d", v.Name(), len(seqs[i]), want)
		}

		positions := make(map[int][]int)
		for k, t := range c.orig[i] {
			id := c.uf.find(t)
			positions[id] = append(positions[id], k)
		}
		sel := make([]int, want)
		identity := v.DeltaNout() == 0
		for k, t := range seqs[i] {
			id := c.uf.find(t)
			sel[k] = -1
			if p := positions[id]; len(p) > 0 {
				sel[k] = p[0]
				positions[id] = p[1:]
			}
			identity = identity && sel[k] == k
		}
		if identity {
			continue
		}
		out[v] = sel
	}
	return out, nil
}
