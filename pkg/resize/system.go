package resize

import (
	"slices"

	"github.com/matzehuels/nsize/pkg/graph"
)

// system is the integer constraint system of one closure.
//
// The free variables are the nout deltas of the mutable Absorb vertices in
// the closure (the roots). Every other delta is an integer combination of
// the roots: Stack vertices sum their inputs, Invariant vertices copy their
// first input, and graph inputs are fixed at zero. The homogeneous rows
// encode the remaining constraints:
//   - Invariant: expr(in[i]) - expr(in[0]) = 0 for i > 0
//   - divisibility: expr(v) - F·s = 0, with s a fresh slack variable and F
//     the lcm of v's nout factor and the nin factors of its consumers
type system struct {
	verts []*graph.Vertex
	index map[*graph.Vertex]int
	roots int
	coef  [][]int64
	rows  [][]int64
	width int
}

func newSystem(closure []*graph.Vertex) *system {
	s := &system{
		verts: closure,
		index: make(map[*graph.Vertex]int, len(closure)),
		coef:  make([][]int64, len(closure)),
	}
	for i, v := range closure {
		s.index[v] = i
		if !v.IsInput() && v.Class() == graph.Absorb {
			s.roots++
		}
	}

	root := 0
	var equalities [][]int64
	for i, v := range closure {
		expr := make([]int64, s.roots)
		switch {
		case v.IsInput():
		case v.Class() == graph.Absorb:
			expr[root] = 1
			root++
		case v.Class() == graph.Stack:
			for _, in := range v.Inputs() {
				for r, c := range s.coef[s.index[in]] {
					expr[r] += c
				}
			}
		case v.Class() == graph.Invariant:
			ins := v.Inputs()
			first := s.coef[s.index[ins[0]]]
			copy(expr, first)
			for _, in := range ins[1:] {
				other := s.coef[s.index[in]]
				if slices.Equal(other, first) {
					continue
				}
				row := make([]int64, s.roots)
				for r := range row {
					row[r] = other[r] - first[r]
				}
				equalities = append(equalities, row)
			}
		}
		s.coef[i] = expr
	}

	type divisibility struct {
		vertex int
		factor int64
	}
	var divs []divisibility
	for i, v := range closure {
		if isZero(s.coef[i]) {
			continue
		}
		f := int64(v.MinDeltaNoutFactor())
		for _, c := range v.Outputs() {
			f = lcm(f, int64(c.MinDeltaNinFactor()))
		}
		if f > 1 {
			divs = append(divs, divisibility{i, f})
		}
	}

	s.width = s.roots + len(divs)
	for _, eq := range equalities {
		s.rows = append(s.rows, pad(eq, s.width))
	}
	for k, d := range divs {
		row := pad(s.coef[d.vertex], s.width)
		row[s.roots+k] = -d.factor
		s.rows = append(s.rows, row)
	}
	return s
}

// factor returns the smallest positive |Δnout| realizable at v, or 0 if v
// cannot change at all.
func (s *system) factor(v *graph.Vertex) int64 {
	expr := pad(s.coef[s.index[v]], s.width)
	var g int64
	for _, b := range kernel(s.rows, s.width) {
		g = gcd(g, dot(expr, b))
	}
	return g
}

type target struct {
	vertex int
	delta  int64
}

// solve finds root deltas meeting every constraint and every target
// exactly. Among all solutions it searches for one keeping every size at
// least 1 and returns a local minimum of the sum of squared vertex deltas
// among those. ok is false when no integer solution exists.
func (s *system) solve(targets []target) (roots []int64, ok bool) {
	// A homogeneous variable t turns the targets into rows
	// expr(v) - delta·t = 0; a kernel vector with t = 1 is a solution.
	w := s.width + 1
	rows := make([][]int64, 0, len(s.rows)+len(targets))
	for _, r := range s.rows {
		rows = append(rows, pad(r, w))
	}
	for _, t := range targets {
		row := pad(s.coef[t.vertex], w)
		row[w-1] = -t.delta
		rows = append(rows, row)
	}

	var (
		acc []int64
		g   int64
	)
	for _, b := range kernel(rows, w) {
		tb := b[w-1]
		if tb == 0 {
			continue
		}
		if acc == nil {
			acc, g = b, tb
			continue
		}
		gg, x, y := egcd(g, tb)
		acc, g = combine(x, acc, y, b), gg
	}
	if acc == nil {
		return nil, false
	}
	if g < 0 {
		acc, g = combine(-1, acc, 0, acc), -g
	}
	if g != 1 {
		return nil, false
	}
	roots = slices.Clone(acc[:s.roots])

	// Directions that keep every target fixed.
	fixed := slices.Clone(s.rows)
	for _, t := range targets {
		fixed = append(fixed, pad(s.coef[t.vertex], s.width))
	}
	var dirs [][]int64
	for _, b := range kernel(fixed, s.width) {
		if d := b[:s.roots]; !isZero(d) {
			dirs = append(dirs, d)
		}
	}
	return s.minimize(roots, dirs), true
}

// score orders solutions: first by how far they shrink vertices below
// size 1, then by the sum of squared vertex deltas.
type score struct {
	short int64
	cost  int64
}

func (a score) less(b score) bool {
	if a.short != b.short {
		return a.short < b.short
	}
	return a.cost < b.cost
}

func (s *system) evaluate(roots []int64) score {
	var sc score
	for i, e := range s.coef {
		d := dot(e, roots)
		sc.cost += d * d
		if n := int64(s.verts[i].Nout()) + d; n < 1 {
			sc.short += 1 - n
		}
	}
	return sc
}

// minimize walks along dirs while the score strictly decreases. While some
// size is below 1 and no single direction helps, sums and differences of
// two directions are tried as well.
func (s *system) minimize(roots []int64, dirs [][]int64) []int64 {
	if len(dirs) == 0 {
		return roots
	}
	best := s.evaluate(roots)
	var pairs [][]int64
	paired := false
	for iter := 0; iter < 64*(len(dirs)+1); iter++ {
		next, sc := s.descend(roots, best, dirs)
		if !sc.less(best) && best.short > 0 {
			if !paired {
				pairs, paired = pairDirections(dirs), true
			}
			next, sc = s.descend(roots, best, pairs)
		}
		if !sc.less(best) {
			break
		}
		roots, best = next, sc
	}
	return roots
}

// descend takes the best improving step along each direction in turn.
func (s *system) descend(roots []int64, best score, dirs [][]int64) ([]int64, score) {
	for _, d := range dirs {
		from := roots
		for _, step := range s.steps(from, d) {
			if step == 0 {
				continue
			}
			cand := combine(1, from, step, d)
			if sc := s.evaluate(cand); sc.less(best) {
				roots, best = cand, sc
			}
		}
	}
	return roots, best
}

// steps lists the step lengths along d worth trying from roots: the two
// integers around the least-squares optimum, unit steps, and for every size
// below 1 the shortest step lifting it back to 1.
func (s *system) steps(roots, d []int64) []int64 {
	var num, den int64
	var lifts []int64
	for i, e := range s.coef {
		p, q := dot(e, roots), dot(e, d)
		num -= p * q
		den += q * q
		need := 1 - int64(s.verts[i].Nout()) - p
		switch {
		case need <= 0 || q == 0:
		case q > 0:
			lifts = append(lifts, ceilDiv(need, q))
		default:
			lifts = append(lifts, -ceilDiv(need, -q))
		}
	}
	if den == 0 {
		return nil
	}
	lo := floorDiv(num, den)
	return append([]int64{lo, lo + 1, -1, 1}, lifts...)
}

func pairDirections(dirs [][]int64) [][]int64 {
	var out [][]int64
	for i := range dirs {
		for j := i + 1; j < len(dirs); j++ {
			out = append(out, combine(1, dirs[i], 1, dirs[j]), combine(1, dirs[i], -1, dirs[j]))
		}
	}
	return out
}

// deltas evaluates the nout delta of every vertex of the closure.
func (s *system) deltas(roots []int64) []int64 {
	out := make([]int64, len(s.verts))
	for i, e := range s.coef {
		out[i] = dot(e, roots)
	}
	return out
}

func pad(x []int64, n int) []int64 {
	out := make([]int64, n)
	copy(out, x)
	return out
}

func isZero(x []int64) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}
