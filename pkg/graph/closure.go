package graph

// Linked returns the vertices whose output size is tied to v's output size
// by a relation invariant. These are the neighbors of v in the undirected
// constraint graph:
//   - the inputs of v, unless v is Absorb
//   - the Stack and Invariant vertices consuming v
//
// Absorb consumers are not linked: their input size follows v but their
// output size is independent.
func Linked(v *Vertex) []*Vertex {
	var out []*Vertex
	if v.Class() != Absorb {
		out = append(out, v.inputs...)
	}
	for _, c := range v.outputs {
		if c.Class() != Absorb {
			out = append(out, c)
		}
	}
	return out
}

// Closure returns every vertex connected to one of the seeds in the
// constraint graph (see [Linked]), in topological order. Any size change of
// a seed can only be compensated inside its closure.
//
// Closure uses an explicit worklist; merge points reached over several
// paths are visited once.
func Closure(seeds ...*Vertex) []*Vertex {
	seen := make(map[*Vertex]bool, len(seeds))
	var members, queue []*Vertex
	for _, s := range seeds {
		if s != nil && !seen[s] {
			seen[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		members = append(members, v)
		for _, n := range Linked(v) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}

	order, err := TopoSort(members)
	if err != nil {
		panic(err)
	}
	return order
}

// Components partitions the closures of the given vertices. Every vertex
// appears in exactly one component; components keep topological order and
// are returned in the order their first seed appears.
func Components(vs []*Vertex) [][]*Vertex {
	done := make(map[*Vertex]bool)
	var out [][]*Vertex
	for _, v := range vs {
		if done[v] {
			continue
		}
		comp := Closure(v)
		for _, c := range comp {
			done[c] = true
		}
		out = append(out, comp)
	}
	return out
}

// TopoSort orders vs so that every vertex comes after those of its inputs
// that are also in vs. Edges to vertices outside vs are ignored.
//
// TopoSort uses Kahn's algorithm; ties keep the order of vs. It returns
// ErrGraphHasCycle if the set cannot be ordered.
func TopoSort(vs []*Vertex) ([]*Vertex, error) {
	member := make(map[*Vertex]bool, len(vs))
	for _, v := range vs {
		member[v] = true
	}

	inDegree := make(map[*Vertex]int, len(vs))
	queue := make([]*Vertex, 0, len(vs))
	for _, v := range vs {
		for _, in := range uniqueInputs(v) {
			if member[in] {
				inDegree[v]++
			}
		}
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]*Vertex, 0, len(vs))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, child := range curr.outputs {
			if !member[child] {
				continue
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(vs) {
		return nil, ErrGraphHasCycle
	}
	return order, nil
}

func uniqueInputs(v *Vertex) []*Vertex {
	var out []*Vertex
	for _, in := range v.inputs {
		dup := false
		for _, o := range out {
			if o == in {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, in)
		}
	}
	return out
}
