package selection

// unionFind is a disjoint-set forest whose representatives are the smallest
// member of each set.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) unionFind {
	uf := unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// add creates a singleton set and returns its element.
func (uf *unionFind) add() int {
	id := len(uf.parent)
	uf.parent = append(uf.parent, id)
	return id
}

func (uf *unionFind) find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		uf.parent[x], x = root, uf.parent[x]
	}
	return root
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	switch {
	case ra < rb:
		uf.parent[rb] = ra
	case rb < ra:
		uf.parent[ra] = rb
	}
}
