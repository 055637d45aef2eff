package graph

import (
	"errors"
	"slices"
	"testing"
)

func TestGraphVertices(t *testing.T) {
	g, vs := fanout(t)

	want := []string{"in", "a", "s1", "s2", "s3", "cat", "head"}
	if got := names(g.Vertices()); !equalNames(got, want) {
		t.Errorf("Vertices() = %v, want %v", got, want)
	}
	if g.VertexCount() != 7 {
		t.Errorf("VertexCount() = %d, want 7", g.VertexCount())
	}

	if v, ok := g.Vertex("cat"); !ok || v != vs["cat"] {
		t.Errorf("Vertex(cat) = %v, %v", v, ok)
	}
	if v, ok := g.Vertex(vs["s2"].ID()); !ok || v != vs["s2"] {
		t.Errorf("Vertex(id) = %v, %v", v, ok)
	}
	if _, ok := g.Vertex("missing"); ok {
		t.Error("Vertex(missing) found")
	}
}

func TestGraphValidate(t *testing.T) {
	g, vs := fanout(t)

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if vs["cat"].Nout() != 6 {
		t.Errorf("cat.Nout() = %d, want 6", vs["cat"].Nout())
	}

	vs["cat"].nout = 7
	if err := g.Validate(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Validate() error = %v, want %v", err, ErrSizeMismatch)
	}
}

// grow records the plan a +1 on the fanout graph.
func grow(t *testing.T, vs map[string]*Vertex) {
	t.Helper()
	plan := map[string][2]any{
		"a":    {[]int{0}, 1},
		"s1":   {[]int{1}, 1},
		"s2":   {[]int{1}, 1},
		"s3":   {[]int{1}, 1},
		"cat":  {[]int{1, 1, 1}, 3},
		"head": {[]int{3}, 0},
	}
	for name, p := range plan {
		if err := vs[name].SetDelta(p[0].([]int), p[1].(int)); err != nil {
			t.Fatalf("SetDelta(%s) error: %v", name, err)
		}
	}
}

func TestGraphValidatePlan(t *testing.T) {
	g, vs := fanout(t)
	grow(t, vs)

	if err := g.ValidatePlan(); err != nil {
		t.Fatalf("ValidatePlan() error: %v", err)
	}
	if got := names(g.Pending()); !equalNames(got, []string{"a", "s1", "s2", "s3", "cat", "head"}) {
		t.Errorf("Pending() = %v", got)
	}

	if err := vs["cat"].SetDelta([]int{1, 1, 1}, 2); err != nil {
		t.Fatalf("SetDelta() error: %v", err)
	}
	if err := g.ValidatePlan(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("ValidatePlan() error = %v, want %v", err, ErrSizeMismatch)
	}

	if err := vs["head"].SetDelta([]int{2}, 0); err != nil {
		t.Fatalf("SetDelta() error: %v", err)
	}
	if err := g.ValidatePlan(); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("ValidatePlan() with stale edge error = %v, want %v", err, ErrSizeMismatch)
	}
}

func TestCheckDeltas(t *testing.T) {
	_, vs := fanout(t)

	tests := []struct {
		name   string
		deltas map[string]int
		want   error
	}{
		{"consistent", map[string]int{"a": 1, "s1": 1, "s2": 1, "s3": 1, "cat": 3}, nil},
		{"stack sum", map[string]int{"a": 1, "s1": 1, "s2": 1, "s3": 1, "cat": 2}, ErrSizeMismatch},
		{"invariant", map[string]int{"a": 1}, ErrSizeMismatch},
		{"input fixed", map[string]int{"in": 1}, ErrSizeMismatch},
		{"positive", map[string]int{"head": -3}, ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas := make(map[*Vertex]int)
			for name, d := range tt.deltas {
				deltas[vs[name]] = d
			}
			err := CheckDeltas(deltas)
			if tt.want == nil {
				if err != nil {
					t.Errorf("CheckDeltas() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckDeltas() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type countingMutator struct {
	id      int
	clones  *int
	outputs []int
}

func (m *countingMutator) ResizeInputs([]int, [][]int) error { return nil }
func (m *countingMutator) ResizeOutput(size int, _ []int) error {
	m.outputs = append(m.outputs, size)
	return nil
}
func (m *countingMutator) Clone() Mutator {
	*m.clones++
	return &countingMutator{id: m.id + 1, clones: m.clones}
}

func TestGraphClone(t *testing.T) {
	g, vs := fanout(t)
	clones := 0
	m := &countingMutator{clones: &clones}
	vs["a"].SetMutator(m)

	c := g.Clone()
	if clones != 1 {
		t.Errorf("mutator cloned %d times, want 1", clones)
	}

	grow(t, vs)
	if err := Apply(g); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	ca, ok := c.Vertex("a")
	if !ok {
		t.Fatal("clone has no vertex a")
	}
	if ca == vs["a"] || ca.ID() != vs["a"].ID() {
		t.Errorf("clone vertex %p (id %s), original %p (id %s)", ca, ca.ID(), vs["a"], vs["a"].ID())
	}
	ccat, _ := c.Vertex("cat")
	if ca.Nout() != 2 || ccat.Nout() != 6 {
		t.Errorf("clone sizes a = %d, cat = %d, want 2, 6", ca.Nout(), ccat.Nout())
	}
	if vs["a"].Nout() != 3 || vs["cat"].Nout() != 9 {
		t.Errorf("original sizes a = %d, cat = %d, want 3, 9", vs["a"].Nout(), vs["cat"].Nout())
	}
	if len(c.Pending()) != 0 {
		t.Errorf("clone Pending() = %v", c.Pending())
	}
	if cm := ca.Mutator().(*countingMutator); len(cm.outputs) != 0 || cm == m {
		t.Errorf("clone mutator shared or called: %v", cm.outputs)
	}
	if !slices.Equal(m.outputs, []int{3}) {
		t.Errorf("original mutator outputs = %v, want [3]", m.outputs)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("clone Validate() error: %v", err)
	}
}

func TestGraphCloneKeepsPendingState(t *testing.T) {
	g, vs := fanout(t)
	grow(t, vs)
	if err := vs["a"].SetSelection(nil, []int{0, 1, -1}); err != nil {
		t.Fatalf("SetSelection() error: %v", err)
	}

	c := g.Clone()
	ca, _ := c.Vertex("a")
	if ca.DeltaNout() != 1 || !slices.Equal(ca.OutputSelection(), []int{0, 1, -1}) {
		t.Errorf("clone pending = %d, %v", ca.DeltaNout(), ca.OutputSelection())
	}

	vs["a"].ClearPending()
	if ca.DeltaNout() != 1 {
		t.Error("clearing the original cleared the clone")
	}
}
