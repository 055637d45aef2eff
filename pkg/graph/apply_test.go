package graph

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/observability"
)

type call struct {
	vertex string
	side   string
	sizes  []int
}

type recorder struct {
	calls *[]call
	name  string
	fail  string
}

func (r recorder) ResizeInputs(sizes []int, _ [][]int) error {
	*r.calls = append(*r.calls, call{r.name, "in", slices.Clone(sizes)})
	if r.fail == "in" {
		return fmt.Errorf("cannot resize inputs")
	}
	return nil
}

func (r recorder) ResizeOutput(size int, _ []int) error {
	*r.calls = append(*r.calls, call{r.name, "out", []int{size}})
	if r.fail == "out" {
		return fmt.Errorf("cannot resize output")
	}
	return nil
}

func TestApply(t *testing.T) {
	g, vs := fanout(t)
	var calls []call
	for name, v := range vs {
		v.SetMutator(recorder{calls: &calls, name: name})
	}
	grow(t, vs)

	if err := Apply(g); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	want := []call{
		{"a", "out", []int{3}},
		{"s1", "in", []int{3}}, {"s1", "out", []int{3}},
		{"s2", "in", []int{3}}, {"s2", "out", []int{3}},
		{"s3", "in", []int{3}}, {"s3", "out", []int{3}},
		{"cat", "in", []int{3, 3, 3}}, {"cat", "out", []int{9}},
		{"head", "in", []int{9}},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d mutator calls %v, want %d", len(calls), calls, len(want))
	}
	for i := range want {
		if calls[i].vertex != want[i].vertex || calls[i].side != want[i].side || !slices.Equal(calls[i].sizes, want[i].sizes) {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after Apply error: %v", err)
	}
	if p := g.Pending(); len(p) != 0 {
		t.Errorf("Pending() after Apply = %v", names(p))
	}

	// A second pass has nothing to do.
	calls = nil
	if err := Apply(g); err != nil {
		t.Fatalf("second Apply() error: %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("second Apply() made %d mutator calls", len(calls))
	}
}

func TestApplyHookFailure(t *testing.T) {
	g, vs := fanout(t)
	var calls []call
	vs["a"].SetMutator(recorder{calls: &calls, name: "a"})
	vs["s2"].SetMutator(recorder{calls: &calls, name: "s2", fail: "out"})
	grow(t, vs)

	err := Apply(g)
	if !errors.Is(err, errors.ErrCodeApplyHookFailure) {
		t.Fatalf("Apply() error = %v, want %v", err, errors.ErrCodeApplyHookFailure)
	}

	// Vertices before the failure stay committed.
	if vs["a"].Nout() != 3 || vs["s1"].Nout() != 3 {
		t.Errorf("committed sizes a = %d, s1 = %d, want 3, 3", vs["a"].Nout(), vs["s1"].Nout())
	}
	if vs["a"].Pending() || vs["s1"].Pending() {
		t.Error("committed vertices still pending")
	}
	// The failing vertex and everything after it keep their plan.
	if vs["s2"].Nout() != 2 || vs["s2"].DeltaNout() != 1 {
		t.Errorf("s2 nout = %d, delta = %d, want 2, 1", vs["s2"].Nout(), vs["s2"].DeltaNout())
	}
	if vs["cat"].DeltaNout() != 3 {
		t.Errorf("cat.DeltaNout() = %d, want 3", vs["cat"].DeltaNout())
	}
}

func TestApplyRetriesInputResize(t *testing.T) {
	g, vs := fanout(t)
	var calls []call
	vs["a"].SetMutator(recorder{calls: &calls, name: "a"})
	vs["s2"].SetMutator(recorder{calls: &calls, name: "s2", fail: "in"})
	grow(t, vs)

	if err := Apply(g); !errors.Is(err, errors.ErrCodeApplyHookFailure) {
		t.Fatalf("Apply() error = %v, want %v", err, errors.ErrCodeApplyHookFailure)
	}
	s2 := vs["s2"]
	if got := s2.Nin(); !slices.Equal(got, []int{3}) {
		t.Errorf("s2.Nin() = %v, want [3]", got)
	}
	if !s2.Pending() {
		t.Fatal("s2 not pending after its input resize failed")
	}

	calls = nil
	s2.SetMutator(recorder{calls: &calls, name: "s2"})
	if err := Apply(g); err != nil {
		t.Fatalf("second Apply() error: %v", err)
	}
	want := []call{{"s2", "in", []int{3}}, {"s2", "out", []int{3}}}
	if len(calls) != len(want) {
		t.Fatalf("got mutator calls %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i].vertex != want[i].vertex || calls[i].side != want[i].side || !slices.Equal(calls[i].sizes, want[i].sizes) {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
	if p := g.Pending(); len(p) != 0 {
		t.Errorf("Pending() after retry = %v", names(p))
	}
	if got := vs["head"].Nin(); !slices.Equal(got, []int{9}) {
		t.Errorf("head.Nin() = %v, want [9]", got)
	}
}

type applyRecorder struct {
	start     int
	vertices  []string
	committed int
	err       error
}

func (r *applyRecorder) OnApplyStart(pending int) { r.start = pending }
func (r *applyRecorder) OnApplyVertex(name string, _ error) {
	r.vertices = append(r.vertices, name)
}
func (r *applyRecorder) OnApplyComplete(committed int, _ time.Duration, err error) {
	r.committed, r.err = committed, err
}

func TestApplyHooks(t *testing.T) {
	rec := &applyRecorder{}
	observability.SetApplyHooks(rec)
	defer observability.Reset()

	g, vs := fanout(t)
	grow(t, vs)
	if err := Apply(g); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if rec.start != 6 || rec.committed != 6 || rec.err != nil {
		t.Errorf("hooks saw start %d, committed %d, err %v, want 6, 6, nil", rec.start, rec.committed, rec.err)
	}
	want := []string{"a", "s1", "s2", "s3", "cat", "head"}
	if !equalNames(rec.vertices, want) {
		t.Errorf("OnApplyVertex order = %v, want %v", rec.vertices, want)
	}
}

func TestApplyNothingPending(t *testing.T) {
	g, _ := fanout(t)
	if err := Apply(g); err != nil {
		t.Errorf("Apply() error: %v", err)
	}
	if err := Apply(&Graph{}); err != nil {
		t.Errorf("Apply(empty) error: %v", err)
	}
}
