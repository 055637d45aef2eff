package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseClass(t *testing.T) {
	for _, c := range []Class{Absorb, Stack, Invariant} {
		got, ok := ParseClass(c.String())
		if !ok || got != c {
			t.Errorf("ParseClass(%q) = %v, %v, want %v, true", c.String(), got, ok, c)
		}
	}
	if _, ok := ParseClass("dense"); ok {
		t.Error("ParseClass(dense) ok, want false")
	}
	if got := Class(7).String(); got != "Class(7)" {
		t.Errorf("Class(7).String() = %q", got)
	}
}

func TestDecoratorsForward(t *testing.T) {
	rel := Logged{Relation: Factored{Relation: Named{Relation: NewStack(), Name: "cat"}, Nout: 2}}

	if rel.Class() != Stack {
		t.Errorf("Class() = %v, want %v", rel.Class(), Stack)
	}
	if rel.MinDeltaNoutFactor() != 2 || rel.MinDeltaNinFactor() != 1 {
		t.Errorf("factors = %d, %d, want 1, 2", rel.MinDeltaNinFactor(), rel.MinDeltaNoutFactor())
	}
	if name, ok := nameOf(rel); !ok || name != "cat" {
		t.Errorf("nameOf() = %q, %v, want cat, true", name, ok)
	}
	if Base(rel) != NewStack() {
		t.Errorf("Base() = %v, want the stack relation", Base(rel))
	}
	if _, ok := Find(rel, func(r Relation) bool { _, ok := r.(Factored); return ok }); !ok {
		t.Error("Find(Factored) not found")
	}
	if _, ok := Find(NewAbsorb(), func(r Relation) bool { _, ok := r.(Named); return ok }); ok {
		t.Error("Find(Named) on a base relation found something")
	}
	if got := len(observers(rel)); got != 1 {
		t.Errorf("len(observers()) = %d, want 1", got)
	}
}

func TestLoggedRelation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	in := mustInput(t, "in", 3)
	a := mustVertex(t, Logged{Relation: named(Absorb, "a"), Logger: logger}, 2, in)
	g := New([]*Vertex{in}, []*Vertex{a})

	if err := a.SetDelta([]int{0}, 3); err != nil {
		t.Fatalf("SetDelta() error: %v", err)
	}
	if err := Apply(g); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"change nout", "vertex=a", "from=2", "to=5"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "change nin") {
		t.Errorf("unchanged inputs were logged:\n%s", out)
	}
}
