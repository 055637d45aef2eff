package resize_test

import (
	"fmt"

	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/resize"
)

func Example() {
	in, _ := graph.NewInput("in", 4)
	a, _ := graph.NewVertex(graph.Named{Relation: graph.NewAbsorb(), Name: "a"}, 2, in)
	var branches []*graph.Vertex
	for _, name := range []string{"relu", "tanh", "sigmoid"} {
		b, _ := graph.NewVertex(graph.Named{Relation: graph.NewInvariant(), Name: name}, 0, a)
		branches = append(branches, b)
	}
	cat, _ := graph.NewVertex(graph.Named{Relation: graph.NewStack(), Name: "cat"}, 0, branches...)
	g := graph.New([]*graph.Vertex{in}, []*graph.Vertex{cat})

	fmt.Println("factor:", resize.MinDeltaFactor(cat))

	if _, err := resize.ChangeNout(resize.ExactOrFail(), cat, 1); err != nil {
		fmt.Println("exact +1 failed")
	}

	out, _ := resize.ChangeNout(resize.Relaxed(nil), cat, 1)
	fmt.Println(out.Status, out.Plan)

	_ = graph.Apply(g)
	fmt.Println("cat:", cat.Nout(), "a:", a.Nout())
	// Output:
	// factor: 3
	// exact +1 failed
	// changed a +1, relu +1, tanh +1, sigmoid +1, cat +3
	// cat: 9 a: 3
}
