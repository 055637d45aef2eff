package selection_test

import (
	"fmt"

	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/resize"
	"github.com/matzehuels/nsize/pkg/selection"
)

func Example() {
	in, _ := graph.NewInput("in", 3)
	dense, _ := graph.NewVertex(graph.Named{Relation: graph.NewAbsorb(), Name: "dense"}, 4, in)
	head, _ := graph.NewVertex(graph.Named{Relation: graph.NewAbsorb(), Name: "head"}, 2, dense)
	g := graph.New([]*graph.Vertex{in}, []*graph.Vertex{head})

	if _, err := resize.ChangeNout(resize.ExactOrFail(), dense, -2); err != nil {
		fmt.Println(err)
		return
	}
	scores := selection.ByName(map[string][]float64{"dense": {10, 1, 10, 1}})
	if err := selection.Select(g, scores); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("dense keeps", dense.OutputSelection())
	fmt.Println("head reads", head.InputSelections()[0])
	// Output:
	// dense keeps [0 2]
	// head reads [0 2]
}
