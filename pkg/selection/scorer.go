package selection

import "github.com/matzehuels/nsize/pkg/graph"

// Scorer returns the utility of every original output neuron of v: one
// value per neuron of the committed nout, higher meaning more worth
// keeping. A nil slice means the vertex has no preference.
type Scorer interface {
	Utility(v *graph.Vertex) []float64
}

// ScorerFunc adapts a function to [Scorer].
type ScorerFunc func(v *graph.Vertex) []float64

// Utility implements [Scorer].
func (f ScorerFunc) Utility(v *graph.Vertex) []float64 { return f(v) }

// Uniform scores every neuron the same. Shrinking vertices then keep their
// first neurons.
func Uniform() Scorer {
	return ScorerFunc(func(*graph.Vertex) []float64 { return nil })
}

// ByName looks utilities up by vertex name. Vertices missing from the map
// have no preference.
func ByName(utilities map[string][]float64) Scorer {
	return ScorerFunc(func(v *graph.Vertex) []float64 {
		return utilities[v.Name()]
	})
}
