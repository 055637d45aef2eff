package io

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
)

// Vertex kinds of the TOML format.
const (
	KindInput     = "input"
	KindAbsorb    = "absorb"
	KindStack     = "stack"
	KindInvariant = "invariant"
)

var kinds = []string{KindInput, KindAbsorb, KindStack, KindInvariant}

type document struct {
	Outputs  []string     `toml:"outputs,omitempty"`
	Vertices []vertexSpec `toml:"vertex"`
}

type vertexSpec struct {
	Name       string    `toml:"name"`
	Kind       string    `toml:"kind"`
	Size       int       `toml:"size,omitempty"`
	Inputs     []string  `toml:"inputs,omitempty"`
	NinFactor  int       `toml:"nin_factor,omitempty"`
	NoutFactor int       `toml:"nout_factor,omitempty"`
	Utility    []float64 `toml:"utility,omitempty"`
	Log        bool      `toml:"log,omitempty"`
}

// Model is a graph loaded from a description together with the neuron
// utilities it declares.
type Model struct {
	Graph *graph.Graph
	// Utilities maps vertex names to their declared utility scores.
	Utilities map[string][]float64
}

// ReadTOML decodes a graph description from r.
//
// Vertices declaring log = true report committed size changes to logger;
// a nil logger means log.Default().
//
// ReadTOML returns an INVALID_FORMAT error for malformed TOML or unknown
// keys, an INVALID_INPUT error for invalid names, kinds, sizes or factors,
// and an INVALID_GRAPH error for duplicate names, unknown references,
// cycles and sizes that violate a relation. ReadTOML does not close r.
func ReadTOML(r io.Reader, logger *log.Logger) (*Model, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph description")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %s", undecoded[0])
	}

	specs := make(map[string]vertexSpec, len(doc.Vertices))
	for i := range doc.Vertices {
		doc.Vertices[i].Kind = strings.ToLower(doc.Vertices[i].Kind)
		s := doc.Vertices[i]
		if err := validateSpec(s); err != nil {
			return nil, err
		}
		if _, dup := specs[s.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate vertex %q", s.Name)
		}
		specs[s.Name] = s
	}

	order, err := sortSpecs(doc.Vertices, specs)
	if err != nil {
		return nil, err
	}

	m := &Model{Utilities: make(map[string][]float64)}
	built := make(map[string]*graph.Vertex, len(order))
	var inputs []*graph.Vertex
	for _, s := range order {
		v, err := buildVertex(s, built, logger)
		if err != nil {
			return nil, err
		}
		built[s.Name] = v
		if s.Kind == KindInput {
			inputs = append(inputs, v)
		}
		if s.Utility != nil {
			m.Utilities[s.Name] = slices.Clone(s.Utility)
		}
	}

	var outputs []*graph.Vertex
	if doc.Outputs != nil {
		for _, name := range doc.Outputs {
			v, ok := built[name]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidGraph, "output %q: unknown vertex", name)
			}
			outputs = append(outputs, v)
		}
	} else {
		for _, s := range doc.Vertices {
			if v := built[s.Name]; len(v.Outputs()) == 0 {
				outputs = append(outputs, v)
			}
		}
	}

	m.Graph = graph.New(inputs, outputs)
	return m, nil
}

// ImportTOML reads the graph description file at path. See [ReadTOML].
func ImportTOML(path string, logger *log.Logger) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTOML(f, logger)
}

func validateSpec(s vertexSpec) error {
	if err := errors.ValidateVertexName(s.Name); err != nil {
		return err
	}
	if err := errors.ValidateKind(s.Kind, kinds...); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "vertex %s", s.Name)
	}
	switch s.Kind {
	case KindInput, KindAbsorb:
		if err := errors.ValidateSize("size", s.Size); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "vertex %s", s.Name)
		}
	default:
		if s.Size < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "vertex %s: size %d must be positive", s.Name, s.Size)
		}
	}
	for _, f := range []struct {
		what  string
		value int
	}{{"nin_factor", s.NinFactor}, {"nout_factor", s.NoutFactor}} {
		if f.value == 0 {
			continue
		}
		if err := errors.ValidateFactor(f.what, f.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "vertex %s", s.Name)
		}
	}
	if s.Kind == KindInput && len(s.Inputs) > 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "input vertex %s cannot have inputs", s.Name)
	}
	if s.Kind != KindInput && len(s.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidGraph, "%s vertex %s needs inputs", s.Kind, s.Name)
	}
	return nil
}

// sortSpecs orders the specs so every vertex follows its inputs, using
// Kahn's algorithm. Ties keep declaration order.
func sortSpecs(decl []vertexSpec, specs map[string]vertexSpec) ([]vertexSpec, error) {
	inDegree := make(map[string]int, len(decl))
	children := make(map[string][]string, len(decl))
	for _, s := range decl {
		for _, in := range s.Inputs {
			if _, ok := specs[in]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidGraph, "vertex %s: unknown input %q", s.Name, in)
			}
			inDegree[s.Name]++
			children[in] = append(children[in], s.Name)
		}
	}

	var queue []string
	for _, s := range decl {
		if inDegree[s.Name] == 0 {
			queue = append(queue, s.Name)
		}
	}
	order := make([]vertexSpec, 0, len(decl))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, specs[curr])
		for _, child := range children[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(decl) {
		var stuck []string
		for _, s := range decl {
			if inDegree[s.Name] > 0 {
				stuck = append(stuck, s.Name)
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidGraph, "graph contains a cycle through %v", stuck)
	}
	return order, nil
}

func buildVertex(s vertexSpec, built map[string]*graph.Vertex, logger *log.Logger) (*graph.Vertex, error) {
	class := graph.Absorb
	if s.Kind != KindInput {
		class, _ = graph.ParseClass(s.Kind)
	}

	var rel graph.Relation = graph.Named{Relation: graph.NewRelation(class), Name: s.Name}
	if s.NinFactor > 0 || s.NoutFactor > 0 {
		rel = graph.Factored{Relation: rel, Nin: s.NinFactor, Nout: s.NoutFactor}
	}
	if s.Log {
		rel = graph.Logged{Relation: rel, Logger: logger}
	}

	inputs := make([]*graph.Vertex, len(s.Inputs))
	for i, name := range s.Inputs {
		inputs[i] = built[name]
	}
	v, err := graph.NewVertex(rel, s.Size, inputs...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "vertex %s", s.Name)
	}
	return v, nil
}
