package graph

import (
	"time"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/observability"
)

// commit is the snapshot of one vertex's pending state taken before any
// vertex of the pass is committed.
type commit struct {
	v                *Vertex
	oldNin, newNin   []int
	oldNout, newNout int
	selIn            [][]int
	selOut           []int
	inputs, output   bool
}

// Apply commits every pending delta and selection of g.
//
// Vertices are visited in topological order. For each vertex the mutator
// is called first (ResizeInputs when an input edge changes, then
// ResizeOutput when the output changes), then the new sizes become current,
// the pending state is cleared and [CommitObserver] relations are notified.
//
// A mutator error aborts the pass with an APPLY_HOOK_FAILURE error. The
// failing vertex keeps its pending state, including inputs whose sources
// already committed, so a later Apply repeats its ResizeInputs call;
// vertices committed earlier in the pass stay committed. Apply is a no-op
// when nothing is pending.
func Apply(g *Graph) error {
	start := time.Now()
	hooks := observability.Apply()

	pending := g.Pending()
	hooks.OnApplyStart(len(pending))

	// Input sizes are derived from upstream nout, so everything has to be
	// read before the first commit.
	commits := make([]commit, len(pending))
	for i, v := range pending {
		c := commit{
			v:       v,
			oldNin:  v.Nin(),
			newNin:  v.Nin(),
			oldNout: v.nout,
			newNout: v.nout + v.deltaNout,
			selIn:   v.InputSelections(),
			selOut:  v.OutputSelection(),
			inputs:  v.inputsPending(),
			output:  v.outputPending(),
		}
		for j, d := range v.deltaNin {
			c.newNin[j] += d
		}
		commits[i] = c
	}

	for n, c := range commits {
		if err := c.run(); err != nil {
			hooks.OnApplyVertex(c.v.Name(), err)
			hooks.OnApplyComplete(n, time.Since(start), err)
			return err
		}
		hooks.OnApplyVertex(c.v.Name(), nil)
	}

	hooks.OnApplyComplete(len(commits), time.Since(start), nil)
	return nil
}

func (c commit) run() error {
	v := c.v
	if m := v.mutator; m != nil {
		if c.inputs {
			if err := m.ResizeInputs(c.newNin, c.selIn); err != nil {
				return errors.Wrap(errors.ErrCodeApplyHookFailure, err, "resize inputs of %s to %v", v.Name(), c.newNin)
			}
		}
		if c.output {
			if err := m.ResizeOutput(c.newNout, c.selOut); err != nil {
				return errors.Wrap(errors.ErrCodeApplyHookFailure, err, "resize output of %s to %d", v.Name(), c.newNout)
			}
		}
	}

	v.nout = c.newNout
	v.ClearPending()
	// The edges out of v now report the new size; their consumers still
	// owe a ResizeInputs call.
	for _, out := range v.outputs {
		for i, in := range out.inputs {
			if in == v && out.deltaNin[i] != 0 {
				out.deltaNin[i] = 0
				out.ninResized = true
			}
		}
	}

	for _, o := range observers(v.rel) {
		o.OnCommit(v, c.oldNin, c.newNin, c.oldNout, c.newNout)
	}
	return nil
}
