package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
	nsio "github.com/matzehuels/nsize/pkg/io"
	"github.com/matzehuels/nsize/pkg/resize"
	"github.com/matzehuels/nsize/pkg/selection"
)

// resizeOpts holds the command-line flags for the resize command.
type resizeOpts struct {
	vertex   string // vertex to resize; picked interactively when empty
	input    int    // input edge to resize, -1 for the output
	delta    int    // requested signed change
	strategy string // strategy name, see strategyNames
	sel      bool   // compute neuron selections
	apply    bool   // commit the plan
	output   string // TOML file receiving the committed graph
	plan     string // JSON file receiving the pending plan
}

// resizeCommand creates the resize command.
//
// The plan is always printed. With --select the neurons to keep are chosen
// from the utilities of the description, with --plan the pending plan is
// written as JSON, and with --apply it is committed; --out then writes the
// resized graph back as TOML.
func (c *CLI) resizeCommand() *cobra.Command {
	opts := resizeOpts{input: -1, strategy: strategyDefault}

	cmd := &cobra.Command{
		Use:   "resize [file]",
		Short: "Plan a size change and propagate it through the graph",
		Example: `  nsize resize model.toml --vertex fc1 --delta 4
  nsize resize model.toml --vertex head --input 0 --delta -2 --select --apply -o resized.toml
  nsize resize model.toml --vertex fc1 --delta 3 --strategy exact --plan plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && !opts.apply {
				return errors.New(errors.ErrCodeInvalidInput, "--out requires --apply")
			}
			return c.runResize(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.vertex, "vertex", "", "vertex to resize (interactive picker when omitted)")
	cmd.Flags().IntVar(&opts.input, "input", opts.input, "resize input edge i instead of the output")
	cmd.Flags().IntVarP(&opts.delta, "delta", "d", 0, "signed size change")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", opts.strategy, "strategy: "+strings.Join(strategyNames, ", "))
	cmd.Flags().BoolVar(&opts.sel, "select", false, "select neurons to keep or insert")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "commit the planned change")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "write the resized graph to this TOML file")
	cmd.Flags().StringVar(&opts.plan, "plan", "", "write the pending plan to this JSON file")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}

func (c *CLI) runResize(cmd *cobra.Command, path string, opts resizeOpts) error {
	m, err := c.loadModel(path)
	if err != nil {
		return err
	}
	g := m.Graph
	w := cmd.OutOrStdout()

	if opts.vertex == "" {
		picked, err := pickVertex(g)
		if err != nil {
			return err
		}
		if picked == "" {
			printDetail(w, "No vertex selected")
			return nil
		}
		opts.vertex = picked
	}
	v, err := lookupVertex(g, opts.vertex)
	if err != nil {
		return err
	}
	strategy, err := parseStrategy(opts.strategy, c.Logger)
	if err != nil {
		return err
	}

	req := resize.Nout(v, opts.delta)
	if opts.input >= 0 {
		req = resize.Nin(v, opts.input, opts.delta)
	}

	prog := newProgress(c.Logger)
	out, err := resize.Resize(strategy, req)
	if err != nil {
		return err
	}
	prog.done("Planned size change")

	if out.Status == resize.Unchanged {
		printInfo(w, "No size changed for %s", req)
		return nil
	}
	printSuccess(w, "Planned %s", req)
	if out.Plan.Relaxed() {
		printWarning(w, "Realized %+d instead of %+d", out.Plan.Realized[0], out.Plan.Requested[0])
	}
	printPlan(w, out.Plan)

	if opts.sel {
		prog := newProgress(c.Logger)
		if err := selection.Select(g, selection.ByName(m.Utilities)); err != nil {
			return err
		}
		prog.done("Selected neurons")
		for _, v := range out.Plan.Vertices() {
			printSelection(w, v)
		}
	}

	if opts.plan != "" {
		if err := nsio.ExportPlanJSON(g, opts.plan); err != nil {
			return err
		}
		printFile(w, opts.plan)
	}

	if !opts.apply {
		return nil
	}
	for _, v := range g.Vertices() {
		v.SetMutator(modelMutator{vertex: v.Name(), utilities: m.Utilities, logger: c.Logger})
	}
	if err := graph.Apply(g); err != nil {
		return err
	}
	printSuccess(w, "Applied %d size changes", len(out.Plan.Vertices()))

	if opts.output != "" {
		if err := nsio.ExportTOML(m, opts.output); err != nil {
			return err
		}
		printFile(w, opts.output)
	}
	return nil
}

// modelMutator stands in for the real layers behind a description. It
// reports every resize call at debug level and reindexes the declared
// utilities of the vertex so that a written description stays consistent.
type modelMutator struct {
	vertex    string
	utilities map[string][]float64
	logger    *log.Logger
}

func (m modelMutator) ResizeInputs(sizes []int, selections [][]int) error {
	m.logger.Debug("resize inputs", "vertex", m.vertex, "sizes", fmt.Sprint(sizes), "selections", fmt.Sprint(selections))
	return nil
}

// ResizeOutput keeps the utility of every retained neuron and scores fresh
// ones 0. Without a selection the utilities no longer describe the neurons
// and are dropped.
func (m modelMutator) ResizeOutput(size int, sel []int) error {
	m.logger.Debug("resize output", "vertex", m.vertex, "size", size, "selection", fmt.Sprint(sel))

	old, ok := m.utilities[m.vertex]
	if !ok {
		return nil
	}
	if sel == nil {
		delete(m.utilities, m.vertex)
		return nil
	}
	next := make([]float64, size)
	for i, k := range sel {
		if k >= 0 && k < len(old) {
			next[i] = old[k]
		}
	}
	m.utilities[m.vertex] = next
	return nil
}
