// Package cli implements the nsize command-line interface.
//
// The CLI loads a TOML graph description, plans size changes with the
// resize engine, selects neurons for them and commits the result. Every
// command logs through a shared charmbracelet logger; --verbose switches
// it to debug level.
//
// # Commands
//
//   - inspect: list vertices with their sizes and divisibility factors
//   - resize: plan, select and optionally apply a size change
//   - render: draw the graph with pending changes as DOT, SVG or PNG
//   - completion: generate shell completion scripts
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nsize/pkg/buildinfo"
	"github.com/matzehuels/nsize/pkg/errors"
	"github.com/matzehuels/nsize/pkg/graph"
	nsio "github.com/matzehuels/nsize/pkg/io"
	"github.com/matzehuels/nsize/pkg/resize"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "nsize"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Strategy names accepted by --strategy.
const (
	strategyDefault     = "default"
	strategyExact       = "exact"
	strategyRelaxed     = "relaxed"
	strategyExactOrNoOp = "exact-or-noop"
)

var strategyNames = []string{strategyDefault, strategyExact, strategyRelaxed, strategyExactOrNoOp}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nsize resizes layers of a neural network graph consistently",
		Long: `nsize plans layer size changes over a computation graph, propagating them
through concatenations and elementwise operations until every constraint holds,
and selects which neurons to keep or insert.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Helpers
// =============================================================================

// loadModel reads a graph description, reporting committed size changes of
// logged vertices to the CLI logger.
func (c *CLI) loadModel(path string) (*nsio.Model, error) {
	prog := newProgress(c.Logger)
	m, err := nsio.ImportTOML(path, c.Logger)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d vertices from %s", m.Graph.VertexCount(), path))
	return m, nil
}

func lookupVertex(g *graph.Graph, name string) (*graph.Vertex, error) {
	v, ok := g.Vertex(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no vertex named %q", name)
	}
	return v, nil
}

// parseStrategy maps a --strategy value to a resize strategy. Every strategy
// logs the problem it resolves at debug level.
func parseStrategy(name string, logger *log.Logger) (resize.Strategy, error) {
	var s resize.Strategy
	switch strings.ToLower(name) {
	case strategyDefault, "":
		s = resize.Exact(resize.Logged(logger, log.WarnLevel, "could not change size exactly, relaxing constraints",
			resize.Relaxed(resize.Fail("no feasible size change"))))
	case strategyExact:
		s = resize.ExactOrFail()
	case strategyRelaxed:
		s = resize.Relaxed(resize.Fail("no feasible size change"))
	case strategyExactOrNoOp:
		s = resize.ExactOrNoOp()
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown strategy %q (want one of %s)", name, strings.Join(strategyNames, ", "))
	}
	return resize.Logged(logger, log.DebugLevel, "resolving size change", s), nil
}
