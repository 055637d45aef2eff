package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nsize/pkg/render"
	"github.com/matzehuels/nsize/pkg/resize"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // output formats: "dot", "svg", "png"
	detailed bool     // show input sizes and factors
	vertex   string   // optional vertex whose planned change is drawn
	delta    int      // planned change of vertex
}

// renderCommand creates the render command. With --vertex and --delta the
// planned change is drawn as pending state without being applied.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph description as DOT, SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show input sizes and divisibility factors")
	cmd.Flags().StringVar(&opts.vertex, "vertex", "", "draw a planned change of this vertex")
	cmd.Flags().IntVarP(&opts.delta, "delta", "d", 0, "size change planned with --vertex")

	return cmd
}

// parseFormats parses the --format flag. If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'dot', 'svg' or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// Known format extensions are stripped from output; an empty output uses the
// input path without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	m, err := c.loadModel(input)
	if err != nil {
		return err
	}
	g := m.Graph

	if opts.vertex != "" {
		v, err := lookupVertex(g, opts.vertex)
		if err != nil {
			return err
		}
		strategy, err := parseStrategy(strategyDefault, c.Logger)
		if err != nil {
			return err
		}
		if _, err := resize.ChangeNout(strategy, v, opts.delta); err != nil {
			return err
		}
	}

	dot := render.ToDOT(g, render.Options{Detailed: opts.detailed})
	w := cmd.OutOrStdout()
	for _, f := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = basePath(opts.output, input) + "." + f
		}
		prog := newProgress(c.Logger)
		data, err := renderGraph(cmd.Context(), dot, f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		prog.done("Rendered " + f)
		printFile(w, path)
	}
	return nil
}

func renderGraph(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return render.RenderSVG(ctx, dot)
	case formatPNG:
		return render.RenderPNG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
