package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command, which prints the vertices of a
// graph description together with how far each of them can be resized.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "List vertices, sizes and divisibility factors of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := c.loadModel(args[0])
			if err != nil {
				return err
			}
			g := m.Graph
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, StyleTitle.Render(args[0]))
			printKeyValue(w, "Vertices", strconv.Itoa(g.VertexCount()))
			printKeyValue(w, "Inputs", names(g.Inputs()))
			printKeyValue(w, "Outputs", names(g.Outputs()))
			fmt.Fprintln(w, vertexTable(g))

			if pending := g.Pending(); len(pending) > 0 {
				printWarning(w, "%d vertices carry pending changes", len(pending))
			}
			return nil
		},
	}
}

func names[V fmt.Stringer](vs []V) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
