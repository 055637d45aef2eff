package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/resize"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleGrow   = lipgloss.NewStyle().Foreground(colorGreen)
	styleShrink = lipgloss.NewStyle().Foreground(colorRed)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Graph Output
// =============================================================================

// vertexTable renders one row per vertex: sizes, divisibility factors and
// the smallest realizable change of its output size.
func vertexTable(g *graph.Graph) string {
	var rows [][]string
	for _, v := range g.Vertices() {
		rows = append(rows, []string{
			v.Name(),
			v.Class().String(),
			formatSizes(v.Nin(), v.DeltaNin()),
			formatSize(v.Nout(), v.DeltaNout()),
			fmt.Sprintf("%d/%d", v.MinDeltaNinFactor(), v.MinDeltaNoutFactor()),
			strconv.Itoa(resize.MinDeltaFactor(v)),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Vertex", "Class", "In", "Out", "Factors", "Min Δ").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleValue
			}
			return StyleDim
		}).
		Render()
}

func formatSize(size, delta int) string {
	if delta == 0 {
		return strconv.Itoa(size)
	}
	return fmt.Sprintf("%d %s %d", size, iconArrow, size+delta)
}

func formatSizes(sizes, deltas []int) string {
	if len(sizes) == 0 {
		return "-"
	}
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = formatSize(n, deltas[i])
	}
	return strings.Join(parts, ", ")
}

// printPlan lists the size changes of a plan, one vertex per line.
func printPlan(w io.Writer, p *resize.Plan) {
	for _, v := range p.Vertices() {
		d := p.Delta(v)
		style := styleGrow
		if d < 0 {
			style = styleShrink
		}
		fmt.Fprintf(w, "  %-16s %s %s\n", v.Name(), formatSize(v.Nout(), d), style.Render(fmt.Sprintf("(%+d)", d)))
	}
}

// printSelection shows which original neurons the output of v keeps.
func printSelection(w io.Writer, v *graph.Vertex) {
	sel := v.OutputSelection()
	if sel == nil {
		return
	}
	parts := make([]string, len(sel))
	for i, k := range sel {
		if k < 0 {
			parts[i] = "new"
			continue
		}
		parts[i] = strconv.Itoa(k)
	}
	printDetail(w, "%s keeps [%s]", v.Name(), strings.Join(parts, " "))
}
