package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nsize/pkg/graph"
	"github.com/matzehuels/nsize/pkg/resize"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// VertexListModel - Interactive vertex selection
// =============================================================================

// vertexItem is one row of the picker.
type vertexItem struct {
	name   string
	detail string
	fixed  bool // graph inputs and vertices without a feasible change
}

// VertexListModel is the bubbletea model for picking the vertex to resize.
type VertexListModel struct {
	Items    []vertexItem
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewVertexListModel lists the vertices of g in topological order.
func NewVertexListModel(g *graph.Graph) VertexListModel {
	var items []vertexItem
	for _, v := range g.Vertices() {
		f := resize.MinDeltaFactor(v)
		items = append(items, vertexItem{
			name:   v.Name(),
			detail: fmt.Sprintf("%s · %d · Δ %d", v.Class(), v.Nout(), f),
			fixed:  v.IsInput() || f == 0,
		})
	}
	return VertexListModel{Items: items, Height: 15}
}

func (m VertexListModel) Init() tea.Cmd {
	return nil
}

func (m VertexListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 || m.Items[m.Cursor].fixed {
				return m, nil
			}
			m.Selected = m.Items[m.Cursor].name
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m VertexListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Vertex"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		line := fmt.Sprintf("%-20s %s", it.name, listDimStyle.Render(it.detail))
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		case it.fixed:
			b.WriteString("  " + listDimStyle.Render(line))
		default:
			b.WriteString("  " + listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))
	return b.String()
}

// pickVertex runs the picker and returns the chosen vertex name, or "" when
// the user quit without choosing.
func pickVertex(g *graph.Graph) (string, error) {
	final, err := tea.NewProgram(NewVertexListModel(g)).Run()
	if err != nil {
		return "", err
	}
	fm, ok := final.(VertexListModel)
	if !ok {
		return "", nil
	}
	return fm.Selected, nil
}
