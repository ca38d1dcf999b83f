package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/lineage/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listRelatedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// dragStep is the distance in pixels a node moves per drag keypress.
const dragStep = 20.0

// viewCommand creates the view command for interactive graph browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var opts layout.Options

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Browse a lineage graph interactively in the terminal",
		Long: `Browse a lineage graph interactively in the terminal.

Nodes are listed by depth with their computed positions. Selecting an edge
highlights every edge sharing one of its column endpoints. Nodes can be
dragged with shift+arrows; dragged nodes stay pinned across relayouts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := lineage.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			if g.NodeCount() == 0 {
				printInfo("Graph is empty")
				return nil
			}

			m := NewGraphViewModel(g, opts)
			p := tea.NewProgram(m)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&opts.ViewportWidth, "width", 0, "viewport width in pixels")
	cmd.Flags().Float64Var(&opts.ViewportHeight, "height", 0, "viewport height in pixels")

	return cmd
}

// GraphViewModel is the bubbletea model for interactive graph browsing.
type GraphViewModel struct {
	Layout    *layout.Layout
	Selection *layout.Selection

	nodes      []*layout.Node
	edges      []lineage.Edge
	opts       layout.Options
	cursor     int
	edgeCursor int
	height     int
	offset     int
}

// NewGraphViewModel computes the initial layout and builds the model.
func NewGraphViewModel(g *lineage.Graph, opts layout.Options) GraphViewModel {
	l := layout.Compute(g, opts)

	nodes := make([]*layout.Node, len(l.Nodes()))
	copy(nodes, l.Nodes())
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].DisplayName() < nodes[j].DisplayName()
	})

	return GraphViewModel{
		Layout:    l,
		Selection: &layout.Selection{},
		nodes:     nodes,
		edges:     g.ResolvedEdges(),
		opts:      opts,
		height:    15,
	}
}

func (m GraphViewModel) Init() tea.Cmd {
	return nil
}

func (m GraphViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if _, active := m.Selection.Active(); active {
				m.Selection.Clear()
				m.edgeCursor = 0
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.edgeCursor = 0
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.edgeCursor = 0
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			incident := m.incidentEdges()
			if len(incident) > 0 {
				m.Selection.Select(incident[m.edgeCursor%len(incident)])
				m.edgeCursor++
			}
		case "c":
			m.Selection.Clear()
			m.edgeCursor = 0
		case "shift+up":
			m.drag(0, -dragStep)
		case "shift+down":
			m.drag(0, dragStep)
		case "shift+left":
			m.drag(-dragStep, 0)
		case "shift+right":
			m.drag(dragStep, 0)
		case "r":
			m.Layout.Relayout(m.opts)
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// drag moves the node under the cursor and pins it.
func (m *GraphViewModel) drag(dx, dy float64) {
	if m.cursor < len(m.nodes) {
		m.Layout.ApplyDrag(m.nodes[m.cursor].ID, dx, dy)
	}
}

// incidentEdges returns the resolved edges touching the node under the cursor.
func (m GraphViewModel) incidentEdges() []lineage.Edge {
	if m.cursor >= len(m.nodes) {
		return nil
	}
	id := m.nodes[m.cursor].ID
	var out []lineage.Edge
	for _, e := range m.edges {
		if e.SourceNodeID == id || e.TargetNodeID == id {
			out = append(out, e)
		}
	}
	return out
}

func (m GraphViewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Lineage Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select edge  shift+arrows drag  r relayout  c clear  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		pinned := ""
		if n.Pinned {
			pinned = "pin"
		}

		pos := fmt.Sprintf("%.0f,%.0f", n.X, n.Y)
		rows = append(rows, []string{cursor, n.DisplayName(), string(n.Kind), fmt.Sprintf("%d", n.Depth), pos, pinned})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Kind", "Depth", "Position", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.edgeSection())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  canvas %.0f×%.0f", m.cursor+1, len(m.nodes), m.Layout.Width, m.Layout.Height)))

	return b.String()
}

// edgeSection renders the edges incident to the cursor node, styled by
// how they relate to the active selection.
func (m GraphViewModel) edgeSection() string {
	incident := m.incidentEdges()
	if len(incident) == 0 {
		return listDimStyle.Render("  no edges")
	}

	selected, active := m.Selection.Active()

	var b strings.Builder
	for _, e := range incident {
		line := fmt.Sprintf("  %s.%s %s %s.%s", e.SourceNodeID, e.SourceColumn, iconArrow, e.TargetNodeID, e.TargetColumn)
		switch {
		case active && e == selected:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Selection.ClassifyEdge(e) == layout.EmphasisRelated:
			b.WriteString(listRelatedStyle.Render(line))
		case m.Selection.ClassifyEdge(e) == layout.EmphasisUnrelated:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
