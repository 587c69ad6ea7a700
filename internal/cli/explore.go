package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().PaddingLeft(2)
)

func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [dir]",
		Short: "Browse the dependency graph interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(ctx, pipeline.Options{Dir: workspaceDir(args)})
			if err != nil {
				return err
			}
			p := tea.NewProgram(newExploreModel(res), tea.WithContext(ctx), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// exploreModel lists targets in build order. The side pane shows the
// selected target's direct dependencies, or its dependents after tab.
type exploreModel struct {
	root       string
	doc        graph.Document
	nodes      map[graph.NodeID]graph.DocumentNode
	dependents map[graph.NodeID][]graph.NodeID

	cursor         int
	offset         int
	height         int
	showDependents bool
}

func newExploreModel(res *pipeline.Result) exploreModel {
	m := exploreModel{
		root:       res.Root,
		doc:        res.Document,
		nodes:      make(map[graph.NodeID]graph.DocumentNode, len(res.Document.Nodes)),
		dependents: make(map[graph.NodeID][]graph.NodeID),
		height:     15,
	}
	for _, n := range res.Document.Nodes {
		m.nodes[n.ID] = n
	}
	for _, e := range res.Document.Edges {
		m.dependents[e.To] = append(m.dependents[e.To], e.From)
	}
	return m
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.doc.Order)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "tab":
			m.showDependents = !m.showDependents
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m exploreModel) selected() (graph.NodeID, bool) {
	if len(m.doc.Order) == 0 {
		return graph.NodeID{}, false
	}
	return m.doc.Order[m.cursor], true
}

// related returns the ids shown in the side pane.
func (m exploreModel) related() (string, []graph.NodeID) {
	id, ok := m.selected()
	if !ok {
		return "", nil
	}
	if m.showDependents {
		return "Dependents", m.dependentsOf(id)
	}
	return "Dependencies", m.doc.Dependencies(id)
}

func (m exploreModel) dependentsOf(id graph.NodeID) []graph.NodeID {
	return m.dependents[id]
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Targets in build order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab dependencies/dependents  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.doc.Order))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		id := m.doc.Order[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, displayID(m.root, id), string(m.nodes[id].Product)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Target", "Product").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	title, ids := m.related()
	var pane strings.Builder
	pane.WriteString(StyleHighlight.Render(title))
	pane.WriteString("\n")
	if len(ids) == 0 {
		pane.WriteString(listDimStyle.Render("none"))
	}
	for _, id := range ids {
		pane.WriteString(displayID(m.root, id))
		pane.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Render(), paneStyle.Render(pane.String())))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.doc.Order))))
	return b.String()
}
