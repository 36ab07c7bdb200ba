package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/salescrm/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	title := "ACTIVITY GRAPH"
	if c, ok := m.store.Client(m.selectedID); ok {
		title += " • " + c.CompanyName
	}
	s.WriteString(titleStyle.Render(title))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("No graph\n")
	} else {
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	return helpStyle.Render("Esc: Back to client • q: Quit")
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.graphDOT = ""
	}

	return m, nil
}

// generateGraph renders the selected client's activity graph.
func (m *Model) generateGraph() error {
	dot, err := viz.NewGraphGenerator(m.store).GenerateClientGraph(context.Background(), m.selectedID)
	if err != nil {
		return err
	}

	m.graphDOT = dot
	return nil
}
