// ABOUTME: TUI kanban board for the sales pipeline
// ABOUTME: One column per stage; cards can be moved between stages
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/viz"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(22)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("170"))

	cardSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))
)

func (m Model) renderPipeline() string {
	cols := viz.Kanban(m.store.Snapshot())

	var rendered []string
	for i, col := range cols {
		var s strings.Builder
		s.WriteString(lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(string(col.Stage))))
		s.WriteString(fmt.Sprintf("\n%d • %s\n\n", len(col.Clients), m.format.Compact(col.Value)))

		for j, c := range col.Clients {
			card := fmt.Sprintf("[%s] %s", c.Segment, c.CompanyName)
			if i == m.stageCol && j == m.stageRow {
				card = cardSelectedStyle.Render("> " + card)
			} else {
				card = "  " + card
			}
			s.WriteString(card + "\n")
		}

		style := columnStyle
		if i == m.stageCol {
			style = activeColumnStyle
		}
		rendered = append(rendered, style.Render(s.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// selectedCard returns the client under the pipeline cursor.
func (m Model) selectedCard() (models.Client, bool) {
	cols := viz.Kanban(m.store.Snapshot())
	if m.stageCol < 0 || m.stageCol >= len(cols) {
		return models.Client{}, false
	}
	clients := cols[m.stageCol].Clients
	if m.stageRow < 0 || m.stageRow >= len(clients) {
		return models.Client{}, false
	}
	return clients[m.stageRow], true
}

func (m Model) handlePipelineKeys(key string) (tea.Model, tea.Cmd) {
	cols := viz.Kanban(m.store.Snapshot())

	switch key {
	case "left":
		if m.stageCol > 0 {
			m.stageCol--
			m.stageRow = 0
		}
	case "right":
		if m.stageCol < len(cols)-1 {
			m.stageCol++
			m.stageRow = 0
		}
	case "up", "k":
		if m.stageRow > 0 {
			m.stageRow--
		}
	case "down", "j":
		if m.stageRow < len(cols[m.stageCol].Clients)-1 {
			m.stageRow++
		}
	case "h", "l":
		m.moveCard(key == "l")
	case "enter":
		if c, ok := m.selectedCard(); ok {
			m.openDetail(c.ID)
		}
	}
	return m, nil
}

// moveCard shifts the selected client one stage back or forward and keeps
// the cursor on it.
func (m *Model) moveCard(forward bool) {
	c, ok := m.selectedCard()
	if !ok {
		return
	}

	target := m.stageCol - 1
	if forward {
		target = m.stageCol + 1
	}
	if target < 0 || target >= len(models.Stages) {
		return
	}

	stage := models.Stages[target]
	if err := m.store.MoveOpportunityStage(c.ID, stage); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.message = fmt.Sprintf("%s moved to %s", c.CompanyName, stage)

	m.stageCol = target
	m.stageRow = 0
	for i, other := range viz.Kanban(m.store.Snapshot())[target].Clients {
		if other.ID == c.ID {
			m.stageRow = i
			break
		}
	}
}
