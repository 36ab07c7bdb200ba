package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/store"
	"github.com/harperreed/salescrm/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("SALES CRM"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.tab {
	case TabDashboard:
		stats := viz.GenerateDashboardStats(m.store.Snapshot(), m.now(), m.upcomingLimit)
		s.WriteString(viz.RenderDashboard(stats, m.format, m.now()))
	case TabClients:
		if m.searching || m.searchQuery != "" {
			s.WriteString(m.searchInput.View())
			s.WriteString("\n\n")
		}
		s.WriteString(m.renderClientsTable())
	case TabPipeline:
		s.WriteString(m.renderPipeline())
	case TabCalendar:
		days := viz.CalendarMonth(m.store.Snapshot(), m.month, m.now().Location())
		s.WriteString(viz.RenderCalendar(m.month, days, m.now()))
	case TabReports:
		s.WriteString(m.renderReport())
	}
	s.WriteString("\n")

	s.WriteString(m.renderStatus())

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case m.message != "":
		return messageStyle.Render(m.message) + "\n"
	}
	return ""
}

func (m Model) filteredClients() []models.Client {
	return m.store.FindClients(store.ClientFilter{Query: m.searchQuery})
}

func (m Model) renderClientsTable() string {
	clients := m.filteredClients()
	if len(clients) == 0 {
		return "No clients found\n"
	}

	columns := []table.Column{
		{Title: "Company", Width: 30},
		{Title: "City", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Stage", Width: 14},
		{Title: "Seg", Width: 4},
		{Title: "Value", Width: 16},
	}

	var rows []table.Row
	for _, c := range clients {
		rows = append(rows, table.Row{
			c.CompanyName,
			c.City,
			string(c.ClientStatus),
			string(c.OpportunityStatus),
			string(c.Segment),
			m.format.Money(c.PotentialValue),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 5)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderReport() string {
	md := viz.RenderReportMarkdown(viz.GenerateReport(m.store.Snapshot(), m.now()), m.format)
	out, err := viz.RenderMarkdown(md, max(m.width-4, 40), false)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func (m Model) renderListHelp() string {
	help := []string{"Tab: Switch tabs"}
	switch m.tab {
	case TabClients:
		help = append(help, "↑/↓: Navigate", "Enter: View details", "/: Search", "n: New")
	case TabPipeline:
		help = append(help, "←/→: Stage", "↑/↓: Client", "h/l: Move stage", "Enter: View details")
	case TabCalendar:
		help = append(help, "←/→: Month")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.selectedRow = 0
		return m, nil
	}

	switch m.tab {
	case TabClients:
		return m.handleClientsKeys(key)
	case TabPipeline:
		return m.handlePipelineKeys(key)
	case TabCalendar:
		switch key {
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
		}
	}
	return m, nil
}

func (m Model) handleClientsKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.filteredClients())-1 {
			m.selectedRow++
		}
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.openDetail(id)
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
	case "n":
		m.message, m.err = "", nil
		m.initClientForm("")
		m.viewMode = ViewEdit
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchQuery = ""
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.selectedRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.selectedRow = 0
	return m, cmd
}

func (m Model) getSelectedID() string {
	clients := m.filteredClients()
	if m.selectedRow < len(clients) {
		return clients[m.selectedRow].ID
	}
	return ""
}

func (m *Model) openDetail(id string) {
	m.selectedID = id
	m.activityRow = 0
	m.message, m.err = "", nil
	m.viewMode = ViewDetail
}

// monthStart truncates t to the first day of its month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
