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
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("CLIENT"))
	s.WriteString("\n\n")

	c, ok := m.store.Client(m.selectedID)
	if !ok {
		s.WriteString(fmt.Sprintf("Error: client %s not found\n", m.selectedID))
	} else {
		s.WriteString(m.renderClientDetail(c))
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatus())

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderClientDetail(c models.Client) string {
	now := m.now()
	var s strings.Builder

	s.WriteString(m.renderField("Company", c.CompanyName))
	s.WriteString(m.renderField("Tax ID", c.TaxID))
	s.WriteString(m.renderField("Email", c.Email))
	s.WriteString(m.renderField("Phone", c.Phone))
	s.WriteString(m.renderField("Address", fmt.Sprintf("%s, %s %s", c.Street, c.PostalCode, c.City)))
	s.WriteString(m.renderField("Status", string(c.ClientStatus)))
	s.WriteString(m.renderField("Stage", string(c.OpportunityStatus)))
	s.WriteString(m.renderField("Potential value", m.format.Money(c.PotentialValue)))
	s.WriteString(m.renderField("Segment", string(c.Segment)))

	if c.LastContactAt != nil {
		s.WriteString(m.renderField("Last contact", viz.DateLabel(*c.LastContactAt, now)))
	}
	if c.NextActionAt != nil {
		s.WriteString(m.renderField("Next action", viz.DateLabel(*c.NextActionAt, now)))
	}
	if c.Geo != nil {
		s.WriteString(m.renderField("Directions", viz.DirectionsURL(c)))
	}
	s.WriteString(m.renderField("Notes", c.Notes))

	// Activities
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("ACTIVITIES"))
	s.WriteString("\n")

	activities := m.store.ActivitiesForClient(c.ID)
	if len(activities) == 0 {
		s.WriteString("  none yet\n")
	}
	for i, a := range activities {
		line := fmt.Sprintf("%s  %-8s %s (%s", viz.DateLabel(a.ScheduledAt, now), a.Type, a.Title, a.Status)
		if a.Result != models.ResultNone {
			line += ", " + string(a.Result)
		}
		line += ")"
		if i == m.activityRow {
			s.WriteString(cardSelectedStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"e: Edit",
		"d: Delete",
		"a: Add activity",
		"↑/↓: Activity",
		"u: Edit activity",
		"x: Delete activity",
		"g: View graph",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) selectedActivity() (models.Activity, bool) {
	activities := m.store.ActivitiesForClient(m.selectedID)
	if m.activityRow < 0 || m.activityRow >= len(activities) {
		return models.Activity{}, false
	}
	return activities[m.activityRow], true
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.store.Client(m.selectedID); !ok && msg.String() != "esc" {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "up", "k":
		if m.activityRow > 0 {
			m.activityRow--
		}
	case "down", "j":
		if m.activityRow < len(m.store.ActivitiesForClient(m.selectedID))-1 {
			m.activityRow++
		}
	case "e":
		m.message, m.err = "", nil
		m.initClientForm(m.selectedID)
		m.viewMode = ViewEdit
	case "a":
		m.message, m.err = "", nil
		m.initActivityForm("")
		m.viewMode = ViewEdit
	case "u":
		if a, ok := m.selectedActivity(); ok {
			m.message, m.err = "", nil
			m.initActivityForm(a.ID)
			m.viewMode = ViewEdit
		}
	case "d":
		m.deleteActivity = false
		m.viewMode = ViewConfirmDelete
	case "x":
		if _, ok := m.selectedActivity(); ok {
			m.deleteActivity = true
			m.viewMode = ViewConfirmDelete
		}
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	}

	return m, nil
}
