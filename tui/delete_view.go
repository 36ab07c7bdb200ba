// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms removal of a client (with its activities) or of a single activity
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	var entityType, entityName, warning string

	if m.deleteActivity {
		a, ok := m.selectedActivity()
		if !ok {
			return "Error: no activity selected"
		}
		entityType = "activity"
		entityName = a.Title
		warning = "\nThe client's last contact date is kept."
	} else {
		c, ok := m.store.Client(m.selectedID)
		if !ok {
			return fmt.Sprintf("Error loading client %s", m.selectedID)
		}
		entityType = "client"
		entityName = c.CompanyName
		n := len(m.store.ActivitiesForClient(c.ID))
		warning = fmt.Sprintf("\nIts %d activities are deleted too.", n)
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), entityName)

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.performDelete(); err != nil {
			m.err = err
			m.message = ""
		} else {
			m.err = nil
		}
		if m.deleteActivity {
			m.viewMode = ViewDetail
			if m.activityRow > 0 {
				m.activityRow--
			}
		} else {
			m.viewMode = ViewList
			m.selectedID = ""
			m.selectedRow = 0
			m.stageRow = 0
		}
		m.deleteActivity = false
	case "n", "N", "esc":
		m.deleteActivity = false
		m.viewMode = ViewDetail
	}

	return m, nil
}

func (m *Model) performDelete() error {
	if m.deleteActivity {
		a, ok := m.selectedActivity()
		if !ok {
			return fmt.Errorf("no activity selected")
		}
		if err := m.store.DeleteActivity(a.ID); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		m.message = fmt.Sprintf("✓ Deleted %s", a.Title)
		return nil
	}

	c, _ := m.store.Client(m.selectedID)
	if err := m.store.DeleteClient(m.selectedID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	m.message = fmt.Sprintf("✓ Deleted client %s", c.CompanyName)
	return nil
}
