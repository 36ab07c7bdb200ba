package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/seed"
	"github.com/harperreed/salescrm/store"
)

var testNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()

	ds, err := seed.Embedded{}.Load(context.Background())
	require.NoError(t, err)

	s := store.New(ds, store.WithClock(store.ClockFunc(func() time.Time { return testNow })))
	return NewModel(s, Options{Now: func() time.Time { return testNow }}), s
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}

		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModelStartsOnDashboard(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, TabDashboard, m.tab)
	assert.Contains(t, m.View(), "SALES CRM DASHBOARD")
}

func TestTabsCycle(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "tab")
	assert.Equal(t, TabClients, m.tab)
	assert.Contains(t, m.View(), "Mleczarnia Podlaska")

	m = press(t, m, "tab", "tab")
	assert.Equal(t, TabCalendar, m.tab)
	assert.Contains(t, m.View(), "October 2026")

	m = press(t, m, "right")
	assert.Contains(t, m.View(), "November 2026")

	m = press(t, m, "tab")
	assert.Equal(t, TabReports, m.tab)
	assert.Contains(t, m.View(), "Sales report")

	m = press(t, m, "tab")
	assert.Equal(t, TabDashboard, m.tab)

	m = press(t, m, "shift+tab")
	assert.Equal(t, TabReports, m.tab)
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestSearchFiltersClients(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "tab", "/", "p", "o", "z", "n", "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "pozn", m.searchQuery)

	clients := m.filteredClients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Gospodarstwo Rolne Kowalski", clients[0].CompanyName)

	// q is typed into the search box rather than quitting
	m = press(t, m, "/", "q")
	assert.True(t, m.searching)
	assert.Equal(t, "poznq", m.searchQuery)

	m = press(t, m, "esc")
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.filteredClients(), 8)
}

func TestCreateClientThroughForm(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "tab", "n")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "PL", m.value("country"))

	// Submitting the empty form keeps the user on it with field errors
	m = press(t, m, "enter")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Contains(t, m.View(), "required")

	m = press(t, m, "N", "o", "w", "a")
	m.setValue("tax_id", "5213456789")
	m.setValue("email", "biuro@nowa.pl")
	m.setValue("street", "ul. Polna 1")
	m.setValue("postal_code", "00-001")
	m.setValue("city", "Warszawa")
	m.setValue("potential_value", "250 000")

	m = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.message, "Created client Nowa")

	c, ok := s.Client(m.selectedID)
	require.True(t, ok)
	assert.Equal(t, "Nowa", c.CompanyName)
	assert.Equal(t, models.SegmentA, c.Segment)
	assert.Len(t, s.Clients(), 9)
}

func TestEditClientRecomputesSegment(t *testing.T) {
	m, s := newTestModel(t)
	m.openDetail("c_003")

	m = press(t, m, "e")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "c_003", m.editingID)
	assert.Equal(t, "Zielone Pola S.A.", m.value("company_name"))

	m.setValue("potential_value", "120000")
	m = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)
	require.NoError(t, m.err)

	c, _ := s.Client("c_003")
	assert.Equal(t, models.SegmentB, c.Segment)
}

func TestAddWonActivityFromDetail(t *testing.T) {
	m, s := newTestModel(t)
	m.openDetail("c_003")

	m = press(t, m, "a")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "Phone call with client", m.value("title"))

	// Changing the type swaps the default title when leaving the field
	m.setValue("type", "meeting")
	m = press(t, m, "tab")
	assert.Equal(t, "Sales meeting", m.value("title"))

	m.setValue("status", "completed")
	m.setValue("result", "won")
	m = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)

	c, _ := s.Client("c_003")
	assert.Equal(t, models.StageWon, c.OpportunityStatus)
	assert.Equal(t, models.ClientActive, c.ClientStatus)
	require.NotNil(t, c.LastContactAt)
	assert.True(t, c.LastContactAt.Equal(testNow))
	assert.Len(t, s.ActivitiesForClient("c_003"), 1)
}

func TestEditActivityKeepsClient(t *testing.T) {
	m, s := newTestModel(t)
	m.openDetail("c_001")

	m = press(t, m, "down", "u")
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "a_002", m.editingID)
	assert.Equal(t, "offer", m.value("type"))

	m.setValue("title", "Revised offer")
	m = press(t, m, "enter")
	require.NoError(t, m.err)

	a, ok := s.Activity("a_002")
	require.True(t, ok)
	assert.Equal(t, "Revised offer", a.Title)
	assert.Equal(t, "c_001", a.ClientID)
}

func TestPipelineMovesCard(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "tab", "tab")
	require.Equal(t, TabPipeline, m.tab)

	card, ok := m.selectedCard()
	require.True(t, ok)
	assert.Equal(t, "c_003", card.ID)

	m = press(t, m, "l")
	c, _ := s.Client("c_003")
	assert.Equal(t, models.StageQualification, c.OpportunityStatus)
	assert.Equal(t, 1, m.stageCol)
	moved, ok := m.selectedCard()
	require.True(t, ok)
	assert.Equal(t, "c_003", moved.ID)

	m = press(t, m, "h")
	c, _ = s.Client("c_003")
	assert.Equal(t, models.StageNew, c.OpportunityStatus)

	// Already in the first column
	m = press(t, m, "h")
	c, _ = s.Client("c_003")
	assert.Equal(t, models.StageNew, c.OpportunityStatus)

	m = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Equal(t, "c_003", m.selectedID)
}

func TestDeleteClientCascades(t *testing.T) {
	m, s := newTestModel(t)
	m.openDetail("c_001")

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "AgroPol")

	m = press(t, m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)

	m = press(t, m, "d", "y")
	assert.Equal(t, ViewList, m.viewMode)
	_, ok := s.Client("c_001")
	assert.False(t, ok)
	assert.Empty(t, s.ActivitiesForClient("c_001"))
}

func TestDeleteActivityKeepsLastContact(t *testing.T) {
	m, s := newTestModel(t)
	m.openDetail("c_001")
	before, _ := s.Client("c_001")

	m = press(t, m, "down", "down", "x")
	require.Equal(t, ViewConfirmDelete, m.viewMode)

	m = press(t, m, "y")
	assert.Equal(t, ViewDetail, m.viewMode)
	_, ok := s.Activity("a_003")
	assert.False(t, ok)

	after, _ := s.Client("c_001")
	assert.Equal(t, before.LastContactAt, after.LastContactAt)
}

func TestGraphView(t *testing.T) {
	m, _ := newTestModel(t)
	m.openDetail("c_001")

	m = press(t, m, "g")
	require.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.graphDOT, "activity_a_001")

	m = press(t, m, "esc")
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Empty(t, m.graphDOT)
}
