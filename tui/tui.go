// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive full-screen session over the in-memory sales store
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/salescrm/store"
	"github.com/harperreed/salescrm/viz"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab is one of the top-level screens reachable from the list view.
type Tab int

const (
	TabDashboard Tab = iota
	TabClients
	TabPipeline
	TabCalendar
	TabReports
)

var tabNames = []string{"Dashboard", "Clients", "Pipeline", "Calendar", "Reports"}

type formKind int

const (
	formClient formKind = iota
	formActivity
)

// Options tunes how the model formats and dates things.
type Options struct {
	Format        *viz.Formatter
	Now           func() time.Time
	UpcomingLimit int
}

// Model is the main bubbletea model
type Model struct {
	store         *store.Store
	format        *viz.Formatter
	now           func() time.Time
	upcomingLimit int

	viewMode ViewMode
	tab      Tab

	// Clients tab
	selectedRow int
	searchQuery string
	searching   bool
	searchInput textinput.Model

	// Pipeline tab
	stageCol int
	stageRow int

	// Calendar tab
	month time.Time

	// Detail view
	selectedID  string
	activityRow int

	// Edit view
	form       formKind
	editingID  string
	formFields []formField
	formInputs []textinput.Model
	focusIndex int

	graphDOT string

	// Delete confirmation targets the highlighted activity instead of the client
	deleteActivity bool

	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model
func NewModel(s *store.Store, opts Options) Model {
	if opts.Format == nil {
		opts.Format = viz.NewFormatter(viz.DefaultLocale, viz.DefaultCurrency)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = viz.DefaultUpcomingLimit
	}

	search := textinput.New()
	search.Placeholder = "Search clients"
	search.CharLimit = 100

	now := opts.Now()
	return Model{
		store:         s,
		format:        opts.Format,
		now:           opts.Now,
		upcomingLimit: opts.UpcomingLimit,
		viewMode:      ViewList,
		tab:           TabDashboard,
		searchInput:   search,
		month:         monthStart(now),
		width:         100,
		height:        30,
	}
}

// Run starts the interactive session and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Text entry swallows every other key, including q
	if m.viewMode == ViewEdit {
		return m.handleEditKeys(msg)
	}
	if m.viewMode == ViewList && m.searching {
		return m.handleSearchKeys(msg)
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
