package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/salescrm/models"
	"github.com/harperreed/salescrm/validate"
)

// formField describes one text input. The key matches validate's field error keys.
type formField struct {
	key   string
	label string
	limit int
}

var clientFields = []formField{
	{"company_name", "Company name", 100},
	{"tax_id", "Tax ID (10 digits)", 10},
	{"email", "Email", 100},
	{"phone", "Phone", 30},
	{"street", "Street", 100},
	{"postal_code", "Postal code", 10},
	{"city", "City", 60},
	{"region", "Region", 60},
	{"country", "Country", 2},
	{"client_status", "Status (prospect/active/lost)", 10},
	{"opportunity_status", "Stage (new/qualification/offer/negotiation/won/lost)", 15},
	{"potential_value", "Potential value", 20},
	{"notes", "Notes", 500},
}

var activityFields = []formField{
	{"type", "Type (call/meeting/email/visit/offer)", 10},
	{"title", "Title", 100},
	{"description", "Description", 500},
	{"scheduled_at", "When (" + validate.DateTimeLayout + ")", 16},
	{"status", "Status (planned/completed)", 10},
	{"result", "Result (none/won/lost)", 5},
	{"win_probability", "Win probability % (offers)", 3},
	{"offer_value", "Offer value (offers)", 20},
}

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	title := "CLIENT"
	if m.form == formActivity {
		title = "ACTIVITY"
	}
	if m.editingID == "" {
		s.WriteString(titleStyle.Render("NEW " + title))
	} else {
		s.WriteString(titleStyle.Render("EDIT " + title))
	}
	s.WriteString("\n\n")

	var fieldErrs validate.FieldErrors
	_ = errors.As(m.err, &fieldErrs)

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(fieldLabelStyle.Render(m.formFields[i].label))
		s.WriteString("\n    ")
		s.WriteString(input.View())
		if msg, ok := fieldErrs[m.formFields[i].key]; ok {
			s.WriteString("  " + errorStyle.Render(msg))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.err != nil && fieldErrs == nil {
		s.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Shift+Tab: Previous field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		m.leaveEdit()
		return m, nil
	case "tab", "down":
		m.syncActivityTitle()
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.syncActivityTitle()
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		if err := m.saveForm(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.leaveEdit()
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// leaveEdit returns to the client detail when there is one to show.
func (m *Model) leaveEdit() {
	if _, ok := m.store.Client(m.selectedID); ok {
		m.viewMode = ViewDetail
		return
	}
	m.viewMode = ViewList
}

func (m *Model) initInputs(fields []formField, values []string) {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = f.label
		inputs[i].CharLimit = f.limit
		inputs[i].SetValue(values[i])
	}

	m.formFields = fields
	m.formInputs = inputs
	m.focusIndex = 0
	m.updateFormFocus()
}

// initClientForm prepares the client form, prefilled when id names an existing client.
func (m *Model) initClientForm(id string) {
	form := validate.NewClientForm()
	m.editingID = ""
	if c, ok := m.store.Client(id); ok {
		form = validate.ClientFormFrom(c)
		m.editingID = id
	}

	m.form = formClient
	m.initInputs(clientFields, []string{
		form.CompanyName, form.TaxID, form.Email, form.Phone, form.Street,
		form.PostalCode, form.City, form.Region, form.Country, form.ClientStatus,
		form.OpportunityStatus, form.PotentialValue, form.Notes,
	})
}

// initActivityForm prepares the activity form for the selected client,
// prefilled when id names an existing activity.
func (m *Model) initActivityForm(id string) {
	loc := m.now().Location()
	form := validate.NewActivityForm(m.selectedID, m.now())
	m.editingID = ""
	if a, ok := m.store.Activity(id); ok {
		form = validate.ActivityFormFrom(a, loc)
		m.editingID = id
	}

	m.form = formActivity
	m.initInputs(activityFields, []string{
		form.Type, form.Title, form.Description, form.ScheduledAt, form.Status,
		form.Result, form.WinProbability, form.OfferValue,
	})
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) value(key string) string {
	for i, f := range m.formFields {
		if f.key == key {
			return m.formInputs[i].Value()
		}
	}
	return ""
}

func (m *Model) setValue(key, v string) {
	for i, f := range m.formFields {
		if f.key == key {
			m.formInputs[i].SetValue(v)
		}
	}
}

// syncActivityTitle swaps a default title for the default of the newly typed
// activity type. Custom titles are kept.
func (m *Model) syncActivityTitle() {
	if m.form != formActivity {
		return
	}
	typ := models.ActivityType(m.value("type"))
	if _, ok := models.DefaultActivityTitles[typ]; !ok {
		return
	}
	title := m.value("title")
	isDefault := title == ""
	for _, def := range models.DefaultActivityTitles {
		if title == def {
			isDefault = true
		}
	}
	if isDefault {
		m.setValue("title", models.DefaultActivityTitles[typ])
	}
}

func (m Model) clientForm() validate.ClientForm {
	return validate.ClientForm{
		CompanyName:       m.value("company_name"),
		TaxID:             m.value("tax_id"),
		Email:             m.value("email"),
		Phone:             m.value("phone"),
		Street:            m.value("street"),
		PostalCode:        m.value("postal_code"),
		City:              m.value("city"),
		Region:            m.value("region"),
		Country:           m.value("country"),
		ClientStatus:      m.value("client_status"),
		OpportunityStatus: m.value("opportunity_status"),
		PotentialValue:    m.value("potential_value"),
		Notes:             m.value("notes"),
	}
}

func (m Model) activityForm() validate.ActivityForm {
	clientID := m.selectedID
	if a, ok := m.store.Activity(m.editingID); ok {
		clientID = a.ClientID
	}
	return validate.ActivityForm{
		ClientID:       clientID,
		Type:           m.value("type"),
		Title:          m.value("title"),
		Description:    m.value("description"),
		ScheduledAt:    m.value("scheduled_at"),
		Status:         m.value("status"),
		Result:         m.value("result"),
		WinProbability: m.value("win_probability"),
		OfferValue:     m.value("offer_value"),
	}
}

func (m *Model) saveForm() error {
	loc := m.now().Location()

	switch m.form {
	case formClient:
		if m.editingID == "" {
			in, err := m.clientForm().Client()
			if err != nil {
				return err
			}
			c := m.store.CreateClient(in)
			m.selectedID = c.ID
			m.activityRow = 0
			m.message = fmt.Sprintf("✓ Created client %s", c.CompanyName)
			return nil
		}
		patch, err := m.clientForm().Patch()
		if err != nil {
			return err
		}
		c, err := m.store.UpdateClient(m.editingID, patch)
		if err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
		m.message = fmt.Sprintf("✓ Updated client %s", c.CompanyName)

	case formActivity:
		if m.editingID == "" {
			in, err := m.activityForm().Activity(loc)
			if err != nil {
				return err
			}
			a := m.store.CreateActivity(in)
			m.message = fmt.Sprintf("✓ Added %s", a.Title)
			return nil
		}
		patch, err := m.activityForm().Patch(loc)
		if err != nil {
			return err
		}
		a, err := m.store.UpdateActivity(m.editingID, patch)
		if err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		m.message = fmt.Sprintf("✓ Updated %s", a.Title)
	}
	return nil
}
