// ABOUTME: Form validation for client and activity input
// ABOUTME: Turns raw form values into store inputs, collecting per-field errors
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/harperreed/salescrm/models"
)

// FieldErrors maps a form field name to its problem.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var taxIDPattern = regexp.MustCompile(`^\d{10}$`)

// ClientForm holds client input as typed by a user.
type ClientForm struct {
	CompanyName       string
	TaxID             string
	Email             string
	Phone             string
	Street            string
	PostalCode        string
	City              string
	Region            string
	Country           string
	ClientStatus      string
	OpportunityStatus string
	PotentialValue    string
	Notes             string
}

// NewClientForm returns an empty form with the defaults a new client starts with.
func NewClientForm() ClientForm {
	return ClientForm{
		Country:           "PL",
		ClientStatus:      string(models.ClientProspect),
		OpportunityStatus: string(models.StageNew),
		PotentialValue:    "0",
	}
}

// ClientFormFrom prefills a form for editing an existing client.
func ClientFormFrom(c models.Client) ClientForm {
	return ClientForm{
		CompanyName:       c.CompanyName,
		TaxID:             c.TaxID,
		Email:             c.Email,
		Phone:             c.Phone,
		Street:            c.Street,
		PostalCode:        c.PostalCode,
		City:              c.City,
		Region:            c.Region,
		Country:           c.Country,
		ClientStatus:      string(c.ClientStatus),
		OpportunityStatus: string(c.OpportunityStatus),
		PotentialValue:    c.PotentialValue.String(),
		Notes:             c.Notes,
	}
}

// Client validates the form and returns a store input for a new client.
// Location, last contact and next action start empty.
func (f ClientForm) Client() (models.NewClient, error) {
	errs := FieldErrors{}

	required := map[string]string{
		"company_name": f.CompanyName,
		"street":       f.Street,
		"postal_code":  f.PostalCode,
		"city":         f.City,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs[field] = "required"
		}
	}

	if !taxIDPattern.MatchString(f.TaxID) {
		errs["tax_id"] = "must be exactly 10 digits"
	}
	if !govalidator.IsEmail(strings.TrimSpace(f.Email)) {
		errs["email"] = "invalid email address"
	}

	status := models.ClientStatus(f.ClientStatus)
	if !validClientStatus(status) {
		errs["client_status"] = fmt.Sprintf("unknown status %q", f.ClientStatus)
	}
	stage := models.Stage(f.OpportunityStatus)
	if !stage.Valid() {
		errs["opportunity_status"] = fmt.Sprintf("unknown stage %q", f.OpportunityStatus)
	}

	value, err := ParseMoney(f.PotentialValue)
	switch {
	case err != nil:
		errs["potential_value"] = "not a number"
	case value.IsNegative():
		errs["potential_value"] = "must be zero or more"
	}

	if len(errs) > 0 {
		return models.NewClient{}, errs
	}

	return models.NewClient{
		CompanyName:       strings.TrimSpace(f.CompanyName),
		TaxID:             f.TaxID,
		Email:             strings.TrimSpace(f.Email),
		Phone:             strings.TrimSpace(f.Phone),
		Street:            strings.TrimSpace(f.Street),
		PostalCode:        strings.TrimSpace(f.PostalCode),
		City:              strings.TrimSpace(f.City),
		Region:            strings.TrimSpace(f.Region),
		Country:           strings.TrimSpace(f.Country),
		ClientStatus:      status,
		OpportunityStatus: stage,
		PotentialValue:    value,
		Notes:             f.Notes,
	}, nil
}

// Patch validates the form and returns an update that overwrites every form
// field. Location and contact dates are not on the form and stay as they are.
func (f ClientForm) Patch() (models.ClientPatch, error) {
	c, err := f.Client()
	if err != nil {
		return models.ClientPatch{}, err
	}
	return models.ClientPatch{
		CompanyName:       &c.CompanyName,
		TaxID:             &c.TaxID,
		Email:             &c.Email,
		Phone:             &c.Phone,
		Street:            &c.Street,
		PostalCode:        &c.PostalCode,
		City:              &c.City,
		Region:            &c.Region,
		Country:           &c.Country,
		ClientStatus:      &c.ClientStatus,
		OpportunityStatus: &c.OpportunityStatus,
		PotentialValue:    &c.PotentialValue,
		Notes:             &c.Notes,
	}, nil
}

// ActivityForm holds activity input as typed by a user.
type ActivityForm struct {
	ClientID       string
	Type           string
	Title          string
	Description    string
	ScheduledAt    string
	Status         string
	Result         string
	WinProbability string
	OfferValue     string
}

// NewActivityForm returns a phone call form scheduled at now for the given client.
func NewActivityForm(clientID string, now time.Time) ActivityForm {
	return ActivityForm{
		ClientID:       clientID,
		Type:           string(models.ActivityCall),
		Title:          models.DefaultActivityTitles[models.ActivityCall],
		ScheduledAt:    now.Format(DateTimeLayout),
		Status:         string(models.ActivityPlanned),
		Result:         string(models.ResultNone),
		WinProbability: "50",
		OfferValue:     "0",
	}
}

// WithType switches the activity type and resets the title to that type's default.
func (f ActivityForm) WithType(t models.ActivityType) ActivityForm {
	f.Type = string(t)
	f.Title = models.DefaultActivityTitles[t]
	return f
}

// DateTimeLayout is the form format for activity dates, in local time.
const DateTimeLayout = "2006-01-02 15:04"

// Activity validates the form and returns a store input. Offer fields are
// only carried for offer activities. An empty title falls back to the type's
// default.
func (f ActivityForm) Activity(loc *time.Location) (models.NewActivity, error) {
	errs := FieldErrors{}

	if strings.TrimSpace(f.ClientID) == "" {
		errs["client_id"] = "required"
	}

	typ := models.ActivityType(f.Type)
	if _, ok := models.DefaultActivityTitles[typ]; !ok {
		errs["type"] = fmt.Sprintf("unknown type %q", f.Type)
	}

	var scheduled time.Time
	if strings.TrimSpace(f.ScheduledAt) == "" {
		errs["scheduled_at"] = "required"
	} else {
		t, err := ParseDateTime(f.ScheduledAt, loc)
		if err != nil {
			errs["scheduled_at"] = "expected YYYY-MM-DD HH:MM"
		}
		scheduled = t
	}

	status := models.ActivityStatus(f.Status)
	if status != models.ActivityPlanned && status != models.ActivityCompleted {
		errs["status"] = fmt.Sprintf("unknown status %q", f.Status)
	}
	result := models.ActivityResult(f.Result)
	if result == "" {
		result = models.ResultNone
	}
	if result != models.ResultWon && result != models.ResultLost && result != models.ResultNone {
		errs["result"] = fmt.Sprintf("unknown result %q", f.Result)
	}

	out := models.NewActivity{
		ClientID:    strings.TrimSpace(f.ClientID),
		Type:        typ,
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		ScheduledAt: scheduled,
		Status:      status,
		Result:      result,
	}
	if out.Title == "" {
		out.Title = models.DefaultActivityTitles[typ]
	}

	if typ == models.ActivityOffer {
		prob, err := strconv.Atoi(strings.TrimSpace(f.WinProbability))
		switch {
		case err != nil:
			errs["win_probability"] = "not a number"
		case prob < 0 || prob > 100:
			errs["win_probability"] = "must be between 0 and 100"
		}
		value, err := ParseMoney(f.OfferValue)
		switch {
		case err != nil:
			errs["offer_value"] = "not a number"
		case value.IsNegative():
			errs["offer_value"] = "must be zero or more"
		}
		out.WinProbability = &prob
		out.OfferValue = &value
	}

	if len(errs) > 0 {
		return models.NewActivity{}, errs
	}
	return out, nil
}

// ActivityFormFrom prefills a form for editing an existing activity, showing
// its time in loc.
func ActivityFormFrom(a models.Activity, loc *time.Location) ActivityForm {
	f := ActivityForm{
		ClientID:       a.ClientID,
		Type:           string(a.Type),
		Title:          a.Title,
		Description:    a.Description,
		ScheduledAt:    a.ScheduledAt.In(loc).Format(DateTimeLayout),
		Status:         string(a.Status),
		Result:         string(a.Result),
		WinProbability: "50",
		OfferValue:     "0",
	}
	if a.WinProbability != nil {
		f.WinProbability = strconv.Itoa(*a.WinProbability)
	}
	if a.OfferValue != nil {
		f.OfferValue = a.OfferValue.String()
	}
	return f
}

// Patch validates the form and returns an update overwriting every form field.
// Offer fields are only part of the patch for offers.
func (f ActivityForm) Patch(loc *time.Location) (models.ActivityPatch, error) {
	a, err := f.Activity(loc)
	if err != nil {
		return models.ActivityPatch{}, err
	}
	return models.ActivityPatch{
		ClientID:       &a.ClientID,
		Type:           &a.Type,
		Title:          &a.Title,
		Description:    &a.Description,
		ScheduledAt:    &a.ScheduledAt,
		Status:         &a.Status,
		Result:         &a.Result,
		WinProbability: a.WinProbability,
		OfferValue:     a.OfferValue,
	}, nil
}

// ParseMoney accepts plain numbers, with either a dot or a comma as the
// decimal separator and spaces as digit grouping.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(s)
	return decimal.NewFromString(s)
}

// ParseDateTime reads a form date, with or without a time of day.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func validClientStatus(s models.ClientStatus) bool {
	for _, st := range models.ClientStatuses {
		if st == s {
			return true
		}
	}
	return false
}
