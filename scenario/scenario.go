// ABOUTME: Scripted replay of store operations from YAML scenario files
// ABOUTME: Steps create, update, delete and move records, and expect steps assert derived state
package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/salescrm/models"
)

// Scenario is a named list of steps run against one store.
type Scenario struct {
	Name  string `yaml:"name"`
	Now   string `yaml:"now"` // RFC 3339; fixes the store clock when set
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one operation.
type Step struct {
	CreateClient   *ClientSpec    `yaml:"create_client"`
	UpdateClient   *ClientSpec    `yaml:"update_client"`
	DeleteClient   *Target        `yaml:"delete_client"`
	CreateActivity *ActivitySpec  `yaml:"create_activity"`
	UpdateActivity *ActivitySpec  `yaml:"update_activity"`
	DeleteActivity *Target        `yaml:"delete_activity"`
	MoveStage      *MoveSpec      `yaml:"move_stage"`
	Expect         *Expectation   `yaml:"expect"`
	Advance        *time.Duration `yaml:"advance"`
}

// Target names a record by scenario ref or literal id.
type Target struct {
	Ref string `yaml:"ref"`
}

// ClientSpec carries client fields. On create, Ref names the new client for
// later steps; on update it selects the client and only set fields change.
type ClientSpec struct {
	Ref               string   `yaml:"ref"`
	CompanyName       *string  `yaml:"company_name"`
	TaxID             *string  `yaml:"tax_id"`
	Email             *string  `yaml:"email"`
	City              *string  `yaml:"city"`
	ClientStatus      *string  `yaml:"client_status"`
	OpportunityStatus *string  `yaml:"opportunity_status"`
	PotentialValue    *float64 `yaml:"potential_value"`
	NextActionAt      *string  `yaml:"next_action_at"`
	Notes             *string  `yaml:"notes"`
}

type ActivitySpec struct {
	Ref            string   `yaml:"ref"`
	Client         *string  `yaml:"client"`
	Type           *string  `yaml:"type"`
	Title          *string  `yaml:"title"`
	ScheduledAt    *string  `yaml:"scheduled_at"`
	Status         *string  `yaml:"status"`
	Result         *string  `yaml:"result"`
	WinProbability *int     `yaml:"win_probability"`
	OfferValue     *float64 `yaml:"offer_value"`
}

type MoveSpec struct {
	Client string `yaml:"client"`
	Stage  string `yaml:"stage"`
}

// Expectation asserts client state. Unset fields are not checked.
type Expectation struct {
	Client        string  `yaml:"client"`
	Exists        *bool   `yaml:"exists"`
	Stage         *string `yaml:"stage"`
	Status        *string `yaml:"status"`
	Segment       *string `yaml:"segment"`
	LastContactAt *string `yaml:"last_contact_at"`
	NoLastContact bool    `yaml:"no_last_contact"`
	ActivityCount *int    `yaml:"activity_count"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	for i, st := range sc.Steps {
		if n := st.ops(); n != 1 {
			return nil, fmt.Errorf("step %d: want exactly one operation, got %d", i+1, n)
		}
	}
	if sc.Now != "" {
		if _, err := time.Parse(time.RFC3339, sc.Now); err != nil {
			return nil, fmt.Errorf("invalid now %q: %w", sc.Now, err)
		}
	}
	return &sc, nil
}

func (s Step) ops() int {
	n := 0
	for _, set := range []bool{
		s.CreateClient != nil, s.UpdateClient != nil, s.DeleteClient != nil,
		s.CreateActivity != nil, s.UpdateActivity != nil, s.DeleteActivity != nil,
		s.MoveStage != nil, s.Expect != nil, s.Advance != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (c ClientSpec) newClient() (models.NewClient, error) {
	in := models.NewClient{
		Country:           "PL",
		ClientStatus:      models.ClientProspect,
		OpportunityStatus: models.StageNew,
	}
	p, err := c.patch()
	if err != nil {
		return in, err
	}
	setIf(&in.CompanyName, p.CompanyName)
	setIf(&in.TaxID, p.TaxID)
	setIf(&in.Email, p.Email)
	setIf(&in.City, p.City)
	setIf(&in.ClientStatus, p.ClientStatus)
	setIf(&in.OpportunityStatus, p.OpportunityStatus)
	setIf(&in.PotentialValue, p.PotentialValue)
	setIf(&in.Notes, p.Notes)
	in.NextActionAt = p.NextActionAt
	return in, nil
}

func (c ClientSpec) patch() (models.ClientPatch, error) {
	p := models.ClientPatch{
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
		Email:       c.Email,
		City:        c.City,
		Notes:       c.Notes,
	}
	if c.ClientStatus != nil {
		p.ClientStatus = models.Ptr(models.ClientStatus(*c.ClientStatus))
	}
	if c.OpportunityStatus != nil {
		p.OpportunityStatus = models.Ptr(models.Stage(*c.OpportunityStatus))
	}
	if c.PotentialValue != nil {
		p.PotentialValue = models.Ptr(decimal.NewFromFloat(*c.PotentialValue))
	}
	if c.NextActionAt != nil {
		t, err := parseTime(*c.NextActionAt)
		if err != nil {
			return p, err
		}
		p.NextActionAt = &t
	}
	return p, nil
}

func (a ActivitySpec) patch() (models.ActivityPatch, error) {
	p := models.ActivityPatch{
		Title:          a.Title,
		WinProbability: a.WinProbability,
	}
	if a.Type != nil {
		p.Type = models.Ptr(models.ActivityType(*a.Type))
	}
	if a.Status != nil {
		p.Status = models.Ptr(models.ActivityStatus(*a.Status))
	}
	if a.Result != nil {
		p.Result = models.Ptr(models.ActivityResult(*a.Result))
	}
	if a.OfferValue != nil {
		p.OfferValue = models.Ptr(decimal.NewFromFloat(*a.OfferValue))
	}
	if a.ScheduledAt != nil {
		t, err := parseTime(*a.ScheduledAt)
		if err != nil {
			return p, err
		}
		p.ScheduledAt = &t
	}
	return p, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
