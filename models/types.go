// ABOUTME: Data models for CRM entities
// ABOUTME: Defines Client, Activity, pipeline stages, segments and patch types
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ClientStatus string

const (
	ClientProspect ClientStatus = "prospect"
	ClientActive   ClientStatus = "active"
	ClientLost     ClientStatus = "lost"
)

// ClientStatuses lists client statuses in display order.
var ClientStatuses = []ClientStatus{ClientActive, ClientProspect, ClientLost}

// Stage is a client's position in the sales pipeline.
type Stage string

const (
	StageNew           Stage = "new"
	StageQualification Stage = "qualification"
	StageOffer         Stage = "offer"
	StageNegotiation   Stage = "negotiation"
	StageWon           Stage = "won"
	StageLost          Stage = "lost"
)

// Stages is the fixed pipeline order. The order is only used as a guard for
// automatic advancement; manual moves may go from any stage to any stage.
var Stages = []Stage{
	StageNew,
	StageQualification,
	StageOffer,
	StageNegotiation,
	StageWon,
	StageLost,
}

// Index returns the position of s in Stages, or -1 for an unknown stage.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Precedes reports whether s comes strictly before other in the pipeline.
// Unknown stages sort before every known stage.
func (s Stage) Precedes(other Stage) bool {
	return s.Index() < other.Index()
}

func (s Stage) Valid() bool {
	return s.Index() >= 0
}

type Segment string

const (
	SegmentA Segment = "A"
	SegmentB Segment = "B"
	SegmentC Segment = "C"
)

var Segments = []Segment{SegmentA, SegmentB, SegmentC}

var (
	segmentAThreshold = decimal.NewFromInt(200000)
	segmentBThreshold = decimal.NewFromInt(50000)
)

// ComputeSegment derives the client tier from its potential deal value:
// A above 200 000, B from 50 000 to 200 000 inclusive, C below 50 000.
func ComputeSegment(value decimal.Decimal) Segment {
	if value.GreaterThan(segmentAThreshold) {
		return SegmentA
	}
	if value.GreaterThanOrEqual(segmentBThreshold) {
		return SegmentB
	}
	return SegmentC
}

type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityMeeting ActivityType = "meeting"
	ActivityEmail   ActivityType = "email"
	ActivityVisit   ActivityType = "visit"
	ActivityOffer   ActivityType = "offer"
)

var ActivityTypes = []ActivityType{
	ActivityMeeting,
	ActivityCall,
	ActivityOffer,
	ActivityVisit,
	ActivityEmail,
}

// DefaultActivityTitles is the title a new activity form starts with.
var DefaultActivityTitles = map[ActivityType]string{
	ActivityCall:    "Phone call with client",
	ActivityMeeting: "Sales meeting",
	ActivityEmail:   "Email to client",
	ActivityVisit:   "Client visit",
	ActivityOffer:   "Commercial offer",
}

type ActivityStatus string

const (
	ActivityPlanned   ActivityStatus = "planned"
	ActivityCompleted ActivityStatus = "completed"
)

type ActivityResult string

const (
	ResultWon  ActivityResult = "won"
	ResultLost ActivityResult = "lost"
	ResultNone ActivityResult = "none"
)

// GeoPoint is a client location. A client either has both coordinates or none.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

var ErrHalfSetGeo = errors.New("location needs both lat and lng")

// UnmarshalJSON rejects a location missing one of its coordinates. Zero is a
// valid latitude or longitude, so absence has to be seen at decode time.
func (g *GeoPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw.Lat == nil || raw.Lng == nil {
		return ErrHalfSetGeo
	}
	g.Lat, g.Lng = *raw.Lat, *raw.Lng
	return nil
}

type Client struct {
	ID                string          `json:"id"`
	CompanyName       string          `json:"company_name"`
	TaxID             string          `json:"tax_id"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Street            string          `json:"street,omitempty"`
	PostalCode        string          `json:"postal_code,omitempty"`
	City              string          `json:"city,omitempty"`
	Region            string          `json:"region,omitempty"`
	Country           string          `json:"country,omitempty"`
	ClientStatus      ClientStatus    `json:"client_status"`
	OpportunityStatus Stage           `json:"opportunity_status"`
	PotentialValue    decimal.Decimal `json:"potential_value"`
	Segment           Segment         `json:"segment"`
	LastContactAt     *time.Time      `json:"last_contact_at,omitempty"`
	NextActionAt      *time.Time      `json:"next_action_at,omitempty"`
	Geo               *GeoPoint       `json:"geo,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Clone returns a copy that shares no pointers with c.
func (c Client) Clone() Client {
	out := c
	out.LastContactAt = cloneTime(c.LastContactAt)
	out.NextActionAt = cloneTime(c.NextActionAt)
	if c.Geo != nil {
		g := *c.Geo
		out.Geo = &g
	}
	return out
}

type Activity struct {
	ID             string           `json:"id"`
	ClientID       string           `json:"client_id"`
	Type           ActivityType     `json:"type"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	ScheduledAt    time.Time        `json:"scheduled_at"`
	Status         ActivityStatus   `json:"status"`
	Result         ActivityResult   `json:"result"`
	WinProbability *int             `json:"win_probability,omitempty"` // percent, offers only
	OfferValue     *decimal.Decimal `json:"offer_value,omitempty"`     // offers only
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (a Activity) Clone() Activity {
	out := a
	if a.WinProbability != nil {
		p := *a.WinProbability
		out.WinProbability = &p
	}
	if a.OfferValue != nil {
		v := *a.OfferValue
		out.OfferValue = &v
	}
	return out
}

// NewClient carries every caller-settable client field. Identity, segment and
// bookkeeping timestamps are assigned by the store.
type NewClient struct {
	CompanyName       string
	TaxID             string
	Email             string
	Phone             string
	Street            string
	PostalCode        string
	City              string
	Region            string
	Country           string
	ClientStatus      ClientStatus
	OpportunityStatus Stage
	PotentialValue    decimal.Decimal
	LastContactAt     *time.Time
	NextActionAt      *time.Time
	Geo               *GeoPoint
	Notes             string
}

// ClientPatch is a partial client update. Nil fields are left untouched.
// There is no Segment field; the segment always follows PotentialValue.
type ClientPatch struct {
	CompanyName       *string
	TaxID             *string
	Email             *string
	Phone             *string
	Street            *string
	PostalCode        *string
	City              *string
	Region            *string
	Country           *string
	ClientStatus      *ClientStatus
	OpportunityStatus *Stage
	PotentialValue    *decimal.Decimal
	LastContactAt     *time.Time
	NextActionAt      *time.Time
	ClearNextAction   bool
	Geo               *GeoPoint
	ClearGeo          bool
	Notes             *string
}

// NewActivity carries every caller-settable activity field.
type NewActivity struct {
	ClientID       string
	Type           ActivityType
	Title          string
	Description    string
	ScheduledAt    time.Time
	Status         ActivityStatus
	Result         ActivityResult
	WinProbability *int
	OfferValue     *decimal.Decimal
}

// ActivityPatch is a partial activity update. Nil fields are left untouched.
type ActivityPatch struct {
	ClientID       *string
	Type           *ActivityType
	Title          *string
	Description    *string
	ScheduledAt    *time.Time
	Status         *ActivityStatus
	Result         *ActivityResult
	WinProbability *int
	OfferValue     *decimal.Decimal
}

// Dataset is a full set of CRM records, as produced by a seed provider.
type Dataset struct {
	Clients    []Client   `json:"clients"`
	Activities []Activity `json:"activities"`
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
