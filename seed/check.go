// ABOUTME: Consistency checks for seed datasets
// ABOUTME: Reports records the store would accept but that break the derived-field rules
package seed

import (
	"fmt"
	"math"

	"github.com/harperreed/salescrm/models"
)

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single finding about one record.
type Issue struct {
	Severity Severity
	RecordID string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Severity, i.RecordID, i.Message)
}

// Check inspects a dataset for duplicate ids, segments that disagree with the
// potential value, coordinates out of range, unknown enum values and activities
// pointing at clients that don't exist.
func Check(ds models.Dataset) []Issue {
	var issues []Issue
	add := func(sev Severity, id, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, RecordID: id, Message: fmt.Sprintf(format, args...)})
	}

	clients := make(map[string]bool, len(ds.Clients))
	for _, c := range ds.Clients {
		if clients[c.ID] {
			add(SeverityError, c.ID, "duplicate client id")
		}
		clients[c.ID] = true

		if want := models.ComputeSegment(c.PotentialValue); c.Segment != want {
			add(SeverityWarning, c.ID, "segment %s does not match potential value %s (expected %s)",
				c.Segment, c.PotentialValue.String(), want)
		}
		if !c.OpportunityStatus.Valid() {
			add(SeverityWarning, c.ID, "unknown opportunity status %q", c.OpportunityStatus)
		}
		if c.PotentialValue.IsNegative() {
			add(SeverityWarning, c.ID, "negative potential value %s", c.PotentialValue.String())
		}
		if c.Geo != nil && (math.Abs(c.Geo.Lat) > 90 || math.Abs(c.Geo.Lng) > 180) {
			add(SeverityWarning, c.ID, "location %g,%g out of range", c.Geo.Lat, c.Geo.Lng)
		}
	}

	activities := make(map[string]bool, len(ds.Activities))
	for _, a := range ds.Activities {
		if activities[a.ID] {
			add(SeverityError, a.ID, "duplicate activity id")
		}
		activities[a.ID] = true

		if !clients[a.ClientID] {
			add(SeverityWarning, a.ID, "references unknown client %s", a.ClientID)
		}
		if a.Type != models.ActivityOffer && (a.WinProbability != nil || a.OfferValue != nil) {
			add(SeverityWarning, a.ID, "offer fields set on a %s activity", a.Type)
		}
		if a.WinProbability != nil && (*a.WinProbability < 0 || *a.WinProbability > 100) {
			add(SeverityWarning, a.ID, "win probability %d outside 0-100", *a.WinProbability)
		}
	}

	return issues
}

// HasErrors reports whether any issue is severe enough to refuse the dataset.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
