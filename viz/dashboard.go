// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Totals, segment split, pipeline counts and the next planned activities
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harperreed/salescrm/models"
)

// DefaultUpcomingLimit is how many upcoming activities the dashboard lists.
const DefaultUpcomingLimit = 5

type DashboardStats struct {
	TotalClients      int
	ActiveClients     int
	OpenOpportunities int
	TotalValue        decimal.Decimal

	Segments        []SegmentStats
	PipelineByStage []StageStats

	PlannedActivities int
	Upcoming          []UpcomingActivity
}

type SegmentStats struct {
	Segment models.Segment
	Count   int
	Value   decimal.Decimal
}

type StageStats struct {
	Stage models.Stage
	Count int
	Value decimal.Decimal
}

type UpcomingActivity struct {
	Activity   models.Activity
	ClientName string
}

// GenerateDashboardStats summarizes a snapshot as of now. Upcoming lists the
// planned activities scheduled after now, soonest first, capped at limit.
func GenerateDashboardStats(ds models.Dataset, now time.Time, limit int) *DashboardStats {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	stats := &DashboardStats{
		TotalClients:    len(ds.Clients),
		Segments:        segmentStats(ds.Clients),
		PipelineByStage: stageStats(ds.Clients),
	}

	names := make(map[string]string, len(ds.Clients))
	for _, c := range ds.Clients {
		names[c.ID] = c.CompanyName
		stats.TotalValue = stats.TotalValue.Add(c.PotentialValue)
		if c.ClientStatus == models.ClientActive {
			stats.ActiveClients++
		}
		if c.OpportunityStatus != models.StageWon && c.OpportunityStatus != models.StageLost {
			stats.OpenOpportunities++
		}
	}

	var upcoming []models.Activity
	for _, a := range ds.Activities {
		if a.Status != models.ActivityPlanned {
			continue
		}
		stats.PlannedActivities++
		if a.ScheduledAt.After(now) {
			upcoming = append(upcoming, a)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	for _, a := range upcoming {
		stats.Upcoming = append(stats.Upcoming, UpcomingActivity{Activity: a, ClientName: names[a.ClientID]})
	}

	return stats
}

func segmentStats(clients []models.Client) []SegmentStats {
	out := make([]SegmentStats, len(models.Segments))
	for i, seg := range models.Segments {
		out[i].Segment = seg
	}
	for _, c := range clients {
		for i := range out {
			if out[i].Segment == c.Segment {
				out[i].Count++
				out[i].Value = out[i].Value.Add(c.PotentialValue)
			}
		}
	}
	return out
}

func stageStats(clients []models.Client) []StageStats {
	out := make([]StageStats, len(models.Stages))
	for i, st := range models.Stages {
		out[i].Stage = st
	}
	for _, c := range clients {
		if i := c.OpportunityStatus.Index(); i >= 0 {
			out[i].Count++
			out[i].Value = out[i].Value.Add(c.PotentialValue)
		}
	}
	return out
}

func RenderDashboard(stats *DashboardStats, f *Formatter, now time.Time) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SALES CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🏢 %d clients  ✅ %d active  💼 %d open  📅 %d planned\n",
		stats.TotalClients, stats.ActiveClients, stats.OpenOpportunities, stats.PlannedActivities))
	out.WriteString(fmt.Sprintf("  Potential value: %s\n\n", f.Money(stats.TotalValue)))

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage, f)
	out.WriteString("\n")

	out.WriteString("SEGMENTS\n")
	for _, s := range stats.Segments {
		out.WriteString(fmt.Sprintf("  %s  %2d clients  %s\n", s.Segment, s.Count, f.Money(s.Value)))
	}
	out.WriteString("\n")

	out.WriteString("UPCOMING\n")
	if len(stats.Upcoming) == 0 {
		out.WriteString("  No planned activities\n")
	}
	for _, u := range stats.Upcoming {
		a := u.Activity
		out.WriteString(fmt.Sprintf("  %-10s %s  %-8s %s (%s)\n",
			DateLabel(a.ScheduledAt, now),
			a.ScheduledAt.In(now.Location()).Format("15:04"),
			a.Type, a.Title, u.ClientName))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline []StageStats, f *Formatter) {
	maxCount := 0
	for _, s := range pipeline {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}

	for _, s := range pipeline {
		out.WriteString(fmt.Sprintf("  %-13s %s  %2d (%s)\n",
			s.Stage, bar(s.Count, maxCount, 10), s.Count, f.Compact(s.Value)))
	}
}
