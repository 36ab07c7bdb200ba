// ABOUTME: Month calendar of activities grouped by day
// ABOUTME: Days are computed in the caller's time zone so late-evening activities land on the right date
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/salescrm/models"
)

type CalendarEntry struct {
	Activity   models.Activity
	ClientName string
}

type CalendarDay struct {
	Date    time.Time
	Entries []CalendarEntry
}

// CalendarMonth returns the days of the month containing month (in loc) that
// have at least one activity, each with its activities in time order.
func CalendarMonth(ds models.Dataset, month time.Time, loc *time.Location) []CalendarDay {
	if loc == nil {
		loc = time.Local
	}
	month = month.In(loc)
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	names := make(map[string]string, len(ds.Clients))
	for _, c := range ds.Clients {
		names[c.ID] = c.CompanyName
	}

	byDay := map[int][]CalendarEntry{}
	for _, a := range ds.Activities {
		t := a.ScheduledAt.In(loc)
		if t.Before(start) || !t.Before(end) {
			continue
		}
		byDay[t.Day()] = append(byDay[t.Day()], CalendarEntry{Activity: a, ClientName: names[a.ClientID]})
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		entries := byDay[d]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Activity.ScheduledAt.Before(entries[j].Activity.ScheduledAt)
		})
		out = append(out, CalendarDay{
			Date:    time.Date(start.Year(), start.Month(), d, 0, 0, 0, 0, loc),
			Entries: entries,
		})
	}
	return out
}

func RenderCalendar(month time.Time, days []CalendarDay, now time.Time) string {
	var out strings.Builder

	out.WriteString(fmt.Sprintf("%s %d\n", month.Month(), month.Year()))
	out.WriteString(strings.Repeat("─", 43) + "\n")
	if len(days) == 0 {
		out.WriteString("  No activities this month\n")
	}

	for _, d := range days {
		out.WriteString(fmt.Sprintf("%s %s\n", d.Date.Format("Mon"), DateLabel(d.Date, now)))
		for _, e := range d.Entries {
			a := e.Activity
			mark := "○"
			if a.Status == models.ActivityCompleted {
				mark = "●"
			}
			out.WriteString(fmt.Sprintf("  %s %s  %-8s %s (%s)\n",
				mark, a.ScheduledAt.In(d.Date.Location()).Format("15:04"), a.Type, a.Title, e.ClientName))
		}
	}

	return out.String()
}
