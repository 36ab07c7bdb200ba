// ABOUTME: Sales report aggregation and text/markdown rendering
// ABOUTME: Activity mix, client status split, pipeline stage counts and value per segment
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/harperreed/salescrm/models"
)

type Count struct {
	Label string
	Count int
}

type Report struct {
	GeneratedAt      time.Time
	ActivitiesByType []Count
	ClientsByStatus  []Count
	ClientsByStage   []Count
	ValueBySegment   []SegmentStats
}

func GenerateReport(ds models.Dataset, now time.Time) *Report {
	r := &Report{
		GeneratedAt:    now,
		ValueBySegment: segmentStats(ds.Clients),
	}

	for _, t := range models.ActivityTypes {
		n := 0
		for _, a := range ds.Activities {
			if a.Type == t {
				n++
			}
		}
		r.ActivitiesByType = append(r.ActivitiesByType, Count{Label: string(t), Count: n})
	}

	for _, s := range models.ClientStatuses {
		n := 0
		for _, c := range ds.Clients {
			if c.ClientStatus == s {
				n++
			}
		}
		r.ClientsByStatus = append(r.ClientsByStatus, Count{Label: string(s), Count: n})
	}

	for _, st := range stageStats(ds.Clients) {
		r.ClientsByStage = append(r.ClientsByStage, Count{Label: string(st.Stage), Count: st.Count})
	}

	return r
}

func RenderReport(r *Report, f *Formatter) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString(fmt.Sprintf("  SALES REPORT  %s\n", r.GeneratedAt.Format("02.01.2006 15:04")))
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	renderCounts(&out, "ACTIVITIES BY TYPE", r.ActivitiesByType)
	renderCounts(&out, "CLIENTS BY STATUS", r.ClientsByStatus)
	renderCounts(&out, "CLIENTS BY STAGE", r.ClientsByStage)

	out.WriteString("VALUE BY SEGMENT\n")
	for _, s := range r.ValueBySegment {
		out.WriteString(fmt.Sprintf("  Segment %s  %2d clients  %s\n", s.Segment, s.Count, f.Money(s.Value)))
	}

	return out.String()
}

func renderCounts(out *strings.Builder, title string, counts []Count) {
	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	out.WriteString(title + "\n")
	for _, c := range counts {
		out.WriteString(fmt.Sprintf("  %-13s %s  %2d\n", c.Label, bar(c.Count, maxCount, 10), c.Count))
	}
	out.WriteString("\n")
}

// RenderReportMarkdown renders the report as GitHub-flavored markdown tables.
func RenderReportMarkdown(r *Report, f *Formatter) string {
	var out strings.Builder

	out.WriteString("# Sales report\n\n")
	out.WriteString(fmt.Sprintf("_Generated %s_\n\n", r.GeneratedAt.Format("02.01.2006 15:04")))

	markdownCounts(&out, "Activities by type", "Type", r.ActivitiesByType)
	markdownCounts(&out, "Clients by status", "Status", r.ClientsByStatus)
	markdownCounts(&out, "Clients by stage", "Stage", r.ClientsByStage)

	out.WriteString("## Value by segment\n\n")
	out.WriteString("| Segment | Clients | Value |\n")
	out.WriteString("|---|---:|---:|\n")
	for _, s := range r.ValueBySegment {
		out.WriteString(fmt.Sprintf("| %s | %d | %s |\n", s.Segment, s.Count, f.Money(s.Value)))
	}

	return out.String()
}

func markdownCounts(out *strings.Builder, title, column string, counts []Count) {
	out.WriteString("## " + title + "\n\n")
	out.WriteString("| " + column + " | Count |\n")
	out.WriteString("|---|---:|\n")
	for _, c := range counts {
		out.WriteString(fmt.Sprintf("| %s | %d |\n", c.Label, c.Count))
	}
	out.WriteString("\n")
}

// RenderMarkdown styles markdown for the terminal. Without a TTY it uses the
// plain notty style so output stays free of escape codes.
func RenderMarkdown(md string, width int, tty bool) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if tty {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
