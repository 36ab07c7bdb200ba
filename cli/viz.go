// ABOUTME: Visualization CLI commands
// ABOUTME: Dashboard, report, kanban, calendar, map and graph output
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/salescrm/viz"
)

func VizDashboardCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ContinueOnError)
	limit := fs.Int("upcoming", app.UpcomingLimit, "Number of upcoming activities to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := app.Now()
	stats := viz.GenerateDashboardStats(app.Store.Snapshot(), now, *limit)
	_, _ = fmt.Fprint(app.Out, viz.RenderDashboard(stats, app.Format, now))
	return nil
}

// VizReportCommand prints the sales report as text or markdown, or writes it as a PDF.
func VizReportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz report", flag.ContinueOnError)
	markdown := fs.Bool("markdown", false, "Print raw markdown instead of styled text")
	pdfPath := fs.String("pdf", "", "Write the report as PDF to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report := viz.GenerateReport(app.Store.Snapshot(), app.Now())

	if *pdfPath != "" {
		data, err := viz.RenderReportPDF(report, app.Format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pdfPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		_, _ = fmt.Fprintf(app.Out, "✓ Report written to %s\n", *pdfPath)
		return nil
	}

	if *markdown {
		_, _ = fmt.Fprint(app.Out, viz.RenderReportMarkdown(report, app.Format))
		return nil
	}

	if app.TTY {
		styled, err := viz.RenderMarkdown(viz.RenderReportMarkdown(report, app.Format), 100, true)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(app.Out, styled)
		return nil
	}

	_, _ = fmt.Fprint(app.Out, viz.RenderReport(report, app.Format))
	return nil
}

func VizKanbanCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz kanban", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, _ = fmt.Fprint(app.Out, viz.RenderKanban(viz.Kanban(app.Store.Snapshot()), app.Format))
	return nil
}

func VizCalendarCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz calendar", flag.ContinueOnError)
	month := fs.String("month", "", "Month to show as YYYY-MM (default: current month)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := app.Now()
	target := now
	if *month != "" {
		t, err := time.ParseInLocation("2006-01", *month, now.Location())
		if err != nil {
			return fmt.Errorf("invalid --month %q: want YYYY-MM", *month)
		}
		target = t
	}

	days := viz.CalendarMonth(app.Store.Snapshot(), target, now.Location())
	_, _ = fmt.Fprint(app.Out, viz.RenderCalendar(target, days, now))
	return nil
}

func VizMapCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz map", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, _ = fmt.Fprint(app.Out, viz.RenderMap(viz.MapMarkers(app.Store.Snapshot())))
	return nil
}

// VizGraphPipelineCommand generates the pipeline graph as DOT.
func VizGraphPipelineCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(app.Store).GeneratePipelineGraph(context.Background())
	if err != nil {
		return err
	}
	return writeOutput(app, *output, dot)
}

// VizGraphClientCommand generates one client's activity graph as DOT.
func VizGraphClientCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph client", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("client ID required")
	}

	dot, err := viz.NewGraphGenerator(app.Store).GenerateClientGraph(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	return writeOutput(app, *output, dot)
}

func writeOutput(app *App, path, content string) error {
	if path != "" {
		return os.WriteFile(path, []byte(content), 0644)
	}
	_, _ = fmt.Fprintln(app.Out, content)
	return nil
}
