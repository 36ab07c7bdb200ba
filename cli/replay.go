// ABOUTME: Scenario replay command
// ABOUTME: Runs a YAML scenario against the loaded dataset and prints step outcomes
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/salescrm/scenario"
	"github.com/harperreed/salescrm/viz"
)

func ReplayCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	quiet := fs.Bool("quiet", false, "Only print failed steps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("scenario file required")
	}

	sc, err := scenario.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	res, err := scenario.Run(app.Store.Snapshot(), sc, app.Logger)
	if err != nil {
		return err
	}

	if sc.Name != "" {
		_, _ = fmt.Fprintf(app.Out, "Scenario: %s\n\n", sc.Name)
	}
	failed := 0
	for _, st := range res.Steps {
		if len(st.Failures) == 0 {
			if !*quiet {
				_, _ = fmt.Fprintf(app.Out, "  ✓ %2d %s\n", st.Index, st.Description)
			}
			continue
		}
		failed++
		_, _ = fmt.Fprintf(app.Out, "  ✗ %2d %s\n", st.Index, st.Description)
		for _, f := range st.Failures {
			_, _ = fmt.Fprintf(app.Out, "       %s\n", f)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d step(s) failed", failed)
	}
	_, _ = fmt.Fprintf(app.Out, "\n✓ %d steps passed\n", len(res.Steps))

	if !*quiet {
		now := res.Clock.Now()
		stats := viz.GenerateDashboardStats(res.Store.Snapshot(), now, app.UpcomingLimit)
		_, _ = fmt.Fprintf(app.Out, "\n%s", viz.RenderDashboard(stats, app.Format, now))
	}
	return nil
}
