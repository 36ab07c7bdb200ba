// ABOUTME: Seed dataset CLI commands
// ABOUTME: Consistency checks and export of the loaded dataset to JSON or SQLite
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/salescrm/db"
	"github.com/harperreed/salescrm/seed"
)

// SeedCheckCommand reports consistency issues in a seed source, by default the
// one the app was started with. It fails when any issue has error severity.
func SeedCheckCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("seed check", flag.ContinueOnError)
	file := fs.String("file", "", "Check this JSON seed file instead")
	dbPath := fs.String("db", "", "Check this SQLite seed database instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	provider := app.Seed
	if *file != "" || *dbPath != "" {
		provider = seed.Select(*file, *dbPath)
	}
	ds, err := provider.Load(context.Background())
	if err != nil {
		return err
	}
	issues := seed.Check(ds)
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(app.Out, "✓ %d clients, %d activities, no issues\n", len(ds.Clients), len(ds.Activities))
		return nil
	}

	for _, issue := range issues {
		_, _ = fmt.Fprintln(app.Out, issue.String())
	}
	_, _ = fmt.Fprintf(app.Out, "\n%d issue(s)\n", len(issues))

	if seed.HasErrors(issues) {
		return fmt.Errorf("seed has errors")
	}
	return nil
}

// SeedExportCommand writes the current dataset as JSON and/or a SQLite seed database.
func SeedExportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("seed export", flag.ContinueOnError)
	jsonPath := fs.String("json", "", "Write the dataset as JSON to this file")
	dbPath := fs.String("db", "", "Write the dataset into this SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ds := app.Store.Snapshot()

	if *jsonPath == "" && *dbPath == "" {
		data, err := seed.Encode(ds)
		if err != nil {
			return err
		}
		_, _ = app.Out.Write(data)
		_, _ = fmt.Fprintln(app.Out)
		return nil
	}

	if *jsonPath != "" {
		data, err := seed.Encode(ds)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*jsonPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write seed file: %w", err)
		}
		_, _ = fmt.Fprintf(app.Out, "✓ Exported %d clients to %s\n", len(ds.Clients), *jsonPath)
	}

	if *dbPath != "" {
		database, err := db.OpenDatabase(*dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		if err := db.WriteDataset(context.Background(), database, ds); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(app.Out, "✓ Exported %d clients to %s\n", len(ds.Clients), *dbPath)
	}
	return nil
}
