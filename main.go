// ABOUTME: Entry point for the sales CRM
// ABOUTME: Loads config and seed data, then routes to the TUI or CLI commands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/harperreed/salescrm/cli"
	"github.com/harperreed/salescrm/config"
	"github.com/harperreed/salescrm/logging"
	"github.com/harperreed/salescrm/seed"
	"github.com/harperreed/salescrm/store"
	"github.com/harperreed/salescrm/tui"
	"github.com/harperreed/salescrm/viz"
)

const version = "0.1.0"

type command func(app *cli.App, args []string) error

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/salescrm/config.yaml)")
	seedFile := flag.String("seed-file", "", "JSON seed dataset (overrides config)")
	seedDB := flag.String("seed-db", "", "SQLite seed database (overrides config)")
	flag.Usage = printUsage

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("salescrm version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seedFile != "" {
		cfg.Seed.File = *seedFile
	}
	if *seedDB != "" {
		cfg.Seed.DB = *seedDB
	}

	args := flag.Args()
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := (len(args) == 0 && tty) || (len(args) > 0 && args[0] == "tui")

	logger, err := logging.New(cfg.Log.Level, cfg.LogFile(interactive))
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	app.TTY = tty

	// No command on a terminal opens the interactive session
	if len(args) == 0 {
		if tty {
			runTUI(app)
			return
		}
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	name := args[0]
	commandArgs := args[1:]

	switch name {
	case "tui":
		runTUI(app)

	case "crm":
		dispatch(app, "crm", commandArgs, map[string]command{
			"list-clients":    cli.ListClientsCommand,
			"show-client":     cli.ShowClientCommand,
			"list-activities": cli.ListActivitiesCommand,
		})

	case "viz":
		if len(commandArgs) > 0 && commandArgs[0] == "graph" {
			dispatch(app, "viz graph", commandArgs[1:], map[string]command{
				"pipeline": cli.VizGraphPipelineCommand,
				"client":   cli.VizGraphClientCommand,
			})
			return
		}
		dispatch(app, "viz", commandArgs, map[string]command{
			"dashboard": cli.VizDashboardCommand,
			"report":    cli.VizReportCommand,
			"kanban":    cli.VizKanbanCommand,
			"calendar":  cli.VizCalendarCommand,
			"map":       cli.VizMapCommand,
		})

	case "seed":
		dispatch(app, "seed", commandArgs, map[string]command{
			"check":  cli.SeedCheckCommand,
			"export": cli.SeedExportCommand,
		})

	case "replay":
		run(cli.ReplayCommand, app, commandArgs)

	default:
		fmt.Printf("Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, logger *zap.Logger) (*cli.App, error) {
	ids, err := store.GeneratorFor(cfg.IDs)
	if err != nil {
		return nil, err
	}

	provider := seed.Select(cfg.Seed.File, cfg.Seed.DB)
	ds, err := provider.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}
	for _, issue := range seed.Check(ds) {
		logger.Warn("seed issue",
			zap.String("severity", string(issue.Severity)),
			zap.String("record", issue.RecordID),
			zap.String("message", issue.Message))
	}
	logger.Info("seed loaded",
		zap.Int("clients", len(ds.Clients)),
		zap.Int("activities", len(ds.Activities)))

	s := store.New(ds,
		store.WithIDGenerator(ids),
		store.WithLogger(logger))

	app := cli.NewApp(s)
	app.Seed = provider
	app.Logger = logger
	app.Format = viz.NewFormatter(cfg.Locale, cfg.Currency)
	app.UpcomingLimit = cfg.Dashboard.UpcomingLimit
	return app, nil
}

func runTUI(app *cli.App) {
	m := tui.NewModel(app.Store, tui.Options{
		Format:        app.Format,
		Now:           time.Now,
		UpcomingLimit: app.UpcomingLimit,
	})
	if err := tui.Run(m); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}

func dispatch(app *cli.App, group string, args []string, commands map[string]command) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n\n", group)
		printUsage()
		os.Exit(1)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", group, args[0])
		printUsage()
		os.Exit(1)
	}
	run(cmd, app, args[1:])
}

func run(cmd command, app *cli.App, args []string) {
	if err := cmd(app, args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`salescrm v%s - Sales CRM for field sales teams

USAGE:
  salescrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/salescrm/config.yaml)
  --seed-file <path>     Start from this JSON dataset
  --seed-db <path>       Start from this SQLite seed database

  The interactive session logs to %s
  unless log.file is set. Other commands log only when log.file is set.

COMMANDS:
  tui                    Interactive session (default on a terminal)
  crm                    Client and activity listings
  viz                    Dashboard, reports and other views
  seed                   Seed data tools
  replay <file>          Replay a scenario against the seed

CRM COMMANDS:
  salescrm crm list-clients     List clients
    --query <text>                Search by name, email, city or phone
    --status <status>             prospect, active or lost
    --segment <A|B|C>             Filter by segment

  salescrm crm show-client <id>    Show a client and its activities

  salescrm crm list-activities  List activities
    --client <id>                 Only this client's activities

VIZ COMMANDS:
  salescrm viz dashboard        Summary with pipeline and upcoming activities
    --upcoming <n>                Upcoming activities to show

  salescrm viz report           Activity and pipeline report
    --markdown                    Print markdown
    --pdf <file>                  Write a PDF instead

  salescrm viz kanban           Clients grouped by stage
  salescrm viz calendar         Activities by day
    --month <YYYY-MM>             Month to show (default: current)
  salescrm viz map              Client locations and directions links

  salescrm viz graph pipeline   Pipeline graph (DOT)
  salescrm viz graph client <id>  Client activity graph (DOT)
    --output <file>               Output file (default: stdout)

SEED COMMANDS:
  salescrm seed check           Report inconsistencies in the seed
    --file <path> | --db <path>   Check another source
  salescrm seed export          Write the dataset out
    --json <path>                 As JSON
    --db <path>                   As a SQLite seed database

EXAMPLES:
  # Browse the demo data
  salescrm

  # Segment A clients in the pipeline
  salescrm crm list-clients --segment A

  # Render the pipeline graph
  salescrm viz graph pipeline --output pipeline.dot && dot -Tpng pipeline.dot -o pipeline.png

  # Replay a scripted session
  salescrm replay scenario/testdata/offer_then_won.yaml

`, version, config.DefaultLogPath())
}
