// ABOUTME: Shared state handed to every CLI command
// ABOUTME: Bundles the store, formatting, clock and output stream
package cli

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/salescrm/seed"
	"github.com/harperreed/salescrm/store"
	"github.com/harperreed/salescrm/viz"
)

type App struct {
	Store         *store.Store
	Seed          seed.Provider
	Format        *viz.Formatter
	Logger        *zap.Logger
	Out           io.Writer
	Now           func() time.Time
	UpcomingLimit int
	TTY           bool
}

// NewApp returns an App writing to stdout with system time and default formatting.
func NewApp(s *store.Store) *App {
	return &App{
		Store:         s,
		Seed:          seed.Embedded{},
		Format:        viz.NewFormatter(viz.DefaultLocale, viz.DefaultCurrency),
		Logger:        zap.NewNop(),
		Out:           os.Stdout,
		Now:           time.Now,
		UpcomingLimit: viz.DefaultUpcomingLimit,
	}
}
