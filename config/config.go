// ABOUTME: Application configuration from file, environment and flags
// ABOUTME: Reads $XDG_CONFIG_HOME/salescrm/config.yaml plus SALESCRM_* variables through viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harperreed/salescrm/viz"
)

const (
	AppName   = "salescrm"
	envPrefix = "SALESCRM"
)

type Config struct {
	Seed      SeedConfig
	IDs       string // uuid or ulid
	Currency  string
	Locale    string
	Log       LogConfig
	Dashboard DashboardConfig
}

type SeedConfig struct {
	File string // JSON dataset
	DB   string // SQLite seed database, wins over File
}

type LogConfig struct {
	Level string
	File  string // empty disables logging
}

type DashboardConfig struct {
	UpcomingLimit int
}

// DefaultPath is where the config file is looked up when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultLogPath is the log location under the XDG state directory.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// LogFile is the file the logger writes to. An interactive session with no
// configured file logs to DefaultLogPath, since the screen cannot show warnings.
func (c *Config) LogFile(interactive bool) string {
	if c.Log.File == "" && interactive {
		return DefaultLogPath()
	}
	return c.Log.File
}

// Load reads configuration. Precedence from highest: environment (including a
// .env file in the working directory), the config file, built-in defaults. An
// explicit path must exist; the default path may be missing.
func Load(path string) (*Config, error) {
	// .env values never override variables already set in the environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Seed: SeedConfig{
			File: v.GetString("seed.file"),
			DB:   v.GetString("seed.db"),
		},
		IDs:      strings.ToLower(v.GetString("ids")),
		Currency: v.GetString("currency"),
		Locale:   v.GetString("locale"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Dashboard: DashboardConfig{
			UpcomingLimit: v.GetInt("dashboard.upcoming_limit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.db", "")
	v.SetDefault("ids", "uuid")
	v.SetDefault("currency", viz.DefaultCurrency)
	v.SetDefault("locale", viz.DefaultLocale)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("dashboard.upcoming_limit", viz.DefaultUpcomingLimit)
}

func (c *Config) Validate() error {
	switch c.IDs {
	case "uuid", "ulid":
	default:
		return fmt.Errorf("invalid ids scheme %q: want uuid or ulid", c.IDs)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Dashboard.UpcomingLimit < 1 {
		return fmt.Errorf("dashboard.upcoming_limit must be at least 1, got %d", c.Dashboard.UpcomingLimit)
	}
	return nil
}

