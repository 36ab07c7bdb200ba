package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolateXDG(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "uuid", cfg.IDs)
	assert.Equal(t, "zł", cfg.Currency)
	assert.Equal(t, "pl-PL", cfg.Locale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, 5, cfg.Dashboard.UpcomingLimit)
	assert.Empty(t, cfg.Seed.File)
	assert.Empty(t, cfg.Seed.DB)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := isolateXDG(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ids: ulid
currency: PLN
seed:
  file: /tmp/seed.json
log:
  level: debug
dashboard:
  upcoming_limit: 8
`), 0644))

	t.Setenv("SALESCRM_SEED_DB", "/tmp/seed.db")
	t.Setenv("SALESCRM_DASHBOARD_UPCOMING_LIMIT", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ulid", cfg.IDs)
	assert.Equal(t, "PLN", cfg.Currency)
	assert.Equal(t, "/tmp/seed.json", cfg.Seed.File)
	assert.Equal(t, "/tmp/seed.db", cfg.Seed.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Dashboard.UpcomingLimit)
}

func TestLoadDefaultPathFile(t *testing.T) {
	isolateXDG(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(DefaultPath()), 0755))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("locale: en-US\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.Locale)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolateXDG(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateXDG(t)

	t.Setenv("SALESCRM_IDS", "snowflake")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid ids scheme")

	t.Setenv("SALESCRM_IDS", "uuid")
	t.Setenv("SALESCRM_LOG_LEVEL", "chatty")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestDefaultPaths(t *testing.T) {
	dir := isolateXDG(t)

	assert.Equal(t, filepath.Join(dir, "salescrm", "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join(dir, "salescrm", "salescrm.log"), DefaultLogPath())
}

func TestLogFileDefaultsOnlyForInteractiveSessions(t *testing.T) {
	dir := isolateXDG(t)

	cfg := &Config{}
	assert.Empty(t, cfg.LogFile(false))
	assert.Equal(t, filepath.Join(dir, "salescrm", "salescrm.log"), cfg.LogFile(true))

	cfg.Log.File = "/var/log/crm.log"
	assert.Equal(t, "/var/log/crm.log", cfg.LogFile(false))
	assert.Equal(t, "/var/log/crm.log", cfg.LogFile(true))
}
