package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithoutFileIsNop(t *testing.T) {
	logger, err := New("debug", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "salescrm.log")

	logger, err := New("info", path)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("client created", zap.String("id", "c_001"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"client created"`)
	assert.Contains(t, string(data), `"id":"c_001"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("chatty", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}
