package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"finch-mcp/internal/config"
)

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finch-mcp.log")
	settings := &config.Settings{
		LogFile:       path,
		LogLevel:      "debug",
		LogMaxSizeMB:  config.DefaultLogMaxSizeMB,
		LogMaxBackups: config.DefaultLogMaxBackups,
	}

	logger := NewFileLogger(settings)
	logger.Info("authenticating with " + sampleAccessKey)
	logger.Debug("debug detail")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, sampleAccessKey, "credential must never reach the file")
	assert.Contains(t, content, AccessKeyMarker)
	assert.Contains(t, content, "debug detail", "debug level should be enabled")
}

func TestNewFileLoggerLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finch-mcp.log")
	settings := &config.Settings{
		LogFile:       path,
		LogLevel:      "error",
		LogMaxSizeMB:  config.DefaultLogMaxSizeMB,
		LogMaxBackups: config.DefaultLogMaxBackups,
	}

	logger := NewFileLogger(settings)
	logger.Info("below the configured level")
	logger.Error("an actual failure")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, "below the configured level")
	assert.Contains(t, content, "an actual failure")
}

func TestNewConsoleLogger(t *testing.T) {
	logger, err := NewConsoleLogger(false)
	require.NoError(t, err)
	require.NotNil(t, logger)

	debugLogger, err := NewConsoleLogger(true)
	require.NoError(t, err)
	assert.True(t, debugLogger.Core().Enabled(zapcore.DebugLevel), "debug logger should enable debug level")
}
