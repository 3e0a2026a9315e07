// Package config loads finch-mcp settings from the environment.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Defaults for server settings.
const (
	DefaultLogFile       = "finch-mcp.log"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 7
	DefaultFinchBinary   = "finch"
	DefaultAWSBinary     = "aws"
)

// envPrefix is the prefix for FINCH_MCP_* environment variables.
const envPrefix = "FINCH_MCP"

// logLevelVar is the plain environment variable selecting log verbosity.
// It takes precedence over FINCH_MCP_LOG_LEVEL for compatibility with
// existing MCP client configurations.
const logLevelVar = "SERVER_LOG_LEVEL"

// Settings holds the process-wide configuration.
type Settings struct {
	// LogFile is the rotating log destination for the MCP server.
	// Env: FINCH_MCP_LOG_FILE. Default: finch-mcp.log.
	LogFile string `mapstructure:"log_file"`
	// LogLevel selects log verbosity. Unrecognized values silently fall
	// back to info. Env: SERVER_LOG_LEVEL or FINCH_MCP_LOG_LEVEL.
	LogLevel string `mapstructure:"log_level"`
	// LogMaxSizeMB bounds the log file size before rotation.
	LogMaxSizeMB int `mapstructure:"log_max_size_mb"`
	// LogMaxBackups bounds the number of rotated backups kept.
	LogMaxBackups int `mapstructure:"log_max_backups"`
	// FinchBinary is the finch executable name or path.
	FinchBinary string `mapstructure:"finch_binary"`
	// AWSBinary is the aws CLI executable name or path.
	AWSBinary string `mapstructure:"aws_binary"`
}

// Load reads settings from the environment, applying defaults.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_level", "")
	v.SetDefault("log_max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_max_backups", DefaultLogMaxBackups)
	v.SetDefault("finch_binary", DefaultFinchBinary)
	v.SetDefault("aws_binary", DefaultAWSBinary)

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}

	if level := os.Getenv(logLevelVar); level != "" {
		settings.LogLevel = level
	}

	return settings, nil
}

// Level maps the configured verbosity to a zap level.
// Unrecognized or empty values fall back to info without error.
func (s *Settings) Level() zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s.LogLevel)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
