package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finch-mcp/internal/config"
	"finch-mcp/internal/finch"
	"finch-mcp/internal/logging"
	"finch-mcp/internal/server"
)

// NewServeCmd creates the serve command, which runs the MCP server on
// stdio. All diagnostics go to the rotating log file; stdout carries the
// protocol.
func NewServeCmd(version string, consoleLogger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Serve the Model Context Protocol over stdin/stdout, exposing the
build_container_image, push_image and create_ecr_repo tools.

Configuration comes from the environment (FINCH_MCP_* and
SERVER_LOG_LEVEL). Logs are written to a rotating, credential-redacted
log file, never to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				logStructured(consoleLogger, err, "failed to load configuration")
				return err
			}

			fileLogger := logging.NewFileLogger(settings)
			defer func() { _ = fileLogger.Sync() }()

			ops := finch.NewOps(settings, fileLogger)
			srv := server.New(ops, version, fileLogger)
			return srv.Run(cmd.Context())
		},
	}
}

// logStructured forwards to the structured error logger when a console
// logger is available.
func logStructured(logger *zap.Logger, err error, msg string) {
	if logger != nil && err != nil {
		logger.Error(msg, zap.Error(err))
	}
}
