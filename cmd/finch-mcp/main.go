package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finch-mcp/internal/cli"
	"finch-mcp/internal/finch"
	"finch-mcp/internal/logging"
	"finch-mcp/pkg/errx"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	debug   = false
)

func main() {
	logger, err := logging.NewConsoleLogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	initCommands(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errx.UserString(err))
		if debug && errx.IsError(err) {
			fmt.Fprintln(os.Stderr, errx.DebugString(err))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finch-mcp",
	Short: "MCP server for container workflows with Finch",
	Long: `finch-mcp exposes container build and push operations over the Model
Context Protocol, backed by the Finch CLI:
- Build images from Dockerfiles
- Push images retagged under their content hash
- Ensure Amazon ECR repositories exist
- Manage the Finch VM lifecycle`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set debug mode globally so structured error logging can check it
		finch.SetDebugMode(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode with structured error logging")
}

func initCommands(logger *zap.Logger) {
	rootCmd.AddCommand(cli.NewServeCmd(version, logger))
	rootCmd.AddCommand(cli.NewBuildCmd(logger))
	rootCmd.AddCommand(cli.NewPushCmd(logger))
	rootCmd.AddCommand(cli.NewRepoCmd(logger))
	rootCmd.AddCommand(cli.NewLoginCmd(logger))
	rootCmd.AddCommand(cli.NewVMCmd(logger))
	rootCmd.AddCommand(cli.NewDoctorCmd(logger))
}
