package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finch-mcp/internal/config"
	"finch-mcp/internal/finch"
)

// NewVMCmd creates the vm command group for managing the Finch VM directly.
func NewVMCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Manage the Finch virtual machine",
	}
	cmd.AddCommand(newVMStatusCmd(logger))
	cmd.AddCommand(newVMStartCmd(logger))
	cmd.AddCommand(newVMStopCmd(logger))
	cmd.AddCommand(newVMRemoveCmd(logger))
	return cmd
}

func newOps(logger *zap.Logger) (*finch.Ops, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	return finch.NewOps(settings, logger), nil
}

func newVMStatusCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the Finch VM state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			state, raw := ops.VMState()
			switch state {
			case finch.StateRunning, finch.StateNotApplicable:
				Success("VM state: " + Green(state.String()))
			case finch.StateUnknown:
				Warn("VM state: " + Yellow(state.String()))
				return finch.CommandError(logger, finch.ErrVMStatusUnknown,
					finch.Errorf("Unexpected Finch VM status (exit code %d): %s",
						raw.ExitCode, strings.TrimSpace(raw.Combined())))
			default:
				Info("VM state: " + Cyan(state.String()))
			}
			return nil
		},
	}
}

func newVMStartCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Create or start the Finch VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			stop := DefaultPrinter.SpinnerStart("Ensuring the Finch VM is running")
			res := ops.EnsureVMRunning()
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrVMStartFailed, res)
		},
	}
}

func newVMStopCmd(logger *zap.Logger) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the Finch VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			stop := DefaultPrinter.SpinnerStart("Stopping the Finch VM")
			res := ops.StopVM(force)
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrVMStopFailed, res)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Stop regardless of current state")
	return cmd
}

func newVMRemoveCmd(logger *zap.Logger) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove the Finch VM",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			stop := DefaultPrinter.SpinnerStart("Removing the Finch VM")
			res := ops.RemoveVM(force)
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrVMRemoveFailed, res)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Remove even if running")
	return cmd
}
