package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finch-mcp/internal/finch"
)

// NewDoctorCmd creates the doctor command, which checks the local
// environment: required binaries, VM state, and ECR credential helper
// configuration.
func NewDoctorCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local environment for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}

			Header("Environment Check")
			DefaultPrinter.Println()

			rows := [][]string{{"Check", "Status", "Detail"}}
			healthy := true

			if ops.FinchInstalled() {
				rows = append(rows, []string{"finch binary", Green("ok"), "found on PATH"})
			} else {
				rows = append(rows, []string{"finch binary", Red("missing"), "install finch and retry"})
				healthy = false
			}

			if ops.AWSInstalled() {
				rows = append(rows, []string{"aws cli", Green("ok"), "found on PATH"})
			} else {
				rows = append(rows, []string{"aws cli", Yellow("missing"), "needed only for ECR repository management"})
			}

			if ops.FinchInstalled() {
				state, _ := ops.VMState()
				switch state {
				case finch.StateRunning, finch.StateNotApplicable:
					rows = append(rows, []string{"finch vm", Green("ok"), state.String()})
				case finch.StateUnknown:
					rows = append(rows, []string{"finch vm", Yellow("unknown"), "run finch vm status for details"})
				default:
					rows = append(rows, []string{"finch vm", Yellow(state.String()), "will be started on first use"})
				}
			}

			if status, err := ops.CredHelperStatus(); err == nil {
				switch {
				case status.FinchYAML:
					rows = append(rows, []string{"ecr login", Green("ok"), "creds_helpers set in finch.yaml"})
				case status.ConfigJSON:
					rows = append(rows, []string{"ecr login", Green("ok"), "credsStore set in config.json"})
				default:
					rows = append(rows, []string{"ecr login", Yellow("unset"), "configured automatically on first ECR push"})
				}
			}

			TableBoxed(rows)
			DefaultPrinter.Println()

			if healthy {
				Success("Environment looks good.")
				return nil
			}
			Error("Environment has problems, see the table above.")
			return finch.ResultError(finch.ErrFinchNotInstalled,
				finch.Errorf("finch is not installed or not on PATH"))
		},
	}
}
