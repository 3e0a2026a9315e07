package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finch-mcp/internal/finch"
)

// NewBuildCmd creates the build command. It runs the same pipeline the
// build_container_image tool uses: install check, conditional ECR login, VM
// readiness, then the build.
func NewBuildCmd(logger *zap.Logger) *cobra.Command {
	var (
		file      string
		tags      []string
		platforms []string
		target    string
		noCache   bool
		pull      bool
		quiet     bool
		progress  string
	)
	cmd := &cobra.Command{
		Use:   "build CONTEXT",
		Short: "Build an image from a Dockerfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			if file == "" {
				file = filepath.Join(args[0], "Dockerfile")
			}
			stop := DefaultPrinter.SpinnerStart("Building image from " + file)
			res := ops.BuildImage(finch.BuildParams{
				DockerfilePath: file,
				ContextPath:    args[0],
				Tags:           tags,
				Platforms:      platforms,
				Target:         target,
				NoCache:        noCache,
				Pull:           pull,
				Quiet:          quiet,
				Progress:       progress,
			})
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrBuildCommandFailed, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Dockerfile path (default CONTEXT/Dockerfile)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag for the built image (repeatable)")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "Target platform (repeatable)")
	cmd.Flags().StringVar(&target, "target", "", "Build stage to target")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not use cache when building")
	cmd.Flags().BoolVar(&pull, "pull", false, "Always pull base images")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress build output")
	cmd.Flags().StringVar(&progress, "progress", "auto", "Progress output style")
	return cmd
}

// NewPushCmd creates the push command: retag under the content hash, then
// push, configuring ECR login first when the target is an ECR repository.
func NewPushCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "push IMAGE",
		Short: "Retag an image under its content hash and push it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "" {
				return finch.CommandError(logger, finch.ErrImageRequired,
					finch.Errorf("Image is required."))
			}
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			stop := DefaultPrinter.SpinnerStart("Pushing " + args[0])
			res := ops.PushImage(args[0])
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrPushCommandFailed, res)
		},
	}
}

// NewRepoCmd creates the repo command group for ECR repository management.
func NewRepoCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage Amazon ECR repositories",
	}
	cmd.AddCommand(newRepoEnsureCmd(logger))
	return cmd
}

func newRepoEnsureCmd(logger *zap.Logger) *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "ensure APP_NAME",
		Short: "Create the ECR repository if it does not exist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "" {
				return finch.CommandError(logger, finch.ErrAppNameRequired,
					finch.Errorf("App name is required."))
			}
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			res := ops.CreateRepository(args[0], region)
			if res.IsError() {
				Error(res.Message)
				return finch.CommandError(logger, finch.ErrRepositoryCreateFailed, res)
			}
			Success(res.Message)
			if uri := res.String(finch.ExtraRepositoryURI); uri != "" {
				DefaultPrinter.Printf("repository: %s\n", uri)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "AWS region for the repository")
	return cmd
}

// NewLoginCmd creates the login command, which configures the ECR credential
// helper in finch.yaml and restarts a running VM so it takes effect.
func NewLoginCmd(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Configure the ECR credential helper",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := newOps(logger)
			if err != nil {
				return err
			}
			stop := DefaultPrinter.SpinnerStart("Configuring ECR credential helper")
			res := ops.ConfigureECRLogin()
			stop(!res.IsError(), res.Message)
			return finch.CommandError(logger, finch.ErrRegistryConfigFailed, res)
		},
	}
}
