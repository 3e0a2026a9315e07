package finch

import (
	"go.uber.org/zap"

	"finch-mcp/internal/config"
)

// Ops bundles the component managers behind the tool surface and sequences
// them into complete operations: install check, registry login, VM
// readiness, then the image action. Each stage returns a Result and the
// first error Result short-circuits the rest.
type Ops struct {
	finch  *CLIClient
	aws    *CLIClient
	vm     *VMManager
	login  *LoginConfigurator
	pusher *Pusher
	build  *Builder
	repos  *RepositoryManager
	logger *zap.Logger
}

// NewOps wires the component managers from settings using the default
// executor.
func NewOps(settings *config.Settings, logger *zap.Logger) *Ops {
	return NewOpsWithExecutor(settings, nil, logger)
}

// NewOpsWithExecutor wires the component managers with an explicit executor.
// A nil executor selects os/exec.
func NewOpsWithExecutor(settings *config.Settings, executor Executor, logger *zap.Logger) *Ops {
	if logger == nil {
		logger = zap.NewNop()
	}
	finchClient := NewCLIClient(settings.FinchBinary, executor, logger)
	awsClient := NewCLIClient(settings.AWSBinary, executor, logger)
	return &Ops{
		finch:  finchClient,
		aws:    awsClient,
		vm:     NewVMManager(finchClient, logger),
		login:  NewLoginConfigurator(logger),
		pusher: NewPusher(finchClient, logger),
		build:  NewBuilder(finchClient, logger),
		repos:  NewRepositoryManager(awsClient, logger),
		logger: logger,
	}
}

type step func() *Result

// chain runs steps in order, returning the first error result, or the last
// result when every step succeeds.
func chain(steps ...step) *Result {
	var last *Result
	for _, s := range steps {
		last = s()
		if last.IsError() {
			return last
		}
	}
	return last
}

// CheckInstallation verifies the finch binary resolves on PATH.
func (o *Ops) CheckInstallation() *Result {
	if !o.finch.Installed() {
		return Errorf("Finch is not installed or not on PATH.")
	}
	return Success("Finch is installed.")
}

// EnsureVMRunning drives the VM to the running state.
func (o *Ops) EnsureVMRunning() *Result { return o.vm.EnsureRunning() }

// StopVM halts the VM.
func (o *Ops) StopVM(force bool) *Result { return o.vm.Stop(force) }

// RemoveVM deletes the VM.
func (o *Ops) RemoveVM(force bool) *Result { return o.vm.Remove(force) }

// VMState reports the current VM classification.
func (o *Ops) VMState() (VMState, CmdResult) { return o.vm.State() }

// ConfigureECRLogin ensures the ECR credential helper is listed in
// finch.yaml and restarts a running VM when the configuration changed so the
// helper takes effect immediately.
func (o *Ops) ConfigureECRLogin() *Result {
	res := o.login.Configure()
	if res.IsError() || !res.Bool(ExtraChanged) {
		return res
	}
	restart := o.vm.RestartIfRunning()
	if restart.IsError() {
		return restart
	}
	return res.With(ExtraRestarted, restart.Bool(ExtraRestarted))
}

// CredHelperStatus reports where the ECR credential helper is configured.
func (o *Ops) CredHelperStatus() (HelperStatus, error) { return o.login.Inspect() }

// FinchInstalled reports whether the finch binary resolves on PATH.
func (o *Ops) FinchInstalled() bool { return o.finch.Installed() }

// AWSInstalled reports whether the aws binary resolves on PATH.
func (o *Ops) AWSInstalled() bool { return o.aws.Installed() }

// configureLoginIfNeeded configures ECR login when the operation touches an
// ECR registry. A configuration change forces a VM stop so the next
// EnsureRunning boots the VM with the new credential helper; a failed stop
// is logged and tolerated because EnsureRunning resolves the state anyway.
func (o *Ops) configureLoginIfNeeded(ecrInvolved bool) *Result {
	if !ecrInvolved {
		return Success("Registry login not required.")
	}

	res := o.login.Configure()
	if res.IsError() {
		return res
	}
	if res.Bool(ExtraChanged) {
		o.logger.Info("registry configuration changed, stopping vm so it restarts with new credentials")
		if stop := o.vm.Stop(true); stop.IsError() {
			o.logger.Warn("failed to stop vm after configuration change",
				zap.String("message", stop.Message))
		}
	}
	return res
}

// BuildImage runs the full build pipeline: installation check, conditional
// ECR login when the Dockerfile references an ECR registry, VM readiness,
// then the build itself.
func (o *Ops) BuildImage(params BuildParams) *Result {
	return chain(
		o.CheckInstallation,
		func() *Result {
			ecr, err := DockerfileReferencesECR(params.DockerfilePath)
			if err != nil {
				// The build step surfaces the real file error; an unreadable
				// Dockerfile just means no login to configure.
				o.logger.Warn("could not scan dockerfile for registry references",
					zap.String("path", params.DockerfilePath),
					zap.Error(err))
				ecr = false
			}
			return o.configureLoginIfNeeded(ecr)
		},
		o.vm.EnsureRunning,
		func() *Result { return o.build.Build(params) },
	)
}

// PushImage runs the full push pipeline: installation check, conditional
// ECR login when the target is an ECR repository, VM readiness, then the
// retag-and-push.
func (o *Ops) PushImage(image string) *Result {
	if image == "" {
		return Errorf("Image is required.")
	}
	return chain(
		o.CheckInstallation,
		func() *Result { return o.configureLoginIfNeeded(IsECRRepository(image)) },
		o.vm.EnsureRunning,
		func() *Result { return o.pusher.Push(image) },
	)
}

// CreateRepository ensures the named ECR repository exists. The repository
// API needs no local VM, so this goes straight to the aws CLI.
func (o *Ops) CreateRepository(appName, region string) *Result {
	return o.repos.EnsureRepository(appName, region)
}
