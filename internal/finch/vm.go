package finch

import (
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// goos is a test seam for platform detection.
var goos = runtime.GOOS

// VMState classifies the Finch VM from status command output.
type VMState int

const (
	// StateNotApplicable means the platform runs containers natively and
	// has no VM to manage.
	StateNotApplicable VMState = iota
	StateNonexistent
	StateStopped
	StateRunning
	StateUnknown
)

func (s VMState) String() string {
	switch s {
	case StateNotApplicable:
		return "not applicable"
	case StateNonexistent:
		return "nonexistent"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// vmManaged reports whether this platform uses a Finch VM at all.
// Linux runs containers natively.
func vmManaged() bool { return goos != "linux" }

// ClassifyVMStatus maps status command output to a VM state. Both output
// streams are scanned case-insensitively, in a fixed precedence order:
// nonexistent, then stopped, then running. Output matching none of the
// markers classifies as unknown regardless of exit code, and an unknown
// state is never acted upon.
func ClassifyVMStatus(status CmdResult) VMState {
	combined := strings.ToLower(status.Combined())
	switch {
	case strings.Contains(combined, "nonexistent"):
		return StateNonexistent
	case strings.Contains(combined, "stopped"):
		return StateStopped
	case strings.Contains(combined, "running"):
		return StateRunning
	default:
		return StateUnknown
	}
}

// VMManager drives the Finch VM lifecycle. Transitions are not serialized
// against other processes touching the same VM; concurrent finch invocations
// can still race between the status read and the transition command.
type VMManager struct {
	finch  *CLIClient
	logger *zap.Logger
}

// NewVMManager creates a VM manager backed by the given finch client.
func NewVMManager(finch *CLIClient, logger *zap.Logger) *VMManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VMManager{finch: finch, logger: logger}
}

// State returns the current VM classification and the raw status output.
func (m *VMManager) State() (VMState, CmdResult) {
	if !vmManaged() {
		return StateNotApplicable, CmdResult{}
	}
	status := m.finch.Exec([]string{"vm", "status"})
	return ClassifyVMStatus(status), status
}

// EnsureRunning drives the VM to the running state, creating or starting it
// as needed. On platforms without a VM it succeeds immediately. Calling it
// on an already running VM performs no transition commands.
func (m *VMManager) EnsureRunning() *Result {
	if !vmManaged() {
		return Success("Running on Linux, no Finch VM needed.")
	}

	state, status := m.State()
	m.logger.Info("checked vm status", zap.String("state", state.String()))

	switch state {
	case StateNonexistent:
		return m.initialize()
	case StateStopped:
		return m.start()
	case StateRunning:
		return Success("Finch VM is already running.")
	default:
		return Errorf("Unexpected Finch VM status (exit code %d): %s",
			status.ExitCode, strings.TrimSpace(status.Combined()))
	}
}

// initialize creates and starts a VM that does not exist yet.
func (m *VMManager) initialize() *Result {
	m.logger.Info("initializing finch vm")
	res := m.finch.Exec([]string{"vm", "init"})
	if !res.Succeeded() {
		return Errorf("Failed to initialize Finch VM: %s", res.Stderr).
			With(ExtraStderr, res.Stderr)
	}
	return Success("Finch VM was initialized successfully.")
}

// start brings a stopped VM up.
func (m *VMManager) start() *Result {
	m.logger.Info("starting finch vm")
	res := m.finch.Exec([]string{"vm", "start"})
	if !res.Succeeded() {
		return Errorf("Failed to start Finch VM: %s", res.Stderr).
			With(ExtraStderr, res.Stderr)
	}
	return Success("Finch VM was started successfully.")
}

// Stop halts a running VM. With force set, the stop command is issued
// regardless of the current state; otherwise a VM that is not running is
// left alone and reported as success.
func (m *VMManager) Stop(force bool) *Result {
	if !vmManaged() {
		return Success("Running on Linux, no Finch VM needed.")
	}

	if !force {
		state, status := m.State()
		switch state {
		case StateRunning:
		case StateNonexistent, StateStopped:
			return Successf("Finch VM is not running (state: %s), nothing to stop.", state)
		default:
			return Errorf("Unexpected Finch VM status (exit code %d): %s",
				status.ExitCode, strings.TrimSpace(status.Combined()))
		}
	}

	args := []string{"vm", "stop"}
	if force {
		args = append(args, "--force")
	}
	m.logger.Info("stopping finch vm", zap.Bool("force", force))
	res := m.finch.Exec(args)
	if !res.Succeeded() {
		return Errorf("Failed to stop Finch VM: %s", res.Stderr).
			With(ExtraStderr, res.Stderr)
	}
	return Success("Finch VM was stopped successfully.")
}

// Remove deletes the VM. The VM must be stopped first unless force is set.
func (m *VMManager) Remove(force bool) *Result {
	if !vmManaged() {
		return Success("Running on Linux, no Finch VM needed.")
	}

	args := []string{"vm", "rm"}
	if force {
		args = append(args, "--force")
	}
	m.logger.Info("removing finch vm", zap.Bool("force", force))
	res := m.finch.Exec(args)
	if !res.Succeeded() {
		return Errorf("Failed to remove Finch VM: %s", res.Stderr).
			With(ExtraStderr, res.Stderr)
	}
	return Success("Finch VM was removed successfully.")
}

// RestartIfRunning stops and starts the VM when it is currently running, so
// configuration changes take effect. A VM in any other state is untouched
// and the result carries restarted=false.
func (m *VMManager) RestartIfRunning() *Result {
	if !vmManaged() {
		return Success("Running on Linux, no Finch VM needed.").
			With(ExtraRestarted, false)
	}

	state, status := m.State()
	switch state {
	case StateRunning:
	case StateNonexistent, StateStopped:
		return Successf("Finch VM is not running (state: %s), no restart needed.", state).
			With(ExtraRestarted, false)
	default:
		return Errorf("Unexpected Finch VM status (exit code %d): %s",
			status.ExitCode, strings.TrimSpace(status.Combined()))
	}

	if res := m.Stop(false); res.IsError() {
		return res
	}
	res := m.start()
	if res.IsError() {
		return res
	}
	return Success("Finch VM was restarted successfully.").With(ExtraRestarted, true)
}

// ValidateState checks that the VM is in the expected state without
// changing anything.
func (m *VMManager) ValidateState(expected VMState) *Result {
	if !vmManaged() {
		if expected == StateNotApplicable {
			return Success("Running on Linux, no Finch VM needed.").With(ExtraValidated, true)
		}
		return Errorf("Platform has no Finch VM, cannot be in state %s.", expected).
			With(ExtraValidated, false)
	}

	state, _ := m.State()
	if state == expected {
		return Successf("Finch VM is in expected state: %s.", expected).With(ExtraValidated, true)
	}
	return Errorf("Finch VM is in state %s, expected %s.", state, expected).
		With(ExtraValidated, false)
}
