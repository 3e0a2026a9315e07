package finch

import (
	"go.uber.org/zap"
)

// CLIClient executes a single fixed external binary through the Executor
// abstraction. The binary name is set at construction, so callers can only
// choose arguments, never the program.
type CLIClient struct {
	bin        string
	executor   Executor
	validators []ExecValidator
	logger     *zap.Logger
}

// NewCLIClient creates a client bound to one binary.
func NewCLIClient(bin string, executor Executor, logger *zap.Logger) *CLIClient {
	if executor == nil {
		executor = execExecutor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLIClient{
		bin:        bin,
		executor:   executor,
		validators: []ExecValidator{NoControlChars()},
		logger:     logger,
	}
}

// Binary returns the bound executable name or path.
func (c *CLIClient) Binary() string { return c.bin }

// Installed reports whether the bound binary resolves on PATH.
func (c *CLIClient) Installed() bool {
	_, err := lookPath(c.bin)
	return err == nil
}

// CommandArgs creates a validated command for the bound binary.
func (c *CLIClient) CommandArgs(args []string) (Command, error) {
	return c.executor.Command(c.bin, args, c.validators...)
}

// Exec runs the bound binary with args, capturing exit code and output.
// Argument validation failures surface as ExitCode -1 results so callers
// handle every failure through the same CmdResult path.
func (c *CLIClient) Exec(args []string) CmdResult {
	cmd, err := c.CommandArgs(args)
	if err != nil {
		return CmdResult{ExitCode: -1, Stderr: err.Error()}
	}
	c.logger.Debug("executing command", zap.String("bin", c.bin), zap.Strings("args", args))
	result := runCommand(cmd)
	c.logger.Debug("command finished",
		zap.String("bin", c.bin),
		zap.Strings("args", args),
		zap.Int("exit_code", result.ExitCode))
	return result
}
