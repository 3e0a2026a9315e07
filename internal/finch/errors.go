package finch

// This file defines error handling utilities for finch operations, including:
//   - Sentinel errors for different error categories (Install, VM, Push, etc.)
//   - Error wrapping functions that integrate with the errx error system
//   - Structured error logging with context
//   - Debug mode management for error output

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"finch-mcp/pkg/errx"
)

var (
	debugMode   bool
	debugModeMu sync.RWMutex
)

// SetDebugMode sets the global debug mode flag.
// When enabled, logStructuredError will output structured error logs to terminal.
func SetDebugMode(enabled bool) {
	debugModeMu.Lock()
	defer debugModeMu.Unlock()
	debugMode = enabled
}

// IsDebugMode returns whether debug mode is enabled.
func IsDebugMode() bool {
	debugModeMu.RLock()
	defer debugModeMu.RUnlock()
	return debugMode
}

type errorSpec struct {
	code        string
	description string
}

// errorSpecs maps sentinel errors to their error codes and descriptions.
// Populated automatically by newSentinelError() during variable initialization.
// Must be declared before sentinel errors to ensure proper initialization order.
var errorSpecs = make(map[error]errorSpec)

// newSentinelError creates a sentinel error and registers it in errorSpecs in one step.
func newSentinelError(msg string, code, description string) error {
	err := errors.New(msg)
	errorSpecs[err] = errorSpec{code: code, description: description}
	return err
}

// lookupSpec provides a lookup function for errx.FromSentinel.
func lookupSpec(sentinel error) (code, description string) {
	spec := specFor(sentinel)
	return spec.code, spec.description
}

// newWithSentinel creates a new error using the appropriate errx category helper.
func newWithSentinel(base error, msg string) error {
	if base == nil {
		return errx.CreateByCode(errx.CodeCLI, errx.DescCLI, msg, nil)
	}
	return errx.FromSentinel(base, lookupSpec, msg, nil)
}

// wrapWithSentinel wraps a cause error using the appropriate errx category helper.
func wrapWithSentinel(base, cause error, msg string) error {
	if base == nil {
		return errx.CreateByCode(errx.CodeCLI, errx.DescCLI, msg, cause)
	}
	return errx.FromSentinel(base, lookupSpec, msg, cause)
}

// wrapWithSentinelAndContext wraps an error with additional structured context
// such as the image reference or VM state involved.
func wrapWithSentinelAndContext(base, cause error, msg string, context map[string]any) error {
	err := wrapWithSentinel(base, cause, msg)
	if errxErr, ok := err.(*errx.Error); ok && len(context) > 0 {
		return errxErr.WithContextMap(context)
	}
	return err
}

// Sentinel errors for finch operations. Each sentinel categorizes the error
// a command boundary returns for one operation; errors.Is matches them
// through the errx wrapping.
var (
	// CLI/argument errors.
	ErrImageRequired   = newSentinelError("image is required", errx.CodeCLI, errx.DescCLI)
	ErrAppNameRequired = newSentinelError("app name is required", errx.CodeCLI, errx.DescCLI)

	// Installation errors.
	ErrFinchNotInstalled = newSentinelError("finch is not installed", errx.CodeInstall, errx.DescInstall)

	// VM lifecycle errors.
	ErrVMStatusUnknown = newSentinelError("vm status unknown", errx.CodeVM, errx.DescVM)
	ErrVMStartFailed   = newSentinelError("failed to start vm", errx.CodeVM, errx.DescVM)
	ErrVMStopFailed    = newSentinelError("failed to stop vm", errx.CodeVM, errx.DescVM)
	ErrVMRemoveFailed  = newSentinelError("failed to remove vm", errx.CodeVM, errx.DescVM)

	// Registry configuration errors.
	ErrRegistryConfigFailed = newSentinelError("failed to configure registry login", errx.CodeRegistry, errx.DescRegistry)

	// Image operation errors.
	ErrPushCommandFailed      = newSentinelError("failed to push image", errx.CodePush, errx.DescPush)
	ErrBuildCommandFailed     = newSentinelError("failed to build image", errx.CodeBuild, errx.DescBuild)
	ErrRepositoryCreateFailed = newSentinelError("failed to create repository", errx.CodeRepository, errx.DescRepository)
)

func specFor(base error) errorSpec {
	spec, ok := errorSpecs[base]
	if ok {
		return spec
	}
	return errorSpec{code: errx.CodeCLI, description: errx.DescCLI}
}

// ResultError converts an error Result into a structured error, categorized
// by the given sentinel. Used at the CLI boundary where a Result must become
// a process exit.
func ResultError(base error, res *Result) error {
	if res == nil || !res.IsError() {
		return nil
	}
	return newWithSentinel(base, res.Message)
}

// CommandError converts an error Result into a structured error carrying the
// result extras as context, and logs it when debug mode is enabled. Returns
// nil for success results so it can terminate a cobra RunE directly.
func CommandError(logger *zap.Logger, base error, res *Result) error {
	if res == nil || !res.IsError() {
		return nil
	}
	err := wrapWithSentinelAndContext(base, nil, res.Message, res.Extra)
	logStructuredError(logger, err, res.Message)
	return err
}

// logStructuredError logs an error with structured fields to terminal.
// Only logs when debug mode is enabled (via --debug flag).
// The zap logger is configured with console encoding, so structured fields
// are displayed in a human-readable format in the terminal.
func logStructuredError(logger *zap.Logger, err error, msg string) {
	if logger == nil || err == nil || !IsDebugMode() {
		return
	}

	if !errx.IsError(err) {
		logger.Error(msg, zap.Error(err))
		return
	}

	var errxErr *errx.Error
	errors.As(err, &errxErr)
	fields := []zap.Field{
		zap.String("error.code", errxErr.Code()),
		zap.String("error.category", errxErr.Description()),
		zap.String("error.message", errxErr.Message()),
		zap.String("error.chain", errx.DebugString(err)),
	}

	if ctx := errxErr.Context(); ctx != nil {
		for key, value := range ctx {
			fields = append(fields, zap.Any("error.context."+key, value))
		}
	}

	if cause := errxErr.Cause(); cause != nil {
		fields = append(fields, zap.NamedError("error.cause", cause))
	}

	logger.Error(msg, fields...)
}
