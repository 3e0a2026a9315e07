package finch

import "fmt"

// Result status values. Every operation resolves to exactly one of these.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Extra field keys used across operations. Tool handlers copy a fixed
// subset of these into the wire response; the rest stay internal.
const (
	ExtraChanged       = "changed"
	ExtraConfigured    = "configured"
	ExtraExists        = "exists"
	ExtraHash          = "hash"
	ExtraRepositoryURI = "repository_uri"
	ExtraRestarted     = "restarted"
	ExtraStderr        = "stderr"
	ExtraStdout        = "stdout"
	ExtraValidated     = "validated"
)

// Result is the uniform outcome of an operation: a status, a human-readable
// message, and optional named extras. Operations return Results instead of
// errors so that failure detail flows to the caller as data rather than
// aborting the process.
type Result struct {
	Status  string
	Message string
	Extra   map[string]any
}

// Success creates a success result with the given message.
func Success(message string) *Result {
	return &Result{Status: StatusSuccess, Message: message}
}

// Successf creates a success result with a formatted message.
func Successf(format string, args ...any) *Result {
	return Success(fmt.Sprintf(format, args...))
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) *Result {
	return &Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether the result carries an error status.
func (r *Result) IsError() bool { return r.Status == StatusError }

// With attaches a named extra value and returns the result for chaining.
func (r *Result) With(key string, value any) *Result {
	if r.Extra == nil {
		r.Extra = make(map[string]any)
	}
	r.Extra[key] = value
	return r
}

// Bool returns the named extra as a bool, or false when absent or mistyped.
func (r *Result) Bool(key string) bool {
	v, ok := r.Extra[key].(bool)
	return ok && v
}

// String returns the named extra as a string, or "" when absent or mistyped.
func (r *Result) String(key string) string {
	v, _ := r.Extra[key].(string)
	return v
}
