package errx

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// maxChainDepth bounds the unwrap walk against cyclic error chains.
const maxChainDepth = 32

// UserString returns the message to show an end user: the errx message when
// one is present, otherwise the plain error text. Nil yields the empty string.
func UserString(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch {
	case e.message != "":
		return e.message
	case e.description != "":
		return e.description
	case e.code != "":
		return e.code
	default:
		return err.Error()
	}
}

// IsError reports whether an *Error appears anywhere in the chain of err.
func IsError(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e)
}

// DebugString renders the full cause chain of err, one level per line. Each
// errx node carries its code, category, and context; plain errors print as-is.
// Intended for --debug output where the operator wants the whole story.
func DebugString(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		if depth > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("caused by: ")
		}
		b.WriteString(describeNode(err))
		err = errors.Unwrap(err)
	}
	return b.String()
}

func describeNode(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	if e.code != "" || e.description != "" {
		b.WriteString(" [")
		b.WriteString(e.code)
		if e.description != "" {
			fmt.Fprintf(&b, " %s", e.description)
		}
		b.WriteByte(']')
	}
	if len(e.context) > 0 {
		b.WriteString(" {")
		b.WriteString(formatContext(e.context))
		b.WriteByte('}')
	}
	return b.String()
}

// formatContext renders context pairs in key order so output is stable.
func formatContext(ctx map[string]any) string {
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, ctx[key]))
	}
	return strings.Join(parts, ", ")
}
