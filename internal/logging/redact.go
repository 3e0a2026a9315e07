// Package logging provides the redacting log sink for finch-mcp.
//
// Every record written by the MCP server passes through a Redactor before it
// reaches the rotating log file, so credential-shaped substrings never
// persist. The pattern set is compiled once at startup and is read-only
// afterwards, so it is safe for concurrent use without locking.
package logging

import "regexp"

// Fixed replacement markers. Redacted output carries these instead of the
// matched credential text.
const (
	AccessKeyMarker = "AWS_ACCESS_KEY_REDACTED"
	SecretKeyMarker = "AWS_SECRET_KEY_REDACTED"
	ValueMarker     = "REDACTED"
)

type redactRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Redactor rewrites credential-shaped substrings in log text.
// Rules run in a fixed order: bare-token patterns before structured
// key=value patterns, so a secret inside an assignment is still caught when
// it also looks like a bare token. Unmatched text passes through untouched.
type Redactor struct {
	rules []redactRule
}

// NewRedactor compiles the redaction pattern set.
func NewRedactor() *Redactor {
	return &Redactor{rules: []redactRule{
		// Bare 20-char uppercase-alphanumeric tokens (access-key shaped),
		// not adjacent to other token characters.
		{regexp.MustCompile(`(^|[^A-Z0-9])[A-Z0-9]{20}([^A-Z0-9]|$)`), "${1}" + AccessKeyMarker + "${2}"},
		// Bare 40-char base64-alphabet tokens (secret-key shaped).
		{regexp.MustCompile(`(^|[^A-Za-z0-9/+=])[A-Za-z0-9/+=]{40}([^A-Za-z0-9/+=]|$)`), "${1}" + SecretKeyMarker + "${2}"},
		// Quoted assignments for well-known secret names.
		{regexp.MustCompile(`(?i)api[_-]?key[=:]\s*["'][^"']*["']`), "api_key=" + ValueMarker},
		{regexp.MustCompile(`(?i)password[=:]\s*["'][^"']*["']`), "password=" + ValueMarker},
		{regexp.MustCompile(`(?i)secret[=:]\s*["'][^"']*["']`), "secret=" + ValueMarker},
		{regexp.MustCompile(`(?i)token[=:]\s*["'][^"']*["']`), "token=" + ValueMarker},
		// Basic-auth credentials embedded in URLs; scheme and host survive.
		{regexp.MustCompile(`(https?://)([^:@\s]+):([^:@\s]+)@`), "${1}" + ValueMarker + ":" + ValueMarker + "@"},
	}}
}

// Redact rewrites all credential-shaped substrings in s.
// It never fails; text that matches nothing is returned unchanged.
func (r *Redactor) Redact(s string) string {
	for _, rule := range r.rules {
		// Boundary groups consume a neighbor character, so adjacent tokens
		// need another pass. Iterate until the text is stable.
		for {
			replaced := rule.pattern.ReplaceAllString(s, rule.replacement)
			if replaced == s {
				break
			}
			s = replaced
		}
	}
	return s
}
