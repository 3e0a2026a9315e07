package logging

import "go.uber.org/zap/zapcore"

// redactingCore wraps a zapcore.Core and rewrites the entry message and
// every string-valued field through the Redactor before the wrapped core
// persists them. Redaction applies to message and fields independently, so
// a secret passed as a field value is caught even when the message is clean.
type redactingCore struct {
	zapcore.Core
	redactor *Redactor
}

// NewRedactingCore returns a Core that redacts records before delegating to
// the wrapped core. Write never fails due to redaction.
func NewRedactingCore(core zapcore.Core, redactor *Redactor) zapcore.Core {
	return &redactingCore{Core: core, redactor: redactor}
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(c.redactFields(fields)), redactor: c.redactor}
}

func (c *redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Message = c.redactor.Redact(entry.Message)
	return c.Core.Write(entry, c.redactFields(fields))
}

func (c *redactingCore) redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			field.String = c.redactor.Redact(field.String)
		case zapcore.ByteStringType:
			if raw, ok := field.Interface.([]byte); ok {
				field.Interface = []byte(c.redactor.Redact(string(raw)))
			}
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok && err != nil {
				field = zapcore.Field{
					Key:    field.Key,
					Type:   zapcore.StringType,
					String: c.redactor.Redact(err.Error()),
				}
			}
		}
		out[i] = field
	}
	return out
}
