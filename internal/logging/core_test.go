package logging

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	observed, logs := observer.New(zapcore.DebugLevel)
	return zap.New(NewRedactingCore(observed, NewRedactor())), logs
}

func TestRedactingCoreMessage(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.Info("authenticating with " + sampleAccessKey)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if strings.Contains(entries[0].Message, sampleAccessKey) {
		t.Errorf("message leaked the key: %q", entries[0].Message)
	}
	if !strings.Contains(entries[0].Message, AccessKeyMarker) {
		t.Errorf("expected marker in message, got %q", entries[0].Message)
	}
}

func TestRedactingCoreFields(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.Info("push failed",
		zap.String("stderr", "login with "+sampleAccessKey+" rejected"),
		zap.Error(errors.New("credential "+sampleSecretKey+" invalid")),
		zap.Int("exit_code", 1))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	stderr, _ := fields["stderr"].(string)
	if strings.Contains(stderr, sampleAccessKey) {
		t.Errorf("stderr field leaked the key: %q", stderr)
	}
	if !strings.Contains(stderr, AccessKeyMarker) {
		t.Errorf("expected marker in stderr field, got %q", stderr)
	}

	errText, _ := fields["error"].(string)
	if strings.Contains(errText, sampleSecretKey) {
		t.Errorf("error field leaked the secret: %q", errText)
	}

	if got, ok := fields["exit_code"].(int64); !ok || got != 1 {
		t.Errorf("non-string field altered: %v", fields["exit_code"])
	}
}

func TestRedactingCoreWith(t *testing.T) {
	logger, logs := newObservedLogger()

	logger.With(zap.String("token", `token="tok-123"`)).Info("starting")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	token, _ := entries[0].ContextMap()["token"].(string)
	if strings.Contains(token, "tok-123") {
		t.Errorf("With field leaked the token: %q", token)
	}
}
