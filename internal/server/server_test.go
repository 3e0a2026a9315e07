package server

import (
	"context"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"

	"finch-mcp/internal/config"
	"finch-mcp/internal/finch"
)

// scriptedCommand replays a canned outcome.
type scriptedCommand struct {
	stdout   string
	stderr   string
	exitCode int
	outW     io.Writer
	errW     io.Writer
}

type scriptedExit struct{ code int }

func (e scriptedExit) Error() string { return "exit status" }
func (e scriptedExit) ExitCode() int { return e.code }

func (c *scriptedCommand) Output() ([]byte, error)         { return []byte(c.stdout), nil }
func (c *scriptedCommand) CombinedOutput() ([]byte, error) { return []byte(c.stdout + c.stderr), nil }
func (c *scriptedCommand) SetStdout(w io.Writer)           { c.outW = w }
func (c *scriptedCommand) SetStderr(w io.Writer)           { c.errW = w }
func (c *scriptedCommand) SetStdin(io.Reader)              {}

func (c *scriptedCommand) Run() error {
	if c.outW != nil {
		io.WriteString(c.outW, c.stdout)
	}
	if c.errW != nil {
		io.WriteString(c.errW, c.stderr)
	}
	if c.exitCode != 0 {
		return scriptedExit{c.exitCode}
	}
	return nil
}

// scriptedExecutor maps full command lines to canned outcomes; unmatched
// commands succeed with empty output.
type scriptedExecutor struct {
	responses map[string]scriptedCommand
}

func (e *scriptedExecutor) Command(name string, args []string, validators ...finch.ExecValidator) (finch.Command, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if resp, ok := e.responses[key]; ok {
		cmd := resp
		return &cmd, nil
	}
	return &scriptedCommand{}, nil
}

// testServer builds a Server whose binaries resolve on any machine. The
// scripted executor intercepts every invocation, so "sh" is never run; it
// only has to pass the PATH lookup.
func testServer(responses map[string]scriptedCommand) *Server {
	settings := &config.Settings{FinchBinary: "sh", AWSBinary: "sh"}
	ops := finch.NewOpsWithExecutor(settings, &scriptedExecutor{responses: responses}, zap.NewNop())
	return New(ops, "test", zap.NewNop())
}

func TestHandlePush(t *testing.T) {
	t.Run("success returns derived tag in message", func(t *testing.T) {
		srv := testServer(map[string]scriptedCommand{
			"sh vm status":                   {stdout: "Running"},
			"sh image inspect myrepo:latest": {stdout: `{"Id": "sha256:1234567890abcdef"}`},
		})

		_, out, err := srv.handlePush(context.Background(), nil, PushImageRequest{Image: "myrepo:latest"})
		if err != nil {
			t.Fatalf("handler must not return a protocol error: %v", err)
		}
		if out.Status != finch.StatusSuccess {
			t.Fatalf("Status = %q, message %q", out.Status, out.Message)
		}
		if !strings.Contains(out.Message, "myrepo:1234567890ab") {
			t.Errorf("expected derived tag in message, got %q", out.Message)
		}
		if out.Exists != nil || out.RepositoryURI != "" {
			t.Errorf("push must not set repository fields: %+v", out)
		}
	})

	t.Run("inspect failure becomes an error result", func(t *testing.T) {
		srv := testServer(map[string]scriptedCommand{
			"sh vm status":                  {stdout: "Running"},
			"sh image inspect ghost:latest": {stderr: "no such image", exitCode: 1},
		})

		_, out, err := srv.handlePush(context.Background(), nil, PushImageRequest{Image: "ghost:latest"})
		if err != nil {
			t.Fatalf("handler must not return a protocol error: %v", err)
		}
		if out.Status != finch.StatusError {
			t.Fatalf("Status = %q", out.Status)
		}
		if !strings.Contains(out.Message, "Failed to get hash for image ghost:latest") {
			t.Errorf("unexpected message %q", out.Message)
		}
	})
}

func TestHandleCreateRepo(t *testing.T) {
	t.Run("existing repository", func(t *testing.T) {
		srv := testServer(map[string]scriptedCommand{
			"sh ecr describe-repositories --repository-names myapp": {
				stdout: `{"repositories": [{"repositoryUri": "123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp"}]}`,
			},
		})

		_, out, err := srv.handleCreateRepo(context.Background(), nil, CreateRepoRequest{AppName: "myapp"})
		if err != nil {
			t.Fatalf("handler must not return a protocol error: %v", err)
		}
		if out.Status != finch.StatusSuccess {
			t.Fatalf("Status = %q, message %q", out.Status, out.Message)
		}
		if out.RepositoryURI != "123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp" {
			t.Errorf("RepositoryURI = %q", out.RepositoryURI)
		}
		if out.Exists == nil || !*out.Exists {
			t.Errorf("Exists = %v, want true", out.Exists)
		}
	})

	t.Run("aws failure becomes an error result", func(t *testing.T) {
		srv := testServer(map[string]scriptedCommand{
			"sh ecr describe-repositories --repository-names myapp": {
				stderr: "AccessDeniedException", exitCode: 254,
			},
		})

		_, out, err := srv.handleCreateRepo(context.Background(), nil, CreateRepoRequest{AppName: "myapp"})
		if err != nil {
			t.Fatalf("handler must not return a protocol error: %v", err)
		}
		if out.Status != finch.StatusError {
			t.Fatalf("Status = %q", out.Status)
		}
		if out.Exists != nil {
			t.Errorf("Exists must be unset on error, got %v", *out.Exists)
		}
	})
}

func TestToToolResult(t *testing.T) {
	t.Run("internal extras never cross the boundary", func(t *testing.T) {
		res := finch.Errorf("push failed").
			With(finch.ExtraStderr, "secret stderr").
			With(finch.ExtraStdout, "raw stdout").
			With(finch.ExtraHash, "sha256:abc")

		out := toToolResult(res)
		if out.Status != finch.StatusError || out.Message != "push failed" {
			t.Errorf("unexpected result %+v", out)
		}
		if out.RepositoryURI != "" || out.Exists != nil {
			t.Errorf("unexpected repository fields %+v", out)
		}
	})

	t.Run("exists false still surfaces", func(t *testing.T) {
		res := finch.Success("created").
			With(finch.ExtraExists, false).
			With(finch.ExtraRepositoryURI, "uri")

		out := toToolResult(res)
		if out.Exists == nil || *out.Exists {
			t.Errorf("Exists = %v, want false", out.Exists)
		}
		if out.RepositoryURI != "uri" {
			t.Errorf("RepositoryURI = %q", out.RepositoryURI)
		}
	})
}

func TestRecoverToResult(t *testing.T) {
	srv := New(nil, "test", zap.NewNop())

	out := func() (out ToolResult) {
		defer srv.recoverToResult("doing the thing", &out)
		panic("kaboom")
	}()

	if out.Status != finch.StatusError {
		t.Fatalf("Status = %q", out.Status)
	}
	if !strings.Contains(out.Message, "kaboom") {
		t.Errorf("expected panic value in message, got %q", out.Message)
	}
	if !strings.Contains(out.Message, "doing the thing") {
		t.Errorf("expected action in message, got %q", out.Message)
	}
}
