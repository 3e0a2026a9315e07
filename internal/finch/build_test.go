package finch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name   string
		params BuildParams
		want   []string
	}{
		{
			name:   "minimal",
			params: BuildParams{DockerfilePath: "/src/Dockerfile", ContextPath: "/src"},
			want:   []string{"build", "-f", "/src/Dockerfile", "/src"},
		},
		{
			name: "tags repeat the flag",
			params: BuildParams{
				DockerfilePath: "/src/Dockerfile",
				ContextPath:    "/src",
				Tags:           []string{"app:latest", "app:v1"},
			},
			want: []string{"build", "-f", "/src/Dockerfile", "-t", "app:latest", "-t", "app:v1", "/src"},
		},
		{
			name: "booleans emitted only when set",
			params: BuildParams{
				DockerfilePath: "/src/Dockerfile",
				ContextPath:    "/src",
				NoCache:        true,
				Pull:           true,
				Quiet:          true,
			},
			want: []string{"build", "-f", "/src/Dockerfile", "--no-cache", "--pull", "-q", "/src"},
		},
		{
			name: "everything",
			params: BuildParams{
				DockerfilePath: "/src/Dockerfile",
				ContextPath:    "/src",
				Tags:           []string{"app:latest"},
				Platforms:      []string{"linux/amd64", "linux/arm64"},
				Target:         "runtime",
				NoCache:        true,
				BuildContexts:  []string{"lib=/lib"},
				AddHosts:       []string{"db:10.0.0.5"},
				Allow:          []string{"network.host"},
				CacheFrom:      []string{"type=registry,ref=app:cache"},
				CacheTo:        []string{"type=inline"},
				Outputs:        "type=docker",
				Progress:       "plain",
			},
			want: []string{
				"build", "-f", "/src/Dockerfile",
				"-t", "app:latest",
				"--platform", "linux/amd64", "--platform", "linux/arm64",
				"--target", "runtime",
				"--no-cache",
				"--build-context", "lib=/lib",
				"--add-host", "db:10.0.0.5",
				"--allow", "network.host",
				"--cache-from", "type=registry,ref=app:cache",
				"--cache-to", "type=inline",
				"--output", "type=docker",
				"--progress", "plain",
				"/src",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs(tt.params)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("buildArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildArgsDeterministic(t *testing.T) {
	params := BuildParams{
		DockerfilePath: "/src/Dockerfile",
		ContextPath:    "/src",
		Tags:           []string{"a", "b"},
		Platforms:      []string{"linux/amd64"},
	}
	first := buildArgs(params)
	second := buildArgs(params)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("buildArgs not deterministic:\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	newBuilder := func(mock *MockExecutor) *Builder {
		return NewBuilder(NewCLIClient("finch", mock, zap.NewNop()), zap.NewNop())
	}

	t.Run("success reports dockerfile", func(t *testing.T) {
		mock := &MockExecutor{}
		res := newBuilder(mock).Build(BuildParams{
			DockerfilePath: "/src/Dockerfile",
			ContextPath:    "/src",
			Tags:           []string{"app:latest"},
		})

		if res.IsError() {
			t.Fatalf("expected success, got %q", res.Message)
		}
		if !strings.Contains(res.Message, "/src/Dockerfile") {
			t.Errorf("expected dockerfile path in message, got %q", res.Message)
		}
		if !mock.HasCommand("finch", "build", "-f", "/src/Dockerfile", "-t", "app:latest", "/src") {
			t.Errorf("unexpected argv: %v", mock.Commands)
		}
	})

	t.Run("failure surfaces stderr", func(t *testing.T) {
		mock := &MockExecutor{Default: MockResponse{Stderr: "syntax error on line 3", ExitCode: 1}}
		res := newBuilder(mock).Build(BuildParams{
			DockerfilePath: "/src/Dockerfile",
			ContextPath:    "/src",
		})

		if !res.IsError() {
			t.Fatal("expected error")
		}
		if !strings.Contains(res.Message, "syntax error on line 3") {
			t.Errorf("expected stderr in message, got %q", res.Message)
		}
	})

	t.Run("missing required params rejected", func(t *testing.T) {
		mock := &MockExecutor{}
		if res := newBuilder(mock).Build(BuildParams{ContextPath: "/src"}); !res.IsError() {
			t.Error("expected error without dockerfile path")
		}
		if res := newBuilder(mock).Build(BuildParams{DockerfilePath: "/src/Dockerfile"}); !res.IsError() {
			t.Error("expected error without context path")
		}
		if len(mock.Commands) != 0 {
			t.Errorf("expected no commands, got %v", mock.Commands)
		}
	})
}
