package finch

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func stubLookPath(t *testing.T, installed map[string]bool) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if installed[name] {
			return "/usr/local/bin/" + name, nil
		}
		return "", errNotFound
	}
	t.Cleanup(func() { lookPath = orig })
}

func testRepoManager(mock *MockExecutor) *RepositoryManager {
	return NewRepositoryManager(NewCLIClient("aws", mock, zap.NewNop()), zap.NewNop())
}

func TestEnsureRepository(t *testing.T) {
	t.Run("existing repository is reported, not recreated", func(t *testing.T) {
		stubLookPath(t, map[string]bool{"aws": true})
		mock := &MockExecutor{Responses: map[string]MockResponse{
			"aws ecr describe-repositories --repository-names myapp": {
				Stdout: `{"repositories": [{"repositoryName": "myapp", "repositoryUri": "123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp"}]}`,
			},
		}}
		res := testRepoManager(mock).EnsureRepository("myapp", "")

		if res.IsError() {
			t.Fatalf("expected success, got %q", res.Message)
		}
		if !res.Bool(ExtraExists) {
			t.Error("expected exists=true")
		}
		if got := res.String(ExtraRepositoryURI); got != "123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp" {
			t.Errorf("repository uri = %q", got)
		}
		if got := mock.CountCommand("aws", "ecr", "create-repository"); got != 0 {
			t.Errorf("expected no create call, got %d", got)
		}
	})

	t.Run("missing repository is created with scanning and immutable tags", func(t *testing.T) {
		stubLookPath(t, map[string]bool{"aws": true})
		mock := &MockExecutor{Responses: map[string]MockResponse{
			"aws ecr describe-repositories --repository-names myapp --region us-west-2": {
				Stderr:   "An error occurred (RepositoryNotFoundException) when calling the DescribeRepositories operation",
				ExitCode: 254,
			},
			"aws ecr create-repository --repository-name myapp --image-scanning-configuration scanOnPush=true --image-tag-mutability IMMUTABLE --region us-west-2": {
				Stdout: `{"repository": {"repositoryName": "myapp", "repositoryUri": "123456789012.dkr.ecr.us-west-2.amazonaws.com/myapp"}}`,
			},
		}}
		res := testRepoManager(mock).EnsureRepository("myapp", "us-west-2")

		if res.IsError() {
			t.Fatalf("expected success, got %q", res.Message)
		}
		if res.Bool(ExtraExists) {
			t.Error("expected exists=false for created repository")
		}
		if got := res.String(ExtraRepositoryURI); got != "123456789012.dkr.ecr.us-west-2.amazonaws.com/myapp" {
			t.Errorf("repository uri = %q", got)
		}
	})

	t.Run("other describe errors do not trigger creation", func(t *testing.T) {
		stubLookPath(t, map[string]bool{"aws": true})
		mock := &MockExecutor{Default: MockResponse{
			Stderr:   "An error occurred (AccessDeniedException) when calling the DescribeRepositories operation",
			ExitCode: 254,
		}}
		res := testRepoManager(mock).EnsureRepository("myapp", "")

		if !res.IsError() {
			t.Fatal("expected error")
		}
		if !strings.Contains(res.Message, "AccessDeniedException") {
			t.Errorf("expected aws error in message, got %q", res.Message)
		}
		if got := mock.CountCommand("aws", "ecr", "create-repository"); got != 0 {
			t.Errorf("expected no create call, got %d", got)
		}
	})

	t.Run("create failure surfaces stderr", func(t *testing.T) {
		stubLookPath(t, map[string]bool{"aws": true})
		mock := &MockExecutor{
			Responses: map[string]MockResponse{
				"aws ecr describe-repositories --repository-names myapp": {
					Stderr: "RepositoryNotFoundException", ExitCode: 254,
				},
			},
			Default: MockResponse{Stderr: "LimitExceededException", ExitCode: 254},
		}
		res := testRepoManager(mock).EnsureRepository("myapp", "")

		if !res.IsError() {
			t.Fatal("expected error")
		}
		if !strings.Contains(res.Message, "LimitExceededException") {
			t.Errorf("unexpected message %q", res.Message)
		}
	})

	t.Run("missing aws cli is an error", func(t *testing.T) {
		stubLookPath(t, map[string]bool{})
		mock := &MockExecutor{}
		res := testRepoManager(mock).EnsureRepository("myapp", "")

		if !res.IsError() {
			t.Fatal("expected error")
		}
		if len(mock.Commands) != 0 {
			t.Errorf("expected no commands, got %v", mock.Commands)
		}
	})

	t.Run("empty app name rejected", func(t *testing.T) {
		stubLookPath(t, map[string]bool{"aws": true})
		res := testRepoManager(&MockExecutor{}).EnsureRepository("", "")
		if !res.IsError() {
			t.Fatal("expected error for empty app name")
		}
	})
}
