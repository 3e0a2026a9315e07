package finch

import (
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// repositoryNotFoundMarker is the AWS error code printed to stderr when a
// describe call targets a repository that does not exist.
const repositoryNotFoundMarker = "RepositoryNotFoundException"

// Repository creation defaults. New repositories scan images on push and
// refuse tag overwrites; hash-derived tags make immutability safe.
const (
	repoScanOnPush    = "scanOnPush=true"
	repoTagMutability = "IMMUTABLE"
)

// RepositoryManager ensures ECR repositories exist, via the aws CLI.
type RepositoryManager struct {
	aws    *CLIClient
	logger *zap.Logger
}

// NewRepositoryManager creates a repository manager backed by the aws CLI.
func NewRepositoryManager(aws *CLIClient, logger *zap.Logger) *RepositoryManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryManager{aws: aws, logger: logger}
}

// EnsureRepository checks whether the named ECR repository exists and
// creates it if not. Region is optional; when empty the aws CLI resolves it
// from its own configuration. The result carries the repository URI and an
// exists extra distinguishing found from created.
func (m *RepositoryManager) EnsureRepository(appName, region string) *Result {
	if appName == "" {
		return Errorf("App name is required.")
	}
	if !m.aws.Installed() {
		return Errorf("AWS CLI is not installed or not on PATH.")
	}

	describeArgs := []string{"ecr", "describe-repositories", "--repository-names", appName}
	describeArgs = appendRegion(describeArgs, region)
	describe := m.aws.Exec(describeArgs)

	if describe.Succeeded() {
		uri, err := repositoryURI(describe.Stdout, "repositories")
		if err != nil {
			return Errorf("Failed to parse describe-repositories output: %v", err)
		}
		m.logger.Info("ecr repository exists",
			zap.String("app_name", appName),
			zap.String("repository_uri", uri))
		return Successf("ECR repository %s already exists.", appName).
			With(ExtraRepositoryURI, uri).
			With(ExtraExists, true)
	}

	if !strings.Contains(describe.Stderr, repositoryNotFoundMarker) {
		return Errorf("Error checking ECR repository: %s", strings.TrimSpace(describe.Stderr)).
			With(ExtraStderr, describe.Stderr)
	}

	createArgs := []string{
		"ecr", "create-repository",
		"--repository-name", appName,
		"--image-scanning-configuration", repoScanOnPush,
		"--image-tag-mutability", repoTagMutability,
	}
	createArgs = appendRegion(createArgs, region)
	create := m.aws.Exec(createArgs)
	if !create.Succeeded() {
		return Errorf("Failed to create ECR repository: %s", strings.TrimSpace(create.Stderr)).
			With(ExtraStderr, create.Stderr)
	}

	uri, err := repositoryURI(create.Stdout, "repository")
	if err != nil {
		return Errorf("Failed to parse create-repository output: %v", err)
	}
	m.logger.Info("created ecr repository",
		zap.String("app_name", appName),
		zap.String("repository_uri", uri))
	return Successf("Created ECR repository %s.", appName).
		With(ExtraRepositoryURI, uri).
		With(ExtraExists, false)
}

func appendRegion(args []string, region string) []string {
	if region != "" {
		return append(args, "--region", region)
	}
	return args
}

// repositoryURI extracts repositoryUri from aws ecr JSON output. The key
// selects the envelope: describe-repositories wraps a list under
// "repositories", create-repository a single object under "repository".
func repositoryURI(stdout, key string) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		return "", err
	}

	type repo struct {
		RepositoryURI string `json:"repositoryUri"`
	}

	if key == "repositories" {
		var repos []repo
		if err := json.Unmarshal(doc[key], &repos); err != nil {
			return "", err
		}
		if len(repos) == 0 {
			return "", errors.New("empty repository list")
		}
		return repos[0].RepositoryURI, nil
	}

	var r repo
	if err := json.Unmarshal(doc[key], &r); err != nil {
		return "", err
	}
	return r.RepositoryURI, nil
}
