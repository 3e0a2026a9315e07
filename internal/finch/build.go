package finch

import (
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BuildParams are the inputs to an image build. Only DockerfilePath and
// ContextPath are required; every other field maps to a build flag and is
// emitted only when set.
type BuildParams struct {
	DockerfilePath string
	ContextPath    string
	Tags           []string
	Platforms      []string
	Target         string
	NoCache        bool
	Pull           bool
	BuildContexts  []string
	AddHosts       []string
	Allow          []string
	CacheFrom      []string
	CacheTo        []string
	Outputs        string
	Quiet          bool
	Progress       string
}

// buildArgs assembles the finch build argv. Flag order is fixed so the same
// params always produce the same command line. The context path goes last.
func buildArgs(p BuildParams) []string {
	repeated := func(flag string, values []string) []string {
		return lo.FlatMap(values, func(v string, _ int) []string {
			return []string{flag, v}
		})
	}

	args := []string{"build", "-f", p.DockerfilePath}
	args = append(args, repeated("-t", p.Tags)...)
	args = append(args, repeated("--platform", p.Platforms)...)
	if p.Target != "" {
		args = append(args, "--target", p.Target)
	}
	if p.NoCache {
		args = append(args, "--no-cache")
	}
	if p.Pull {
		args = append(args, "--pull")
	}
	args = append(args, repeated("--build-context", p.BuildContexts)...)
	args = append(args, repeated("--add-host", p.AddHosts)...)
	args = append(args, repeated("--allow", p.Allow)...)
	args = append(args, repeated("--cache-from", p.CacheFrom)...)
	args = append(args, repeated("--cache-to", p.CacheTo)...)
	if p.Outputs != "" {
		args = append(args, "--output", p.Outputs)
	}
	if p.Quiet {
		args = append(args, "-q")
	}
	if p.Progress != "" {
		args = append(args, "--progress", p.Progress)
	}
	return append(args, p.ContextPath)
}

// Builder runs image builds through the finch CLI.
type Builder struct {
	finch  *CLIClient
	logger *zap.Logger
}

// NewBuilder creates a builder backed by the given finch client.
func NewBuilder(finch *CLIClient, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{finch: finch, logger: logger}
}

// Build runs the image build described by params.
func (b *Builder) Build(params BuildParams) *Result {
	if params.DockerfilePath == "" {
		return Errorf("Dockerfile path is required.")
	}
	if params.ContextPath == "" {
		return Errorf("Context path is required.")
	}

	args := buildArgs(params)
	b.logger.Info("building image",
		zap.String("dockerfile", params.DockerfilePath),
		zap.String("context", params.ContextPath),
		zap.Strings("tags", params.Tags))

	res := b.finch.Exec(args)
	if !res.Succeeded() {
		return Errorf("Failed to build image: %s", strings.TrimSpace(res.Stderr)).
			With(ExtraStderr, res.Stderr)
	}
	return Successf("Successfully built image from %s.", params.DockerfilePath).
		With(ExtraStdout, res.Stdout)
}
