package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"finch-mcp/internal/finch"
)

// toToolResult maps an operation result onto the wire shape. Only the
// allowlisted extras cross the boundary; stdout/stderr stay in the log.
func toToolResult(res *finch.Result) ToolResult {
	out := ToolResult{Status: res.Status, Message: res.Message}
	if uri := res.String(finch.ExtraRepositoryURI); uri != "" {
		out.RepositoryURI = uri
	}
	if _, ok := res.Extra[finch.ExtraExists]; ok {
		exists := res.Bool(finch.ExtraExists)
		out.Exists = &exists
	}
	return out
}

// recoverToResult converts a panic into an error ToolResult so a fault in
// any operation degrades to a structured response instead of killing the
// server.
func (s *Server) recoverToResult(action string, out *ToolResult) {
	if r := recover(); r != nil {
		s.logger.Error("unexpected fault", zap.String("action", action), zap.Any("panic", r))
		*out = ToolResult{
			Status:  finch.StatusError,
			Message: fmt.Sprintf("Unexpected error while %s: %v", action, r),
		}
	}
}

func (s *Server) handleBuild(_ context.Context, _ *mcp.CallToolRequest, in BuildImageRequest) (_ *mcp.CallToolResult, out ToolResult, _ error) {
	defer s.recoverToResult("building container image", &out)

	s.logger.Info("tool call: build_container_image",
		zap.String("dockerfile_path", in.DockerfilePath),
		zap.String("context_path", in.ContextPath),
		zap.Strings("tags", in.Tags))

	if in.Progress == "" {
		in.Progress = "auto"
	}

	res := s.ops.BuildImage(finch.BuildParams{
		DockerfilePath: in.DockerfilePath,
		ContextPath:    in.ContextPath,
		Tags:           in.Tags,
		Platforms:      in.Platforms,
		Target:         in.Target,
		NoCache:        in.NoCache,
		Pull:           in.Pull,
		BuildContexts:  in.BuildContexts,
		AddHosts:       in.AddHosts,
		Allow:          in.Allow,
		CacheFrom:      in.CacheFrom,
		CacheTo:        in.CacheTo,
		Outputs:        in.Outputs,
		Quiet:          in.Quiet,
		Progress:       in.Progress,
	})
	s.logResult("build_container_image", res)
	return nil, toToolResult(res), nil
}

func (s *Server) handlePush(_ context.Context, _ *mcp.CallToolRequest, in PushImageRequest) (_ *mcp.CallToolResult, out ToolResult, _ error) {
	defer s.recoverToResult("pushing image", &out)

	s.logger.Info("tool call: push_image", zap.String("image", in.Image))

	res := s.ops.PushImage(in.Image)
	s.logResult("push_image", res)
	return nil, toToolResult(res), nil
}

func (s *Server) handleCreateRepo(_ context.Context, _ *mcp.CallToolRequest, in CreateRepoRequest) (_ *mcp.CallToolResult, out ToolResult, _ error) {
	defer s.recoverToResult("ensuring ECR repository", &out)

	s.logger.Info("tool call: create_ecr_repo",
		zap.String("app_name", in.AppName),
		zap.String("region", in.Region))

	res := s.ops.CreateRepository(in.AppName, in.Region)
	s.logResult("create_ecr_repo", res)
	return nil, toToolResult(res), nil
}

func (s *Server) logResult(tool string, res *finch.Result) {
	if res.IsError() {
		s.logger.Error("tool failed",
			zap.String("tool", tool),
			zap.String("message", res.Message),
			zap.String("stderr", res.String(finch.ExtraStderr)))
		return
	}
	s.logger.Info("tool succeeded",
		zap.String("tool", tool),
		zap.String("message", res.Message))
}
