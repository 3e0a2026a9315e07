package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"finch-mcp/internal/finch"
)

const serverName = "finch-mcp-server"

// Server hosts the MCP tool surface over stdio. All logging goes to the
// injected logger; stdout belongs to the protocol.
type Server struct {
	ops     *finch.Ops
	logger  *zap.Logger
	version string
}

// New creates an MCP server around the given operations.
func New(ops *finch.Ops, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ops: ops, logger: logger, version: version}
}

// Run registers the tools and serves MCP over stdio until ctx is cancelled
// or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	impl := &mcp.Implementation{Name: serverName, Version: s.version}
	srv := mcp.NewServer(impl, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "build_container_image",
		Description: "Build a container image from a Dockerfile using Finch. Ensures the Finch VM is running and configures ECR login when the Dockerfile references ECR.",
	}, s.handleBuild)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "push_image",
		Description: "Push a local container image to its registry. The image is retagged under its content hash before pushing, so pushes to immutable-tag repositories always succeed.",
	}, s.handlePush)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_ecr_repo",
		Description: "Ensure an Amazon ECR repository exists, creating it with scan-on-push and immutable tags when missing.",
	}, s.handleCreateRepo)

	s.logger.Info("starting mcp server", zap.String("version", s.version))
	return srv.Run(ctx, &mcp.StdioTransport{})
}
