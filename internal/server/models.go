// Package server exposes finch operations as MCP tools over stdio.
package server

// BuildImageRequest are the inputs to the build_container_image tool.
type BuildImageRequest struct {
	DockerfilePath string   `json:"dockerfile_path" jsonschema:"Absolute path to the Dockerfile"`
	ContextPath    string   `json:"context_path" jsonschema:"Absolute path to the build context directory"`
	Tags           []string `json:"tags,omitempty" jsonschema:"Tags to apply to the built image"`
	Platforms      []string `json:"platforms,omitempty" jsonschema:"Target platforms, e.g. linux/amd64"`
	Target         string   `json:"target,omitempty" jsonschema:"Build stage to target in a multi-stage Dockerfile"`
	NoCache        bool     `json:"no_cache,omitempty" jsonschema:"Disable the build cache"`
	Pull           bool     `json:"pull,omitempty" jsonschema:"Always pull base images"`
	BuildContexts  []string `json:"build_contexts,omitempty" jsonschema:"Additional named build contexts as name=path"`
	AddHosts       []string `json:"add_hosts,omitempty" jsonschema:"Custom host-to-IP mappings as host:ip"`
	Allow          []string `json:"allow,omitempty" jsonschema:"Extra privileged entitlements for the build"`
	CacheFrom      []string `json:"cache_from,omitempty" jsonschema:"External cache sources"`
	CacheTo        []string `json:"cache_to,omitempty" jsonschema:"External cache destinations"`
	Outputs        string   `json:"outputs,omitempty" jsonschema:"Output destination, e.g. type=docker"`
	Quiet          bool     `json:"quiet,omitempty" jsonschema:"Suppress build output"`
	Progress       string   `json:"progress,omitempty" jsonschema:"Progress output style: auto, plain, or tty"`
}

// PushImageRequest are the inputs to the push_image tool.
type PushImageRequest struct {
	Image string `json:"image" jsonschema:"Image reference to push, e.g. 123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp:latest"`
}

// CreateRepoRequest are the inputs to the create_ecr_repo tool.
type CreateRepoRequest struct {
	AppName string `json:"app_name" jsonschema:"Name of the ECR repository to ensure"`
	Region  string `json:"region,omitempty" jsonschema:"AWS region; defaults to the AWS CLI configuration"`
}

// ToolResult is the wire-level outcome of every tool. Status is always
// success or error and message is always present; the remaining fields
// appear only for create_ecr_repo. Raw command output never crosses the
// tool boundary.
type ToolResult struct {
	Status        string `json:"status" jsonschema:"success or error"`
	Message       string `json:"message" jsonschema:"Human-readable outcome description"`
	RepositoryURI string `json:"repository_uri,omitempty" jsonschema:"URI of the repository, when one was found or created"`
	Exists        *bool  `json:"exists,omitempty" jsonschema:"True when the repository already existed"`
}
