package server

import (
	"github.com/giantswarm/prompt-lab/internal/llm"
)

// ServerContext holds shared dependencies for MCP tool handlers.
type ServerContext struct {
	LLMClient   llm.Client
	Model       string               // default model for generate calls (optional)
	Config      llm.GenerationConfig // generation config applied to every call
	OutputDir   string
	DatasetsDir string // external datasets directory (optional)
}
