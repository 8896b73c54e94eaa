// Package generator wraps an llm.Client with per-call token usage reporting.
package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/giantswarm/prompt-lab/internal/llm"
)

// UsageUnavailable is printed when a response carries no token counts.
const UsageUnavailable = "Token usage metadata not available."

// Generator submits prompts and prints a usage line after every call.
type Generator struct {
	client llm.Client
	out    io.Writer
}

// NewGenerator creates a Generator that reports usage to out.
func NewGenerator(client llm.Client, out io.Writer) *Generator {
	if out == nil {
		out = io.Discard
	}
	return &Generator{client: client, out: out}
}

// Generate sends req and prints one usage line. The response text is returned
// as received, whether or not usage metadata was present.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := g.client.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Usage == nil {
		slog.Warn("token usage metadata not available", "model", resp.Model)
	} else {
		slog.Debug("token usage",
			"model", resp.Model,
			"prompt_tokens", resp.Usage.PromptTokens,
			"candidates_tokens", resp.Usage.CandidatesTokens,
			"total_tokens", resp.Usage.TotalTokens,
		)
	}
	fmt.Fprintf(g.out, "%s\n\n", FormatUsage(resp.Usage))

	return resp, nil
}

// GeneratePrompt is a shorthand for Generate with only a prompt set.
func (g *Generator) GeneratePrompt(ctx context.Context, prompt string) (*llm.Response, error) {
	return g.Generate(ctx, llm.Request{Prompt: prompt})
}

// FormatUsage renders the one-line usage summary.
func FormatUsage(u *llm.Usage) string {
	if u == nil {
		return UsageUnavailable
	}
	return fmt.Sprintf("Tokens Used - Prompt: %d, Candidates: %d, Total: %d",
		u.PromptTokens, u.CandidatesTokens, u.TotalTokens)
}
