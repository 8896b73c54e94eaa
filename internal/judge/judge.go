// Package judge asks a model to compare an answer with the expected answer
// and turns its free-text reply into a verdict.
package judge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giantswarm/prompt-lab/internal/llm"
)

// DefaultPassThreshold is the lowest score mapped to OutcomeMatch.
const DefaultPassThreshold = 4

// Config holds judge configuration.
type Config struct {
	Mode          Mode
	Model         string // empty uses the client default
	PassThreshold int
}

// Judge evaluates answers using an LLM.
type Judge struct {
	client llm.Client
	config Config
}

// New creates a Judge, filling zero config values with defaults.
func New(client llm.Client, config Config) *Judge {
	if config.Mode == "" {
		config.Mode = ModeBinary
	}
	if config.PassThreshold < MinScore || config.PassThreshold > MaxScore {
		config.PassThreshold = DefaultPassThreshold
	}
	return &Judge{client: client, config: config}
}

// Mode returns the configured judge mode.
func (j *Judge) Mode() Mode {
	return j.config.Mode
}

// Evaluate makes one judge call. Only transport failures are returned as
// errors; an unreadable reply yields an indeterminate verdict.
func (j *Judge) Evaluate(ctx context.Context, question, expected, answer string) (Verdict, error) {
	resp, err := j.client.Generate(ctx, llm.Request{
		Model:         j.config.Model,
		SystemMessage: instructions(j.config.Mode),
		Prompt:        BuildPrompt(question, expected, answer),
		Config: llm.GenerationConfig{
			Temperature:   llm.Float64Ptr(0),
			StopSequences: []string{},
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("judge call failed: %w", err)
	}

	v := Parse(j.config.Mode, resp.Text, j.config.PassThreshold)
	if v.Outcome == OutcomeIndeterminate {
		slog.Warn("could not parse judge verdict", "mode", j.config.Mode, "raw", resp.Text, "reason", v.Reason)
	}
	return v, nil
}
