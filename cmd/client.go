package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/prompt-lab/internal/llm"
)

// clientFlags are the generation flags shared by every command that talks
// to a model.
type clientFlags struct {
	provider        string
	model           string
	apiKey          string
	endpoint        string
	temperature     float64
	maxOutputTokens int
	topP            float64
	topK            int
	stop            []string
	maxRetries      int
	timeout         time.Duration
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", llm.ProviderGemini, "Model provider: gemini or openai")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (default depends on the provider)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "API base URL override")
	cmd.Flags().Float64Var(&f.temperature, "temperature", llm.DefaultTemperature, "Sampling temperature in [0, 2]")
	cmd.Flags().IntVar(&f.maxOutputTokens, "max-output-tokens", llm.DefaultMaxOutputTokens, "Maximum output tokens")
	cmd.Flags().Float64Var(&f.topP, "top-p", llm.DefaultTopP, "Nucleus sampling threshold in [0, 1]")
	cmd.Flags().IntVar(&f.topK, "top-k", llm.DefaultTopK, "Top-k sampling")
	cmd.Flags().StringSliceVar(&f.stop, "stop", []string{llm.DefaultStopSequence}, "Stop sequences (repeatable; pass --stop= to disable)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", llm.DefaultRetryConfig().MaxAttempts, "Attempts per model call, including the first")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Overall timeout for the command (e.g. 30s, 5m). 0 means no timeout")
}

// generationConfig returns the flag values as a config. Validation happens
// in the client constructor.
func (f *clientFlags) generationConfig() llm.GenerationConfig {
	stops := make([]string, 0, len(f.stop))
	for _, s := range f.stop {
		if s != "" {
			stops = append(stops, s)
		}
	}
	return llm.GenerationConfig{
		Temperature:     llm.Float64Ptr(f.temperature),
		MaxOutputTokens: llm.IntPtr(f.maxOutputTokens),
		TopP:            llm.Float64Ptr(f.topP),
		TopK:            llm.IntPtr(f.topK),
		StopSequences:   stops,
	}
}

// resolveAPIKey prefers the flag, then the provider's environment variable.
func (f *clientFlags) resolveAPIKey() string {
	if f.apiKey != "" {
		return f.apiKey
	}
	switch f.provider {
	case llm.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

// newClient builds the retrying client. It fails before any network call
// when the key is missing or the config is out of range.
func (f *clientFlags) newClient(ctx context.Context) (llm.Client, error) {
	opts := []llm.Option{
		llm.WithAPIKey(f.resolveAPIKey()),
		llm.WithGenerationConfig(f.generationConfig()),
	}
	if f.endpoint != "" {
		opts = append(opts, llm.WithBaseURL(f.endpoint))
	}
	if f.model != "" {
		opts = append(opts, llm.WithModel(f.model))
	}

	client, err := llm.New(ctx, f.provider, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", f.provider, err)
	}

	retry := llm.DefaultRetryConfig()
	retry.MaxAttempts = f.maxRetries
	return llm.NewRetryingClient(client, retry), nil
}

// withTimeout applies --timeout to ctx.
func (f *clientFlags) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout > 0 {
		return context.WithTimeout(ctx, f.timeout)
	}
	return context.WithCancel(ctx)
}
