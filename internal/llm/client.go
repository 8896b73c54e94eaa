package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a generation config is out of range.
	ErrInvalidConfig = errors.New("invalid generation config")
	// ErrMissingAPIKey is returned by client constructors when no API key is set.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrEmptyPrompt is returned when a request carries no prompt text.
	ErrEmptyPrompt = errors.New("prompt must not be empty")
	// ErrEmptyResponse is returned when the service answered without any text.
	ErrEmptyResponse = errors.New("no text returned")
)

// Client abstracts a remote text-generation API.
type Client interface {
	// Generate submits a prompt and returns the generated text.
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request is a single generation request.
type Request struct {
	Model         string
	SystemMessage string
	Prompt        string
	Config        GenerationConfig
}

// Usage holds token counters reported by the service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CandidatesTokens int `json:"candidates_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response holds the result of a generation call.
// Usage is nil when the service did not report token counts.
type Response struct {
	Text  string
	Model string
	Usage *Usage
}

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// New creates a client for the named provider.
func New(ctx context.Context, provider string, opts ...Option) (Client, error) {
	switch provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, opts...)
	case ProviderOpenAI:
		return NewOpenAIClient(opts...)
	default:
		return nil, &UnsupportedProviderError{Name: provider}
	}
}

// UnsupportedProviderError is returned when an unknown provider is requested.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return "unsupported provider: " + e.Name
}

// prepare applies client defaults and validates the request. It runs before
// anything is sent over the network.
func prepare(req Request, model string, defaults GenerationConfig) (Request, error) {
	if req.Prompt == "" {
		return req, ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = model
	}
	req.Config = defaults.Merge(req.Config)
	if err := req.Config.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// finish rejects empty output and truncates at stop sequences.
func finish(text string, req Request, usage *Usage) (*Response, error) {
	if text == "" {
		return nil, fmt.Errorf("model %s: %w", req.Model, ErrEmptyResponse)
	}
	return &Response{
		Text:  TruncateAtStop(text, req.Config.StopSequences),
		Model: req.Model,
		Usage: usage,
	}, nil
}
