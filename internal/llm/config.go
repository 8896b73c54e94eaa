package llm

import (
	"fmt"
	"strings"
)

// Defaults used by the demo and evaluation commands.
const (
	DefaultGeminiModel     = "gemini-1.5-flash"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 500
	DefaultTopP            = 0.85
	DefaultTopK            = 40
	DefaultStopSequence    = "###"
)

// GenerationConfig holds sampling knobs. Nil fields are left to the service.
type GenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty"`
	TopP            *float64 `json:"top_p,omitempty"`
	TopK            *int     `json:"top_k,omitempty"`
	StopSequences   []string `json:"stop_sequences,omitempty"`
}

// DefaultGenerationConfig returns the config the harness ships with.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     Float64Ptr(DefaultTemperature),
		MaxOutputTokens: IntPtr(DefaultMaxOutputTokens),
		TopP:            Float64Ptr(DefaultTopP),
		TopK:            IntPtr(DefaultTopK),
		StopSequences:   []string{DefaultStopSequence},
	}
}

// Validate checks every set field against its documented range.
func (c GenerationConfig) Validate() error {
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("%w: temperature %v not in [0, 2]", ErrInvalidConfig, *c.Temperature)
	}
	if c.MaxOutputTokens != nil && *c.MaxOutputTokens <= 0 {
		return fmt.Errorf("%w: max_output_tokens must be positive, got %d", ErrInvalidConfig, *c.MaxOutputTokens)
	}
	if c.TopP != nil && (*c.TopP < 0 || *c.TopP > 1) {
		return fmt.Errorf("%w: top_p %v not in [0, 1]", ErrInvalidConfig, *c.TopP)
	}
	if c.TopK != nil && *c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidConfig, *c.TopK)
	}
	for i, s := range c.StopSequences {
		if s == "" {
			return fmt.Errorf("%w: stop_sequences[%d] is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Merge returns c with every field set in override replacing its own.
func (c GenerationConfig) Merge(override GenerationConfig) GenerationConfig {
	out := c
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.MaxOutputTokens != nil {
		out.MaxOutputTokens = override.MaxOutputTokens
	}
	if override.TopP != nil {
		out.TopP = override.TopP
	}
	if override.TopK != nil {
		out.TopK = override.TopK
	}
	if override.StopSequences != nil {
		out.StopSequences = override.StopSequences
	}
	return out
}

// TruncateAtStop cuts text at the earliest occurrence of any stop sequence.
func TruncateAtStop(text string, stops []string) string {
	cut := len(text)
	for _, s := range stops {
		if s == "" {
			continue
		}
		if i := strings.Index(text, s); i >= 0 && i < cut {
			cut = i
		}
	}
	return text[:cut]
}
