package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GenerationConfig
		wantErr string
	}{
		{"empty config", GenerationConfig{}, ""},
		{"defaults", DefaultGenerationConfig(), ""},
		{"temperature lower bound", GenerationConfig{Temperature: Float64Ptr(0)}, ""},
		{"temperature upper bound", GenerationConfig{Temperature: Float64Ptr(2)}, ""},
		{"negative temperature", GenerationConfig{Temperature: Float64Ptr(-0.1)}, "temperature"},
		{"temperature too high", GenerationConfig{Temperature: Float64Ptr(2.5)}, "temperature"},
		{"top_p above one", GenerationConfig{TopP: Float64Ptr(1.2)}, "top_p"},
		{"negative top_p", GenerationConfig{TopP: Float64Ptr(-1)}, "top_p"},
		{"zero max tokens", GenerationConfig{MaxOutputTokens: IntPtr(0)}, "max_output_tokens"},
		{"zero top_k", GenerationConfig{TopK: IntPtr(0)}, "top_k"},
		{"empty stop sequence", GenerationConfig{StopSequences: []string{"###", ""}}, "stop_sequences[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerationConfigMerge(t *testing.T) {
	base := DefaultGenerationConfig()
	merged := base.Merge(GenerationConfig{
		TopP:          Float64Ptr(0.5),
		StopSequences: []string{"END"},
	})

	assert.Equal(t, 0.5, *merged.TopP)
	assert.Equal(t, []string{"END"}, merged.StopSequences)
	assert.Equal(t, DefaultTemperature, *merged.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, *merged.MaxOutputTokens)

	// The receiver is left alone.
	assert.Equal(t, DefaultTopP, *base.TopP)
}

func TestTruncateAtStop(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		stops []string
		want  string
	}{
		{"no stops", "hello ### world", nil, "hello ### world"},
		{"single stop", "hello ### world", []string{"###"}, "hello "},
		{"earliest of several", "a END b ### c", []string{"###", "END"}, "a "},
		{"stop absent", "hello world", []string{"###"}, "hello world"},
		{"stop at start", "###tail", []string{"###"}, ""},
		{"empty stop ignored", "hello", []string{""}, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateAtStop(tt.text, tt.stops))
		})
	}
}
