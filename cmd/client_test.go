package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/prompt-lab/internal/llm"
)

func parseClientFlags(t *testing.T, args ...string) *clientFlags {
	t.Helper()
	var f clientFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return &f
}

func TestClientFlagsDefaults(t *testing.T) {
	f := parseClientFlags(t)
	assert.Equal(t, llm.DefaultGenerationConfig(), f.generationConfig())
	assert.Equal(t, llm.ProviderGemini, f.provider)
}

func TestClientFlagsOverrides(t *testing.T) {
	f := parseClientFlags(t, "--temperature", "0.2", "--top-k", "10", "--stop", "END", "--stop", "STOP")
	cfg := f.generationConfig()
	assert.Equal(t, 0.2, *cfg.Temperature)
	assert.Equal(t, 10, *cfg.TopK)
	assert.Equal(t, []string{"END", "STOP"}, cfg.StopSequences)
}

func TestClientFlagsEmptyStopDisablesStops(t *testing.T) {
	f := parseClientFlags(t, "--stop=")
	assert.Empty(t, f.generationConfig().StopSequences)
	assert.Equal(t, "", firstStop(f.stop))
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-env")
	t.Setenv("OPENAI_API_KEY", "openai-env")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"gemini from env", nil, "gemini-env"},
		{"openai from env", []string{"--provider", "openai"}, "openai-env"},
		{"flag wins", []string{"--api-key", "from-flag"}, "from-flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseClientFlags(t, tt.args...).resolveAPIKey())
		})
	}
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := parseClientFlags(t).newClient(context.Background())
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestNewClientInvalidConfig(t *testing.T) {
	_, err := parseClientFlags(t, "--api-key", "k", "--top-p", "3").newClient(context.Background())
	assert.ErrorIs(t, err, llm.ErrInvalidConfig)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROMPT_LAB_TEST_KEY=from-file\n"), 0o600))

	t.Setenv("PROMPT_LAB_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("PROMPT_LAB_TEST_KEY"))

	require.NoError(t, loadEnvFile(path, true))
	assert.Equal(t, "from-file", os.Getenv("PROMPT_LAB_TEST_KEY"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.env")
	assert.NoError(t, loadEnvFile(missing, false))
	assert.Error(t, loadEnvFile(missing, true))
	assert.NoError(t, loadEnvFile("", true))
}
