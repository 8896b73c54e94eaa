package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/llm"
	"github.com/giantswarm/prompt-lab/internal/server"
	"github.com/giantswarm/prompt-lab/internal/testutil"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandleListTechniques(t *testing.T) {
	result, err := handleListTechniques(context.Background(), mcp.CallToolRequest{}, &server.ServerContext{})
	require.NoError(t, err)

	var techniques []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &techniques))
	require.Len(t, techniques, 7)
	assert.Equal(t, "zero-shot", techniques[0]["name"])
	assert.Contains(t, techniques[0], "title")
	assert.Contains(t, techniques[0], "description")
}

func TestHandleGenerateNoClient(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"technique": "zero-shot"}

	result, err := handleGenerate(context.Background(), request, &server.ServerContext{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "LLM client is not configured")
}

func TestHandleGenerateMissingTechnique(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	sc := &server.ServerContext{LLMClient: &testutil.MockClient{}}
	result, err := handleGenerate(context.Background(), request, sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "technique is required")
}

func TestHandleGenerateUnknownTechnique(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"technique": "telepathy"}

	client := &testutil.MockClient{}
	result, err := handleGenerate(context.Background(), request, &server.ServerContext{LLMClient: client})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "telepathy")
	assert.Zero(t, client.Calls())
}

func TestHandleGenerate(t *testing.T) {
	client := &testutil.MockClient{
		DefaultResponse: "Gravity is the attraction between masses.",
		Usage:           &llm.Usage{PromptTokens: 10, CandidatesTokens: 8, TotalTokens: 18},
	}
	sc := &server.ServerContext{
		LLMClient: client,
		Model:     "gemini-1.5-flash",
		Config:    llm.DefaultGenerationConfig(),
	}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{
		"technique":      "zero-shot",
		"question":       "What is gravity?",
		"temperature":    0.2,
		"stop_sequences": []interface{}{"END"},
	}

	result, err := handleGenerate(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "zero-shot", out["technique"])
	assert.Contains(t, out["prompt"], "What is gravity?")
	assert.Equal(t, "Gravity is the attraction between masses.", out["text"])
	assert.NotNil(t, out["usage"])

	require.Equal(t, 1, client.Calls())
	req := client.Requests[0]
	assert.Equal(t, "gemini-1.5-flash", req.Model)
	assert.Equal(t, 0.2, *req.Config.Temperature)
	assert.Equal(t, llm.DefaultTopP, *req.Config.TopP)
	assert.Equal(t, []string{"END"}, req.Config.StopSequences)
}

func TestHandleGenerateFramedArguments(t *testing.T) {
	client := &testutil.MockClient{DefaultResponse: "- Plants make food from light."}
	sc := &server.ServerContext{LLMClient: client}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{
		"technique":   "framed",
		"role":        "Biology tutor",
		"task":        "Explain photosynthesis",
		"format":      "One bullet point",
		"constraints": []interface{}{"Use under 20 words"},
	}

	result, err := handleGenerate(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	require.Equal(t, 1, client.Calls())
	sent := client.Requests[0].Prompt
	assert.Contains(t, sent, "ROLE: Biology tutor")
	assert.Contains(t, sent, "TASK: Explain photosynthesis")
	assert.Contains(t, sent, "FORMAT: One bullet point")
	assert.Contains(t, sent, "- Use under 20 words")
	assert.NotContains(t, sent, "Physics tutor")
	assert.NotContains(t, sent, "Avoid equations")
}

func TestHandleGenerateRejectsNonStringConstraints(t *testing.T) {
	client := &testutil.MockClient{}
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{
		"technique":   "framed",
		"constraints": []interface{}{"ok", 7},
	}

	result, err := handleGenerate(context.Background(), request, &server.ServerContext{LLMClient: client})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "constraints must be an array of strings")
	assert.Zero(t, client.Calls())
}

func TestConfigFromArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		check   func(t *testing.T, cfg llm.GenerationConfig)
		wantErr bool
	}{
		{
			name: "empty",
			args: map[string]interface{}{},
			check: func(t *testing.T, cfg llm.GenerationConfig) {
				assert.Equal(t, llm.GenerationConfig{}, cfg)
			},
		},
		{
			name: "numeric knobs",
			args: map[string]interface{}{"top_p": 0.5, "top_k": float64(20), "max_output_tokens": float64(128)},
			check: func(t *testing.T, cfg llm.GenerationConfig) {
				assert.Equal(t, 0.5, *cfg.TopP)
				assert.Equal(t, 20, *cfg.TopK)
				assert.Equal(t, 128, *cfg.MaxOutputTokens)
				assert.Nil(t, cfg.Temperature)
			},
		},
		{
			name: "empty stop list clears stops",
			args: map[string]interface{}{"stop_sequences": []interface{}{}},
			check: func(t *testing.T, cfg llm.GenerationConfig) {
				assert.NotNil(t, cfg.StopSequences)
				assert.Empty(t, cfg.StopSequences)
			},
		},
		{
			name:    "non-string stop",
			args:    map[string]interface{}{"stop_sequences": []interface{}{"###", 3}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := configFromArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestHandleListDatasets(t *testing.T) {
	result, err := handleListDatasets(context.Background(), mcp.CallToolRequest{}, &server.ServerContext{})
	require.NoError(t, err)

	var datasets []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &datasets))
	require.GreaterOrEqual(t, len(datasets), 1)

	var found bool
	for _, d := range datasets {
		if d["id"] == dataset.DefaultName {
			found = true
			assert.Equal(t, "KalviMentor Basics", d["name"])
			assert.Equal(t, "binary", d["judge_mode"])
			assert.Equal(t, float64(5), d["sample_count"])
		}
	}
	assert.True(t, found)
}

func TestHandleRunEvaluationNoClient(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handleRunEvaluation(context.Background(), request, &server.ServerContext{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "LLM client is not configured")
}

func TestHandleRunEvaluationUnknownDataset(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"dataset": "nonexistent"}

	client := &testutil.MockClient{}
	result, err := handleRunEvaluation(context.Background(), request, &server.ServerContext{LLMClient: client})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "failed to load dataset")
	assert.Zero(t, client.Calls())
}

func TestHandleRunEvaluationInvalidJudgeMode(t *testing.T) {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"judge_mode": "vibes"}

	client := &testutil.MockClient{}
	result, err := handleRunEvaluation(context.Background(), request, &server.ServerContext{LLMClient: client})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Zero(t, client.Calls())
}

func TestHandleRunEvaluation(t *testing.T) {
	outputDir := t.TempDir()
	client := &testutil.MockClient{DefaultResponse: "MATCH"}
	sc := &server.ServerContext{LLMClient: client, OutputDir: outputDir}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handleRunEvaluation(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "KalviMentor Basics", out["dataset"])
	assert.Equal(t, false, out["aborted"])

	summary, ok := out["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), summary["total"])
	assert.Equal(t, float64(5), summary["match"])

	// One answer call and one judge call per sample.
	assert.Equal(t, 10, client.Calls())

	reportFile, _ := out["report_file"].(string)
	assert.FileExists(t, reportFile)
}

func TestHandleGetReportsEmptyDir(t *testing.T) {
	sc := &server.ServerContext{OutputDir: t.TempDir()}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handleGetReports(context.Background(), request, sc)
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestHandleGetReportsNonexistentDir(t *testing.T) {
	sc := &server.ServerContext{OutputDir: filepath.Join(t.TempDir(), "missing")}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{}

	result, err := handleGetReports(context.Background(), request, sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandleGetReportsSpecificRun(t *testing.T) {
	outputDir := t.TempDir()
	runDir := filepath.Join(outputDir, "basics_20260101-120000")
	require.NoError(t, os.MkdirAll(runDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(runDir, "report.json"),
		[]byte(`{"id": "basics_20260101-120000", "dataset": "basics", "judge_mode": "binary", "summary": {"total": 2, "match": 1}}`), 0o644))

	sc := &server.ServerContext{OutputDir: outputDir}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]interface{}{"run_id": "basics_20260101-120000"}

	result, err := handleGetReports(context.Background(), request, sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"dataset": "basics"`)

	// Listing picks the same run up.
	request.Params.Arguments = map[string]interface{}{}
	result, err = handleGetReports(context.Background(), request, sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "basics_20260101-120000")
}

func TestHandleGetReportsRejectsTraversal(t *testing.T) {
	sc := &server.ServerContext{OutputDir: t.TempDir()}

	tests := []string{"..", "../etc", "a/b"}
	for _, runID := range tests {
		t.Run(runID, func(t *testing.T) {
			request := mcp.CallToolRequest{}
			request.Params.Arguments = map[string]interface{}{"run_id": runID}

			result, err := handleGetReports(context.Background(), request, sc)
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "invalid run_id")
		})
	}
}
