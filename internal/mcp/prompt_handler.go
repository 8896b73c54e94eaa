package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/prompt-lab/internal/llm"
	"github.com/giantswarm/prompt-lab/internal/prompt"
	"github.com/giantswarm/prompt-lab/internal/server"
)

func registerPromptTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_techniques
	listTool := mcp.NewTool("list_techniques",
		mcp.WithDescription("List the prompting techniques the harness can render"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListTechniques(ctx, request, sc)
	})

	// generate
	generateTool := mcp.NewTool("generate",
		mcp.WithDescription("Render a prompting technique and send it to the model. Returns the prompt, the generated text and token usage."),
		mcp.WithString("technique",
			mcp.Required(),
			mcp.Description("Technique name (e.g. 'zero-shot', 'dynamic', 'chain-of-thought')"),
		),
		mcp.WithString("question", mcp.Description("Question or problem text (defaults to the technique's example)")),
		mcp.WithString("student_name", mcp.Description("Student name for the dynamic technique")),
		mcp.WithString("subject", mcp.Description("Subject for the dynamic technique")),
		mcp.WithString("level", mcp.Description("Learner level for the dynamic technique")),
		mcp.WithString("topic", mcp.Description("Topic for the dynamic technique")),
		mcp.WithString("role", mcp.Description("Role for the framed technique")),
		mcp.WithString("task", mcp.Description("Task for the framed technique")),
		mcp.WithString("format", mcp.Description("Answer format for the framed technique")),
		mcp.WithArray("constraints",
			mcp.Description("Constraints for the framed technique"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("temperature", mcp.Description("Sampling temperature in [0, 2]")),
		mcp.WithNumber("top_p", mcp.Description("Nucleus sampling threshold in [0, 1]")),
		mcp.WithNumber("top_k", mcp.Description("Top-k sampling, positive integer")),
		mcp.WithNumber("max_output_tokens", mcp.Description("Maximum output tokens, positive integer")),
		mcp.WithArray("stop_sequences",
			mcp.Description("Stop sequences; overrides the server default"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(generateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerate(ctx, request, sc)
	})

	return nil
}

func handleListTechniques(_ context.Context, _ mcp.CallToolRequest, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	type techniqueInfo struct {
		Name        string `json:"name"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	var out []techniqueInfo
	for _, t := range prompt.Techniques() {
		out = append(out, techniqueInfo{Name: t.Name, Title: t.Title, Description: t.Description})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal techniques: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGenerate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.LLMClient == nil {
		return mcp.NewToolResultError("LLM client is not configured"), nil
	}

	args := request.GetArguments()

	name, ok := args["technique"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("technique is required"), nil
	}
	tech, err := prompt.Lookup(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := prompt.Params{}
	params.Question, _ = args["question"].(string)
	params.StudentName, _ = args["student_name"].(string)
	params.Subject, _ = args["subject"].(string)
	params.Level, _ = args["level"].(string)
	params.Topic, _ = args["topic"].(string)
	params.Role, _ = args["role"].(string)
	params.Task, _ = args["task"].(string)
	params.Format, _ = args["format"].(string)
	if raw, ok := args["constraints"]; ok {
		constraints, err := stringSlice(raw, "constraints")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		params.Constraints = constraints
	}

	text, err := tech.Render(params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render prompt: %v", err)), nil
	}

	cfg, err := configFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := sc.LLMClient.Generate(ctx, llm.Request{
		Model:  sc.Model,
		Prompt: text,
		Config: sc.Config.Merge(cfg),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	result := map[string]interface{}{
		"technique": tech.Name,
		"prompt":    text,
		"text":      resp.Text,
		"usage":     resp.Usage,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// configFromArgs reads optional generation knobs. Range checks are left to
// the client, which rejects bad values before dispatch.
func configFromArgs(args map[string]interface{}) (llm.GenerationConfig, error) {
	var cfg llm.GenerationConfig
	if v, ok := args["temperature"].(float64); ok {
		cfg.Temperature = llm.Float64Ptr(v)
	}
	if v, ok := args["top_p"].(float64); ok {
		cfg.TopP = llm.Float64Ptr(v)
	}
	if v, ok := args["top_k"].(float64); ok {
		cfg.TopK = llm.IntPtr(int(v))
	}
	if v, ok := args["max_output_tokens"].(float64); ok {
		cfg.MaxOutputTokens = llm.IntPtr(int(v))
	}
	if raw, ok := args["stop_sequences"]; ok {
		stops, err := stringSlice(raw, "stop_sequences")
		if err != nil {
			return cfg, err
		}
		cfg.StopSequences = stops
	}
	return cfg, nil
}

func stringSlice(raw interface{}, name string) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", name)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", name)
		}
		out = append(out, s)
	}
	return out, nil
}
