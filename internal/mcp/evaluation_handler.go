package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/prompt-lab/internal/dataset"
	"github.com/giantswarm/prompt-lab/internal/evaluation"
	"github.com/giantswarm/prompt-lab/internal/server"
)

func registerEvaluationTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// list_datasets
	listTool := mcp.NewTool("list_datasets",
		mcp.WithDescription("List available evaluation datasets with metadata"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListDatasets(ctx, request, sc)
	})

	// run_evaluation
	runTool := mcp.NewTool("run_evaluation",
		mcp.WithDescription("Answer every sample of a dataset with the model, then judge each answer against the expected answer"),
		mcp.WithString("dataset",
			mcp.Description("Dataset name (default: "+dataset.DefaultName+")"),
		),
		mcp.WithString("judge_mode",
			mcp.Description("Judge vocabulary: 'binary' (MATCH/NO_MATCH) or 'score' (1-5). Defaults to the dataset setting"),
		),
		mcp.WithBoolean("fail_fast",
			mcp.Description("Stop at the first failed sample instead of recording it and continuing"),
		),
	)
	s.AddTool(runTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunEvaluation(ctx, request, sc)
	})

	// get_reports
	reportsTool := mcp.NewTool("get_reports",
		mcp.WithDescription("Retrieve reports of past evaluation runs"),
		mcp.WithString("run_id",
			mcp.Description("Specific run ID to retrieve (optional, lists all if omitted)"),
		),
	)
	s.AddTool(reportsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetReports(ctx, request, sc)
	})

	return nil
}

func handleListDatasets(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	names, err := dataset.List(sc.DatasetsDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list datasets: %v", err)), nil
	}

	type datasetInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Version     string `json:"version"`
		JudgeMode   string `json:"judge_mode"`
		SampleCount int    `json:"sample_count"`
	}

	var out []datasetInfo
	for _, name := range names {
		ds, err := dataset.Load(name, sc.DatasetsDir)
		if err != nil {
			continue
		}
		out = append(out, datasetInfo{
			ID:          name,
			Name:        ds.Name,
			Description: ds.Description,
			Version:     ds.Version,
			JudgeMode:   ds.JudgeMode,
			SampleCount: len(ds.Samples),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal datasets: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleRunEvaluation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.LLMClient == nil {
		return mcp.NewToolResultError("LLM client is not configured"), nil
	}

	args := request.GetArguments()
	name, _ := args["dataset"].(string)

	ds, err := dataset.Load(name, sc.DatasetsDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}

	opts := evaluation.Options{
		Model:     sc.Model,
		Config:    sc.Config,
		OutputDir: sc.OutputDir,
	}
	opts.JudgeMode, _ = args["judge_mode"].(string)
	opts.FailFast, _ = args["fail_fast"].(bool)

	// Sample blocks go to the report files; stdio carries the MCP protocol.
	report, err := evaluation.NewEvaluator(sc.LLMClient, nil, opts).Run(ctx, ds)
	if err != nil && report == nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	result := map[string]interface{}{
		"run_id":      report.ID,
		"dataset":     report.Dataset,
		"judge_mode":  report.JudgeMode,
		"duration":    report.Duration.String(),
		"aborted":     report.Aborted,
		"summary":     report.Summary,
		"report_file": report.ReportFile,
	}
	if err != nil {
		result["error"] = err.Error()
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGetReports(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	runID, _ := args["run_id"].(string)

	if runID == "" {
		return listReports(sc.OutputDir)
	}

	runPath, err := resolveRunPath(sc.OutputDir, runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid run_id: %v", err)), nil
	}

	report, err := evaluation.ReadReport(joinRunFile(runPath, evaluation.ReportFileName))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run %q not found: %v", runID, err)), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func listReports(outputDir string) (*mcp.CallToolResult, error) {
	reports, err := evaluation.ListReports(outputDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type reportInfo struct {
		ID        string             `json:"id"`
		Dataset   string             `json:"dataset"`
		Timestamp string             `json:"timestamp"`
		Summary   evaluation.Summary `json:"summary"`
	}

	out := make([]reportInfo, 0, len(reports))
	for _, r := range reports {
		out = append(out, reportInfo{
			ID:        r.ID,
			Dataset:   r.Dataset,
			Timestamp: r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Summary:   r.Summary,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal reports: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
