package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client using the Google Gemini API.
type GeminiClient struct {
	client   *genai.Client
	model    string
	defaults GenerationConfig
}

// NewGeminiClient creates a new Gemini client. It fails without touching the
// network when no API key is configured.
func NewGeminiClient(ctx context.Context, opts ...Option) (*GeminiClient, error) {
	cfg, err := newClientConfig("", opts)
	if err != nil {
		return nil, err
	}
	if cfg.model == "" {
		cfg.model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:   client,
		model:    cfg.model,
		defaults: cfg.defaults,
	}, nil
}

// Generate sends a single generateContent request.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	req, err := prepare(req, c.model, c.defaults)
	if err != nil {
		return nil, err
	}

	slog.Debug("gemini generate", "model", req.Model, "prompt_len", len(req.Prompt))

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), geminiConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	return finish(geminiText(resp), req, geminiUsage(resp))
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{
		StopSequences: req.Config.StopSequences,
	}
	if req.SystemMessage != "" {
		out.SystemInstruction = genai.NewContentFromText(req.SystemMessage, genai.RoleUser)
	}
	if t := req.Config.Temperature; t != nil {
		out.Temperature = genai.Ptr(float32(*t))
	}
	if p := req.Config.TopP; p != nil {
		out.TopP = genai.Ptr(float32(*p))
	}
	if k := req.Config.TopK; k != nil {
		out.TopK = genai.Ptr(float32(*k))
	}
	if m := req.Config.MaxOutputTokens; m != nil {
		out.MaxOutputTokens = int32(*m)
	}
	return out
}

// geminiText joins the non-thought text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func geminiUsage(resp *genai.GenerateContentResponse) *Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	md := resp.UsageMetadata
	return &Usage{
		PromptTokens:     int(md.PromptTokenCount),
		CandidatesTokens: int(md.CandidatesTokenCount),
		TotalTokens:      int(md.TotalTokenCount),
	}
}
