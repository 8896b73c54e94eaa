package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using the OpenAI-compatible chat API.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	defaults GenerationConfig
}

// NewOpenAIClient creates a new OpenAI-compatible client. The model defaults
// to DefaultOpenAIModel.
func NewOpenAIClient(opts ...Option) (*OpenAIClient, error) {
	cfg, err := newClientConfig("", opts)
	if err != nil {
		return nil, err
	}

	if cfg.model == "" {
		cfg.model = DefaultOpenAIModel
	}

	config := openai.DefaultConfig(cfg.apiKey)
	if cfg.baseURL != "" {
		config.BaseURL = cfg.baseURL
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(config),
		model:    cfg.model,
		defaults: cfg.defaults,
	}, nil
}

// Generate sends a non-streaming chat completion request.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	req, err := prepare(req, c.model, c.defaults)
	if err != nil {
		return nil, err
	}

	var messages []openai.ChatCompletionMessage
	if req.SystemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.SystemMessage,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: req.Prompt,
	})

	creq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
		Stop:     req.Config.StopSequences,
	}
	if t := req.Config.Temperature; t != nil {
		creq.Temperature = float32(*t)
	}
	if p := req.Config.TopP; p != nil {
		creq.TopP = float32(*p)
	}
	if m := req.Config.MaxOutputTokens; m != nil {
		creq.MaxTokens = *m
	}
	if req.Config.TopK != nil {
		slog.Debug("top_k is not supported by the OpenAI API, ignoring", "top_k", *req.Config.TopK)
	}

	resp, err := c.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned: %w", ErrEmptyResponse)
	}

	var usage *Usage
	if u := resp.Usage; u.PromptTokens != 0 || u.CompletionTokens != 0 || u.TotalTokens != 0 {
		usage = &Usage{
			PromptTokens:     u.PromptTokens,
			CandidatesTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}

	return finish(resp.Choices[0].Message.Content, req, usage)
}
