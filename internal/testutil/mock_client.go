// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"sync"

	"github.com/giantswarm/prompt-lab/internal/llm"
)

// MockClient is a configurable mock for llm.Client used across test packages.
type MockClient struct {
	mu sync.Mutex

	// Responses maps prompts to canned responses.
	Responses map[string]string

	// Errors maps prompts to errors returned instead of a response.
	Errors map[string]error

	// DefaultResponse is returned when no matching key is found in Responses.
	DefaultResponse string

	// Usage is attached to every response. Nil simulates missing metadata.
	Usage *llm.Usage

	// Requests records every Generate call in order.
	Requests []llm.Request
}

func (m *MockClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if err, ok := m.Errors[req.Prompt]; ok {
		return nil, err
	}

	text := "mock response"
	if resp, ok := m.Responses[req.Prompt]; ok {
		text = resp
	} else if m.DefaultResponse != "" {
		text = m.DefaultResponse
	}

	return &llm.Response{Text: text, Model: req.Model, Usage: m.Usage}, nil
}

// Calls returns the number of Generate invocations.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Prompts returns the prompts of all recorded requests in call order.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Requests))
	for _, r := range m.Requests {
		out = append(out, r.Prompt)
	}
	return out
}
