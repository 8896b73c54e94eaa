package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// RetryConfig bounds the retry loop of a RetryingClient.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns three attempts starting at 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// RetryingClient wraps a Client with bounded exponential backoff.
type RetryingClient struct {
	inner Client
	cfg   RetryConfig
}

// NewRetryingClient wraps inner. Zero fields in cfg fall back to defaults.
func NewRetryingClient(inner Client, cfg RetryConfig) *RetryingClient {
	def := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	return &RetryingClient{inner: inner, cfg: cfg}
}

// Generate calls the wrapped client until it succeeds, fails permanently or
// runs out of attempts.
func (c *RetryingClient) Generate(ctx context.Context, req Request) (*Response, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxInterval = c.cfg.MaxInterval

	attempt := 0
	op := func() (*Response, error) {
		attempt++
		resp, err := c.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if isPermanent(err) {
			return nil, backoff.Permanent(err)
		}
		slog.Warn("generation attempt failed",
			"attempt", attempt,
			"max_attempts", c.cfg.MaxAttempts,
			"error", err,
		)
		return nil, err
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
	)
}

// isPermanent reports whether err cannot be fixed by trying again.
func isPermanent(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrEmptyPrompt),
		errors.Is(err, ErrMissingAPIKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return isPermanentStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return isPermanentStatus(reqErr.HTTPStatusCode)
	}
	// genai returns APIError by value.
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return isPermanentStatus(gErr.Code)
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) {
		return isPermanentStatus(gErrPtr.Code)
	}
	return false
}

func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}
