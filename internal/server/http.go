package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	oauth "github.com/giantswarm/mcp-oauth"
	"github.com/giantswarm/mcp-oauth/providers/dex"
	oauthserver "github.com/giantswarm/mcp-oauth/server"
	"github.com/giantswarm/mcp-oauth/storage/memory"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	// An evaluation makes two model calls per sample before it responds.
	defaultWriteTimeout    = 10 * time.Minute
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// OAuthConfig enables OAuth 2.1 on the MCP endpoint using Dex as the
// identity provider.
type OAuthConfig struct {
	// BaseURL is the server's public base URL. It must be https unless it
	// points at a loopback address.
	BaseURL         string
	DexIssuerURL    string
	DexClientID     string
	DexClientSecret string
}

// FillFromEnv sets empty Dex fields from DEX_ISSUER_URL, DEX_CLIENT_ID and
// DEX_CLIENT_SECRET.
func (c *OAuthConfig) FillFromEnv() {
	if c.DexIssuerURL == "" {
		c.DexIssuerURL = os.Getenv("DEX_ISSUER_URL")
	}
	if c.DexClientID == "" {
		c.DexClientID = os.Getenv("DEX_CLIENT_ID")
	}
	if c.DexClientSecret == "" {
		c.DexClientSecret = os.Getenv("DEX_CLIENT_SECRET")
	}
}

// Validate checks that every field needed to talk to Dex is present.
func (c OAuthConfig) Validate() error {
	if err := validateHTTPSRequirement(c.BaseURL); err != nil {
		return fmt.Errorf("OAuth base URL validation failed: %w", err)
	}
	var errs []error
	if c.DexIssuerURL == "" {
		errs = append(errs, errors.New("dex issuer URL is required (--dex-issuer-url or DEX_ISSUER_URL)"))
	}
	if c.DexClientID == "" {
		errs = append(errs, errors.New("dex client ID is required (--dex-client-id or DEX_CLIENT_ID)"))
	}
	if c.DexClientSecret == "" {
		errs = append(errs, errors.New("dex client secret is required (--dex-client-secret or DEX_CLIENT_SECRET)"))
	}
	return errors.Join(errs...)
}

// HTTPServer serves the MCP streamable-http transport plus a health check,
// optionally behind OAuth token validation.
type HTTPServer struct {
	httpServer  *http.Server
	oauthServer *oauth.Server
}

// NewHTTPServer builds the routes for mcpSrv at endpoint. A nil oauthCfg
// leaves the MCP endpoint unauthenticated.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, addr, endpoint string, oauthCfg *OAuthConfig) (*HTTPServer, error) {
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(endpoint),
	)

	s := &HTTPServer{}
	mux := http.NewServeMux()

	if oauthCfg == nil {
		mux.Handle(endpoint, mcpHandler)
	} else {
		handler, err := s.setupOAuth(mux, endpoint, *oauthCfg)
		if err != nil {
			return nil, err
		}
		mux.Handle(endpoint, handler.ValidateToken(mcpHandler))
	}

	// Health check (unauthenticated).
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
	return s, nil
}

func (s *HTTPServer) setupOAuth(mux *http.ServeMux, endpoint string, cfg OAuthConfig) (*oauth.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dexProvider, err := dex.NewProvider(&dex.Config{
		IssuerURL:    cfg.DexIssuerURL,
		ClientID:     cfg.DexClientID,
		ClientSecret: cfg.DexClientSecret,
		RedirectURL:  cfg.BaseURL + "/oauth/callback",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Dex provider: %w", err)
	}

	// Tokens and clients live in memory; one instance per deployment.
	store := memory.New()
	logger := slog.Default()

	oauthSrv, err := oauth.NewServer(dexProvider, store, store, store,
		&oauthserver.Config{
			Issuer:                    cfg.BaseURL,
			AllowRefreshTokenRotation: true,
			MaxClientsPerIP:           10,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth server: %w", err)
	}
	s.oauthServer = oauthSrv

	h := oauth.NewHandler(oauthSrv, logger)
	h.RegisterAuthorizationServerMetadataRoutes(mux)
	h.RegisterProtectedResourceMetadataRoutes(mux, endpoint)
	mux.HandleFunc("/oauth/authorize", h.ServeAuthorization)
	mux.HandleFunc("/oauth/token", h.ServeToken)
	mux.HandleFunc("/oauth/callback", h.ServeCallback)
	mux.HandleFunc("/oauth/register", h.ServeClientRegistration)
	mux.HandleFunc("/oauth/revoke", h.ServeTokenRevocation)
	mux.HandleFunc("/oauth/introspect", h.ServeTokenIntrospection)

	return h, nil
}

// Handler returns the root handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	}
}

// Shutdown stops the OAuth server, if any, then the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.oauthServer != nil {
		if err := s.oauthServer.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OAuth server", "error", err)
		}
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down: %w", err)
	}
	return nil
}

// validateHTTPSRequirement allows plain http only for loopback hosts.
func validateHTTPSRequirement(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		switch u.Hostname() {
		case "localhost", "127.0.0.1", "::1":
			return nil
		}
		return fmt.Errorf("OAuth 2.1 requires HTTPS outside loopback (got: %s)", baseURL)
	default:
		return fmt.Errorf("invalid URL scheme: %s (must be http for localhost or https)", u.Scheme)
	}
}
