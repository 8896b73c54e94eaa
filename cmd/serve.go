package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcptools "github.com/giantswarm/prompt-lab/internal/mcp"
	"github.com/giantswarm/prompt-lab/internal/server"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

func newServeCmd() *cobra.Command {
	var (
		flags        clientFlags
		transport    string
		httpAddr     string
		httpEndpoint string
		outputDir    string
		datasetsDir  string

		enableOAuth bool
		oauthCfg    server.OAuthConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to expose prompt generation and evaluation tools via
the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default, for IDE integration)
  - streamable-http: HTTP with streaming support (for remote access)

When using streamable-http transport, OAuth 2.1 authentication (Dex) can be
enabled with --enable-oauth.

Without an API key the server still starts; tools that call the model then
report that no client is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs must stay off stdout, which carries the stdio protocol.
			if transport == transportStdio {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: logLevel(cmd),
				})))
			}

			sc := &server.ServerContext{
				Model:       flags.model,
				Config:      flags.generationConfig(),
				OutputDir:   outputDir,
				DatasetsDir: datasetsDir,
			}

			client, err := flags.newClient(cmd.Context())
			if err != nil {
				slog.Warn("LLM client not available", "error", err)
			} else {
				sc.LLMClient = client
			}

			mcpSrv := mcpserver.NewMCPServer("prompt-lab", rootCmd.Version,
				mcpserver.WithToolCapabilities(true),
			)

			if err := mcptools.RegisterTools(mcpSrv, sc); err != nil {
				return fmt.Errorf("failed to register MCP tools: %w", err)
			}

			shutdownCtx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			switch transport {
			case transportStdio:
				return runStdioServer(mcpSrv)
			case transportStreamableHTTP:
				var oauth *server.OAuthConfig
				if enableOAuth {
					oauthCfg.FillFromEnv()
					oauth = &oauthCfg
				}
				httpSrv, err := server.NewHTTPServer(mcpSrv, httpAddr, httpEndpoint, oauth)
				if err != nil {
					return err
				}
				fmt.Printf("Starting prompt-lab MCP server with %s transport on %s...\n", transport, httpAddr)
				fmt.Printf("  MCP endpoint: %s\n", httpEndpoint)
				fmt.Printf("  Health: /healthz\n")
				if enableOAuth {
					fmt.Printf("  OAuth: enabled (base URL %s)\n", oauthCfg.BaseURL)
				}
				return httpSrv.Run(shutdownCtx)
			default:
				return fmt.Errorf("unsupported transport: %s (supported: stdio, streamable-http)", transport)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "results", "Directory for evaluation reports")
	cmd.Flags().StringVar(&datasetsDir, "datasets-dir", "", "External datasets directory (optional)")

	cmd.Flags().BoolVar(&enableOAuth, "enable-oauth", false, "Enable OAuth 2.1 authentication (for HTTP transport)")
	cmd.Flags().StringVar(&oauthCfg.BaseURL, "oauth-base-url", "", "OAuth base URL (e.g. https://prompt-lab.example.com)")
	cmd.Flags().StringVar(&oauthCfg.DexIssuerURL, "dex-issuer-url", "", "Dex OIDC issuer URL")
	cmd.Flags().StringVar(&oauthCfg.DexClientID, "dex-client-id", "", "Dex OAuth client ID")
	cmd.Flags().StringVar(&oauthCfg.DexClientSecret, "dex-client-secret", "", "Dex OAuth client secret")

	return cmd
}

func logLevel(cmd *cobra.Command) slog.Level {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
