package main

import (
	"context"
	"strings"

	"log/slog"
	"net/http"
	"os"
	"time"

	"adte.com/adte/tv-agent/internal/auth"
	"adte.com/adte/tv-agent/internal/backend"
	"adte.com/adte/tv-agent/internal/config"
	httpHandlers "adte.com/adte/tv-agent/internal/http"
	mcpHandlers "adte.com/adte/tv-agent/internal/mcp"
	"adte.com/adte/tv-agent/internal/middleware"
	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	config, err := config.NewConfig()
	if err != nil {
		logs := slog.New(slog.NewTextHandler(os.Stdout, nil))
		logs.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch strings.ToLower(config.Log.Level) {
	case "trace":
		logLevel = slog.LevelDebug - 4
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	}))
	slog.SetDefault(logger)

	// The forwarder: base address injected here, never read from a global.
	client := backend.New(config.BackendBaseURL)

	// Start MCP server in background
	if config.MCP.Enabled {
		startMCPServer(client, logger, config.MCP.Transport)
	}

	// Start HTTP server
	startHTTPServer(client, logger, config)
}

func startMCPServer(client *backend.Client, logger *slog.Logger, transport string) {
	impl := &mcpSdk.Implementation{
		Name:    "ADCP TV Agent",
		Version: "0.1.0",
	}
	mcpServer := mcpSdk.NewServer(impl, nil)

	// Register tools, resources and prompts
	mcpHandler := mcpHandlers.NewMCPHandler(client)
	mcpHandler.RegisterTools(mcpServer)
	mcpHandler.RegisterResources(mcpServer)
	mcpHandler.RegisterPrompts(mcpServer)

	// Start MCP server in goroutine
	go func() {
		ctx := context.Background()
		logger.Info("Starting MCP server", "transport", transport)

		var mcpTransport mcpSdk.Transport
		switch transport {
		case "stdio":
			mcpTransport = &mcpSdk.StdioTransport{}
		default:
			logger.Error("unsupported MCP transport", "transport", transport)
			return
		}

		if err := mcpServer.Run(ctx, mcpTransport); err != nil {
			logger.Error("MCP server error", "error", err)
		}
	}()
}

func startHTTPServer(client *backend.Client, logger *slog.Logger, config *config.Config) {
	// Initialize API key store with test keys
	apiKeyStore := auth.InitializeDefaultAPIKeys()

	// Add the configured API key from the environment if available
	if config.ApiKey != "" {
		apiKeyStore.AddKey(config.ApiKey, &auth.Principal{
			PrincipalID: "principal_env",
			Permissions: map[string][]auth.Permission{
				"products":   {auth.PermissionRead},
				"media_buys": {auth.PermissionRead, auth.PermissionWrite},
				"signals":    {auth.PermissionRead, auth.PermissionWrite},
				"creatives":  {auth.PermissionRead, auth.PermissionWrite},
				"reports":    {auth.PermissionRead, auth.PermissionWrite},
			},
		})
	}

	// Create HTTP handlers
	httpHandler := httpHandlers.NewHTTPHandler(client, logger)

	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			httpHandler.RootHandler(w, r)
		case r.URL.Path == "/health":
			httpHandler.HealthHandler(w, r)
		case strings.HasPrefix(r.URL.Path, "/call/"):
			httpHandler.CallHandler(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	// Setup middleware
	limiterStore := middleware.NewRateLimiterStore(10, 20, 10*time.Minute)

	// Paths that don't require authentication: discovery and liveness only.
	// Every /call/* operation needs a principal.
	publicPaths := []string{
		"/",
		"/health",
	}

	authMiddleware := middleware.ExcludePathsMiddleware(
		middleware.UnifiedAuthMiddleware(config.JwtSecretKey, apiKeyStore, logger),
		publicPaths,
	)

	handler := middleware.LoggingMiddleware(logger)(
		middleware.CORSMiddleware(
			authMiddleware(
				middleware.RateLimitMiddleware(limiterStore)(
					middleware.LimitBodySize(1 << 20)(mux),
				),
			),
		),
	)

	// Start the HTTP server
	logger.Info("TV Agent service is running",
		"address", config.HttpAddress,
		"backend", config.BackendBaseURL,
		"mcp_enabled", config.MCP.Enabled)

	if err := http.ListenAndServe(config.HttpAddress, handler); err != nil {
		logger.Error("server shutdown", "error", err)
	}
}
