package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/config"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/instrumentation"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/resources"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/server"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/calendar_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/common"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/gmail_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/google_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/planner_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/secretary_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/tasks_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/team_tools"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tools/voice_tools"
)

// serveOptions holds the resolved settings for the serve command.
type serveOptions struct {
	Transport      string
	HTTPAddr       string
	MetricsAddr    string
	MetricsEnabled bool
	AuthToken      string
	Yolo           bool
	Debug          bool
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server so AI assistants can
drive the secretary: schedule meetings, summarize email, plan projects,
manage tasks and use voice I/O.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport with health endpoints

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (meeting scheduling,
  email sending, task mutation, project planning).

HTTP Transport:
  A static bearer token set via --auth-token (or JARVIS_AUTH_TOKEN)
  protects the /mcp endpoint. The /healthz and /readyz probes stay open
  so orchestrators can check the server without credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeEnvOverrides(cmd, &opts)
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.Transport, "transport", "stdio", "Transport type: stdio or streamable-http. Can also use JARVIS_TRANSPORT env var.")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport). Can also use JARVIS_HTTP_ADDR env var.")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations (meeting scheduling, email sending, task mutation). Default is read-only mode. Can also use JARVIS_YOLO env var.")
	cmd.Flags().StringVar(&opts.AuthToken, "auth-token", "", "Static bearer token required on the HTTP transport. Empty disables authentication. Can also use JARVIS_AUTH_TOKEN env var.")
	cmd.Flags().BoolVar(&opts.MetricsEnabled, "metrics-enabled", true, "Enable the Prometheus metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use JARVIS_METRICS_ADDR env var.")

	return cmd
}

// applyServeEnvOverrides fills in settings from the environment for every
// flag the user did not set explicitly on the command line.
func applyServeEnvOverrides(cmd *cobra.Command, opts *serveOptions) {
	if !cmd.Flags().Changed("transport") {
		if transport := os.Getenv("JARVIS_TRANSPORT"); transport != "" {
			opts.Transport = transport
		}
	}
	if !cmd.Flags().Changed("http-addr") {
		if addr := os.Getenv("JARVIS_HTTP_ADDR"); addr != "" {
			opts.HTTPAddr = addr
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("JARVIS_METRICS_ADDR"); addr != "" {
			opts.MetricsAddr = addr
		} else if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.MetricsAddr = addr
		}
	}
	if !cmd.Flags().Changed("metrics-enabled") {
		if raw := os.Getenv("METRICS_ENABLED"); raw != "" {
			if enabled, err := strconv.ParseBool(raw); err == nil {
				opts.MetricsEnabled = enabled
			}
		}
	}
	if !cmd.Flags().Changed("yolo") {
		if raw := os.Getenv("JARVIS_YOLO"); raw != "" {
			if yolo, err := strconv.ParseBool(raw); err == nil {
				opts.Yolo = yolo
			}
		}
	}
	if !cmd.Flags().Changed("auth-token") {
		if token := os.Getenv("JARVIS_AUTH_TOKEN"); token != "" {
			opts.AuthToken = token
		}
	}
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdio transport owns stdout for the protocol, so logs go to stderr.
	level := cfg.LogLevel()
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.Transport != "stdio" && opts.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
		serverContext.OpenAIClient().SetMetricsRecorder(provider.Metrics())
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("jarvis", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.Yolo

	// Log the mode for visibility (only for non-stdio transports)
	if opts.Transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch opts.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting jarvis MCP server with %s transport...\n", opts.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Secretary",
			register: func() error {
				return secretary_tools.RegisterSecretaryTools(mcpSrv, ctx)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Gmail",
			register: func() error {
				return gmail_tools.RegisterGmailTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Planner",
			register: func() error {
				return planner_tools.RegisterPlannerTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTaskTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Voice",
			register: func() error {
				return voice_tools.RegisterVoiceTools(mcpSrv, ctx)
			},
		},
		{
			name: "Team",
			register: func() error {
				return team_tools.RegisterTeamTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Google Auth",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Store Resources",
			register: func() error {
				return resources.RegisterStoreResources(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, opts serveOptions, logger *slog.Logger) error {
	// Track distinct clients by bearer token so idle sessions age out
	// and log lines can be correlated.
	sessions := server.NewSessionTracker(server.DefaultSessionTimeout, logger)
	defer sessions.Stop()

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.SetSessionCounter(sessions.Count)

	mux := http.NewServeMux()
	healthChecker.RegisterHealthEndpoints(mux)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
	)
	defaultAccount := sc.Config().Google.Account
	mux.Handle("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID, err := sessions.Resolve(r); err == nil {
			if sessions.Touch(sessionID) {
				logger.Info("mcp session started", "session", sessionID[:8])
			}
			logger.Debug("mcp request",
				"session", sessionID[:8],
				"method", r.Method)
		}
		// Tool handlers fall back to this account when a request
		// carries no explicit account argument.
		if defaultAccount != "" {
			r = r.WithContext(common.WithAccount(r.Context(), defaultAccount))
		}
		streamable.ServeHTTP(w, r)
	}))

	if opts.AuthToken == "" {
		log.Println("WARNING: no --auth-token set; the HTTP transport accepts unauthenticated requests")
	}

	httpServer := &http.Server{
		Addr:              opts.HTTPAddr,
		Handler:           server.BearerAuthMiddleware(opts.AuthToken, logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		log.Printf("MCP server listening on %s", opts.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down MCP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
