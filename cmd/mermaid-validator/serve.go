package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diagramkit/mermaid-validator-mcp/internal/logging"
	"github.com/diagramkit/mermaid-validator-mcp/internal/renderer"
	"github.com/diagramkit/mermaid-validator-mcp/pkg/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Starts the mermaid-validator MCP server.

Supported transports:
- stdio (default): JSON-RPC over standard input/output. Ideal for local
  process integration (e.g. agent hosts spawning the server directly).
- sse: Server-Sent Events over HTTP, for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
		c.Flags().String("addr", "", "Listen address for SSE (default from config)")
	}
}

func runServe(cmd *cobra.Command) error {
	cfg := loadConfig()
	transport, _ := cmd.Flags().GetString("transport")
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.ListenAddr
	}

	// Logs go to stderr so stdout stays clean for JSON-RPC.
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	r := renderer.New(renderer.Config{
		EnginePath:    cfg.MmdcPath,
		Timeout:       cfg.renderTimeout(),
		MaxOutputSize: cfg.MaxOutputBytes,
		Logger:        logger,
	})
	srv := mcp.NewServer(mcp.ServerDeps{
		Renderer: r,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch transport {
	case "stdio":
		logger.Info("starting mermaid-validator MCP server (stdio)",
			slog.String("mmdc", cfg.MmdcPath))
		return srv.Serve(ctx)
	case "sse":
		logger.Info("starting mermaid-validator MCP server (SSE)",
			slog.String("addr", addr),
			slog.String("mmdc", cfg.MmdcPath))
		if err := srv.ServeSSE(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(logging.NewCorrelationHandler(inner))
}
