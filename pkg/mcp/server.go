// Package mcp exposes the rendering adapter as an MCP tool server over stdio
// or SSE transports.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/diagramkit/mermaid-validator-mcp/internal/renderer"
)

// Renderer is the rendering adapter the server delegates to.
type Renderer interface {
	Render(ctx context.Context, diagram string, format renderer.Format) renderer.Outcome
}

// ServerDeps holds the dependencies for creating a Server.
type ServerDeps struct {
	Renderer Renderer
	Logger   *slog.Logger
}

// Server wraps an MCP server with the validateMermaid tool handler.
type Server struct {
	renderer  Renderer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a Server with the validateMermaid tool registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &Server{
		renderer: deps.Renderer,
		logger:   logger,
	}

	mcpSrv := server.NewMCPServer(
		"mermaid-validator",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Use validateMermaid to check Mermaid diagram syntax. A valid diagram comes back rendered as an image; an invalid one comes back with the renderer's diagnostics so the diagram can be corrected."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or
// stdin closes. Logging must already be pointed at stderr: stdout carries
// JSON-RPC frames.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// ServeSSE starts the SSE transport on addr and blocks until ctx is
// cancelled, then shuts the HTTP server down gracefully.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", slog.String("addr", addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the registered MCP tools as ServerTool entries.
func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: validateMermaidTool(), Handler: s.handleValidateMermaid},
	}
}

func validateMermaidTool() mcp.Tool {
	return mcp.NewTool("validateMermaid",
		mcp.WithDescription("Validates a Mermaid diagram and returns it rendered as an image if the syntax is valid"),
		mcp.WithString("diagram", mcp.Required(), mcp.Description("Mermaid diagram source to validate")),
		mcp.WithString("format", mcp.Enum("svg", "png"), mcp.Description("Output image format (default: png)")),
	)
}
