package mcp

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/diagramkit/mermaid-validator-mcp/internal/logging"
	"github.com/diagramkit/mermaid-validator-mcp/internal/renderer"
)

// handleValidateMermaid renders the submitted diagram and maps the outcome
// onto a fixed content-block layout. Callers pattern-match on block count and
// order, so the mapping must not change:
//
//   - Valid: [text confirmation, image block]
//   - Invalid: [text summary, text mainError, optional text detail], IsError
//   - SystemError: [single text block], IsError
func (s *Server) handleValidateMermaid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagram, err := req.RequireString("diagram")
	if err != nil {
		return mcp.NewToolResultError("diagram is required"), nil
	}

	// Reject unknown formats before they reach the adapter.
	format, parseErr := renderer.ParseFormat(req.GetString("format", ""))
	if parseErr != nil {
		return mcp.NewToolResultError(parseErr.Error()), nil
	}

	ctx = logging.WithRequestID(ctx, uuid.New().String())
	ctx = logging.WithTool(ctx, "validateMermaid")
	logger := logging.LogWith(ctx, s.logger)

	switch o := s.renderer.Render(ctx, diagram, format).(type) {
	case renderer.Valid:
		logger.InfoContext(ctx, "diagram accepted",
			slog.String("mime_type", o.MIMEType),
			slog.Int("bytes", len(o.Image)))
		encoded := base64.StdEncoding.EncodeToString(o.Image)
		return mcp.NewToolResultImage("Mermaid diagram is valid", encoded, o.MIMEType), nil

	case renderer.Invalid:
		logger.InfoContext(ctx, "diagram rejected", slog.String("main_error", o.MainError))
		content := []mcp.Content{
			mcp.NewTextContent(o.Summary),
			mcp.NewTextContent(o.MainError),
		}
		if o.Detail != "" {
			content = append(content, mcp.NewTextContent(o.Detail))
		}
		return &mcp.CallToolResult{Content: content, IsError: true}, nil

	case renderer.SystemError:
		logger.ErrorContext(ctx, "render failed", slog.String("error", o.Message))
		return mcp.NewToolResultError(o.Message), nil

	default:
		return mcp.NewToolResultError("internal: unknown render outcome"), nil
	}
}
