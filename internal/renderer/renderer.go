// Package renderer drives the Mermaid CLI (mmdc) as a one-shot subprocess
// and classifies the result. No diagram parsing or validation happens here;
// the engine owns all of that, and this package only manages the process
// interaction and maps its exit into a three-way outcome.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/diagramkit/mermaid-validator-mcp/internal/logging"
)

const (
	defaultEnginePath    = "mmdc"
	defaultRenderTimeout = 30 * time.Second
	defaultMaxOutputSize = 10 * 1024 * 1024 // 10MB

	invalidSummary = "Mermaid diagram is invalid"
)

// Config configures the Renderer.
type Config struct {
	// EnginePath is the mmdc binary, resolved via PATH when not absolute.
	EnginePath string
	// Timeout bounds one render; on expiry the subprocess is killed and the
	// outcome is SystemError.
	Timeout time.Duration
	// MaxOutputSize caps each captured channel (stdout and stderr
	// independently). Bytes beyond the cap are discarded without stalling
	// the engine.
	MaxOutputSize int64
	Logger        *slog.Logger
}

// Renderer renders Mermaid diagrams through the external engine. Each call
// owns its subprocess session exclusively; nothing is pooled or shared, so a
// Renderer is safe for concurrent use.
type Renderer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Renderer, filling unset config fields with defaults.
func New(cfg Config) *Renderer {
	if cfg.EnginePath == "" {
		cfg.EnginePath = defaultEnginePath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}
	if cfg.MaxOutputSize <= 0 {
		cfg.MaxOutputSize = defaultMaxOutputSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// Render streams the diagram to the engine over stdin and captures the
// rendered image from stdout. It always returns exactly one outcome and
// never leaves the subprocess running:
//
//   - exit 0: Valid with the accumulated stdout bytes.
//   - nonzero exit: Invalid, with stderr attached as detail when present.
//     This holds even when the failure smells infrastructural (e.g. the
//     engine dying over its own missing runtime deps) — callers depend on
//     receiving Invalid-shaped diagnostics for anything the engine did.
//   - start failure, stream failure, or timeout: SystemError.
func (r *Renderer) Render(ctx context.Context, diagram string, format Format) Outcome {
	// Timeout context owned here so a kill is distinguishable from an
	// engine-side rejection after the fact.
	execCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	// The "-" tokens select stdin/stdout streaming. Using them instead of
	// platform device paths (/dev/stdin and friends) is a portability
	// requirement: hosts disagree on how those paths behave.
	args := []string{"--input", "-", "--output", "-", "--outputFormat", string(format)}
	if format == FormatPNG {
		args = append(args, "--backgroundColor", "transparent")
	}

	cmd := exec.CommandContext(execCtx, r.cfg.EnginePath, args...)
	cmd.Stdin = strings.NewReader(diagram)
	// The engine may leave children holding its pipes after a kill (mmdc
	// spawns a headless browser). Don't let Wait hang on them forever.
	cmd.WaitDelay = 5 * time.Second

	// Both channels are drained concurrently by exec.Cmd's pipe copiers; the
	// limitedWriter keeps a flooded channel from ever blocking the engine.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, limit: r.cfg.MaxOutputSize}
	cmd.Stderr = &limitedWriter{w: &stderr, limit: r.cfg.MaxOutputSize}

	logger := logging.LogWith(ctx, r.logger)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr == nil {
		logger.InfoContext(ctx, "diagram rendered",
			slog.String("format", string(format)),
			slog.Int("bytes", stdout.Len()),
			slog.Duration("elapsed", elapsed))
		return Valid{Image: stdout.Bytes(), MIMEType: format.MIMEType()}
	}

	// A context kill happens outside the engine's own execution, so it is
	// infrastructure, not a rejection.
	if ctxErr := execCtx.Err(); ctxErr != nil {
		var rerr *RenderError
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			rerr = NewErrorf(ErrCodeTimeout, "mermaid renderer killed after %s timeout", r.cfg.Timeout).WithCause(runErr)
		} else {
			rerr = NewErrorf(ErrCodeEngineIO, "render cancelled: %v", runErr).WithCause(runErr)
		}
		logger.ErrorContext(ctx, "render aborted", slog.String("error", rerr.Error()))
		return SystemError{Message: rerr.Error()}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		inv := Invalid{
			Summary:   invalidSummary,
			MainError: r.cfg.EnginePath + ": " + runErr.Error(),
		}
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			inv.Detail = detail
		}
		logger.InfoContext(ctx, "diagram rejected",
			slog.Int("exit_code", exitErr.ExitCode()),
			slog.Duration("elapsed", elapsed))
		return inv
	}

	// Non-exit error: the engine never ran (binary missing/unreachable) or
	// the stream plumbing failed.
	code := ErrCodeEngineIO
	var startErr *exec.Error
	if errors.As(runErr, &startErr) {
		code = ErrCodeEngineStart
	}
	rerr := NewErrorf(code, "failed to run mermaid renderer %q: %v", r.cfg.EnginePath, runErr).WithCause(runErr)
	logger.ErrorContext(ctx, "render failed", slog.String("error", rerr.Error()))
	return SystemError{Message: rerr.Error()}
}

// limitedWriter wraps a writer and silently discards bytes beyond the limit.
// Write always reports the full len(p) consumed to prevent the subprocess
// from blocking on a full pipe.
type limitedWriter struct {
	w       io.Writer
	limit   int64
	written int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	total := len(p) // Capture original length before any truncation.
	remaining := lw.limit - lw.written
	if remaining <= 0 {
		return total, nil
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := lw.w.Write(p)
	lw.written += int64(n)
	if err != nil {
		return total, err
	}
	return total, nil
}
