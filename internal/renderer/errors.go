package renderer

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeEngineStart = "ENGINE_START"
	ErrCodeEngineIO    = "ENGINE_IO"
	ErrCodeTimeout     = "TIMEOUT"
)

// RenderError is the structured error type for render infrastructure
// failures. Engine-side rejections are not errors; they are Invalid outcomes.
type RenderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewError creates a new RenderError.
func NewError(code, message string) *RenderError {
	return &RenderError{Code: code, Message: message}
}

// NewErrorf creates a new RenderError with a formatted message.
func NewErrorf(code, format string, args ...any) *RenderError {
	return &RenderError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches an underlying cause.
func (e *RenderError) WithCause(err error) *RenderError {
	e.Cause = err
	return e
}
