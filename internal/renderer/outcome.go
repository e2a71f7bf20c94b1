package renderer

import "fmt"

// Format selects the output image format of a render.
type Format string

const (
	// FormatPNG renders a raster image with a transparent background.
	FormatPNG Format = "png"
	// FormatSVG renders vector markup.
	FormatSVG Format = "svg"
)

// MIMEType returns the MIME type of images produced in this format.
func (f Format) MIMEType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat validates a format selector. The empty string maps to the
// default (png); anything else outside {png, svg} is rejected so invalid
// selectors never reach the rendering engine.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatPNG):
		return FormatPNG, nil
	case string(FormatSVG):
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be %q or %q)", s, FormatPNG, FormatSVG)
}

// Outcome is the result of one render call. Exactly one of the three
// variants (Valid, Invalid, SystemError) is produced per call; the unexported
// marker method keeps the set closed.
type Outcome interface {
	outcome()
}

// Valid means the engine accepted the diagram. Image holds the complete
// rendered output (binary for png, markup text for svg).
type Valid struct {
	Image    []byte
	MIMEType string
}

// Invalid means the engine ran and rejected the diagram. Detail carries the
// engine's diagnostic-channel output when any was captured.
type Invalid struct {
	Summary   string
	MainError string
	Detail    string
}

// SystemError means the render infrastructure failed before or outside the
// engine's own execution: missing binary, stream failure, or timeout.
type SystemError struct {
	Message string
}

func (Valid) outcome()       {}
func (Invalid) outcome()     {}
func (SystemError) outcome() {}
