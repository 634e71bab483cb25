// Package formatter renders a completed analysis for terminals, JSON
// consumers and markdown reports.
package formatter

import (
	"fmt"

	"smashcoach/internal/feedback"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(model *feedback.DisplayModel) ([]byte, error)
}

// New returns the formatter for a format name.
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "text", "":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
