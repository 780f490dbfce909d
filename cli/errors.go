package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/properties"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

type (
	locatedError interface {
		GetLocation() format.Location
	}
	lineError interface {
		GetLine() int
	}
	attributedError interface {
		GetAttributes() properties.Properties
	}
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context. source may
// be nil.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	line := errorLine(err)

	var attrs properties.Properties
	var ae attributedError
	if errors.As(err, &ae) {
		attrs = ae.GetAttributes()
	}

	if r.source == nil || line <= 0 {
		if len(attrs) == 0 {
			return err.Error()
		}
		return err.Error() + "\n" + renderAttributes(attrs)
	}

	return r.renderWithSourceContext(line, err.Error(), attrs)
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func errorLine(err error) int {
	var le locatedError
	if errors.As(err, &le) {
		return le.GetLocation().Line
	}
	var ln lineError
	if errors.As(err, &ln) {
		return ln.GetLine()
	}
	return 0
}

func (r *ErrorRenderer) renderWithSourceContext(line int, message string, attrs properties.Properties) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(strings.TrimRight(string(r.source), "\n"), "\n")

	startLine := max(line-3, 0)
	endLine := min(line, len(sourceLines)-1)

	for i := startLine; i <= endLine; i++ {
		text := strings.TrimRight(sourceLines[i], "\r")
		buf.WriteString("   ")
		if i != line-1 {
			buf.WriteString(errContextStyle.Render(text))
			buf.WriteByte('\n')
			continue
		}

		buf.WriteString(text)
		buf.WriteByte('\n')

		trimmed := strings.TrimLeft(text, " \t")
		indent := len(text) - len(trimmed)
		buf.WriteString("   ")
		buf.WriteString(text[:indent])
		buf.WriteString(errCaretStyle.Render(strings.Repeat("^", max(runewidth.StringWidth(trimmed), 1))))
		buf.WriteByte('\n')
	}

	if len(attrs) > 0 {
		buf.WriteByte('\n')
		buf.WriteString(renderAttributes(attrs))
	}

	return buf.String()
}

func renderAttributes(attrs properties.Properties) string {
	return "   " + errContextStyle.Render(attrs.String())
}
