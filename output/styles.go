// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Styles renders the pieces of an import report.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles for w. The color profile is detected from w unless an
// option such as termenv.WithProfile overrides it.
func NewStyles(w io.Writer, opts ...termenv.OutputOption) *Styles {
	return &Styles{
		output: termenv.NewOutput(w, opts...),
	}
}

func (s *Styles) color(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Success is green and bold.
func (s *Styles) Success(text string) string {
	return s.color(text, "2").Bold().String()
}

// Error is red and bold.
func (s *Styles) Error(text string) string {
	return s.color(text, "1").Bold().String()
}

// Warning is yellow and bold.
func (s *Styles) Warning(text string) string {
	return s.color(text, "3").Bold().String()
}

// FilePath is cyan.
func (s *Styles) FilePath(text string) string {
	return s.color(text, "6").String()
}

// Account renders a ledger account code or group heading in yellow.
func (s *Styles) Account(text string) string {
	return s.color(text, "3").String()
}

// Reason renders an assignment reason in blue.
func (s *Styles) Reason(text string) string {
	return s.color(text, "4").String()
}

// IBAN renders an account number in cyan.
func (s *Styles) IBAN(text string) string {
	return s.color(text, "6").String()
}

// Amount renders a signed amount: debits red, credits green.
func (s *Styles) Amount(text string) string {
	if strings.HasPrefix(strings.TrimSpace(text), "-") {
		return s.color(text, "1").String()
	}
	return s.color(text, "2").String()
}

// Field renders an attribute label.
func (s *Styles) Field(text string) string {
	return s.color(text, "5").String()
}

// Keyword is bold.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim is for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Output returns the underlying termenv output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
