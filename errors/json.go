// Package errors renders import and audit problems as structured JSON for
// consumers other than the terminal. Domain error types stay in their packages;
// this package only looks at the getters they implement.
package errors

import (
	"encoding/json"
	"fmt"

	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/properties"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type       string            `json:"type"`
	Message    string            `json:"message"`
	Line       int               `json:"line,omitempty"`
	Location   *LocationJSON     `json:"location,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// LocationJSON points into a format definitions file.
type LocationJSON struct {
	Kind        string `json:"kind"`
	Alternative int    `json:"alternative"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if e, ok := err.(interface{ GetLine() int }); ok {
		errJSON.Line = e.GetLine()
	}

	if e, ok := err.(interface{ GetLocation() format.Location }); ok {
		loc := e.GetLocation()
		errJSON.Line = loc.Line
		if loc.Kind != "" {
			errJSON.Location = &LocationJSON{Kind: loc.Kind, Alternative: loc.Alternative}
		}
	}

	if e, ok := err.(interface{ GetAttributes() properties.Properties }); ok && len(e.GetAttributes()) > 0 {
		errJSON.Attributes = e.GetAttributes()
	}

	return errJSON
}
