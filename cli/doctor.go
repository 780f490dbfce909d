package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/output"
	"github.com/robinvdvleuten/perfin/properties"
)

// DoctorCmd provides doctor utilities for debugging format definitions.
type DoctorCmd struct {
	Formats    FormatsCmd    `cmd:"" help:"Show the compiled expressions of every mutation kind."`
	Properties PropertiesCmd `cmd:"" help:"Show the label based extraction of a description."`
}

// FormatsCmd dumps the compiled format definitions.
type FormatsCmd struct {
	Kind string `arg:"" optional:"" help:"Only show this mutation kind."`
}

// compiledElement is the printable form of a format.Element, in matching order.
type compiledElement struct {
	Field    string
	Presence string
	Capture  string
	Pattern  string
}

// Run executes the formats command.
func (cmd *FormatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	parser, err := loadParser(context.Background(), globals.Formats)
	if err != nil {
		return reportLoadError(ctx.Stderr, err)
	}

	kinds := parser.Kinds()
	if cmd.Kind != "" {
		kinds = []string{cmd.Kind}
	}

	dump := make(map[string][][]compiledElement, len(kinds))
	for _, kind := range kinds {
		alternatives := parser.Alternatives(kind)
		if len(alternatives) == 0 {
			return fmt.Errorf("unknown mutation kind %q", kind)
		}
		dump[kind] = compiledAlternatives(alternatives)
	}

	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(dump, repr.Indent("  ")))
	return nil
}

func compiledAlternatives(alternatives [][]*format.Element) [][]compiledElement {
	out := make([][]compiledElement, len(alternatives))
	for i, elements := range alternatives {
		out[i] = make([]compiledElement, len(elements))
		for j, element := range elements {
			out[i][j] = compiledElement{
				Field:    element.Name,
				Presence: element.Presence.String(),
				Capture:  element.Capture.String(),
				Pattern:  element.Pattern(),
			}
		}
	}
	return out
}

// PropertiesCmd runs the label based extraction on a description.
type PropertiesCmd struct {
	Text string `arg:"" help:"Description text as found in the statement."`
}

// Run executes the properties command.
func (cmd *PropertiesCmd) Run(ctx *kong.Context) error {
	writeProperties(ctx.Stdout, output.NewStyles(ctx.Stdout), properties.Extract(cmd.Text))
	return nil
}
