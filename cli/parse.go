package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/output"
	"github.com/robinvdvleuten/perfin/properties"
)

// ParseCmd runs the description matcher on a single description.
type ParseCmd struct {
	Kind        string `arg:"" help:"Mutation kind, e.g. BA or GT."`
	Description string `arg:"" help:"Description text as found in the statement."`
	Heuristic   bool   `help:"Also show the label based extraction."`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, reportTelemetry := startTelemetry(context.Background(), ctx, globals, "parse")
	defer reportTelemetry()

	parser, err := loadParser(runCtx, globals.Formats)
	if err != nil {
		reportTelemetry()
		return reportLoadError(ctx.Stderr, err)
	}

	styles := output.NewStyles(ctx.Stdout)

	fields, ok := parser.Parse(cmd.Kind, cmd.Description)
	if ok {
		writeFields(ctx.Stdout, styles, fields)
	} else {
		printError(ctx.Stdout, fmt.Sprintf("no match for kind %s", cmd.Kind))
	}

	if cmd.Heuristic {
		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stdout, "heuristic")
		writeProperties(ctx.Stdout, styles, properties.Extract(cmd.Description))
	}

	if !ok {
		return NewCommandError(ExitProblems)
	}
	return nil
}

// writeFields prints fields in the order they appear in the description.
func writeFields(w io.Writer, styles *output.Styles, fields format.Fields) {
	for i := len(fields) - 1; i >= 0; i-- {
		_, _ = fmt.Fprintf(w, "  %s = %s\n", styles.Field(fields[i].Name), fields[i].Value)
	}
}

func writeProperties(w io.Writer, styles *output.Styles, props properties.Properties) {
	if description, ok := props.Description(); ok {
		_, _ = fmt.Fprintf(w, "  %s = %s\n", styles.Field(properties.Description), description)
	}
	for _, key := range props.Keys() {
		_, _ = fmt.Fprintf(w, "  %s = %s\n", styles.Field(key), props[key])
	}
}
