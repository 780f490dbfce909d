package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/perfin/audit"
	perrors "github.com/robinvdvleuten/perfin/errors"
	"github.com/robinvdvleuten/perfin/ing"
	"github.com/robinvdvleuten/perfin/ledger"
)

// AuditCmd checks a statement for inconsistent relation data.
type AuditCmd struct {
	File       FileOrStdin `help:"ING statement export (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	CollectAll bool        `help:"Report every problem instead of stopping at the first."`
	Relations  bool        `help:"Print the relations seen in the statement as YAML."`
	JSON       bool        `help:"Print the problems as JSON on stdout."`
}

func (cmd *AuditCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	logger, err := globals.logger(ctx.Stderr)
	if err != nil {
		return err
	}

	runCtx, reportTelemetry := startTelemetry(context.Background(), ctx, globals, fmt.Sprintf("audit %s", filepath.Base(cmd.File.Filename)))
	defer reportTelemetry()

	runCtx, env, err := globals.load(runCtx, logger)
	if err != nil {
		reportTelemetry()
		return reportLoadError(ctx.Stderr, err)
	}

	auditor, err := cmd.auditor(runCtx, env)
	if err != nil {
		return err
	}

	f, err := cmd.File.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Debug("auditing statement", "file", cmd.File.GetAbsoluteFilename(), "mode", auditor.Mode())
	importer := ing.New(ing.WithParser(env.parser), ing.WithLogger(env.logger))
	auditErr := auditor.Process(runCtx, importer.Observations(runCtx, f))

	if cmd.Relations {
		if err := writeRelations(ctx.Stdout, auditor.Relations()); err != nil {
			return err
		}
	}

	if auditErr != nil {
		if errors.Is(auditErr, context.Canceled) {
			return auditErr
		}

		problems := []error{auditErr}
		var validationErrors *audit.ValidationErrors
		if errors.As(auditErr, &validationErrors) {
			problems = validationErrors.Errors
		}

		if cmd.JSON {
			_, _ = fmt.Fprintln(ctx.Stdout, perrors.NewJSONFormatter().FormatAll(problems))
		} else {
			source, err := cmd.File.GetSourceContent()
			if err != nil {
				return fmt.Errorf("failed to read file for error context: %w", err)
			}
			_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(source).RenderAll(problems))
		}
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d problem(s) found", len(problems)))

		reportTelemetry()
		return newProblemsError(len(problems))
	}

	printSuccess(ctx.Stderr, "Audit passed")
	return nil
}

// auditor configures the validator from the ledger options and the flags.
func (cmd *AuditCmd) auditor(ctx context.Context, env *environment) (*audit.Auditor, error) {
	cfg := ledger.ConfigFromContext(ctx)

	mode, err := audit.ParseMode(cfg.AuditMode)
	if err != nil {
		return nil, err
	}
	if cmd.CollectAll {
		mode = audit.CollectAll
	}

	return audit.New(
		audit.WithMode(mode),
		audit.WithCashCodes(cfg.CashCodes...),
		audit.WithMarkers(cfg.TransferMarkers...),
		audit.WithKnownRelations(env.ledger.Relations()),
		audit.WithLogger(env.logger),
	), nil
}

func writeRelations(w io.Writer, relations map[string]string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(relations); err != nil {
		return fmt.Errorf("failed to write relations: %w", err)
	}
	return enc.Close()
}
