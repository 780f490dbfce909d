package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/perfin/classify"
	"github.com/robinvdvleuten/perfin/ing"
	"github.com/robinvdvleuten/perfin/ledger"
	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/output"
)

// ImportCmd classifies the rows of a statement export.
type ImportCmd struct {
	File   FileOrStdin `help:"ING statement export (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	JSON   bool        `help:"Print the transactions as JSON."`
	Output string      `short:"o" help:"Write the result to a file instead of stdout." type:"path"`
	Force  bool        `short:"f" help:"Overwrite the output file without asking."`
	Watch  bool        `short:"w" help:"Import again whenever the statement, formats or ledger change."`
}

// importReport is the outcome of one import run.
type importReport struct {
	Transactions []*model.Transaction
	Failures     []error
}

func (cmd *ImportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}
	if cmd.Watch && cmd.File.IsStdin() {
		return errors.New("--watch needs a statement file, not stdin")
	}

	logger, err := globals.logger(ctx.Stderr)
	if err != nil {
		return err
	}

	if cmd.Output != "" && !cmd.Force {
		if _, err := os.Stat(cmd.Output); err == nil {
			ok, err := promptYesNo(fmt.Sprintf("Overwrite %s?", cmd.Output))
			if err != nil {
				return err
			}
			if !ok {
				printInfof(ctx.Stderr, "left %s untouched", pathStyle.Render(cmd.Output))
				return nil
			}
		}
	}

	if !cmd.Watch {
		return cmd.runOnce(context.Background(), ctx, globals)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.runOnce(runCtx, ctx, globals); err != nil {
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			return err
		}
	}

	files := []string{cmd.File.Filename, globals.Formats, globals.Ledger}
	printInfof(ctx.Stderr, "watching %d file(s), press Ctrl+C to stop", len(files))

	return watchFiles(runCtx, logger, files, func() {
		_, _ = fmt.Fprintln(ctx.Stderr)
		printInfof(ctx.Stderr, "change detected, importing %s", pathStyle.Render(filepath.Base(cmd.File.Filename)))
		if err := cmd.runOnce(runCtx, ctx, globals); err != nil {
			var cmdErr *CommandError
			if !errors.As(err, &cmdErr) {
				printError(ctx.Stderr, err.Error())
			}
		}
	})
}

// runOnce loads the configuration, imports the statement and writes the result.
func (cmd *ImportCmd) runOnce(ctx context.Context, kctx *kong.Context, globals *Globals) error {
	logger, err := globals.logger(kctx.Stderr)
	if err != nil {
		return err
	}

	ctx, reportTelemetry := startTelemetry(ctx, kctx, globals, fmt.Sprintf("import %s", filepath.Base(cmd.File.Filename)))
	defer reportTelemetry()

	ctx, env, err := globals.load(ctx, logger)
	if err != nil {
		reportTelemetry()
		return reportLoadError(kctx.Stderr, err)
	}

	f, err := cmd.File.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	logger.Debug("importing statement", "file", cmd.File.GetAbsoluteFilename())
	report, err := runImport(ctx, env, f)
	if err != nil {
		return err
	}

	if err := cmd.write(ctx, kctx.Stdout, env, report); err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		source, err := cmd.File.GetSourceContent()
		if err != nil {
			return fmt.Errorf("failed to read file for error context: %w", err)
		}
		_, _ = fmt.Fprintln(kctx.Stderr, NewErrorRenderer(source).RenderAll(report.Failures))
		_, _ = fmt.Fprintln(kctx.Stderr)
		printError(kctx.Stderr, fmt.Sprintf("%d row(s) could not be imported", len(report.Failures)))

		reportTelemetry()
		return newProblemsError(len(report.Failures))
	}

	printSuccess(kctx.Stderr, fmt.Sprintf("Imported %d transaction(s)", len(report.Transactions)))
	return nil
}

// runImport classifies every row of r. Rows that cannot be converted are
// collected as failures; only cancellation stops the run.
func runImport(ctx context.Context, env *environment, r io.Reader) (*importReport, error) {
	resolver := classify.New(env.ledger, env.ledger, env.ledger, classify.WithLogger(env.logger))
	importer := ing.New(
		ing.WithParser(env.parser),
		ing.WithResolver(resolver),
		ing.WithLogger(env.logger),
	)

	report := &importReport{Transactions: []*model.Transaction{}}
	for tx, err := range importer.Transactions(ctx, r) {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			env.logger.Debug("row failed", "err", err)
			report.Failures = append(report.Failures, err)
			continue
		}
		report.Transactions = append(report.Transactions, tx)
	}

	env.logger.Info("imported statement",
		"transactions", len(report.Transactions), "failures", len(report.Failures))

	return report, nil
}

func (cmd *ImportCmd) write(ctx context.Context, stdout io.Writer, env *environment, report *importReport) error {
	w := stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if cmd.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Transactions)
	}

	groups := groupTransactions(env.ledger, report.Transactions)
	writeGroups(w, output.NewStyles(w), groups, ledger.ConfigFromContext(ctx).Currency)
	return nil
}
