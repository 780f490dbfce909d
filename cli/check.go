package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/perfin/ledger"
)

type CheckCmd struct{}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	logger, err := globals.logger(ctx.Stderr)
	if err != nil {
		return err
	}

	runCtx, reportTelemetry := startTelemetry(context.Background(), ctx, globals, "check")
	defer reportTelemetry()

	runCtx, env, err := globals.load(runCtx, logger)
	if err != nil {
		reportTelemetry()
		return reportLoadError(ctx.Stderr, err)
	}

	kinds := env.parser.Kinds()
	printSuccess(ctx.Stdout, fmt.Sprintf("%s: %d mutation kind(s)", pathStyle.Render(filepath.Base(globals.Formats)), len(kinds)))
	for _, kind := range kinds {
		printInfof(ctx.Stdout, "%s: %d alternative(s)", kind, len(env.parser.Alternatives(kind)))
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("%s: %s %d, %d cost center(s), %d account(s) in %s",
		pathStyle.Render(filepath.Base(globals.Ledger)),
		env.ledger.Name(), env.ledger.Year(),
		len(env.ledger.CostCenters()), len(env.ledger.Accounts()),
		ledger.ConfigFromContext(runCtx).Currency))

	printSuccess(ctx.Stdout, "Check passed")

	return nil
}
