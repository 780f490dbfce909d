package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/ledger"
	"github.com/robinvdvleuten/perfin/logging"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"warn" env:"PERFIN_LOG_LEVEL" enum:"debug,info,warn,error"`
	Formats   string `help:"Description format definitions." default:"data/formats/ing.yaml" env:"PERFIN_FORMATS" type:"path"`
	Ledger    string `help:"Ledger with cost centers, accounts and assignment rules." default:"data/ledger.yaml" env:"PERFIN_LEDGER" type:"path"`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Compile the format definitions and validate the ledger."`
	Parse  ParseCmd  `cmd:"" help:"Split a single description into fields."`
	Import ImportCmd `cmd:"" help:"Classify the transactions of an ING statement export."`
	Audit  AuditCmd  `cmd:"" help:"Check an ING statement export for inconsistent relation data."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging format definitions."`
}

// logger builds the logger for one command run. Every run gets its own batch id.
func (g *Globals) logger(w io.Writer) (*log.Logger, error) {
	logger, err := logging.New(w, g.LogLevel)
	if err != nil {
		return nil, err
	}
	return logger.With("batch", uuid.NewString()), nil
}

// environment is what a command needs from the configuration files.
type environment struct {
	parser *format.DescriptionParser
	ledger *ledger.Ledger
	logger *log.Logger
}

// configError is a failure to load one of the configuration files.
type configError struct {
	path   string
	source []byte
	err    error
}

func (e *configError) Error() string {
	return fmt.Sprintf("%s: %v", e.path, e.err)
}

func (e *configError) Unwrap() error {
	return e.err
}

func loadParser(ctx context.Context, path string) (*format.DescriptionParser, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parser, err := format.Compile(ctx, bytes.NewReader(source))
	if err != nil {
		return nil, &configError{path: path, source: source, err: err}
	}
	return parser, nil
}

func loadLedger(ctx context.Context, path string) (*ledger.Ledger, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := ledger.Load(ctx, bytes.NewReader(source))
	if err != nil {
		return nil, &configError{path: path, source: source, err: err}
	}
	return l, nil
}

// load reads the configuration files. The returned context carries the logger
// and the ledger options.
func (g *Globals) load(ctx context.Context, logger *log.Logger) (context.Context, *environment, error) {
	ctx = logging.WithContext(ctx, logger)

	parser, err := loadParser(ctx, g.Formats)
	if err != nil {
		return ctx, nil, err
	}
	l, err := loadLedger(ctx, g.Ledger)
	if err != nil {
		return ctx, nil, err
	}
	ctx = l.Config().WithContext(ctx)

	logger.Debug("loaded configuration",
		"formats", g.Formats, "kinds", len(parser.Kinds()),
		"ledger", l.Name(), "year", l.Year())

	return ctx, &environment{parser: parser, ledger: l, logger: logger}, nil
}

// reportLoadError prints a configuration failure with source context.
func reportLoadError(w io.Writer, err error) error {
	var source []byte
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		source = cfgErr.source
		printInfof(w, "in %s", pathStyle.Render(cfgErr.path))
		err = cfgErr.err
	}

	_, _ = fmt.Fprintln(w, NewErrorRenderer(source).Render(err))
	_, _ = fmt.Fprintln(w)
	printError(w, "configuration error")

	return NewCommandError(ExitConfig)
}
