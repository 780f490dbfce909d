// Package audit checks imported rows for inconsistent relation data while it
// builds the registry of counter IBANs and relation names.
//
// Three problems are reported:
//   - the name in the description differs from the name on the row
//   - a counter IBAN shows up under a second name
//   - a row lacks a counter IBAN although it is neither a cash transaction nor
//     marked as a transfer or correction
package audit

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/perfin/properties"
	"github.com/robinvdvleuten/perfin/telemetry"
)

// Mode decides what Process does on the first problem.
type Mode int

const (
	// FailFast stops at the first problem.
	FailFast Mode = iota
	// CollectAll checks every row and reports all problems together.
	CollectAll
)

func (m Mode) String() string {
	if m == CollectAll {
		return "collect_all"
	}
	return "fail_fast"
}

// ParseMode parses "fail_fast" or "collect_all".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "fail_fast":
		return FailFast, nil
	case "collect_all":
		return CollectAll, nil
	}
	return FailFast, fmt.Errorf("unknown audit mode %q", s)
}

// Observation is one row as the auditor sees it.
type Observation struct {
	Line          int
	Code          string // mutation kind
	DeclaredName  string // name column of the row
	DescribedName string // name found in the description, empty when absent
	CounterIBAN   string // empty when absent
	Attributes    properties.Properties
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithMode sets the failure mode. The default is FailFast.
func WithMode(mode Mode) Option {
	return func(a *Auditor) {
		a.mode = mode
	}
}

// WithCashCodes sets the mutation kinds that need no counter IBAN.
func WithCashCodes(codes ...string) Option {
	return func(a *Auditor) {
		a.cashCodes = codes
	}
}

// WithMarkers sets the attribute labels that mark a transfer or correction.
func WithMarkers(markers ...string) Option {
	return func(a *Auditor) {
		a.markers = markers
	}
}

// WithKnownRelations seeds the registry with counter IBAN to name bindings.
func WithKnownRelations(relations map[string]string) Option {
	return func(a *Auditor) {
		for iban, name := range relations {
			a.relations[iban] = name
		}
	}
}

// WithLogger logs registrations and problems at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// Auditor validates observations and records the relation of every counter IBAN.
// It is not safe for concurrent use.
type Auditor struct {
	mode      Mode
	cashCodes []string
	markers   []string
	relations map[string]string
	logger    *log.Logger
}

// New creates an Auditor. Cash codes default to GM and BA, markers to
// transfer and correction.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		mode:      FailFast,
		cashCodes: []string{"GM", "BA"},
		markers:   []string{"transfer", "correction"},
		relations: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check validates one observation. A valid observation with a counter IBAN
// registers its declared name for that IBAN.
func (a *Auditor) Check(o Observation) error {
	if o.DescribedName != "" && !strings.EqualFold(o.DescribedName, o.DeclaredName) {
		return NewNameMismatchError(o)
	}

	if o.CounterIBAN == "" {
		if slices.Contains(a.cashCodes, o.Code) || a.isMarked(o.Attributes) {
			return nil
		}
		return NewIbanMissingError(o)
	}

	if existing, ok := a.relations[o.CounterIBAN]; ok {
		if !strings.EqualFold(existing, o.DeclaredName) {
			return NewNameClashError(o, existing)
		}
		return nil
	}

	a.relations[o.CounterIBAN] = o.DeclaredName
	a.debug("registered relation", "iban", o.CounterIBAN, "name", o.DeclaredName)
	return nil
}

func (a *Auditor) isMarked(attrs properties.Properties) bool {
	for key := range attrs {
		for _, marker := range a.markers {
			if strings.EqualFold(key, marker) {
				return true
			}
		}
	}
	return false
}

// Process checks every observation of seq. Errors yielded by seq count as
// problems. In FailFast mode the first problem is returned; in CollectAll mode
// all problems are returned as *ValidationErrors.
func (a *Auditor) Process(ctx context.Context, seq iter.Seq2[Observation, error]) error {
	timer := telemetry.StartTimer(ctx, "audit")
	defer timer.End()

	var errs []error
	for o, err := range seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		timer.Add(1)

		if err == nil {
			err = a.Check(o)
		}
		if err == nil {
			continue
		}

		a.debug("audit problem", "err", err)
		if a.mode == FailFast {
			return err
		}
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// Mode returns the configured mode.
func (a *Auditor) Mode() Mode {
	return a.mode
}

// Relations returns a copy of the registry.
func (a *Auditor) Relations() map[string]string {
	return maps.Clone(a.relations)
}

func (a *Auditor) debug(msg string, keyvals ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, keyvals...)
	}
}
