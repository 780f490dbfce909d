// Package ing reads ING bank statement exports.
//
// An export is a ';' separated file with a header row. Every row is converted to a
// Record: dates and amounts are parsed, the description is split into attributes
// and the row gets a stable ID derived from its content. Transactions additionally
// runs the classification resolver over every record.
package ing

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/perfin/audit"
	"github.com/robinvdvleuten/perfin/classify"
	"github.com/robinvdvleuten/perfin/format"
	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/properties"
	"github.com/robinvdvleuten/perfin/telemetry"
)

// DateLayout is the layout of the Datum column.
const DateLayout = "20060102"

// Record is a converted statement row.
type Record struct {
	Line          int
	ID            string
	Date          time.Time
	Name          string
	IBAN          string
	CounterIBAN   *string
	Code          Code
	Amount        decimal.Decimal // negative when debited
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Properties    properties.Properties

	// DescribedName is the name found in the description, empty when absent.
	DescribedName string
}

// Observation returns the record as input for the auditor.
func (r *Record) Observation() audit.Observation {
	o := audit.Observation{
		Line:          r.Line,
		Code:          string(r.Code),
		DeclaredName:  r.Name,
		DescribedName: r.DescribedName,
		Attributes:    r.Properties,
	}
	if r.CounterIBAN != nil {
		o.CounterIBAN = *r.CounterIBAN
	}
	return o
}

// Option configures an Importer.
type Option func(*Importer)

// WithParser splits descriptions with the format definitions before the
// heuristic extraction.
func WithParser(parser *format.DescriptionParser) Option {
	return func(i *Importer) {
		i.parser = parser
	}
}

// WithResolver sets the resolver used by Transactions.
func WithResolver(resolver *classify.Resolver) Option {
	return func(i *Importer) {
		i.resolver = resolver
	}
}

// WithLogger logs skipped rows at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// Importer converts statement exports.
type Importer struct {
	parser   *format.DescriptionParser
	resolver *classify.Resolver
	logger   *log.Logger
}

// New creates an Importer.
func New(opts ...Option) *Importer {
	i := &Importer{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Rows yields the raw rows of r. Line numbers start at 2, after the header.
func (i *Importer) Rows(ctx context.Context, r io.Reader) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		reader := csv.NewReader(r)
		reader.Comma = ';'
		reader.FieldsPerRecord = -1

		first, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			yield(Row{}, fmt.Errorf("failed to read statement header: %w", err))
			return
		}
		h, err := parseHeader(first)
		if err != nil {
			yield(Row{}, err)
			return
		}

		for line := 2; ; line++ {
			if err := ctx.Err(); err != nil {
				yield(Row{}, err)
				return
			}

			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var parseErr *csv.ParseError
				if !yield(Row{}, fmt.Errorf("failed to read statement: %w", err)) || !errors.As(err, &parseErr) {
					return
				}
				continue
			}

			if !yield(h.row(line, record), nil) {
				return
			}
		}
	}
}

// Records yields the converted rows of r. A row that cannot be converted yields
// a *RecordConversionError and iteration continues.
func (i *Importer) Records(ctx context.Context, r io.Reader) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		timer := telemetry.StartTimer(ctx, "ing.records")
		defer timer.End()

		for row, err := range i.Rows(ctx, r) {
			var record *Record
			if err == nil {
				record, err = i.convert(row)
				timer.Add(1)
			}
			if !yield(record, err) {
				return
			}
		}
	}
}

// Observations yields the converted rows of r for the auditor.
func (i *Importer) Observations(ctx context.Context, r io.Reader) iter.Seq2[audit.Observation, error] {
	return func(yield func(audit.Observation, error) bool) {
		for record, err := range i.Records(ctx, r) {
			var o audit.Observation
			if err == nil {
				o = record.Observation()
			}
			if !yield(o, err) {
				return
			}
		}
	}
}

// Transactions yields a classified transaction for every row of r whose own IBAN
// belongs to a cost center. Other rows are skipped.
func (i *Importer) Transactions(ctx context.Context, r io.Reader) iter.Seq2[*model.Transaction, error] {
	return func(yield func(*model.Transaction, error) bool) {
		if i.resolver == nil {
			yield(nil, errors.New("importer has no resolver"))
			return
		}

		timer := telemetry.StartTimer(ctx, "ing.classify")
		defer timer.End()

		for record, err := range i.Records(ctx, r) {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}

			res, ok := i.resolver.Resolve(classify.Input{
				OwnIBAN:     record.IBAN,
				CounterIBAN: record.CounterIBAN,
				Attributes:  record.Properties,
			})
			if !ok {
				i.debug("skipped row", "line", record.Line, "iban", record.IBAN)
				continue
			}
			timer.Add(1)

			if !yield(&model.Transaction{
				ID:               record.ID,
				Date:             record.Date,
				CostCenter:       res.CostCenter,
				RelationName:     res.RelationName,
				RelationIBAN:     res.RelationIBAN,
				Attributes:       res.Attributes,
				Amount:           record.Amount,
				AccountCode:      res.AccountCode,
				AssignmentReason: res.AssignmentReason,
			}, nil) {
				return
			}
		}
	}
}

func (i *Importer) convert(row Row) (*Record, error) {
	date, err := time.Parse(DateLayout, row.Date)
	if err != nil {
		return nil, &RecordConversionError{Line: row.Line, Field: "date", Value: row.Date, Err: err}
	}
	code, err := ParseCode(row.Code)
	if err != nil {
		return nil, &RecordConversionError{Line: row.Line, Field: "code", Value: row.Code, Err: err}
	}
	direction, err := parseDirection(row.Direction)
	if err != nil {
		return nil, &RecordConversionError{Line: row.Line, Field: "direction", Value: row.Direction, Err: err}
	}
	amount, err := parseAmount(row.Amount)
	if err != nil {
		return nil, &RecordConversionError{Line: row.Line, Field: "amount", Value: row.Amount, Err: err}
	}
	balance, err := parseAmount(row.Balance)
	if err != nil {
		return nil, &RecordConversionError{Line: row.Line, Field: "balance", Value: row.Balance, Err: err}
	}
	if direction == Debit {
		amount = amount.Neg()
	}

	props := i.describe(code, row.Info)
	described := props[properties.Name]
	props.DefineName(row.Name)
	if row.Tag != "" {
		props.DefineTag(row.Tag)
	}

	record := &Record{
		Line:          row.Line,
		ID:            transactionID(row, code, direction),
		Date:          date,
		Name:          row.Name,
		IBAN:          row.IBAN,
		Code:          code,
		Amount:        amount,
		BalanceBefore: balance.Sub(amount),
		BalanceAfter:  balance,
		Properties:    props,
		DescribedName: described,
	}
	if row.CounterIBAN != "" {
		counter := row.CounterIBAN
		record.CounterIBAN = &counter
	}
	return record, nil
}

func (i *Importer) describe(code Code, info string) properties.Properties {
	if i.parser != nil {
		if fields, ok := i.parser.Parse(string(code), info); ok {
			return properties.Merge(info, fields.Map())
		}
	}
	return properties.Extract(info)
}

// parseAmount reads an amount with a decimal comma, rounded to cents.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(2), nil
}

// transactionID hashes the columns that identify a row, so importing the same
// export twice produces the same IDs.
func transactionID(row Row, code Code, direction Direction) string {
	base := fmt.Sprintf("|%s|%s|%s%s|%s|%s|%s %s|%s|",
		row.Date, row.IBAN, row.Amount, direction.hashName(), row.CounterIBAN,
		row.Balance, row.Name, row.Info, hashNames[code])
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}

func (i *Importer) debug(msg string, keyvals ...interface{}) {
	if i.logger != nil {
		i.logger.Debug(msg, keyvals...)
	}
}
