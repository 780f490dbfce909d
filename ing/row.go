package ing

import (
	"fmt"
	"strings"
)

// Code is the mutation kind of an ING statement row.
type Code string

const (
	CodeGirotel     Code = "GT" // online banking
	CodeATM         Code = "GM"
	CodePayTerminal Code = "BA"
	CodeOther       Code = "DV"
	CodeIDeal       Code = "ID"
	CodeCollect     Code = "IC" // direct debit
	CodeGiro        Code = "VZ"
	CodeTransfer    Code = "OV"
)

// hashNames are the tokens codes contribute to a transaction ID.
var hashNames = map[Code]string{
	CodeGirotel:     "Girotel",
	CodeATM:         "ATM",
	CodePayTerminal: "PayTerminal",
	CodeOther:       "Other",
	CodeIDeal:       "IDeal",
	CodeCollect:     "Collect",
	CodeGiro:        "Giro",
	CodeTransfer:    "Transfer",
}

// ParseCode validates a Code column value.
func ParseCode(s string) (Code, error) {
	code := Code(strings.TrimSpace(s))
	if _, ok := hashNames[code]; !ok {
		return "", fmt.Errorf("unknown transaction code %q", s)
	}
	return code, nil
}

// Direction is the "Af Bij" column.
type Direction string

const (
	Debit  Direction = "Af"  // money leaves the account
	Credit Direction = "Bij" // money enters the account
)

func parseDirection(s string) (Direction, error) {
	switch d := Direction(strings.TrimSpace(s)); d {
	case Debit, Credit:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q, expected Af or Bij", s)
}

func (d Direction) hashName() string {
	if d == Debit {
		return "Credit"
	}
	return "Debit"
}

// Column headers of an ING statement export.
const (
	ColumnDate        = "Datum"
	ColumnName        = "Naam / Omschrijving"
	ColumnIBAN        = "Rekening"
	ColumnCounterIBAN = "Tegenrekening"
	ColumnCode        = "Code"
	ColumnDirection   = "Af Bij"
	ColumnAmount      = "Bedrag (EUR)"
	ColumnInfo        = "Mededelingen"
	ColumnBalance     = "Saldo na mutatie"
	ColumnTag         = "Tag"
)

var requiredColumns = []string{
	ColumnDate, ColumnName, ColumnIBAN, ColumnCounterIBAN, ColumnCode,
	ColumnDirection, ColumnAmount, ColumnInfo, ColumnBalance,
}

// Row is a statement line as exported, before conversion.
type Row struct {
	Line        int
	Date        string
	Name        string
	IBAN        string
	CounterIBAN string
	Code        string
	Direction   string
	Amount      string
	Info        string
	Balance     string
	Tag         string
}

// header maps column names to their index in a record.
type header map[string]int

func parseHeader(record []string) (header, error) {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("statement is missing column %q", name)
		}
	}
	return h, nil
}

func (h header) row(line int, record []string) Row {
	get := func(name string) string {
		i, ok := h[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return Row{
		Line:        line,
		Date:        get(ColumnDate),
		Name:        get(ColumnName),
		IBAN:        get(ColumnIBAN),
		CounterIBAN: get(ColumnCounterIBAN),
		Code:        get(ColumnCode),
		Direction:   get(ColumnDirection),
		Amount:      get(ColumnAmount),
		Info:        get(ColumnInfo),
		Balance:     get(ColumnBalance),
		Tag:         get(ColumnTag),
	}
}
