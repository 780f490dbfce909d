// Package model holds the records shared between the importer, the classification
// resolver and the ledger repositories.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentReason names the heuristic that produced a transaction's account code.
type AssignmentReason string

const (
	ReasonReference    AssignmentReason = "reference"
	ReasonRelationName AssignmentReason = "relation_name"
	ReasonContract     AssignmentReason = "contract"
	ReasonDescription  AssignmentReason = "description"
)

// String returns the serialised form of the reason.
func (r AssignmentReason) String() string {
	return string(r)
}

// Transaction is the enriched record produced for every imported statement row whose
// own IBAN maps to a cost center. It is not modified after construction.
type Transaction struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	CostCenter string    `json:"costCenter"`

	RelationName *string `json:"relationName,omitempty"`
	RelationIBAN *string `json:"relationIban,omitempty"`

	Attributes map[string]string `json:"attributes"`
	Amount     decimal.Decimal   `json:"amount"`

	AccountCode      *string           `json:"accountCode,omitempty"`
	AssignmentReason *AssignmentReason `json:"assignmentReason,omitempty"`
}

// IsAssigned reports whether the resolver found an account for the transaction.
func (t *Transaction) IsAssigned() bool {
	return t.AccountCode != nil
}
