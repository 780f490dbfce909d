package ledger

import "fmt"

// UnrecognisedCostCenterError is returned when a bank account is booked under a
// cost center the ledger does not declare.
type UnrecognisedCostCenterError struct {
	IBAN       string
	CostCenter string
}

func (e *UnrecognisedCostCenterError) Error() string {
	return fmt.Sprintf("bank account %s: Unrecognised cost center '%s'", e.IBAN, e.CostCenter)
}

// UnrecognisedAccountError is returned when an assignment rule points to an
// account the ledger does not declare.
type UnrecognisedAccountError struct {
	Account string
	Rule    string // section of the ledger file, e.g. assign_by_name
	Key     string
}

func (e *UnrecognisedAccountError) Error() string {
	return fmt.Sprintf("%s '%s': Unrecognised account code '%s'", e.Rule, e.Key, e.Account)
}

// InvalidSearchError is returned when a search expression does not compile.
type InvalidSearchError struct {
	Rule   string
	Key    string
	Search string
	Err    error
}

func (e *InvalidSearchError) Error() string {
	return fmt.Sprintf("%s '%s': Invalid search expression '%s': %v", e.Rule, e.Key, e.Search, e.Err)
}

func (e *InvalidSearchError) Unwrap() error {
	return e.Err
}

// Ledger file sections referenced by errors.
const (
	ruleByName        = "assign_by_name"
	ruleByDescription = "assign_by_description"
	ruleByContract    = "assign_by_contract"
)
