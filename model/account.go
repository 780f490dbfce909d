package model

import "regexp"

// Account is a ledger account addressed by its code.
type Account struct {
	Code        string `yaml:"-"`
	Description string `yaml:"description"`
}

// Relation is a counterparty known by reference (usually its IBAN).
type Relation struct {
	Reference string `yaml:"-"`
	Name      string `yaml:"name"`
}

// ContractAssignment binds a direct debit mandate to an account.
type ContractAssignment struct {
	AccountCode string  `yaml:"account"`
	Description *string `yaml:"description,omitempty"`
	Note        *string `yaml:"note,omitempty"`
}

// DescriptionAssignment binds a description search expression to an account.
type DescriptionAssignment struct {
	AccountCode string
	Search      *regexp.Regexp
	Note        string
}

// NameAssignment binds a relation name search expression to an account.
type NameAssignment struct {
	AccountCode string
	Term        string
	Search      *regexp.Regexp
}

// BankAccount is an own bank account booked under a cost center.
type BankAccount struct {
	IBAN        string `yaml:"-"`
	CostCenter  string `yaml:"cost_center"`
	Description string `yaml:"description,omitempty"`
}
