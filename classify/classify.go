// Package classify picks a ledger account for an imported transaction.
//
// Resolution runs a fixed chain of lookups against read-only repositories:
//
//  1. the direct debit mandate (Machtiging ID) against contract assignments
//  2. the row's tag against account codes, when no account was found yet
//  3. the relation name, known for the counter IBAN or taken from the attributes
//  4. the Description against the searches registered for "<cost center> & <relation>"
//  5. the relation name against name searches, when no account was found yet
//
// Step 4 replaces an account found by steps 1 and 2.
package classify

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/properties"
)

// AccountsRepository finds accounts and assignment rules.
type AccountsRepository interface {
	FindAccountByReference(reference string) (*model.Account, bool)
	// SearchAccountByName returns the first matching name rule and the text it matched.
	SearchAccountByName(name string) (*model.NameAssignment, string, bool)
	SearchAccountByContract(code string) (*model.ContractAssignment, bool)
	SearchAccountByDescription(key, description string) (*model.DescriptionAssignment, bool)
}

// CostCentersRepository maps own bank accounts to cost centers.
type CostCentersRepository interface {
	FindCostCenterByIBAN(iban string) (string, bool)
}

// RelationsRepository finds known counterparties.
type RelationsRepository interface {
	FindRelationByReference(reference string) (*model.Relation, bool)
}

// Input is what the resolver needs from a statement row.
type Input struct {
	OwnIBAN     string
	CounterIBAN *string
	Attributes  properties.Properties
}

// Result is the outcome of a resolution. Attributes no longer hold the keys that
// were consumed by a lookup.
type Result struct {
	CostCenter       string
	AccountCode      *string
	AssignmentReason *model.AssignmentReason
	RelationName     *string
	RelationIBAN     *string
	Attributes       properties.Properties
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger logs every decision at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver runs the lookup chain. It keeps no state between calls.
type Resolver struct {
	accounts    AccountsRepository
	costCenters CostCentersRepository
	relations   RelationsRepository
	logger      *log.Logger
}

// New creates a Resolver over the given repositories.
func New(accounts AccountsRepository, costCenters CostCentersRepository, relations RelationsRepository, opts ...Option) *Resolver {
	r := &Resolver{
		accounts:    accounts,
		costCenters: costCenters,
		relations:   relations,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies one transaction. It reports false when the own IBAN has no
// cost center; such rows are not part of the ledger. The input attributes are not
// modified.
func (r *Resolver) Resolve(in Input) (Result, bool) {
	costCenter, ok := r.costCenters.FindCostCenterByIBAN(in.OwnIBAN)
	if !ok {
		r.debug("skipping row for unknown bank account", "iban", in.OwnIBAN)
		return Result{}, false
	}

	res := Result{
		CostCenter: costCenter,
		Attributes: in.Attributes.Clone(),
	}
	if res.Attributes == nil {
		res.Attributes = make(properties.Properties)
	}
	attrs := res.Attributes

	var knownName *string
	if in.CounterIBAN != nil {
		if relation, ok := r.relations.FindRelationByReference(*in.CounterIBAN); ok {
			res.RelationIBAN = ptr(*in.CounterIBAN)
			knownName = ptr(relation.Name)
		}
	}

	if code, ok := attrs[properties.Contract]; ok {
		if contract, ok := r.accounts.SearchAccountByContract(code); ok {
			delete(attrs, properties.Contract)
			res.assign(contract.AccountCode, model.ReasonContract)
			if contract.Description != nil {
				description := *contract.Description
				if existing, ok := attrs.Description(); ok {
					description += " " + existing
				}
				attrs.DefineDescription(description)
			}
			r.debug("assigned by contract", "contract", code, "account", contract.AccountCode)
		}
	}

	if tag, ok := attrs.Take(properties.Tag); ok && res.AccountCode == nil {
		if account, ok := r.accounts.FindAccountByReference(tag); ok {
			res.assign(account.Code, model.ReasonReference)
			r.debug("assigned by tag", "tag", tag, "account", account.Code)
		}
	}

	if knownName != nil {
		res.RelationName = knownName
	} else if name, ok := attrs.Take(properties.Name); ok {
		res.RelationName = ptr(name)
	}

	if res.RelationName == nil {
		return res, true
	}
	name := *res.RelationName

	if description, ok := attrs.Description(); ok {
		key := DescriptionKey(costCenter, name)
		if rule, ok := r.accounts.SearchAccountByDescription(key, description); ok {
			if res.AccountCode != nil && *res.AccountCode != rule.AccountCode {
				r.debug("description rule overrides account", "previous", *res.AccountCode, "account", rule.AccountCode)
			}
			res.assign(rule.AccountCode, model.ReasonDescription)
			r.debug("assigned by description", "key", key, "account", rule.AccountCode)
		}
	}

	if res.AccountCode == nil {
		if rule, matched, ok := r.accounts.SearchAccountByName(name); ok {
			res.RelationName = ptr(matched)
			res.assign(rule.AccountCode, model.ReasonRelationName)
			r.debug("assigned by relation name", "name", matched, "term", rule.Term, "account", rule.AccountCode)
		}
	}

	return res, true
}

// DescriptionKey is the lookup key for description searches of a relation within
// a cost center.
func DescriptionKey(costCenter, relationName string) string {
	return fmt.Sprintf("%s & %s", costCenter, relationName)
}

func (res *Result) assign(code string, reason model.AssignmentReason) {
	res.AccountCode = ptr(code)
	res.AssignmentReason = ptr(reason)
}

func (r *Resolver) debug(msg string, keyvals ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}

func ptr[T any](v T) *T {
	return &v
}
