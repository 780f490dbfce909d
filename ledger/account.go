package ledger

import (
	"strings"

	"github.com/robinvdvleuten/perfin/model"
)

// FindAccountByReference returns the account with the given code.
func (l *Ledger) FindAccountByReference(reference string) (*model.Account, bool) {
	account, ok := l.accounts[reference]
	return account, ok
}

// SearchAccountByName returns the first name rule matching name, with the text it
// matched. Rules are tried by account code, then in file order.
func (l *Ledger) SearchAccountByName(name string) (*model.NameAssignment, string, bool) {
	for _, rule := range l.byName {
		if loc := rule.Search.FindStringIndex(name); loc != nil {
			return rule, name[loc[0]:loc[1]], true
		}
	}
	return nil, "", false
}

// SearchAccountByContract returns the assignment for a direct debit mandate.
func (l *Ledger) SearchAccountByContract(code string) (*model.ContractAssignment, bool) {
	contract, ok := l.contracts[code]
	return contract, ok
}

// SearchAccountByDescription returns the first rule registered under key whose
// search matches description.
func (l *Ledger) SearchAccountByDescription(key, description string) (*model.DescriptionAssignment, bool) {
	for _, rule := range l.byDesc[key] {
		if rule.Search.MatchString(description) {
			return rule, true
		}
	}
	return nil, false
}

// FindCostCenterByIBAN returns the cost center of an own bank account. IBANs
// compare case-insensitively.
func (l *Ledger) FindCostCenterByIBAN(iban string) (string, bool) {
	account, ok := l.bankAccounts[strings.ToUpper(iban)]
	if !ok {
		return "", false
	}
	return account.CostCenter, true
}

// FindRelationByReference returns the relation registered under reference.
func (l *Ledger) FindRelationByReference(reference string) (*model.Relation, bool) {
	relation, ok := l.relations[reference]
	return relation, ok
}
