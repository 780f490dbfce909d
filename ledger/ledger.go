// Package ledger loads the bookkeeping of one organisation and year from YAML and
// answers the lookups the classification resolver needs.
//
// A ledger file declares the cost centers and the own bank accounts booked under
// them, the known relations, the chart of accounts and three kinds of assignment
// rules:
//
//	name: Huishouden
//	year: 2022
//	currency: EUR
//	cost_centers: [Home]
//	bank_accounts:
//	  NL00INGB0000000001: {cost_center: Home}
//	relations:
//	  NL00AAAA0000000001: {name: ACME Corp}
//	accounts:
//	  "4300": {description: Utilities}
//	assign_by_name:
//	  "4600": ['albert heijn {naam}']
//	assign_by_description:
//	  "Home & ACME Corp":
//	    - {account: "4300", search: 'factuur'}
//	assign_by_contract:
//	  X1: {account: "4300", description: Utility}
//
// Searches are case-insensitive regular expressions. A Ledger is read-only after
// Load and safe for concurrent use.
package ledger

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/perfin/logging"
	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/telemetry"
)

// file is the on-disk shape of a ledger.
type file struct {
	Name         string                               `yaml:"name"`
	Year         int                                  `yaml:"year"`
	Currency     string                               `yaml:"currency"`
	CostCenters  []string                             `yaml:"cost_centers"`
	BankAccounts map[string]*model.BankAccount        `yaml:"bank_accounts"`
	Relations    map[string]*model.Relation           `yaml:"relations"`
	Accounts     map[string]*model.Account            `yaml:"accounts"`
	ByName       map[string][]string                  `yaml:"assign_by_name"`
	ByDesc       map[string][]descriptionRule         `yaml:"assign_by_description"`
	ByContract   map[string]*model.ContractAssignment `yaml:"assign_by_contract"`
	Options      map[string]optionValues              `yaml:"options"`
}

type descriptionRule struct {
	Account string `yaml:"account"`
	Search  string `yaml:"search"`
	Note    string `yaml:"note"`
}

// Ledger is a loaded ledger file.
type Ledger struct {
	name   string
	year   int
	config *Config

	costCenters  []string
	bankAccounts map[string]*model.BankAccount // keyed by upper-case IBAN
	relations    map[string]*model.Relation
	accounts     map[string]*model.Account
	contracts    map[string]*model.ContractAssignment
	byName       []*model.NameAssignment
	byDesc       map[string][]*model.DescriptionAssignment
}

// Load decodes and validates a ledger.
func Load(ctx context.Context, r io.Reader) (*Ledger, error) {
	timer := telemetry.StartTimer(ctx, "ledger.load")
	defer timer.End()

	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}

	cfg, err := configFromOptions(f.Options)
	if err != nil {
		return nil, err
	}
	if f.Currency != "" {
		cfg.Currency = f.Currency
	}

	l := &Ledger{
		name:         f.Name,
		year:         f.Year,
		config:       cfg,
		costCenters:  f.CostCenters,
		bankAccounts: make(map[string]*model.BankAccount, len(f.BankAccounts)),
		relations:    make(map[string]*model.Relation, len(f.Relations)),
		accounts:     make(map[string]*model.Account, len(f.Accounts)),
		contracts:    make(map[string]*model.ContractAssignment, len(f.ByContract)),
		byDesc:       make(map[string][]*model.DescriptionAssignment, len(f.ByDesc)),
	}

	for _, iban := range sortedKeys(f.BankAccounts) {
		account := valueOrZero(f.BankAccounts[iban])
		account.IBAN = iban
		if !slices.Contains(l.costCenters, account.CostCenter) {
			return nil, &UnrecognisedCostCenterError{IBAN: iban, CostCenter: account.CostCenter}
		}
		l.bankAccounts[strings.ToUpper(iban)] = account
	}

	for code, account := range f.Accounts {
		account = valueOrZero(account)
		account.Code = code
		l.accounts[code] = account
	}

	for reference, relation := range f.Relations {
		relation = valueOrZero(relation)
		relation.Reference = reference
		l.relations[reference] = relation
	}

	for _, code := range sortedKeys(f.ByName) {
		if _, ok := l.accounts[code]; !ok {
			return nil, &UnrecognisedAccountError{Account: code, Rule: ruleByName, Key: code}
		}
		for _, term := range f.ByName[code] {
			search, err := compileSearch(strings.ReplaceAll(term, NamePlaceholder, cfg.NamePlaceholder))
			if err != nil {
				return nil, &InvalidSearchError{Rule: ruleByName, Key: code, Search: term, Err: err}
			}
			l.byName = append(l.byName, &model.NameAssignment{AccountCode: code, Term: term, Search: search})
		}
	}

	for _, key := range sortedKeys(f.ByDesc) {
		rules := make([]*model.DescriptionAssignment, 0, len(f.ByDesc[key]))
		for _, rule := range f.ByDesc[key] {
			if _, ok := l.accounts[rule.Account]; !ok {
				return nil, &UnrecognisedAccountError{Account: rule.Account, Rule: ruleByDescription, Key: key}
			}
			search, err := compileSearch(rule.Search)
			if err != nil {
				return nil, &InvalidSearchError{Rule: ruleByDescription, Key: key, Search: rule.Search, Err: err}
			}
			rules = append(rules, &model.DescriptionAssignment{AccountCode: rule.Account, Search: search, Note: rule.Note})
		}
		l.byDesc[key] = rules
	}

	for _, code := range sortedKeys(f.ByContract) {
		contract := valueOrZero(f.ByContract[code])
		if _, ok := l.accounts[contract.AccountCode]; !ok {
			return nil, &UnrecognisedAccountError{Account: contract.AccountCode, Rule: ruleByContract, Key: code}
		}
		l.contracts[code] = contract
	}

	logging.FromContext(ctx).Debug("loaded ledger",
		"name", l.name, "year", l.year, "accounts", len(l.accounts), "relations", len(l.relations))

	return l, nil
}

// LoadFile loads the ledger stored at path.
func LoadFile(ctx context.Context, path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l, err := Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func compileSearch(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + expr)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func valueOrZero[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}

// Name returns the organisation name.
func (l *Ledger) Name() string { return l.name }

// Year returns the bookkeeping year.
func (l *Ledger) Year() int { return l.year }

// Config returns the ledger options.
func (l *Ledger) Config() *Config { return l.config }

// CostCenters returns the declared cost centers in file order.
func (l *Ledger) CostCenters() []string {
	return slices.Clone(l.costCenters)
}

// Accounts returns the chart of accounts ordered by code.
func (l *Ledger) Accounts() []*model.Account {
	accounts := make([]*model.Account, 0, len(l.accounts))
	for _, code := range sortedKeys(l.accounts) {
		accounts = append(accounts, l.accounts[code])
	}
	return accounts
}

// Relations returns the known relation names by reference.
func (l *Ledger) Relations() map[string]string {
	names := make(map[string]string, len(l.relations))
	for reference, relation := range l.relations {
		names[reference] = relation.Name
	}
	return names
}
