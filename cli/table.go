package cli

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/output"
	"github.com/robinvdvleuten/perfin/properties"
)

const (
	unknownRelation = "[Unknown]"
	nameColumnWidth = 28
	amountWidth     = 10
)

type accountFinder interface {
	FindAccountByReference(reference string) (*model.Account, bool)
}

// transactionGroup is a set of transactions shown under one heading.
type transactionGroup struct {
	Title        string
	Assigned     bool
	Transactions []*model.Transaction
	Total        decimal.Decimal
}

// groupTransactions groups assigned transactions by account and the rest by
// relation name. Assigned groups come first; both halves are sorted by title.
func groupTransactions(accounts accountFinder, txs []*model.Transaction) []*transactionGroup {
	assigned := make(map[string]*transactionGroup)
	unassigned := make(map[string]*transactionGroup)

	for _, tx := range txs {
		title, groups := unknownRelation, unassigned
		switch {
		case tx.AccountCode != nil:
			title, groups = *tx.AccountCode, assigned
			if account, ok := accounts.FindAccountByReference(*tx.AccountCode); ok && account.Description != "" {
				title = fmt.Sprintf("%s - %s", account.Code, account.Description)
			}
		case tx.RelationName != nil && *tx.RelationName != "":
			title = *tx.RelationName
		}

		group, ok := groups[title]
		if !ok {
			group = &transactionGroup{Title: title, Assigned: tx.AccountCode != nil}
			groups[title] = group
		}
		group.Transactions = append(group.Transactions, tx)
		group.Total = group.Total.Add(tx.Amount)
	}

	return append(sortedGroups(assigned), sortedGroups(unassigned)...)
}

func sortedGroups(groups map[string]*transactionGroup) []*transactionGroup {
	titles := maps.Keys(groups)
	slices.Sort(titles)

	out := make([]*transactionGroup, 0, len(titles))
	for _, title := range titles {
		out = append(out, groups[title])
	}
	return out
}

// writeGroups renders the groups as an aligned table. Group totals are
// followed by the currency:
//
//	4600 - Groceries                                   -12.50 EUR
//	  2022-01-26  Albert Heijn                 -12.50  relation_name
//	              Pasvolgnr: 003, Term: F1Z5AJ
func writeGroups(w io.Writer, styles *output.Styles, groups []*transactionGroup, currency string) {
	for i, group := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}

		title := runewidth.FillRight(group.Title, 14+nameColumnWidth)
		if group.Assigned {
			title = styles.Account(title)
		} else {
			title = styles.Warning(title)
		}
		total := formatAmount(styles, group.Total)
		if currency != "" {
			total += " " + styles.Dim(currency)
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", title, total)

		for _, tx := range group.Transactions {
			name := unknownRelation
			if tx.RelationName != nil {
				name = *tx.RelationName
			}
			name = runewidth.FillRight(runewidth.Truncate(name, nameColumnWidth-1, "…"), nameColumnWidth)

			var reason string
			if tx.AssignmentReason != nil {
				reason = styles.Reason(tx.AssignmentReason.String())
			}

			_, _ = fmt.Fprintf(w, "  %s  %s %s  %s\n",
				styles.Dim(tx.Date.Format("2006-01-02")), name, formatAmount(styles, tx.Amount), reason)

			if attrs := properties.Properties(tx.Attributes).String(); attrs != "" {
				_, _ = fmt.Fprintf(w, "              %s\n", styles.Dim(attrs))
			}
		}
	}
}

func formatAmount(styles *output.Styles, amount decimal.Decimal) string {
	return styles.Amount(runewidth.FillLeft(amount.StringFixed(2), amountWidth))
}
