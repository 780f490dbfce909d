package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/perfin/model"
	"github.com/robinvdvleuten/perfin/output"
)

type fakeAccounts map[string]string

func (f fakeAccounts) FindAccountByReference(code string) (*model.Account, bool) {
	description, ok := f[code]
	if !ok {
		return nil, false
	}
	return &model.Account{Code: code, Description: description}, true
}

func transaction(amount string, account, relation *string) *model.Transaction {
	tx := &model.Transaction{
		Date:         time.Date(2022, 1, 26, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString(amount),
		AccountCode:  account,
		RelationName: relation,
		Attributes:   map[string]string{},
	}
	if account != nil {
		reason := model.ReasonRelationName
		tx.AssignmentReason = &reason
	}
	return tx
}

func str(s string) *string { return &s }

func TestGroupTransactions(t *testing.T) {
	accounts := fakeAccounts{"4600": "Groceries", "4300": "Utilities"}

	groups := groupTransactions(accounts, []*model.Transaction{
		transaction("-12.50", str("4600"), str("Albert Heijn")),
		transaction("-3.10", nil, str("Bakker")),
		transaction("-85.00", str("4300"), str("Energie BV")),
		transaction("-7.25", str("4600"), str("Jumbo")),
		transaction("-1.00", nil, nil),
		transaction("-2.00", str("9999"), nil),
		transaction("-4.00", nil, str("Bakker")),
	})

	titles := make([]string, len(groups))
	for i, group := range groups {
		titles[i] = group.Title
	}
	assert.Equal(t, []string{"4300 - Utilities", "4600 - Groceries", "9999", "Bakker", "[Unknown]"}, titles)

	assert.True(t, groups[1].Assigned)
	assert.Equal(t, 2, len(groups[1].Transactions))
	assert.Equal(t, "-19.75", groups[1].Total.StringFixed(2))

	assert.False(t, groups[3].Assigned)
	assert.Equal(t, "-7.10", groups[3].Total.StringFixed(2))
}

func TestWriteGroups(t *testing.T) {
	var buf bytes.Buffer
	styles := output.NewStyles(&buf, termenv.WithProfile(termenv.Ascii))

	tx := transaction("-12.50", str("4600"), str("Albert Heijn"))
	tx.Attributes["Omschrijving"] = "Boodschappen"
	tx.Attributes["Term"] = "F1Z5AJ"

	groups := groupTransactions(fakeAccounts{"4600": "Groceries"}, []*model.Transaction{
		tx,
		transaction("1210.00", nil, nil),
	})
	writeGroups(&buf, styles, groups, "EUR")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 6, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "4600 - Groceries "))
	assert.True(t, strings.HasSuffix(lines[0], "    -12.50 EUR"))
	assert.Contains(t, lines[1], "2022-01-26  Albert Heijn ")
	assert.Contains(t, lines[1], "relation_name")
	assert.Equal(t, "              Boodschappen, Term: F1Z5AJ", lines[2])
	assert.Equal(t, "", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "[Unknown] "))
	assert.Contains(t, lines[5], "[Unknown]")
	assert.Contains(t, lines[5], "1210.00")
}

func TestWriteGroupsTruncatesLongNames(t *testing.T) {
	var buf bytes.Buffer
	styles := output.NewStyles(&buf, termenv.WithProfile(termenv.Ascii))

	long := "Stichting Beheer Derdengelden Betaalverkeer Nederland"
	writeGroups(&buf, styles, groupTransactions(fakeAccounts{}, []*model.Transaction{
		transaction("-1.00", nil, &long),
	}), "")

	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, strings.Split(buf.String(), "\n")[1], "Nederland")
	assert.True(t, strings.HasSuffix(strings.Split(buf.String(), "\n")[0], "-1.00"))
}
