package output

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/muesli/termenv"
)

func TestStylesPlain(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, termenv.WithProfile(termenv.Ascii))

	tests := []struct {
		name  string
		style func(string) string
		text  string
	}{
		{"Success", styles.Success, "Formats OK"},
		{"Error", styles.Error, "Alias 'datum' is not defined"},
		{"Warning", styles.Warning, "unassigned"},
		{"FilePath", styles.FilePath, "data/formats/ing.yaml"},
		{"Account", styles.Account, "4300 - Utilities"},
		{"Reason", styles.Reason, "contract"},
		{"IBAN", styles.IBAN, "NL01INGB0000000001"},
		{"Amount", styles.Amount, "-12.50"},
		{"Field", styles.Field, "Omschrijving"},
		{"Keyword", styles.Keyword, "import"},
		{"Dim", styles.Dim, "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.style(tt.text))
		})
	}
}

func TestStylesColored(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf, termenv.WithProfile(termenv.ANSI))

	debit := styles.Amount("-12.50")
	credit := styles.Amount("12.50")

	assert.Contains(t, debit, "-12.50")
	assert.Contains(t, credit, "12.50")
	assert.NotEqual(t, debit, "-"+credit)
	assert.NotEqual(t, "12.50", credit)
}
