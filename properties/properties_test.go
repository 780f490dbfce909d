package properties

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Properties
	}{
		{
			name: "DirectDebit",
			text: "Naam: GBLT Omschrijving: GBLT incasso termijn 8 van 10 IBAN: NL82DEUT0319804615 Kenmerk: K2BGBL000000087378701 Machtiging ID: 11740450 Incassant ID: NL07ZZZ082053570000 Doorlopende incasso",
			want: Properties{
				Name:        "GBLT",
				Description: "GBLT incasso termijn 8 van 10",
				"Kenmerk":   "K2BGBL000000087378701",
				Contract:    "11740450",
			},
		},
		{
			name: "Terminal",
			text: "Pasvolgnr: 003 Datum/Tijd: 26-01-2022 15:42 Term: F1Z5AJ",
			want: Properties{
				"Pasvolgnr":  "003",
				"Datum/Tijd": "26-01-2022 15:42",
				"Term":       "F1Z5AJ",
			},
		},
		{
			name: "LeadingText",
			text: "Albert Heijn 1234 AMSTERDAM Pasvolgnr: 003",
			want: Properties{
				Description: "Albert Heijn 1234 AMSTERDAM",
				"Pasvolgnr": "003",
			},
		},
		{
			name: "LeadingTextBeforeDescription",
			text: "Spaaropdracht Omschrijving: vakantie Valutadatum: 01-02-2022",
			want: Properties{
				Description: "Spaaropdracht vakantie",
			},
		},
		{
			name: "NoLabels",
			text: "  Overboeking spaarrekening ",
			want: Properties{
				Description: "Overboeking spaarrekening",
			},
		},
		{
			name: "EmptyValue",
			text: "Kenmerk: Omschrijving: test   ",
			want: Properties{
				Description: "test",
			},
		},
		{
			name: "IgnoredCaseInsensitive",
			text: "iban: NL00AAAA0000000001 CHECK: 1 Naam: ACME",
			want: Properties{
				Name: "ACME",
			},
		},
		{
			name: "FirstOccurrenceWins",
			text: "Naam: A Naam: B",
			want: Properties{
				Name: "A",
			},
		},
		{
			name: "Empty",
			text: "",
			want: Properties{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestMerge(t *testing.T) {
	props := Merge("Albert Heijn Omschrijving: boodschappen wk 4 Kenmerk: 12 34", map[string]string{
		Description: "boodschappen",
		"Kenmerk":   "12",
		"Term":      "F1Z5AJ",
	})

	assert.Equal(t, Properties{
		Description: "Albert Heijn boodschappen",
		"Kenmerk":   "12",
		"Term":      "F1Z5AJ",
	}, props)
}

func TestExtractMergedDescriptionIsStable(t *testing.T) {
	text := "Spaaropdracht Omschrijving: vakantie"

	first := Extract(text)
	description, ok := first.Description()
	assert.True(t, ok)
	assert.Equal(t, "Spaaropdracht vakantie", description)

	again := Extract(description)
	assert.Equal(t, Properties{Description: "Spaaropdracht vakantie"}, again)
}

func TestPrefixIsAlwaysPrepended(t *testing.T) {
	text := "ACME Corp Omschrijving: ACME Corp factuur 12"

	props := Extract(text)
	assert.Equal(t, "ACME Corp ACME Corp factuur 12", props[Description])

	merged := Merge(text, map[string]string{Description: "ACME Corp factuur 12"})
	assert.Equal(t, "ACME Corp ACME Corp factuur 12", merged[Description])
}

func TestDefine(t *testing.T) {
	props := Properties{}

	props.DefineName("CCVKiosk Centraal")
	props.DefineTag("#4300")
	props.DefineDescription("koffie")

	assert.Equal(t, Properties{Name: "Kiosk Centraal", Tag: "4300", Description: "koffie"}, props)

	props.DefineName("ACME CCV")
	props.DefineTag("4300#")
	assert.Equal(t, "ACME CCV", props[Name])
	assert.Equal(t, "4300#", props[Tag])
}

func TestTake(t *testing.T) {
	props := Properties{Name: "ACME", Tag: "4300"}

	value, ok := props.Take(Tag)
	assert.True(t, ok)
	assert.Equal(t, "4300", value)
	assert.Equal(t, Properties{Name: "ACME"}, props)

	_, ok = props.Take(Tag)
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	props := Properties{Name: "ACME"}
	clone := props.Clone()
	clone[Name] = "Other"

	assert.Equal(t, "ACME", props[Name])
}

func TestString(t *testing.T) {
	tests := []struct {
		props Properties
		want  string
	}{
		{Properties{Description: "Factuur 2022-001", Name: "ACME Corp", "Kenmerk": "123456"}, "Factuur 2022-001, Kenmerk: 123456, Naam: ACME Corp"},
		{Properties{Description: "Factuur"}, "Factuur"},
		{Properties{Name: "ACME Corp"}, "Naam: ACME Corp"},
		{Properties{}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.props.String())
	}
}
