package format

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func mustLoad(t *testing.T, src string) *Definitions {
	t.Helper()
	defs, err := Load(strings.NewReader(src))
	assert.NoError(t, err)
	return defs
}

func TestParseFieldSpec(t *testing.T) {
	tests := []struct {
		key  string
		want FieldSpec
	}{
		{"Naam", FieldSpec{Name: "Naam", Presence: Required, Capture: Named}},
		{"Kenmerk?", FieldSpec{Name: "Kenmerk", Presence: Optional, Capture: Named}},
		{"^rest", FieldSpec{Name: "rest", Presence: Required, Capture: Anonymous}},
		{"^wallet?", FieldSpec{Name: "wallet", Presence: Optional, Capture: Anonymous}},
		{"Machtiging ID", FieldSpec{Name: "Machtiging ID", Presence: Required, Capture: Named}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			spec := ParseFieldSpec(tt.key)
			assert.Equal(t, tt.want, spec)
			assert.Equal(t, tt.key, spec.String())
		})
	}
}

func TestLoadKeepsFieldOrder(t *testing.T) {
	defs := mustLoad(t, `
definitionsPerMutationKind:
  GT:
    - Zeta: 'z'
      Alpha: 'a'
      Mid?: 'm'
`)

	seq := defs.Kinds["GT"][0]
	assert.Equal(t, 3, len(seq))
	assert.Equal(t, "Zeta", seq[0].Spec.Name)
	assert.Equal(t, "Alpha", seq[1].Spec.Name)
	assert.Equal(t, "Mid", seq[2].Spec.Name)
	assert.Equal(t, Optional, seq[2].Spec.Presence)
	assert.Equal(t, 6, seq[2].Line)
}

func TestLoadEmpty(t *testing.T) {
	defs := mustLoad(t, "")
	assert.Equal(t, 0, len(defs.Aliases))
	assert.Equal(t, 0, len(defs.Kinds))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"UnknownKey", "formats: {}\n"},
		{"SequenceNotMapping", "definitionsPerMutationKind:\n  GT:\n    - 'Naam'\n"},
		{"PatternNotScalar", "definitionsPerMutationKind:\n  GT:\n    - Naam: [a, b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			var defErr *DefinitionError
			assert.True(t, errors.As(err, &defErr), "got %v", err)
			assert.Contains(t, err.Error(), "incorrect format definitions")
		})
	}
}

func TestCompileExpandsNestedAliases(t *testing.T) {
	aliases := map[string]string{
		"datum":  "[0-9]{2}-[0-9]{2}-[0-9]{4}",
		"tijd":   "[0-9]{2}:[0-9]{2}",
		"moment": "~datum~ ~tijd~",
	}

	named, err := compileElement(aliases, FieldDefinition{Spec: ParseFieldSpec("Datum/Tijd"), Pattern: "~moment~"}, Location{})
	assert.NoError(t, err)
	assert.Equal(t, `Datum/Tijd: ([0-9]{2}-[0-9]{2}-[0-9]{4} [0-9]{2}:[0-9]{2})$`, named.Pattern())

	anonymous, err := compileElement(aliases, FieldDefinition{Spec: ParseFieldSpec("^rest?"), Pattern: "~tijd~ .*"}, Location{})
	assert.NoError(t, err)
	assert.Equal(t, `([0-9]{2}:[0-9]{2} .*)$`, anonymous.Pattern())
	assert.True(t, anonymous.IsOptional())
	assert.Equal(t, Anonymous, anonymous.Capture)
}

func TestCompileQuotesFieldName(t *testing.T) {
	el, err := compileElement(nil, FieldDefinition{Spec: ParseFieldSpec("Bedrag (EUR)"), Pattern: "[0-9,]+"}, Location{})
	assert.NoError(t, err)

	value, _, ok := el.match("Bedrag (EUR): 12,50")
	assert.True(t, ok)
	assert.Equal(t, "12,50", value)
}

func TestCompileUndefinedAlias(t *testing.T) {
	defs := mustLoad(t, `
aliases:
  datum: '[0-9-]+'
definitionsPerMutationKind:
  BA:
    - Datum: '~datum~'
  GT:
    - Naam: '.+'
    - Datum: '~missing~'
`)

	_, err := New(defs)

	var aliasErr *AliasNotDefinedError
	assert.True(t, errors.As(err, &aliasErr), "got %v", err)
	assert.Equal(t, "missing", aliasErr.Alias)
	assert.Equal(t, "Datum", aliasErr.Field.Name)
	assert.Equal(t, "Datum: ~missing~", aliasErr.Definition)
	assert.Equal(t, Location{Kind: "GT", Alternative: 2, Line: 9}, aliasErr.GetLocation())
	assert.Equal(t, "line 9: kind GT, alternative 2: Alias 'missing' is not defined (in 'Datum: ~missing~')", err.Error())
}

func TestCompileCircularAlias(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
		chain   []string
	}{
		{"Self", map[string]string{"a": "x~a~"}, []string{"a", "a"}},
		{"Pair", map[string]string{"a": "~b~", "b": "(~a~)"}, []string{"a", "b", "a"}},
		{"ThroughSibling", map[string]string{"a": "~c~ ~b~", "b": "~a~", "c": "c"}, []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileElement(tt.aliases, FieldDefinition{Spec: ParseFieldSpec("Naam"), Pattern: "~a~"}, Location{})

			var circular *CircularAliasError
			assert.True(t, errors.As(err, &circular), "got %v", err)
			assert.Equal(t, tt.chain, circular.Chain)
			assert.Equal(t, "Naam", circular.Field.Name)
		})
	}
}

func TestCompileAliasDepth(t *testing.T) {
	chain := func(n int) map[string]string {
		aliases := make(map[string]string, n+1)
		for i := 0; i < n; i++ {
			aliases[fmt.Sprintf("a%d", i)] = fmt.Sprintf("~a%d~", i+1)
		}
		aliases[fmt.Sprintf("a%d", n)] = "x"
		return aliases
	}
	def := FieldDefinition{Spec: ParseFieldSpec("^x"), Pattern: "~a0~"}

	el, err := compileElement(chain(10), def, Location{})
	assert.NoError(t, err)
	assert.Equal(t, "(x)$", el.Pattern())

	_, err = compileElement(chain(maxAliasDepth+5), def, Location{})
	var circular *CircularAliasError
	assert.True(t, errors.As(err, &circular), "got %v", err)
	assert.Equal(t, maxAliasDepth, len(circular.Chain))
}

func TestCompileAliasFanOut(t *testing.T) {
	aliases := make(map[string]string, 25)
	for i := 0; i < 24; i++ {
		aliases[fmt.Sprintf("a%d", i)] = fmt.Sprintf("~a%d~~a%d~", i+1, i+1)
	}
	aliases["a24"] = "x"
	def := FieldDefinition{Spec: ParseFieldSpec("Naam"), Pattern: "~a0~"}

	_, err := compileElement(aliases, def, Location{Kind: "GT", Alternative: 1, Line: 4})

	var tooLong *PatternTooLongError
	assert.True(t, errors.As(err, &tooLong), "got %v", err)
	assert.Equal(t, maxPatternLength, tooLong.Limit)
	assert.True(t, tooLong.Length > maxPatternLength)
	assert.Equal(t, 4, tooLong.GetLocation().Line)
	assert.True(t, len(err.Error()) < 200)

	delete(aliases, "a24")
	for i := 8; i < 24; i++ {
		delete(aliases, fmt.Sprintf("a%d", i))
	}
	aliases["a8"] = "x"
	el, err := compileElement(aliases, def, Location{})
	assert.NoError(t, err)
	assert.Equal(t, "("+strings.Repeat("x", 256)+")$", el.Pattern())
}

func TestCompileInvalidPattern(t *testing.T) {
	defs := mustLoad(t, `
aliases:
  open: '([0-9'
definitionsPerMutationKind:
  BA:
    - Datum: '~open~'
`)

	_, err := New(defs)

	var patternErr *InvalidPatternError
	assert.True(t, errors.As(err, &patternErr), "got %v", err)
	assert.Equal(t, "Datum", patternErr.Field.Name)
	assert.Equal(t, "Datum: (([0-9)$", patternErr.Pattern)
	assert.Equal(t, "BA", patternErr.GetLocation().Kind)

	var syntaxErr *syntax.Error
	assert.True(t, errors.As(err, &syntaxErr))
}
