package format_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/perfin/format"
)

func ExampleDescriptionParser_Parse() {
	parser, err := format.Compile(context.Background(), strings.NewReader(`
aliases:
  datum: '[0-9]{2}-[0-9]{2}-[0-9]{4}'
definitionsPerMutationKind:
  GT:
    - Naam: '.+'
      Kenmerk?: '[0-9]+'
      Valutadatum: '~datum~'
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	fields, ok := parser.Parse("GT", "Naam: ACME Corp Valutadatum: 26-01-2022")
	fmt.Println(ok)
	for _, field := range fields {
		fmt.Printf("%s = %s\n", field.Name, field.Value)
	}
	// Output:
	// true
	// Valutadatum = 26-01-2022
	// Naam = ACME Corp
}

func ExampleCompile_undefinedAlias() {
	_, err := format.Compile(context.Background(), strings.NewReader(`
definitionsPerMutationKind:
  BA:
    - Datum: '~datum~'
`))
	fmt.Println(err)
	// Output:
	// line 4: kind BA, alternative 1: Alias 'datum' is not defined (in 'Datum: ~datum~')
}
