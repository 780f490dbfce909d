// Package format compiles declarative bank description formats and matches
// descriptions against them.
//
// A format file lists reusable regular expression fragments ("aliases") and, per
// mutation kind, candidate sequences of "Label: value" fields in the order they
// appear in a description:
//
//	aliases:
//	  datum: '[0-9]{2}-[0-9]{2}-[0-9]{4}'
//	definitionsPerMutationKind:
//	  BA:
//	    - Pasvolgnr: '[0-9]+'
//	      Transactie: '[0-9A-Z]+'
//	      Datum/Tijd: '~datum~ [0-9:]+'
//
// Matching works from the end of the description: the last field of a sequence is
// matched first against the tail of the text, and every match cuts the remaining
// text down to what precedes it.
//
// Field names are matched literally: a named field "Datum/Tijd" becomes the
// expression `Datum/Tijd: (...)$` with the name quoted, so regular expression
// characters in a label need no escaping. Aliases are expanded in field patterns
// only; a ~marker~ inside a field name is part of the literal label.
// Alias expansion is limited in depth and in the length of the resulting pattern.
//
//	parser, err := format.Compile(ctx, file)
//	if err != nil {
//	    return err
//	}
//	fields, ok := parser.Parse("BA", description)
package format

import (
	"context"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/perfin/telemetry"
)

// sequence holds compiled elements in reverse of their configured order.
type sequence []*Element

// DescriptionParser matches descriptions against the compiled candidate sequences of
// each mutation kind. It is immutable once built.
type DescriptionParser struct {
	alternatives map[string][]sequence
}

// New compiles all definitions. Kinds are compiled in sorted order so the first
// reported error is stable.
func New(defs *Definitions) (*DescriptionParser, error) {
	p := &DescriptionParser{
		alternatives: make(map[string][]sequence, len(defs.Kinds)),
	}

	kinds := maps.Keys(defs.Kinds)
	slices.Sort(kinds)

	for _, kind := range kinds {
		candidates := defs.Kinds[kind]
		compiled := make([]sequence, 0, len(candidates))

		for i, candidate := range candidates {
			seq := make(sequence, 0, len(candidate))
			for j := len(candidate) - 1; j >= 0; j-- {
				loc := Location{Kind: kind, Alternative: i + 1}
				element, err := compileElement(defs.Aliases, candidate[j], loc)
				if err != nil {
					return nil, err
				}
				seq = append(seq, element)
			}
			compiled = append(compiled, seq)
		}

		p.alternatives[kind] = compiled
	}

	return p, nil
}

// Compile loads format definitions from r and compiles them.
func Compile(ctx context.Context, r io.Reader) (*DescriptionParser, error) {
	timer := telemetry.StartTimer(ctx, "format.compile")
	defer timer.End()

	defs, err := Load(r)
	if err != nil {
		return nil, err
	}
	return New(defs)
}

// Parse tries the candidate sequences of kind in configured order and returns the
// fields of the first one that matches. The result is ordered by match, so the
// last configured field comes first.
func (p *DescriptionParser) Parse(kind, description string) (Fields, bool) {
	for _, seq := range p.alternatives[kind] {
		if fields := seq.match(description); len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

func (s sequence) match(description string) Fields {
	fields := make(Fields, 0, len(s))
	remainder := description

	for _, element := range s {
		value, start, ok := element.match(remainder)
		if !ok {
			if element.IsOptional() {
				continue
			}
			return nil
		}

		if element.Capture == Named {
			fields = append(fields, Field{Name: element.Name, Value: value})
		}
		remainder = strings.TrimSpace(remainder[:start])
	}

	return fields
}

// Kinds returns the configured mutation kinds, sorted.
func (p *DescriptionParser) Kinds() []string {
	kinds := maps.Keys(p.alternatives)
	slices.Sort(kinds)
	return kinds
}

// Alternatives returns the compiled elements of every candidate sequence of kind,
// in the order they are tried.
func (p *DescriptionParser) Alternatives(kind string) [][]*Element {
	seqs := p.alternatives[kind]
	out := make([][]*Element, len(seqs))
	for i, seq := range seqs {
		out[i] = slices.Clone([]*Element(seq))
	}
	return out
}
