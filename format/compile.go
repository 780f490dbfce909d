package format

import (
	"regexp"

	"golang.org/x/exp/slices"
)

// aliasMarker matches an alias reference such as ~datum~.
var aliasMarker = regexp.MustCompile(`~([^~]+)~`)

// maxAliasDepth bounds nested alias expansion.
const maxAliasDepth = 32

// maxPatternLength bounds the size of a fully expanded field pattern.
const maxPatternLength = 64 << 10

// Element is a compiled field, anchored to the end of the remaining description.
type Element struct {
	Name     string
	Presence Presence
	Capture  Capture

	re *regexp.Regexp
}

// Pattern returns the expanded expression the element was compiled from.
func (e *Element) Pattern() string {
	return e.re.String()
}

// IsOptional reports whether a miss keeps the sequence alive.
func (e *Element) IsOptional() bool {
	return e.Presence == Optional
}

// match returns the captured value and the start of the whole match in text.
func (e *Element) match(text string) (value string, start int, ok bool) {
	loc := e.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", 0, false
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		value = text[loc[2]:loc[3]]
	}
	return value, loc[0], true
}

// compileElement expands aliases in a field definition and compiles it.
func compileElement(aliases map[string]string, def FieldDefinition, loc Location) (*Element, error) {
	if loc.Line == 0 {
		loc.Line = def.Line
	}

	fragment, err := expandAliases(aliases, def.Pattern, def, loc, nil)
	if err != nil {
		return nil, err
	}

	src := "(" + fragment + ")$"
	if def.Spec.Capture == Named {
		src = regexp.QuoteMeta(def.Spec.Name) + ": " + src
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &InvalidPatternError{
			Field:   def.Spec,
			Pattern: src,
			Err:     err,
			Loc:     loc,
		}
	}

	return &Element{
		Name:     def.Spec.Name,
		Presence: def.Spec.Presence,
		Capture:  def.Spec.Capture,
		re:       re,
	}, nil
}

// expandAliases substitutes every ~alias~ in src with its fully expanded body.
// chain holds the aliases currently being expanded.
func expandAliases(aliases map[string]string, src string, def FieldDefinition, loc Location, chain []string) (string, error) {
	if !aliasMarker.MatchString(src) {
		return src, nil
	}
	if len(chain) >= maxAliasDepth {
		return "", &CircularAliasError{Chain: chain, Field: def.Spec, Loc: loc}
	}

	var expandErr error
	expanded := aliasMarker.ReplaceAllStringFunc(src, func(marker string) string {
		if expandErr != nil {
			return marker
		}

		name := marker[1 : len(marker)-1]
		body, ok := aliases[name]
		if !ok {
			expandErr = NewAliasNotDefinedError(name, def, loc)
			return marker
		}

		next := append(slices.Clone(chain), name)
		if slices.Contains(chain, name) {
			expandErr = &CircularAliasError{Chain: next, Field: def.Spec, Loc: loc}
			return marker
		}

		body, err := expandAliases(aliases, body, def, loc, next)
		if err != nil {
			expandErr = err
			return marker
		}
		return body
	})
	if expandErr != nil {
		return "", expandErr
	}
	if len(expanded) > maxPatternLength {
		return "", &PatternTooLongError{Field: def.Spec, Length: len(expanded), Limit: maxPatternLength, Loc: loc}
	}

	return expanded, nil
}
