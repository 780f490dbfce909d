package format

import (
	"fmt"
	"strings"
)

// Location identifies a field inside the format file.
type Location struct {
	Kind        string
	Alternative int // 1-based position among the kind's candidate sequences
	Line        int
}

func (l Location) String() string {
	var prefix string
	if l.Line > 0 {
		prefix = fmt.Sprintf("line %d: ", l.Line)
	}
	if l.Kind == "" {
		return prefix
	}
	return fmt.Sprintf("%skind %s, alternative %d: ", prefix, l.Kind, l.Alternative)
}

// DefinitionError is returned when the format file cannot be decoded.
type DefinitionError struct {
	Err error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("incorrect format definitions: %v", e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// AliasNotDefinedError is returned when a pattern references an unknown alias.
type AliasNotDefinedError struct {
	Alias      string
	Field      FieldSpec
	Definition string
	Loc        Location
}

func (e *AliasNotDefinedError) Error() string {
	return fmt.Sprintf("%sAlias '%s' is not defined (in '%s')", e.Loc, e.Alias, e.Definition)
}

func (e *AliasNotDefinedError) GetLocation() Location {
	return e.Loc
}

// NewAliasNotDefinedError creates an error for an unknown alias used by def.
func NewAliasNotDefinedError(alias string, def FieldDefinition, loc Location) *AliasNotDefinedError {
	return &AliasNotDefinedError{
		Alias:      alias,
		Field:      def.Spec,
		Definition: def.String(),
		Loc:        loc,
	}
}

// CircularAliasError is returned when alias expansion would not terminate.
type CircularAliasError struct {
	Chain []string // aliases in expansion order, the repeated one last
	Field FieldSpec
	Loc   Location
}

func (e *CircularAliasError) Error() string {
	return fmt.Sprintf("%sCircular alias reference %s in field '%s'",
		e.Loc, strings.Join(e.Chain, " -> "), e.Field.Name)
}

func (e *CircularAliasError) GetLocation() Location {
	return e.Loc
}

// InvalidPatternError is returned when the expanded pattern is not a valid expression.
type InvalidPatternError struct {
	Field   FieldSpec
	Pattern string
	Err     error
	Loc     Location
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%sIncorrect regex syntax for field '%s': %v", e.Loc, e.Field.Name, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

func (e *InvalidPatternError) GetLocation() Location {
	return e.Loc
}

// PatternTooLongError is returned when alias expansion grows a field pattern
// beyond the supported length.
type PatternTooLongError struct {
	Field  FieldSpec
	Length int
	Limit  int
	Loc    Location
}

func (e *PatternTooLongError) Error() string {
	return fmt.Sprintf("%sExpanded pattern of field '%s' is too long (%d bytes, limit %d)",
		e.Loc, e.Field.Name, e.Length, e.Limit)
}

func (e *PatternTooLongError) GetLocation() Location {
	return e.Loc
}
