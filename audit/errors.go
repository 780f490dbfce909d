package audit

import (
	"fmt"

	"github.com/robinvdvleuten/perfin/properties"
)

func location(line int) string {
	if line > 0 {
		return fmt.Sprintf("line %d: ", line)
	}
	return ""
}

// NameMismatchError is returned when the name in the description differs from the
// name declared on the row.
type NameMismatchError struct {
	Line        int
	Name        string
	Description string
	Attributes  properties.Properties
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("%sField '%s' does not match name attribute in description '%s'", location(e.Line), e.Name, e.Description)
}

func (e *NameMismatchError) GetLine() int { return e.Line }

func (e *NameMismatchError) GetAttributes() properties.Properties { return e.Attributes }

// NewNameMismatchError creates an error for an observation whose described name
// disagrees with its declared name.
func NewNameMismatchError(o Observation) *NameMismatchError {
	return &NameMismatchError{
		Line:        o.Line,
		Name:        o.DeclaredName,
		Description: o.DescribedName,
		Attributes:  o.Attributes,
	}
}

// NameClashError is returned when a counter IBAN is seen with a second name.
type NameClashError struct {
	Line       int
	IBAN       string
	Existing   string
	NewName    string
	Attributes properties.Properties
}

func (e *NameClashError) Error() string {
	return fmt.Sprintf("%s'%s' was registered for %s, but now '%s' wants to take its place",
		location(e.Line), e.Existing, e.IBAN, e.NewName)
}

func (e *NameClashError) GetLine() int { return e.Line }

func (e *NameClashError) GetAttributes() properties.Properties { return e.Attributes }

// NewNameClashError creates an error for an observation that renames a registered IBAN.
func NewNameClashError(o Observation, existing string) *NameClashError {
	return &NameClashError{
		Line:       o.Line,
		IBAN:       o.CounterIBAN,
		Existing:   existing,
		NewName:    o.DeclaredName,
		Attributes: o.Attributes,
	}
}

// IbanMissingError is returned when a transaction that needs a counter IBAN has none.
type IbanMissingError struct {
	Line       int
	Code       string
	Attributes properties.Properties
}

func (e *IbanMissingError) Error() string {
	return fmt.Sprintf("%sIBAN is missing for %s transaction", location(e.Line), e.Code)
}

func (e *IbanMissingError) GetLine() int { return e.Line }

func (e *IbanMissingError) GetAttributes() properties.Properties { return e.Attributes }

// NewIbanMissingError creates an error for an observation without counter IBAN.
func NewIbanMissingError(o Observation) *IbanMissingError {
	return &IbanMissingError{
		Line:       o.Line,
		Code:       o.Code,
		Attributes: o.Attributes,
	}
}

// ValidationErrors wraps multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
