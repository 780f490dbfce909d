package ing

import "fmt"

// RecordConversionError is returned for a row with a malformed value.
type RecordConversionError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RecordConversionError) Error() string {
	return fmt.Sprintf("line %d: Cannot convert %s '%s': %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RecordConversionError) Unwrap() error {
	return e.Err
}

func (e *RecordConversionError) GetLine() int {
	return e.Line
}
