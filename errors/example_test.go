package errors_test

import (
	"fmt"

	"github.com/robinvdvleuten/perfin/audit"
	"github.com/robinvdvleuten/perfin/errors"
)

// Example showing how to use JSONFormatter for machine readable audit output
func ExampleJSONFormatter() {
	err := &audit.NameClashError{
		Line:     3,
		IBAN:     "NL00AAAA0000000001",
		Existing: "ACME Corp",
		NewName:  "ACME Holding",
	}

	formatter := errors.NewJSONFormatter()
	fmt.Println(formatter.Format(err))
	// Output: {"type":"*audit.NameClashError","message":"line 3: 'ACME Corp' was registered for NL00AAAA0000000001, but now 'ACME Holding' wants to take its place","line":3}
}
