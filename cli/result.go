package cli

import "fmt"

// Exit codes returned by the commands.
const (
	ExitProblems = 1 // the input was processed and problems were reported
	ExitConfig   = 2 // the format definitions or the ledger could not be loaded
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after printing their diagnostics to stderr, so main only
// has to exit.
type CommandError struct {
	exitCode int
	problems int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// newProblemsError reports n problems found in the input.
func newProblemsError(n int) *CommandError {
	return &CommandError{exitCode: ExitProblems, problems: n}
}

func (e *CommandError) Error() string {
	if e.problems > 0 {
		return fmt.Sprintf("%d problem(s) found", e.problems)
	}
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// Problems returns the number of reported problems, if any.
func (e *CommandError) Problems() int {
	return e.problems
}
