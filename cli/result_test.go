package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("implements error interface", func(t *testing.T) {
		err := NewCommandError(ExitConfig)
		assert.EqualError(t, err, "command failed")
	})

	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42)
		assert.Equal(t, 42, err.ExitCode())
	})

	t.Run("counts problems", func(t *testing.T) {
		err := newProblemsError(3)
		assert.Equal(t, ExitProblems, err.ExitCode())
		assert.Equal(t, 3, err.Problems())
		assert.EqualError(t, err, "3 problem(s) found")
	})

	t.Run("supports errors.As through wrapping", func(t *testing.T) {
		var err error = fmt.Errorf("import: %w", NewCommandError(ExitProblems))
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitProblems, cmdErr.ExitCode())
	})
}
