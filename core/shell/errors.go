package shell

import (
	"errors"
	"fmt"
)

// Structural and interactive errors. All of these abort only the current
// command; the interpreter keeps accepting lines.
var (
	// ErrTokenLimit is reported when a line holds more tokens than the
	// interpreter keeps. The truncated token sequence is still usable.
	ErrTokenLimit = errors.New("command exceeds the token limit, cannot fully interpret")

	// ErrDuplicateRedirect is reported for a second < or > in one command.
	ErrDuplicateRedirect = errors.New("multiple redirects in a single command unsupported")

	// ErrDuplicatePipe is reported for a second | in one command.
	ErrDuplicatePipe = errors.New("multiple pipes in a single command unsupported")

	// ErrMissingPath is reported when a redirect names no file.
	ErrMissingPath = errors.New("no file specified to redirect into")

	// ErrEmptyCommand is reported for a line with no program to run.
	ErrEmptyCommand = errors.New("please enter a command")

	// ErrNoHistory is reported for !! before any command has been stored.
	ErrNoHistory = errors.New("no commands in history")
)

// ProgramNotFoundError reports that no program image could be located for
// the given name.
type ProgramNotFoundError struct {
	Program string
}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("could not find a program named %s", e.Program)
}

// FileOpenError reports a failed open of a redirect target.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("failed to open file %s: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error { return e.Err }

// RedirectError reports a failed descriptor substitution.
type RedirectError struct {
	Err error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("failed to redirect input/output: %v", e.Err)
}

func (e *RedirectError) Unwrap() error { return e.Err }

// SpawnError reports that a process could not be started.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start process %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
