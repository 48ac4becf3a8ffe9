package cli

import (
	"errors"
	"fmt"
)

// Exit codes used by the moke binary.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // analysis failure (bad data, degenerate fit)
	ExitCommandError = 2 // command error (missing files, bad flags)
)

// ExitError carries an exit code alongside the error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// commandErr wraps err as a command error (exit code 2).
func commandErr(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// analysisErr wraps err as an analysis failure (exit code 1).
func analysisErr(message string, err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error; a plain error maps
// to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}
