package cli

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingManifestSource is returned when no manifest path or URL is given.
	ErrMissingManifestSource = errors.New("no manifest path or URL given")

	// ErrMissingFlagValue is returned when a flag that needs a value has none.
	ErrMissingFlagValue = errors.New("flag requires a value")

	// ErrUnknownFlag is reported as a warning for unrecognized flags.
	ErrUnknownFlag = errors.New("unknown flag")

	// ErrAborted is returned when the user declines the plan.
	ErrAborted = errors.New("operation aborted by user")
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitStepsFailed = 2
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
