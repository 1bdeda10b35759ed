// Package exitcode decides the process exit status for an error returned by
// the command.
package exitcode

import (
	"errors"

	"github.com/spf13/pflag"
)

const (
	Success = 0

	// The bundle could not be built
	Failure = 1

	// The command line or the configuration was wrong, so nothing was read
	Usage = 2
)

// Errors can pick their own exit code by implementing this
type Coder interface {
	error
	ExitCode() int
}

// Get searches the error chain for a Coder. A help request counts as a usage
// error and every other error is a failure.
func Get(err error) int {
	if err == nil {
		return Success
	}

	var coder Coder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	if errors.Is(err, pflag.ErrHelp) {
		return Usage
	}
	return Failure
}

// Set attaches an exit code to an error. The message and the error chain are
// unchanged, and Set(nil, code) is nil.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }
func (e *codedError) ExitCode() int { return e.code }
