package bundler

import (
	"fmt"

	"github.com/luabundle/luabundle/internal/logger"
)

// A problem with the options that was found before anything was read
type ConfigurationError struct {
	Text string
}

func (e *ConfigurationError) Error() string {
	return e.Text
}

// Bad options are a usage problem, reported like a bad flag
func (e *ConfigurationError) ExitCode() int {
	return 2
}

// The entry file or an acquired file has a syntax error. The individual
// errors have already been added to the log.
type ParseError struct {
	Path string
	Msgs []logger.Msg
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Could not parse %q", e.Path)
}

// An acquire call without a string literal for its path, such as
// "acquire(name)". Range is the location of the call in the file at Path.
type MalformedAcquireError struct {
	Path  string
	Range logger.Range
}

func (e *MalformedAcquireError) Error() string {
	return fmt.Sprintf("Invalid acquire call in %q: the path must be a string literal", e.Path)
}

type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Could not %s %q: %s", e.Op, e.Path, e.Err.Error())
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// This is used to unwind the recursive walk when a fatal error happens. It's
// recovered in "Bundle" and never escapes this package.
type bundlePanic struct {
	err error
}
