// Package cli implements the "luabundle" command line. The command reads its
// settings from flags, "LUABUNDLE_" environment variables, and an optional
// "luabundle.{toml,yaml,json}" file, in that order of precedence.
package cli

import (
	"os"

	"github.com/luabundle/luabundle/internal/exitcode"
)

// Version is printed by "luabundle --version" (set via -ldflags).
var Version = "dev"

// Run parses the command line, builds the bundle, and returns the exit code.
// Diagnostics are printed to stderr.
func Run(osArgs []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(osArgs)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	err := cmd.Execute()
	if err != nil {
		printError(err)
	}
	return exitcode.Get(err)
}
