//go:build !darwin && !linux
// +build !darwin,!linux

package logger

import (
	"os"

	"github.com/mattn/go-isatty"
)

// There is no portable ioctl here, so only the TTY bit is detected and the
// width falls back to the default used when rendering messages.
func GetTerminalInfo(file *os.File) (info TerminalInfo) {
	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		info.IsTTY = true
		info.UseColorEscapes = !hasNoColorEnvironmentVariable()
	}
	return
}
