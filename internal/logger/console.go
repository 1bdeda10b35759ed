package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Console is the progress logger shared by the command line and the API.
// Diagnostics with source locations never go through it.
type Console = log.Logger

var levelColors = map[log.Level]lipgloss.Color{
	log.DebugLevel: lipgloss.Color("63"),
	log.InfoLevel:  lipgloss.Color("86"),
	log.WarnLevel:  lipgloss.Color("192"),
	log.ErrorLevel: lipgloss.Color("204"),
	log.FatalLevel: lipgloss.Color("134"),
}

// NewConsole returns a logger that prints "[LEVEL] message key=value" lines.
func NewConsole(w io.Writer, level string) (*Console, error) {
	lvl, err := ParseConsoleLevel(level)
	if err != nil {
		return nil, err
	}

	console := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	for lvl, color := range levelColors {
		name := "[" + strings.ToUpper(lvl.String()) + "]"
		styles.Levels[lvl] = lipgloss.NewStyle().SetString(name).Bold(true).Foreground(color)
	}
	styles.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	console.SetStyles(styles)
	return console, nil
}

// DiscardConsole is used when the caller did not ask for progress output.
func DiscardConsole() *Console {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func ParseConsoleLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("invalid log level %q (expected debug, info, warn, or error)", level)
	}
	return lvl, nil
}
