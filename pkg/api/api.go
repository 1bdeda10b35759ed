package api

import (
	"github.com/charmbracelet/log"

	"github.com/luabundle/luabundle/internal/bundler"
	"github.com/luabundle/luabundle/internal/fs"
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

// These are returned by "Build". Use "errors.As" to tell them apart.
type (
	ConfigurationError    = bundler.ConfigurationError
	ParseError            = bundler.ParseError
	MalformedAcquireError = bundler.MalformedAcquireError
	IOError               = bundler.IOError
)

////////////////////////////////////////////////////////////////////////////////
// Build API

type BuildOptions struct {
	// Directory that the input, the output, and every acquire path are
	// relative to. Defaults to ".".
	Root   string
	Input  string
	Output string

	// At most one of these may be set. Neither means the output keeps the
	// formatting of the source files.
	Minify   bool
	Beautify bool

	// Maximum line length for minified output. Defaults to 80.
	LineLimit int

	// If set, a description of the bundle is written here. The extension picks
	// the format: ".json", ".yaml", or ".yml".
	Metafile string

	// When false the bundle is only returned in "OutputFiles"
	Write bool

	// Progress messages. May be nil.
	Console *log.Logger
}

type BuildResult struct {
	Errors   []Message
	Warnings []Message

	OutputFiles []OutputFile

	// Number of acquire calls that were inlined
	Count   int
	Modules []Module
}

type OutputFile struct {
	Path     string
	Contents []byte
}

type Module struct {
	Path  string
	Bytes int
	Sites int
}

// Build bundles one entry file. Nothing is written unless the whole build
// succeeds.
func Build(options BuildOptions) (BuildResult, error) {
	return buildImpl(options, fs.RealFS())
}
