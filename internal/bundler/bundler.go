package bundler

// The bundler reads the entry file and replaces every "acquire('path')" it can
// resolve with the contents of that file, wrapped in a function literal that is
// called right away:
//
//   -- ./src/util.lua
//   (function(...) <statements of util.lua> end)()
//
// Acquired files are parsed once and cached. Every place that acquires a file
// gets its own copy of the cached statements, so rewriting acquire calls nested
// inside an inlined file never changes the cache. The walk is a single pass in
// document order over the entry file's tree, and it continues into each
// inlined body right after it is inserted.

import (
	"path"
	"sort"

	"github.com/luabundle/luabundle/internal/cache"
	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_parser"
)

type Options struct {
	// Directory that acquire paths are relative to. Defaults to ".".
	Root string

	// Entry file and bundle file, both relative to Root. Neither of these is
	// ever inlined, even when acquired explicitly.
	Input  string
	Output string

	// Receives "parsing" and missing module messages. May be nil.
	Console *logger.Console
}

type Result struct {
	AST    lua_ast.AST
	Source logger.Source

	// Number of acquire calls that were replaced, including the ones inside
	// inlined files
	Count int

	// Every inlined file, sorted by path
	Modules []ModuleInfo
}

type ModuleInfo struct {
	Path  string
	Bytes int
	Sites int
}

// ModulePath returns the key an acquire literal resolves to. The literal is
// used as written, so "a.lua" and "./a.lua" are different modules.
func ModulePath(root string, literal string) string {
	return root + "/" + literal
}

func ValidateOptions(options Options) error {
	if options.Input == "" {
		return &ConfigurationError{Text: "An input file is required"}
	}
	if options.Output == "" {
		return &ConfigurationError{Text: "An output file is required"}
	}
	if path.Clean(options.Input) == path.Clean(options.Output) {
		return &ConfigurationError{Text: "The input and output files must be different"}
	}
	return nil
}

// Bundle parses the entry file and rewrites it. The returned tree is only
// valid if the error is nil. Diagnostics with a source location are added to
// "log" as well as being summarized by the returned error.
func Bundle(log logger.Log, fs fs.FS, caches *cache.CacheSet, options Options) (result Result, err error) {
	if options.Root == "" {
		options.Root = "."
	}
	if err := ValidateOptions(options); err != nil {
		return Result{}, err
	}

	p := newAcquireParser(log, fs, caches, options)
	defer func() {
		r := recover()
		if abort, ok := r.(bundlePanic); ok {
			result = Result{}
			err = abort.err
		} else if r != nil {
			panic(r)
		}
	}()

	source, tree := p.parseEntry()
	p.visitFile(&source, &tree.Block)

	result = Result{
		AST:     tree,
		Source:  source,
		Count:   p.count,
		Modules: p.moduleInfos(),
	}
	return
}

func (p *acquireParser) parseEntry() (logger.Source, lua_ast.AST) {
	keyPath := ModulePath(p.options.Root, p.options.Input)
	contents, err, originalError := p.caches.FSCache.ReadFile(p.fs, keyPath)
	if err != nil {
		panic(bundlePanic{&IOError{Op: "read", Path: keyPath, Err: originalError}})
	}
	source := logger.Source{KeyPath: keyPath, PrettyPath: keyPath, Contents: contents}
	p.console.Debug("Parsing entry file", "path", keyPath)
	return source, p.parse(source)
}

// parse replays the parser's messages into the main log so they also end up in
// a ParseError for the file
func (p *acquireParser) parse(source logger.Source) lua_ast.AST {
	tempLog := logger.NewDeferLog()
	tree, ok := lua_parser.Parse(tempLog, source)
	msgs := tempLog.Done()
	for _, msg := range msgs {
		p.log.AddMsg(msg)
	}
	if !ok {
		panic(bundlePanic{&ParseError{Path: source.KeyPath, Msgs: msgs}})
	}
	return tree
}

func (p *acquireParser) moduleInfos() []ModuleInfo {
	infos := make([]ModuleInfo, 0, len(p.sites))
	for keyPath, sites := range p.sites {
		info := ModuleInfo{Path: keyPath, Sites: sites}
		if module, ok := p.caches.ModuleCache.Get(keyPath); ok {
			info.Bytes = len(module.Source.Contents)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i int, j int) bool {
		return infos[i].Path < infos[j].Path
	})
	return infos
}
