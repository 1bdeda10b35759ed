package bundler

import (
	"path"
	"strings"

	"github.com/luabundle/luabundle/internal/cache"
	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

type outcome uint8

const (
	notAcquire outcome = iota
	resolvedLocal
	unresolvedMissing

	// "acquire" of the entry file or the bundle file
	unresolvedSelf
)

// isAcquire matches on the name alone. A local variable that happens to be
// called "acquire" is treated the same as the global one.
func isAcquire(prefix lua_ast.E) bool {
	return !lua_ast.VisitTokens(prefix, func(token *lua_ast.Token) bool {
		return token.Kind != lua_lexer.TIdentifier || token.Text != "acquire"
	})
}

// acquireLiteral finds the first call suffix with a string literal anywhere in
// it. Everything after that suffix is kept after the inlined call.
func acquireLiteral(suffixes []lua_ast.Suffix) (index int, literal string, ok bool) {
	for i, suffix := range suffixes {
		call, isCall := suffix.(*lua_ast.SuffixCall)
		if !isCall {
			continue
		}
		lua_ast.VisitTokens(call, func(token *lua_ast.Token) bool {
			literal, ok = token.StringLiteral()
			return !ok
		})
		if ok {
			return i, literal, true
		}
	}
	return 0, "", false
}

// rewrite returns the node that replaces an acquire call. The node is returned
// unchanged for every outcome other than "resolvedLocal".
func (p *acquireParser) rewrite(node lua_ast.Suffixed) (lua_ast.E, outcome) {
	prefix, suffixes := node.Parts()
	index, literal, ok := acquireLiteral(suffixes)
	if !ok {
		p.malformed(node)
	}

	keyPath := ModulePath(p.options.Root, literal)
	if clean := path.Clean(keyPath); clean == p.inputPath || clean == p.outputPath {
		return node, unresolvedSelf
	}

	module, ok := p.resolve(keyPath)
	if !ok {
		p.console.Warn("Module not found, leaving the acquire call as is", "path", keyPath)
		return node, unresolvedMissing
	}

	span, _ := lua_ast.Span(node)
	first := lua_ast.FirstToken(prefix)
	literalEnd := *lua_ast.LastToken(suffixes[index])
	startsStmt := p.stmt.known && span.Loc.Start == p.stmt.span.Loc.Start
	endsStmt := p.stmt.known && span.End() == p.stmt.span.End()
	terminate := endsStmt && p.tracker.needsTerminator(first.Range.Loc.Start)
	replacement, body := inlineCall(keyPath, module, first, suffixes[index], suffixes[index+1:])
	if terminate {
		p.terminate(replacement, literalEnd)
	}
	if startsStmt {
		separate(p.stmt.previous)
	}

	p.count++
	p.sites[keyPath]++

	// Acquire calls inside the inlined file are rewritten with that file's
	// offsets, then the walk picks up again with the suffixes that came after
	// the original call. Those count as part of the expression that was just
	// replaced.
	p.visitFile(&module.Source, body)
	p.tracker.update(span)
	_, remaining := replacement.Parts()
	p.visitSuffixes(remaining[1:])
	return replacement, resolvedLocal
}

func (p *acquireParser) malformed(node lua_ast.E) {
	r, _ := lua_ast.Span(node)
	p.log.AddRangeError(p.source, r, "The path passed to \"acquire\" must be a string literal")
	panic(bundlePanic{&MalformedAcquireError{Path: p.source.KeyPath, Range: r}})
}

func (p *acquireParser) resolve(keyPath string) (*cache.Module, bool) {
	// Cache hit
	if module, ok := p.caches.ModuleCache.Get(keyPath); ok {
		return module, true
	}

	// Cache miss
	contents, err, originalError := p.caches.FSCache.ReadFile(p.fs, keyPath)
	if err != nil {
		if fs.IsNotExist(err) {
			return nil, false
		}
		panic(bundlePanic{&IOError{Op: "read", Path: keyPath, Err: originalError}})
	}
	p.console.Info("Parsing", "path", keyPath)
	source := logger.Source{KeyPath: keyPath, PrettyPath: keyPath, Contents: contents}
	tree := p.parse(source)

	// Save for next time
	return p.caches.ModuleCache.Set(keyPath, &cache.Module{Source: source, AST: tree}), true
}

// terminate ends the statement after a replacement. Only a closing ")" or "]"
// can take a terminator, so a replacement ending in ".name" never gets one.
func (p *acquireParser) terminate(replacement lua_ast.Suffixed, literalEnd lua_ast.Token) {
	_, suffixes := replacement.Parts()
	last := lua_ast.LastToken(suffixes[len(suffixes)-1])
	if last.Kind != lua_lexer.TCloseParen && last.Kind != lua_lexer.TCloseBracket {
		return
	}

	// The synthesized "()" stands in for the call that held the literal
	boundary := *last
	if len(suffixes) == 1 {
		boundary = literalEnd
	}
	p.tracker.terminate(last, boundary)
}

// inlineCall builds "(function(...) <body> end)()" followed by the remaining
// suffixes. The second return value is the block of the new function, which
// is a copy of the module's statements.
func inlineCall(
	keyPath string,
	module *cache.Module,
	first *lua_ast.Token,
	literalCall lua_ast.Suffix,
	remaining []lua_ast.Suffix,
) (lua_ast.Suffixed, *lua_ast.Block) {
	// Comments in front of "acquire" stay in front of the path comment
	open := lua_lexer.Symbol(lua_lexer.TOpenParen)
	open.Leading = make([]lua_lexer.Trivia, 0, len(first.Leading)+2)
	open.Leading = append(open.Leading, first.Leading...)
	open.Leading = append(open.Leading, lua_lexer.SingleLineComment(" "+keyPath), lua_lexer.Whitespace("\n"))

	fn := &lua_ast.EFunction{
		Function: lua_lexer.Symbol(lua_lexer.TFunction),
		Body: lua_ast.FunctionBody{
			Open:   lua_lexer.Symbol(lua_lexer.TOpenParen),
			Params: lua_ast.Params{Names: []lua_ast.Token{lua_lexer.Symbol(lua_lexer.TDotDotDot)}},
			Close:  lua_lexer.Symbol(lua_lexer.TCloseParen),
			Block:  lua_ast.CloneBlock(module.AST.Block),
		},
	}
	body := &fn.Body
	stripShebang(&body.Block)
	if start := lua_ast.FirstToken(&body.Block); start == nil || len(start.Leading) == 0 {
		body.Close.Trailing = []lua_lexer.Trivia{lua_lexer.Whitespace(" ")}
	}
	body.End = endOfModule(&body.Block, module.AST.EOF)

	// The new call keeps whatever followed the call that held the literal
	call := &lua_ast.ArgsParens{
		Open:  lua_lexer.Symbol(lua_lexer.TOpenParen),
		Close: lua_lexer.Symbol(lua_lexer.TCloseParen),
	}
	call.Close.Trailing = append([]lua_lexer.Trivia{}, lua_ast.LastToken(literalCall).Trailing...)

	suffixes := make([]lua_ast.Suffix, 0, len(remaining)+1)
	suffixes = append(suffixes, &lua_ast.SuffixCall{Args: call})
	suffixes = append(suffixes, remaining...)

	parens := &lua_ast.EParens{Open: open, Inner: fn, Close: lua_lexer.Symbol(lua_lexer.TCloseParen)}
	return lua_ast.MakeSuffixed(parens, suffixes).(lua_ast.Suffixed), &body.Block
}

// A "#!" line only means something at the start of a file
func stripShebang(block *lua_ast.Block) {
	first := lua_ast.FirstToken(block)
	if first == nil || len(first.Leading) == 0 || first.Leading[0].Kind != lua_lexer.TriviaShebang {
		return
	}
	leading := first.Leading[1:]

	// Also drop the line break after it
	if len(leading) > 0 && leading[0].Kind == lua_lexer.TriviaWhitespace && strings.HasPrefix(leading[0].Text, "\n") {
		rest := leading[0]
		rest.Text = rest.Text[1:]
		leading = append([]lua_lexer.Trivia{}, leading...)
		if rest.Text == "" {
			leading = leading[1:]
		} else {
			leading[0] = rest
		}
	}
	first.Leading = leading
}

// endOfModule returns the "end" keyword of an inlined function. Comments at
// the end of the module come right before it, and a separator is added after
// them so "end" can't run into a comment or the previous token.
func endOfModule(block *lua_ast.Block, eof lua_ast.Token) lua_ast.Token {
	end := lua_lexer.Symbol(lua_lexer.TEnd)
	for _, trivia := range eof.Leading {
		if trivia.Kind != lua_lexer.TriviaShebang {
			end.Leading = append(end.Leading, trivia)
		}
	}

	var before []lua_lexer.Trivia
	if len(end.Leading) > 0 {
		before = end.Leading
	} else if last := lua_ast.LastToken(block); last != nil {
		before = last.Trailing
	} else {
		// The parameter list already ends with a space
		return end
	}

	separator := " "
	if n := len(before); n > 0 {
		switch before[n-1].Kind {
		case lua_lexer.TriviaWhitespace:
			separator = ""
		case lua_lexer.TriviaSingleLineComment:
			separator = "\n"
		}
	}
	if separator != "" {
		end.Leading = append(end.Leading, lua_lexer.Whitespace(separator))
	}
	return end
}
