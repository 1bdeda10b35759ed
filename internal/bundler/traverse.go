package bundler

import (
	"path"

	"github.com/luabundle/luabundle/internal/cache"
	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

// This holds everything one bundling run needs while it walks the tree. The
// walk changes the tree in place: each visit returns the expression that
// should be stored back into the parent.
type acquireParser struct {
	log     logger.Log
	fs      fs.FS
	caches  *cache.CacheSet
	console *logger.Console
	options Options

	// Cleaned keys of the entry file and bundle file
	inputPath  string
	outputPath string

	// The file the walk is currently in and its boundary tracker. Both change
	// while the walk is inside an inlined module.
	source  *logger.Source
	tracker *boundaryTracker

	// The statement the walk is currently in. This is saved and restored
	// around every block.
	stmt stmtContext

	count int
	sites map[string]int
}

// Offsets in stmtContext come from the file the statement is in
type stmtContext struct {
	span  logger.Range
	known bool

	// The last token of the statement before this one in the same block, or
	// nil for the first statement of a block
	previous *lua_ast.Token
}

func newAcquireParser(log logger.Log, fs fs.FS, caches *cache.CacheSet, options Options) *acquireParser {
	console := options.Console
	if console == nil {
		console = logger.DiscardConsole()
	}
	return &acquireParser{
		log:        log,
		fs:         fs,
		caches:     caches,
		console:    console,
		options:    options,
		inputPath:  path.Clean(ModulePath(options.Root, options.Input)),
		outputPath: path.Clean(ModulePath(options.Root, options.Output)),
		sites:      make(map[string]int),
	}
}

// visitFile walks the top-level block of a file with a fresh tracker
func (p *acquireParser) visitFile(source *logger.Source, block *lua_ast.Block) {
	oldSource, oldTracker := p.source, p.tracker
	p.source, p.tracker = source, newBoundaryTracker()
	p.visitBlock(block)
	p.source, p.tracker = oldSource, oldTracker
}

func (p *acquireParser) visitBlock(block *lua_ast.Block) {
	p.tracker.collect(block)
	outer := p.stmt
	for i := range block.Stmts {
		p.stmt = stmtContext{}
		p.stmt.span, p.stmt.known = lua_ast.Span(block.Stmts[i].Data)
		if i > 0 {
			p.stmt.previous = lua_ast.LastToken(&block.Stmts[i-1])
		}
		p.visitStmt(block.Stmts[i].Data)
	}
	p.stmt = outer
}

func (p *acquireParser) visitStmt(stmt lua_ast.S) {
	switch s := stmt.(type) {
	case *lua_ast.SLocal:
		p.visitExprList(&s.Values)

	case *lua_ast.SAssign:
		p.visitExprList(&s.Targets)
		p.visitExprList(&s.Values)

	case *lua_ast.SCall:
		s.Call = p.visitExpr(s.Call).(*lua_ast.FunctionCall)

	case *lua_ast.SDo:
		p.visitBlock(&s.Block)

	case *lua_ast.SWhile:
		s.Test = p.visitExpr(s.Test)
		p.visitBlock(&s.Block)

	case *lua_ast.SRepeat:
		p.visitBlock(&s.Block)
		s.Test = p.visitExpr(s.Test)

	case *lua_ast.SIf:
		s.Test = p.visitExpr(s.Test)
		p.visitBlock(&s.Yes)
		for i := range s.ElseIfs {
			elseIf := &s.ElseIfs[i]
			elseIf.Test = p.visitExpr(elseIf.Test)
			p.visitBlock(&elseIf.Block)
		}
		if s.No != nil {
			p.visitBlock(s.No)
		}

	case *lua_ast.SNumericFor:
		s.First = p.visitExpr(s.First)
		s.Last = p.visitExpr(s.Last)
		if s.Step != nil {
			s.Step = p.visitExpr(s.Step)
		}
		p.visitBlock(&s.Block)

	case *lua_ast.SGenericFor:
		p.visitExprList(&s.Exprs)
		p.visitBlock(&s.Block)

	case *lua_ast.SFunction:
		p.visitBlock(&s.Body.Block)

	case *lua_ast.SLocalFunction:
		p.visitBlock(&s.Body.Block)

	case *lua_ast.SReturn:
		p.visitExprList(&s.Values)

	case *lua_ast.SBreak, *lua_ast.SGoto, *lua_ast.SLabel, *lua_ast.SEmpty:

	default:
		panic("Internal error")
	}
}

func (p *acquireParser) visitExprList(list *lua_ast.ExprList) {
	for i, item := range list.Items {
		list.Items[i] = p.visitExpr(item)
	}
}

func (p *acquireParser) visitExpr(expr lua_ast.E) lua_ast.E {
	switch e := expr.(type) {
	case *lua_ast.EParens:
		e.Inner = p.visitExpr(e.Inner)

	case *lua_ast.EUnary:
		e.Value = p.visitExpr(e.Value)
		spaceAfterMinus(&e.Op, e.Value)

	case *lua_ast.EBinary:
		e.Left = p.visitExpr(e.Left)
		e.Right = p.visitExpr(e.Right)
		spaceAfterMinus(&e.Op, e.Right)

	case *lua_ast.EFunction:
		p.visitBlock(&e.Body.Block)

	case *lua_ast.ETable:
		p.visitTable(e)

	case *lua_ast.FunctionCall:
		return p.visitSuffixed(e)

	case *lua_ast.VarExpression:
		return p.visitSuffixed(e)
	}
	return expr
}

// An inlined call starts with a "--" comment, which would turn a "-" written
// right before it into part of the comment
func spaceAfterMinus(op *lua_ast.Token, right lua_ast.E) {
	if op.Kind != lua_lexer.TMinus || len(op.Trailing) > 0 {
		return
	}
	first := lua_ast.FirstToken(right)
	if first == nil || len(first.Leading) == 0 {
		return
	}
	switch first.Leading[0].Kind {
	case lua_lexer.TriviaSingleLineComment, lua_lexer.TriviaMultiLineComment:
		op.Trailing = []lua_lexer.Trivia{lua_lexer.Whitespace(" ")}
	}
}

func (p *acquireParser) visitTable(table *lua_ast.ETable) {
	for i := range table.Fields {
		field := &table.Fields[i]
		if field.Kind == lua_ast.FieldComputed {
			field.Key = p.visitExpr(field.Key)
		}
		field.Value = p.visitExpr(field.Value)
	}
}

// visitSuffixed handles both "acquire('a')" and "acquire('a').b" since the
// only difference between them is the node that gets built at the end
func (p *acquireParser) visitSuffixed(node lua_ast.Suffixed) lua_ast.E {
	prefix, suffixes := node.Parts()
	result := notAcquire
	if isAcquire(prefix) {
		var replacement lua_ast.E
		if replacement, result = p.rewrite(node); result == resolvedLocal {
			return replacement
		}
	}

	// An acquire call that was left alone still counts as the enclosing
	// expression for any acquire calls in its arguments
	if span, ok := lua_ast.Span(node); ok {
		p.tracker.update(span)
	}
	if result == notAcquire {
		newPrefix := p.visitExpr(prefix)
		switch n := node.(type) {
		case *lua_ast.FunctionCall:
			n.Prefix = newPrefix
		case *lua_ast.VarExpression:
			n.Prefix = newPrefix
		}
	}
	p.visitSuffixes(suffixes)
	return node
}

func (p *acquireParser) visitSuffixes(suffixes []lua_ast.Suffix) {
	for _, suffix := range suffixes {
		switch s := suffix.(type) {
		case *lua_ast.SuffixBracket:
			s.Index = p.visitExpr(s.Index)

		case *lua_ast.SuffixCall:
			switch args := s.Args.(type) {
			case *lua_ast.ArgsParens:
				p.visitExprList(&args.List)
			case *lua_ast.ArgsTable:
				p.visitTable(args.Table)
			}
		}
	}
}
