package lua_printer

import (
	"strings"

	"github.com/luabundle/luabundle/internal/helpers"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

type Style uint8

const (
	// Every token is printed with its original comments and whitespace, so an
	// unmodified tree prints back to exactly the text it was parsed from
	StyleDefault Style = iota

	// Comments and whitespace are removed and lines are wrapped at a column
	// limit instead
	StyleDense

	// One statement per line with consistent indentation. Comments are removed.
	StyleReadable
)

func (style Style) String() string {
	switch style {
	case StyleDense:
		return "dense"
	case StyleReadable:
		return "readable"
	default:
		return "default"
	}
}

const defaultLineLimit = 80

type Options struct {
	Style Style

	// Dense output starts a new line instead of letting a line grow longer
	// than this. Zero means the default of 80 columns.
	LineLimit int
}

func Print(tree lua_ast.AST, options Options) []byte {
	if options.Style == StyleDefault {
		return printLossless(&tree)
	}

	if options.LineLimit <= 0 {
		options.LineLimit = defaultLineLimit
	}
	p := &printer{options: options, prevNumEnd: -1}
	p.printBlock(tree.Block)
	if options.Style == StyleReadable && len(p.lua) > 0 && p.lua[len(p.lua)-1] != '\n' {
		p.print("\n")
	}
	return p.lua
}

func printLossless(tree *lua_ast.AST) []byte {
	j := helpers.Joiner{}
	lua_ast.VisitTokens(tree, func(t *lua_ast.Token) bool {
		for _, trivia := range t.Leading {
			j.AddString(trivia.Text)
		}
		j.AddString(t.Text)
		for _, trivia := range t.Trailing {
			j.AddString(trivia.Text)
		}
		return true
	})
	return j.Done()
}

type printer struct {
	lua        []byte
	options    Options
	indent     int
	lineStart  int
	prevNumEnd int
}

func (p *printer) print(text string) {
	p.lua = append(p.lua, text...)
	if i := strings.LastIndexByte(text, '\n'); i != -1 {
		p.lineStart = len(p.lua) - len(text) + i + 1
	}
}

func (p *printer) printSpace() {
	if p.options.Style == StyleReadable {
		p.print(" ")
	}
}

func (p *printer) printNewline() {
	if p.options.Style == StyleReadable {
		p.print("\n")
	}
}

func (p *printer) printIndent() {
	if p.options.Style == StyleReadable {
		for i := 0; i < p.indent; i++ {
			p.print("    ")
		}
	}
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// Returns true if printing "text" right after the current output would cause
// the two to be read back as different tokens
func (p *printer) needsSpaceBefore(text string) bool {
	n := len(p.lua)
	if n == 0 || len(text) == 0 {
		return false
	}
	last := p.lua[n-1]
	first := text[0]

	switch {
	case isWordByte(last) && isWordByte(first):
		// "local x" => "localx"
		return true
	case last == '-' && first == '-':
		// "a - -b" => "a--b"
		return true
	case last == '[' && (first == '[' || first == '='):
		// "t[ [[x]] ]" => "t[[[x]]]"
		return true
	case first == '.' && (last == '.' || p.prevNumEnd == n):
		// "1 .. 2" => "1..2"
		return true
	case last == '.' && first >= '0' && first <= '9':
		// "a .. .5" => "a...5"
		return true
	}
	return false
}

func (p *printer) printText(text string) {
	if text == "" {
		return
	}
	space := p.needsSpaceBefore(text)

	// Wrap long lines in dense mode. Never break before an argument list since
	// Lua 5.1 rejects a newline between a function and its arguments.
	if p.options.Style == StyleDense && len(p.lua) > p.lineStart && text[0] != '(' {
		width := len(p.lua) - p.lineStart + len(text)
		if space {
			width++
		}
		if width > p.options.LineLimit {
			p.print("\n")
			space = false
		}
	}

	if space {
		p.print(" ")
	}
	p.print(text)
}

func (p *printer) printToken(t lua_ast.Token) {
	p.printText(t.Text)
	if t.Kind == lua_lexer.TNumber {
		p.prevNumEnd = len(p.lua)
	}
}

func (p *printer) printSymbol(kind lua_lexer.T) {
	p.printText(kind.String())
}

func isEmptyBlock(block lua_ast.Block) bool {
	for _, stmt := range block.Stmts {
		if _, ok := stmt.Data.(*lua_ast.SEmpty); !ok {
			return false
		}
	}
	return true
}

func (p *printer) printBlock(block lua_ast.Block) {
	printed := 0
	for _, stmt := range block.Stmts {
		if _, ok := stmt.Data.(*lua_ast.SEmpty); ok {
			continue
		}

		p.printIndent()

		// "a = b ;(f)()" must keep a semicolon or it would become "a = b(f)()"
		if printed > 0 {
			if first := lua_ast.FirstToken(stmt.Data); first != nil && first.Kind == lua_lexer.TOpenParen {
				p.print(";")
			}
		}

		p.printStmt(stmt.Data)
		p.printNewline()
		printed++
	}
}

// Prints the statements of a nested block, leaving the output positioned to
// print the keyword that closes the block
func (p *printer) printBody(block lua_ast.Block) {
	if isEmptyBlock(block) {
		p.printSpace()
		return
	}
	p.printNewline()
	p.indent++
	p.printBlock(block)
	p.indent--
	p.printIndent()
}

func (p *printer) printStmt(stmt lua_ast.S) {
	switch s := stmt.(type) {
	case *lua_ast.SLocal:
		p.printToken(s.Local)
		p.printSpace()
		for i, name := range s.Names {
			if i > 0 {
				p.printSymbol(lua_lexer.TComma)
				p.printSpace()
			}
			p.printToken(name.Name)
			if name.Attrib != nil {
				p.printSpace()
				p.printSymbol(lua_lexer.TLessThan)
				p.printToken(name.Attrib.Name)
				p.printSymbol(lua_lexer.TGreaterThan)
			}
		}
		if s.Equals != nil {
			p.printAssignOp()
			p.printExprList(s.Values)
		}

	case *lua_ast.SAssign:
		p.printExprList(s.Targets)
		p.printAssignOp()
		p.printExprList(s.Values)

	case *lua_ast.SCall:
		p.printExpr(s.Call)

	case *lua_ast.SDo:
		p.printToken(s.Do)
		p.printBody(s.Block)
		p.printToken(s.End)

	case *lua_ast.SWhile:
		p.printToken(s.While)
		p.printSpace()
		p.printExpr(s.Test)
		p.printSpace()
		p.printToken(s.Do)
		p.printBody(s.Block)
		p.printToken(s.End)

	case *lua_ast.SRepeat:
		p.printToken(s.Repeat)
		p.printBody(s.Block)
		p.printToken(s.Until)
		p.printSpace()
		p.printExpr(s.Test)

	case *lua_ast.SIf:
		p.printToken(s.If)
		p.printSpace()
		p.printExpr(s.Test)
		p.printSpace()
		p.printToken(s.Then)
		p.printBody(s.Yes)
		for _, elseIf := range s.ElseIfs {
			p.printToken(elseIf.ElseIf)
			p.printSpace()
			p.printExpr(elseIf.Test)
			p.printSpace()
			p.printToken(elseIf.Then)
			p.printBody(elseIf.Block)
		}
		if s.No != nil {
			p.printToken(*s.Else)
			p.printBody(*s.No)
		}
		p.printToken(s.End)

	case *lua_ast.SNumericFor:
		p.printToken(s.For)
		p.printSpace()
		p.printToken(s.Name)
		p.printAssignOp()
		p.printExpr(s.First)
		p.printComma()
		p.printExpr(s.Last)
		if s.Step != nil {
			p.printComma()
			p.printExpr(s.Step)
		}
		p.printSpace()
		p.printToken(s.Do)
		p.printBody(s.Block)
		p.printToken(s.End)

	case *lua_ast.SGenericFor:
		p.printToken(s.For)
		p.printSpace()
		p.printNames(s.Names.Names)
		p.printSpace()
		p.printToken(s.In)
		p.printSpace()
		p.printExprList(s.Exprs)
		p.printSpace()
		p.printToken(s.Do)
		p.printBody(s.Block)
		p.printToken(s.End)

	case *lua_ast.SFunction:
		p.printToken(s.Function)
		p.printSpace()
		for i, name := range s.Name.Names {
			if i > 0 {
				p.printSymbol(lua_lexer.TDot)
			}
			p.printToken(name)
		}
		if s.Name.Method != nil {
			p.printSymbol(lua_lexer.TColon)
			p.printToken(*s.Name.Method)
		}
		p.printFunctionBody(s.Body)

	case *lua_ast.SLocalFunction:
		p.printToken(s.Local)
		p.printSpace()
		p.printToken(s.Function)
		p.printSpace()
		p.printToken(s.Name)
		p.printFunctionBody(s.Body)

	case *lua_ast.SReturn:
		p.printToken(s.Return)
		if len(s.Values.Items) > 0 {
			p.printSpace()
			p.printExprList(s.Values)
		}

	case *lua_ast.SBreak:
		p.printToken(s.Break)

	case *lua_ast.SGoto:
		p.printToken(s.Goto)
		p.printSpace()
		p.printToken(s.Label)

	case *lua_ast.SLabel:
		p.printSymbol(lua_lexer.TColonColon)
		p.printToken(s.Name)
		p.printSymbol(lua_lexer.TColonColon)

	default:
		panic("Internal error")
	}
}

func (p *printer) printAssignOp() {
	p.printSpace()
	p.printSymbol(lua_lexer.TEquals)
	p.printSpace()
}

func (p *printer) printComma() {
	p.printSymbol(lua_lexer.TComma)
	p.printSpace()
}

func (p *printer) printNames(names []lua_ast.Token) {
	for i, name := range names {
		if i > 0 {
			p.printComma()
		}
		p.printToken(name)
	}
}

func (p *printer) printExprList(list lua_ast.ExprList) {
	for i, item := range list.Items {
		if i > 0 {
			p.printComma()
		}
		p.printExpr(item)
	}
}

func (p *printer) printFunctionBody(body lua_ast.FunctionBody) {
	p.printSymbol(lua_lexer.TOpenParen)
	p.printNames(body.Params.Names)
	p.printSymbol(lua_lexer.TCloseParen)
	p.printBody(body.Block)
	p.printToken(body.End)
}

func (p *printer) printExpr(expr lua_ast.E) {
	switch e := expr.(type) {
	case *lua_ast.EName:
		p.printToken(e.Name)

	case *lua_ast.ELiteral:
		p.printToken(e.Token)

	case *lua_ast.EParens:
		p.printSymbol(lua_lexer.TOpenParen)
		p.printExpr(e.Inner)
		p.printSymbol(lua_lexer.TCloseParen)

	case *lua_ast.EUnary:
		p.printToken(e.Op)
		if e.Op.Kind == lua_lexer.TNot {
			p.printSpace()
		}
		p.printExpr(e.Value)

	case *lua_ast.EBinary:
		p.printExpr(e.Left)
		p.printSpace()
		p.printToken(e.Op)
		p.printSpace()
		p.printExpr(e.Right)

	case *lua_ast.EFunction:
		p.printToken(e.Function)
		p.printFunctionBody(e.Body)

	case *lua_ast.ETable:
		p.printTable(e)

	case *lua_ast.FunctionCall:
		p.printExpr(e.Prefix)
		p.printSuffixes(e.Suffixes)

	case *lua_ast.VarExpression:
		p.printExpr(e.Prefix)
		p.printSuffixes(e.Suffixes)

	default:
		panic("Internal error")
	}
}

func (p *printer) printTable(table *lua_ast.ETable) {
	p.printSymbol(lua_lexer.TOpenBrace)
	for i, field := range table.Fields {
		if i > 0 {
			// Keep the author's choice of "," or ";"
			separator := lua_lexer.TComma
			if prev := table.Fields[i-1].Separator; prev != nil {
				separator = prev.Kind
			}
			p.printSymbol(separator)
			p.printSpace()
		}
		switch field.Kind {
		case lua_ast.FieldNamed:
			p.printToken(field.Name)
			p.printAssignOp()
		case lua_ast.FieldComputed:
			p.printSymbol(lua_lexer.TOpenBracket)
			p.printExpr(field.Key)
			p.printSymbol(lua_lexer.TCloseBracket)
			p.printAssignOp()
		}
		p.printExpr(field.Value)
	}
	p.printSymbol(lua_lexer.TCloseBrace)
}

func (p *printer) printSuffixes(suffixes []lua_ast.Suffix) {
	for _, suffix := range suffixes {
		switch s := suffix.(type) {
		case *lua_ast.SuffixDot:
			p.printSymbol(lua_lexer.TDot)
			p.printToken(s.Name)

		case *lua_ast.SuffixBracket:
			p.printSymbol(lua_lexer.TOpenBracket)
			p.printExpr(s.Index)
			p.printSymbol(lua_lexer.TCloseBracket)

		case *lua_ast.SuffixCall:
			if s.Method != nil {
				p.printSymbol(lua_lexer.TColon)
				p.printToken(*s.Method)
			}
			switch args := s.Args.(type) {
			case *lua_ast.ArgsParens:
				p.printSymbol(lua_lexer.TOpenParen)
				p.printExprList(args.List)
				p.printSymbol(lua_lexer.TCloseParen)
			case *lua_ast.ArgsString:
				p.printToken(args.Token)
			case *lua_ast.ArgsTable:
				p.printTable(args.Table)
			}

		default:
			panic("Internal error")
		}
	}
}
