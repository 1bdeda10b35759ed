package lua_parser

// This parser does a single pass over the token stream and builds a lossless
// syntax tree. All tokens (and therefore all comments and whitespace) end up
// somewhere in the tree. The grammar is Lua 5.4, which is a superset of the
// syntax accepted by Lua 5.1 through 5.3 with the exception of "goto", which
// is only treated as a keyword when it's followed by a label name.

import (
	"fmt"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

type parser struct {
	log    logger.Log
	source logger.Source
	tokens []lua_lexer.Token
	index  int
}

type priority struct {
	left  int
	right int
}

var binaryPriority = map[lua_lexer.T]priority{
	lua_lexer.TOr:                     {1, 1},
	lua_lexer.TAnd:                    {2, 2},
	lua_lexer.TLessThan:               {3, 3},
	lua_lexer.TGreaterThan:            {3, 3},
	lua_lexer.TLessThanEquals:         {3, 3},
	lua_lexer.TGreaterThanEquals:      {3, 3},
	lua_lexer.TTildeEquals:            {3, 3},
	lua_lexer.TEqualsEquals:           {3, 3},
	lua_lexer.TBar:                    {4, 4},
	lua_lexer.TTilde:                  {5, 5},
	lua_lexer.TAmpersand:              {6, 6},
	lua_lexer.TLessThanLessThan:       {7, 7},
	lua_lexer.TGreaterThanGreaterThan: {7, 7},
	lua_lexer.TDotDot:                 {9, 8}, // Right associative
	lua_lexer.TPlus:                   {10, 10},
	lua_lexer.TMinus:                  {10, 10},
	lua_lexer.TAsterisk:               {11, 11},
	lua_lexer.TSlash:                  {11, 11},
	lua_lexer.TSlashSlash:             {11, 11},
	lua_lexer.TPercent:                {11, 11},
	lua_lexer.TCaret:                  {14, 13}, // Right associative
}

const unaryPriority = 12

// Parse returns false if there was a syntax error. The error has been
// reported to the log.
func Parse(log logger.Log, source logger.Source) (result lua_ast.AST, ok bool) {
	tokens, ok := lua_lexer.Tokenize(log, source)
	if !ok {
		return
	}

	defer func() {
		r := recover()
		if _, isLexerPanic := r.(lua_lexer.LexerPanic); isLexerPanic {
			ok = false
			result = lua_ast.AST{}
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{log: log, source: source, tokens: tokens}
	result.Block = p.parseBlock()
	result.EOF = p.expect(lua_lexer.TEndOfFile)
	return
}

func (p *parser) kind() lua_lexer.T {
	return p.tokens[p.index].Kind
}

func (p *parser) lookahead() lua_lexer.T {
	if p.index+1 < len(p.tokens) {
		return p.tokens[p.index+1].Kind
	}
	return lua_lexer.TEndOfFile
}

func (p *parser) next() lua_lexer.Token {
	token := p.tokens[p.index]
	if token.Kind != lua_lexer.TEndOfFile {
		p.index++
	}
	return token
}

func (p *parser) expect(kind lua_lexer.T) lua_lexer.Token {
	if p.kind() != kind {
		p.expected(fmt.Sprintf("%q", kind.String()))
	}
	return p.next()
}

func (p *parser) expectName() lua_lexer.Token {
	// "goto" was an ordinary identifier before Lua 5.2
	if p.kind() != lua_lexer.TIdentifier && p.kind() != lua_lexer.TGoto {
		p.expected("identifier")
	}
	return p.next()
}

func (p *parser) expected(text string) {
	token := p.tokens[p.index]
	found := fmt.Sprintf("%q", token.Text)
	if token.Kind == lua_lexer.TEndOfFile {
		found = "end of file"
	}
	p.log.AddRangeError(&p.source, token.Range, fmt.Sprintf("Expected %s but found %s", text, found))
	panic(lua_lexer.LexerPanic{})
}

func (p *parser) unexpected() {
	token := p.tokens[p.index]
	found := fmt.Sprintf("%q", token.Text)
	if token.Kind == lua_lexer.TEndOfFile {
		found = "end of file"
	}
	p.log.AddRangeError(&p.source, token.Range, fmt.Sprintf("Unexpected %s", found))
	panic(lua_lexer.LexerPanic{})
}

func (p *parser) errorAtNode(node interface{}, text string) {
	r, _ := lua_ast.Span(node)
	p.log.AddRangeError(&p.source, r, text)
	panic(lua_lexer.LexerPanic{})
}

func (p *parser) isBlockEnd() bool {
	switch p.kind() {
	case lua_lexer.TEndOfFile, lua_lexer.TEnd, lua_lexer.TElse, lua_lexer.TElseif, lua_lexer.TUntil:
		return true
	}
	return false
}

func (p *parser) parseBlock() lua_ast.Block {
	var stmts []lua_ast.Stmt

	for !p.isBlockEnd() {
		switch p.kind() {
		case lua_lexer.TSemicolon:
			semicolon := p.next()
			if n := len(stmts); n > 0 && stmts[n-1].Semicolon == nil {
				stmts[n-1].Semicolon = &semicolon
			} else {
				stmts = append(stmts, lua_ast.Stmt{Data: &lua_ast.SEmpty{}, Semicolon: &semicolon})
			}

		case lua_lexer.TReturn:
			stmt := lua_ast.Stmt{Data: p.parseReturn()}
			if p.kind() == lua_lexer.TSemicolon {
				semicolon := p.next()
				stmt.Semicolon = &semicolon
			}
			stmts = append(stmts, stmt)

			// "return" must be the last statement in a block
			if !p.isBlockEnd() {
				p.expected("end of block")
			}

		default:
			stmts = append(stmts, lua_ast.Stmt{Data: p.parseStmt()})
		}
	}

	return lua_ast.Block{Stmts: stmts}
}

func (p *parser) parseReturn() *lua_ast.SReturn {
	s := &lua_ast.SReturn{Return: p.next()}
	if !p.isBlockEnd() && p.kind() != lua_lexer.TSemicolon {
		s.Values = p.parseExprList()
	}
	return s
}

func (p *parser) parseStmt() lua_ast.S {
	switch p.kind() {
	case lua_lexer.TIf:
		return p.parseIf()

	case lua_lexer.TWhile:
		s := &lua_ast.SWhile{While: p.next()}
		s.Test = p.parseExpr()
		s.Do = p.expect(lua_lexer.TDo)
		s.Block = p.parseBlock()
		s.End = p.expect(lua_lexer.TEnd)
		return s

	case lua_lexer.TDo:
		s := &lua_ast.SDo{Do: p.next()}
		s.Block = p.parseBlock()
		s.End = p.expect(lua_lexer.TEnd)
		return s

	case lua_lexer.TFor:
		return p.parseFor()

	case lua_lexer.TRepeat:
		s := &lua_ast.SRepeat{Repeat: p.next()}
		s.Block = p.parseBlock()
		s.Until = p.expect(lua_lexer.TUntil)
		s.Test = p.parseExpr()
		return s

	case lua_lexer.TFunction:
		s := &lua_ast.SFunction{Function: p.next()}
		s.Name.Names = append(s.Name.Names, p.expectName())
		for p.kind() == lua_lexer.TDot {
			s.Name.Dots = append(s.Name.Dots, p.next())
			s.Name.Names = append(s.Name.Names, p.expectName())
		}
		if p.kind() == lua_lexer.TColon {
			colon := p.next()
			method := p.expectName()
			s.Name.Colon = &colon
			s.Name.Method = &method
		}
		s.Body = p.parseFunctionBody()
		return s

	case lua_lexer.TLocal:
		return p.parseLocal()

	case lua_lexer.TColonColon:
		s := &lua_ast.SLabel{Open: p.next()}
		s.Name = p.expectName()
		s.Close = p.expect(lua_lexer.TColonColon)
		return s

	case lua_lexer.TBreak:
		return &lua_ast.SBreak{Break: p.next()}

	case lua_lexer.TGoto:
		if p.lookahead() == lua_lexer.TIdentifier {
			s := &lua_ast.SGoto{Goto: p.next()}
			s.Label = p.next()
			return s
		}
	}

	return p.parseExprStmt()
}

func (p *parser) parseIf() *lua_ast.SIf {
	s := &lua_ast.SIf{If: p.next()}
	s.Test = p.parseExpr()
	s.Then = p.expect(lua_lexer.TThen)
	s.Yes = p.parseBlock()

	for p.kind() == lua_lexer.TElseif {
		elseIf := lua_ast.ElseIf{ElseIf: p.next()}
		elseIf.Test = p.parseExpr()
		elseIf.Then = p.expect(lua_lexer.TThen)
		elseIf.Block = p.parseBlock()
		s.ElseIfs = append(s.ElseIfs, elseIf)
	}

	if p.kind() == lua_lexer.TElse {
		elseToken := p.next()
		no := p.parseBlock()
		s.Else = &elseToken
		s.No = &no
	}

	s.End = p.expect(lua_lexer.TEnd)
	return s
}

func (p *parser) parseFor() lua_ast.S {
	forToken := p.next()
	name := p.expectName()

	// "for i = 1, 10 do"
	if p.kind() == lua_lexer.TEquals {
		s := &lua_ast.SNumericFor{For: forToken, Name: name, Equals: p.next()}
		s.First = p.parseExpr()
		s.FirstComma = p.expect(lua_lexer.TComma)
		s.Last = p.parseExpr()
		if p.kind() == lua_lexer.TComma {
			comma := p.next()
			s.StepComma = &comma
			s.Step = p.parseExpr()
		}
		s.Do = p.expect(lua_lexer.TDo)
		s.Block = p.parseBlock()
		s.End = p.expect(lua_lexer.TEnd)
		return s
	}

	// "for k, v in pairs(t) do"
	s := &lua_ast.SGenericFor{For: forToken}
	s.Names.Names = append(s.Names.Names, name)
	for p.kind() == lua_lexer.TComma {
		s.Names.Commas = append(s.Names.Commas, p.next())
		s.Names.Names = append(s.Names.Names, p.expectName())
	}
	s.In = p.expect(lua_lexer.TIn)
	s.Exprs = p.parseExprList()
	s.Do = p.expect(lua_lexer.TDo)
	s.Block = p.parseBlock()
	s.End = p.expect(lua_lexer.TEnd)
	return s
}

func (p *parser) parseLocal() lua_ast.S {
	local := p.next()

	// "local function f() end"
	if p.kind() == lua_lexer.TFunction {
		s := &lua_ast.SLocalFunction{Local: local, Function: p.next()}
		s.Name = p.expectName()
		s.Body = p.parseFunctionBody()
		return s
	}

	s := &lua_ast.SLocal{Local: local}
	for {
		name := lua_ast.LocalName{Name: p.expectName()}

		// "<const>" or "<close>"
		if p.kind() == lua_lexer.TLessThan {
			attrib := lua_ast.Attrib{Open: p.next()}
			attrib.Name = p.expectName()
			if text := attrib.Name.Text; text != "const" && text != "close" {
				p.log.AddRangeError(&p.source, attrib.Name.Range, fmt.Sprintf("Unknown attribute %q", text))
				panic(lua_lexer.LexerPanic{})
			}
			attrib.Close = p.expect(lua_lexer.TGreaterThan)
			name.Attrib = &attrib
		}

		s.Names = append(s.Names, name)
		if p.kind() != lua_lexer.TComma {
			break
		}
		s.NameCommas = append(s.NameCommas, p.next())
	}

	if p.kind() == lua_lexer.TEquals {
		equals := p.next()
		s.Equals = &equals
		s.Values = p.parseExprList()
	}
	return s
}

func (p *parser) parseExprStmt() lua_ast.S {
	expr := p.parseSuffixedExpr()

	// "a, b = 1, 2"
	if p.kind() == lua_lexer.TEquals || p.kind() == lua_lexer.TComma {
		p.checkAssignTarget(expr)
		s := &lua_ast.SAssign{}
		s.Targets.Items = append(s.Targets.Items, expr)
		for p.kind() == lua_lexer.TComma {
			s.Targets.Commas = append(s.Targets.Commas, p.next())
			target := p.parseSuffixedExpr()
			p.checkAssignTarget(target)
			s.Targets.Items = append(s.Targets.Items, target)
		}
		s.Equals = p.expect(lua_lexer.TEquals)
		s.Values = p.parseExprList()
		return s
	}

	call, ok := expr.(*lua_ast.FunctionCall)
	if !ok {
		p.errorAtNode(expr, "Expected a function call or an assignment")
	}
	return &lua_ast.SCall{Call: call}
}

func (p *parser) checkAssignTarget(expr lua_ast.E) {
	switch expr.(type) {
	case *lua_ast.EName, *lua_ast.VarExpression:
	default:
		p.errorAtNode(expr, "Cannot assign to this expression")
	}
}

func (p *parser) parseExprList() lua_ast.ExprList {
	list := lua_ast.ExprList{Items: []lua_ast.E{p.parseExpr()}}
	for p.kind() == lua_lexer.TComma {
		list.Commas = append(list.Commas, p.next())
		list.Items = append(list.Items, p.parseExpr())
	}
	return list
}

func (p *parser) parseExpr() lua_ast.E {
	return p.parseSubExpr(0)
}

func (p *parser) parseSubExpr(limit int) lua_ast.E {
	var left lua_ast.E

	switch p.kind() {
	case lua_lexer.TNot, lua_lexer.TMinus, lua_lexer.THash, lua_lexer.TTilde:
		op := p.next()
		left = &lua_ast.EUnary{Op: op, Value: p.parseSubExpr(unaryPriority)}

	default:
		left = p.parseSimpleExpr()
	}

	for {
		prio, ok := binaryPriority[p.kind()]
		if !ok || prio.left <= limit {
			return left
		}
		op := p.next()
		left = &lua_ast.EBinary{Left: left, Op: op, Right: p.parseSubExpr(prio.right)}
	}
}

func (p *parser) parseSimpleExpr() lua_ast.E {
	switch p.kind() {
	case lua_lexer.TNumber, lua_lexer.TString, lua_lexer.TLongString,
		lua_lexer.TNil, lua_lexer.TTrue, lua_lexer.TFalse, lua_lexer.TDotDotDot:
		return &lua_ast.ELiteral{Token: p.next()}

	case lua_lexer.TOpenBrace:
		return p.parseTable()

	case lua_lexer.TFunction:
		e := &lua_ast.EFunction{Function: p.next()}
		e.Body = p.parseFunctionBody()
		return e

	default:
		return p.parseSuffixedExpr()
	}
}

func (p *parser) parseSuffixedExpr() lua_ast.E {
	var prefix lua_ast.E

	switch p.kind() {
	case lua_lexer.TIdentifier, lua_lexer.TGoto:
		prefix = &lua_ast.EName{Name: p.next()}

	case lua_lexer.TOpenParen:
		e := &lua_ast.EParens{Open: p.next()}
		e.Inner = p.parseExpr()
		e.Close = p.expect(lua_lexer.TCloseParen)
		prefix = e

	default:
		p.unexpected()
	}

	var suffixes []lua_ast.Suffix
	for {
		switch p.kind() {
		case lua_lexer.TDot:
			suffix := &lua_ast.SuffixDot{Dot: p.next()}
			suffix.Name = p.expectName()
			suffixes = append(suffixes, suffix)

		case lua_lexer.TOpenBracket:
			suffix := &lua_ast.SuffixBracket{Open: p.next()}
			suffix.Index = p.parseExpr()
			suffix.Close = p.expect(lua_lexer.TCloseBracket)
			suffixes = append(suffixes, suffix)

		case lua_lexer.TColon:
			colon := p.next()
			method := p.expectName()
			suffixes = append(suffixes, &lua_ast.SuffixCall{Colon: &colon, Method: &method, Args: p.parseArgs()})

		case lua_lexer.TOpenParen, lua_lexer.TString, lua_lexer.TLongString, lua_lexer.TOpenBrace:
			suffixes = append(suffixes, &lua_ast.SuffixCall{Args: p.parseArgs()})

		default:
			return lua_ast.MakeSuffixed(prefix, suffixes)
		}
	}
}

func (p *parser) parseArgs() lua_ast.Args {
	switch p.kind() {
	case lua_lexer.TOpenParen:
		args := &lua_ast.ArgsParens{Open: p.next()}
		if p.kind() != lua_lexer.TCloseParen {
			args.List = p.parseExprList()
		}
		args.Close = p.expect(lua_lexer.TCloseParen)
		return args

	case lua_lexer.TString, lua_lexer.TLongString:
		return &lua_ast.ArgsString{Token: p.next()}

	case lua_lexer.TOpenBrace:
		return &lua_ast.ArgsTable{Table: p.parseTable()}

	default:
		p.expected("function arguments")
		return nil
	}
}

func (p *parser) parseTable() *lua_ast.ETable {
	table := &lua_ast.ETable{Open: p.expect(lua_lexer.TOpenBrace)}

	for p.kind() != lua_lexer.TCloseBrace {
		var field lua_ast.TableField

		switch {
		case p.kind() == lua_lexer.TOpenBracket:
			// "[key] = value"
			field.Kind = lua_ast.FieldComputed
			field.OpenBracket = p.next()
			field.Key = p.parseExpr()
			field.CloseBracket = p.expect(lua_lexer.TCloseBracket)
			field.Equals = p.expect(lua_lexer.TEquals)

		case p.kind() == lua_lexer.TIdentifier && p.lookahead() == lua_lexer.TEquals:
			// "name = value"
			field.Kind = lua_ast.FieldNamed
			field.Name = p.next()
			field.Equals = p.next()
		}

		field.Value = p.parseExpr()

		if p.kind() == lua_lexer.TComma || p.kind() == lua_lexer.TSemicolon {
			separator := p.next()
			field.Separator = &separator
			table.Fields = append(table.Fields, field)
			continue
		}

		table.Fields = append(table.Fields, field)
		break
	}

	table.Close = p.expect(lua_lexer.TCloseBrace)
	return table
}

func (p *parser) parseFunctionBody() lua_ast.FunctionBody {
	body := lua_ast.FunctionBody{Open: p.expect(lua_lexer.TOpenParen)}

	if p.kind() != lua_lexer.TCloseParen {
		for {
			if p.kind() == lua_lexer.TDotDotDot {
				body.Params.Names = append(body.Params.Names, p.next())
				break
			}
			body.Params.Names = append(body.Params.Names, p.expectName())
			if p.kind() != lua_lexer.TComma {
				break
			}
			body.Params.Commas = append(body.Params.Commas, p.next())
		}
	}

	body.Close = p.expect(lua_lexer.TCloseParen)
	body.Block = p.parseBlock()
	body.End = p.expect(lua_lexer.TEnd)
	return body
}
