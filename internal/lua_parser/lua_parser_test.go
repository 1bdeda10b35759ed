package lua_parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_printer"
	"github.com/luabundle/luabundle/internal/test"
)

func parse(t *testing.T, contents string) lua_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest(contents))
	msgs := log.Done()
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.TerminalInfo{})
	}
	test.AssertEqualWithDiff(t, text, "")
	if !ok {
		t.Fatal("Parse error")
	}
	return tree
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += fmt.Sprintf("%d:%d: %s: %s\n", msg.Location.Line, msg.Location.Column, msg.Kind.String(), msg.Text)
		}
		test.AssertEqual(t, ok, false)
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectPrintedLossless(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree := parse(t, contents)
		printed := lua_printer.Print(tree, lua_printer.Options{})
		test.AssertEqualWithDiff(t, string(printed), contents)
	})
}

// Renders an expression with every operator wrapped in parentheses
func dump(e lua_ast.E) string {
	switch e := e.(type) {
	case *lua_ast.EBinary:
		return fmt.Sprintf("(%s %s %s)", dump(e.Left), e.Op.Text, dump(e.Right))
	case *lua_ast.EUnary:
		return fmt.Sprintf("(%s %s)", e.Op.Text, dump(e.Value))
	default:
		sb := strings.Builder{}
		lua_ast.VisitTokens(e, func(t *lua_ast.Token) bool {
			sb.WriteString(t.Text)
			return true
		})
		return sb.String()
	}
}

func expectPrecedence(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tree := parse(t, "x = "+contents)
		assign := tree.Block.Stmts[0].Data.(*lua_ast.SAssign)
		test.AssertEqual(t, dump(assign.Values.Items[0]), expected)
	})
}

func TestPrecedence(t *testing.T) {
	expectPrecedence(t, "1 + 2 * 3", "(1 + (2 * 3))")
	expectPrecedence(t, "1 * 2 + 3", "((1 * 2) + 3)")
	expectPrecedence(t, "1 - 2 - 3", "((1 - 2) - 3)")
	expectPrecedence(t, "2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))")
	expectPrecedence(t, "a .. b .. c", "(a .. (b .. c))")
	expectPrecedence(t, "-a ^ 2", "(- (a ^ 2))")
	expectPrecedence(t, "not a == b", "((not a) == b)")
	expectPrecedence(t, "a or b and c", "(a or (b and c))")
	expectPrecedence(t, "a < b == c", "((a < b) == c)")
	expectPrecedence(t, "1 << 2 + 3", "(1 << (2 + 3))")
	expectPrecedence(t, "a & b | c ~ d", "((a & b) | (c ~ d))")
	expectPrecedence(t, "#t // 2 % 3", "(((# t) // 2) % 3)")
	expectPrecedence(t, "a .. b == c", "((a .. b) == c)")
	expectPrecedence(t, "f(a + b).c * 2", "(f(a+b).c * 2)")
}

func TestSuffixedShapes(t *testing.T) {
	tree := parse(t, "acquire('m').run()\na.b.c = 1\nacquire('m').x = acquire('n')[1]")
	stmts := tree.Block.Stmts
	test.AssertEqual(t, len(stmts), 3)

	call := stmts[0].Data.(*lua_ast.SCall).Call
	test.AssertEqual(t, len(call.Suffixes), 3)
	test.AssertEqual(t, call.Prefix.(*lua_ast.EName).Name.Text, "acquire")

	assign := stmts[1].Data.(*lua_ast.SAssign)
	target := assign.Targets.Items[0].(*lua_ast.VarExpression)
	test.AssertEqual(t, len(target.Suffixes), 2)

	assign = stmts[2].Data.(*lua_ast.SAssign)
	_, isVar := assign.Targets.Items[0].(*lua_ast.VarExpression)
	test.AssertEqual(t, isVar, true)
	value := assign.Values.Items[0].(*lua_ast.VarExpression)
	_, isBracket := value.Suffixes[1].(*lua_ast.SuffixBracket)
	test.AssertEqual(t, isBracket, true)
}

func TestSemicolons(t *testing.T) {
	tree := parse(t, "local x = 10;\nlocal y = 20;;\n;")
	stmts := tree.Block.Stmts
	test.AssertEqual(t, len(stmts), 4)
	test.AssertEqual(t, stmts[0].Semicolon.Range.Loc.Start, int32(12))
	test.AssertEqual(t, stmts[1].Semicolon.Range.Loc.Start, int32(26))
	_, isEmpty := stmts[2].Data.(*lua_ast.SEmpty)
	test.AssertEqual(t, isEmpty, true)
	_, isEmpty = stmts[3].Data.(*lua_ast.SEmpty)
	test.AssertEqual(t, isEmpty, true)
}

func TestGotoAsIdentifier(t *testing.T) {
	tree := parse(t, "local goto = 1\ngoto = goto + 1\ngoto done\n::done::")
	stmts := tree.Block.Stmts
	test.AssertEqual(t, len(stmts), 4)
	_, isAssign := stmts[1].Data.(*lua_ast.SAssign)
	test.AssertEqual(t, isAssign, true)
	_, isGoto := stmts[2].Data.(*lua_ast.SGoto)
	test.AssertEqual(t, isGoto, true)
	_, isLabel := stmts[3].Data.(*lua_ast.SLabel)
	test.AssertEqual(t, isLabel, true)
}

func TestLossless(t *testing.T) {
	expectPrintedLossless(t, "")
	expectPrintedLossless(t, "-- nothing but a comment\n")
	expectPrintedLossless(t, "#!/usr/bin/env lua\nprint('hi')\n")
	expectPrintedLossless(t, "local x = 10;\nlocal y = 20;\n")
	expectPrintedLossless(t, "local a <const>, b <close> = 1, f()\n")
	expectPrintedLossless(t, "local function f(a, b, ...)\n  return a + b, ... -- sum\nend\n")
	expectPrintedLossless(t, "function M.a.b:c(self) end")
	expectPrintedLossless(t, "if a then b() elseif c then d() else e() end")
	expectPrintedLossless(t, "while true do break end repeat x = x - 1 until x <= 0")
	expectPrintedLossless(t, "for i = 1, 10, 2 do print(i) end\nfor k, v in pairs(t) do print(k, v) end")
	expectPrintedLossless(t, "do local t = { 1, 2; x = 3, [\"y\"] = 4, } end")
	expectPrintedLossless(t, "obj:method 'str' obj:method { 1 } f [[long]]")
	expectPrintedLossless(t, "::top:: goto top")
	expectPrintedLossless(t, "local s = 'a' .. \"b\" .. [==[\nc]==] --[[ block\ncomment ]]\n\n")
	expectPrintedLossless(t, "acquire(\"m.lua\").run()\nlocal v = acquire('n.lua')[1].x\n")
	expectPrintedLossless(t, "return")
	expectPrintedLossless(t, "return;")
	expectPrintedLossless(t, "x = -(-1) ~ ~2 // 3 >> 1")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "local = 1", "1:6: error: Expected identifier but found \"=\"\n")
	expectParseError(t, "x = ", "1:4: error: Unexpected end of file\n")
	expectParseError(t, "f", "1:0: error: Expected a function call or an assignment\n")
	expectParseError(t, "a.b", "1:0: error: Expected a function call or an assignment\n")
	expectParseError(t, "return 1 x = 2", "1:9: error: Expected end of block but found \"x\"\n")
	expectParseError(t, "if x then", "1:9: error: Expected \"end\" but found end of file\n")
	expectParseError(t, "local x <foo> = 1", "1:9: error: Unknown attribute \"foo\"\n")
	expectParseError(t, "1 = 2", "1:0: error: Unexpected \"1\"\n")
	expectParseError(t, "(a) = 1", "1:0: error: Cannot assign to this expression\n")
	expectParseError(t, "f() = 1", "1:0: error: Cannot assign to this expression\n")
	expectParseError(t, "for i do end", "1:6: error: Expected \"in\" but found \"do\"\n")
	expectParseError(t, "x = {1 2}", "1:7: error: Expected \"}\" but found \"2\"\n")
	expectParseError(t, "x = a.", "1:6: error: Expected identifier but found end of file\n")
	expectParseError(t, "x = 'abc", "1:4: error: Unterminated string literal\n")
}
