package lua_printer_test

import (
	"testing"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
	"github.com/luabundle/luabundle/internal/lua_parser"
	"github.com/luabundle/luabundle/internal/lua_printer"
	"github.com/luabundle/luabundle/internal/test"
)

func expectPrintedCommon(t *testing.T, contents string, expected string, options lua_printer.Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := lua_parser.Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		printed := lua_printer.Print(tree, options)
		test.AssertEqualWithDiff(t, string(printed), expected)
	})
}

func expectPrintedDense(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, lua_printer.Options{Style: lua_printer.StyleDense})
}

func expectPrintedReadable(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, lua_printer.Options{Style: lua_printer.StyleReadable})
}

func TestDense(t *testing.T) {
	expectPrintedDense(t, "local x = 1\nif x then print(x) end", "local x=1 if x then print(x)end")
	expectPrintedDense(t, "local a = 1 .. 2", "local a=1 .. 2")
	expectPrintedDense(t, "x = a .. .5", "x=a.. .5")
	expectPrintedDense(t, "x = a - -b", "x=a- -b")
	expectPrintedDense(t, "x = t[ [[s]] ]", "x=t[ [[s]]]")
	expectPrintedDense(t, "-- comment\nlocal t = { 1, 2; x = 3, }", "local t={1,2;x=3}")
	expectPrintedDense(t, "a = b\n;(f)()", "a=b;(f)()")
	expectPrintedDense(t, "local x = 10;\nlocal y = 20;\n", "local x=10 local y=20")
	expectPrintedDense(t, "local function f(a, ...) return not a, ... end", "local function f(a,...)return not a,...end")
	expectPrintedDense(t, "for i = 1, 10 do end", "for i=1,10 do end")
}

func TestDenseLineLimit(t *testing.T) {
	expectPrintedCommon(t, "local a = 1 local b = 2", "local a=1\nlocal b=2",
		lua_printer.Options{Style: lua_printer.StyleDense, LineLimit: 10})

	// Never break between a function and its argument list
	expectPrintedCommon(t, "abcdefghi(1)", "abcdefghi(\n1)",
		lua_printer.Options{Style: lua_printer.StyleDense, LineLimit: 5})
}

func TestReadable(t *testing.T) {
	expectPrintedReadable(t, "local x=1\nif x then print(x) end", "local x = 1\nif x then\n    print(x)\nend\n")
	expectPrintedReadable(t, "t = {1,2;x=3,[k]=4,}", "t = {1, 2; x = 3, [k] = 4}\n")
	expectPrintedReadable(t, "local function f(a,b) return a+b end", "local function f(a, b)\n    return a + b\nend\n")
	expectPrintedReadable(t, "if a then b() elseif c then d() else e() end",
		"if a then\n    b()\nelseif c then\n    d()\nelse\n    e()\nend\n")
	expectPrintedReadable(t, "while x do end", "while x do end\n")
	expectPrintedReadable(t, "a = b\n;(f)()", "a = b\n;(f)()\n")
	expectPrintedReadable(t, "for k,v in pairs(t) do for i=1,#v,2 do print(v[i]) end end",
		"for k, v in pairs(t) do\n    for i = 1, #v, 2 do\n        print(v[i])\n    end\nend\n")
	expectPrintedReadable(t, "repeat x=x-1 until x<0", "repeat\n    x = x - 1\nuntil x < 0\n")
	expectPrintedReadable(t, "local c <const> = not a", "local c <const> = not a\n")
	expectPrintedReadable(t, "function M.a:b() ::top:: goto top end", "function M.a:b()\n    ::top::\n    goto top\nend\n")
	expectPrintedReadable(t, "", "")
}

func TestSynthesizedTrivia(t *testing.T) {
	// Terminators added after parsing print in the default style only
	closeParen := lua_lexer.Symbol(lua_lexer.TCloseParen)
	closeParen.Trailing = []lua_lexer.Trivia{lua_lexer.Semicolon(), lua_lexer.Whitespace("\n")}
	call := &lua_ast.FunctionCall{
		Prefix: &lua_ast.EName{Name: lua_lexer.Synthesized(lua_lexer.TIdentifier, "f")},
		Suffixes: []lua_ast.Suffix{&lua_ast.SuffixCall{Args: &lua_ast.ArgsParens{
			Open:  lua_lexer.Symbol(lua_lexer.TOpenParen),
			Close: closeParen,
		}}},
	}
	tree := lua_ast.AST{
		Block: lua_ast.Block{Stmts: []lua_ast.Stmt{{Data: &lua_ast.SCall{Call: call}}}},
		EOF:   lua_lexer.Symbol(lua_lexer.TEndOfFile),
	}
	test.AssertEqual(t, string(lua_printer.Print(tree, lua_printer.Options{})), "f();\n")
	test.AssertEqual(t, string(lua_printer.Print(tree, lua_printer.Options{Style: lua_printer.StyleDense})), "f()")
}
