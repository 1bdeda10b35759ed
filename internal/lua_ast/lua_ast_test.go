package lua_ast_test

import (
	"strings"
	"testing"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
	"github.com/luabundle/luabundle/internal/lua_parser"
	"github.com/luabundle/luabundle/internal/lua_printer"
	"github.com/luabundle/luabundle/internal/test"
)

func parse(t *testing.T, contents string) lua_ast.AST {
	t.Helper()
	tree, ok := lua_parser.Parse(logger.NewDeferLog(), test.SourceForTest(contents))
	if !ok {
		t.Fatalf("Could not parse %q", contents)
	}
	return tree
}

func tokenTexts(node interface{}) string {
	var texts []string
	lua_ast.VisitTokens(node, func(token *lua_ast.Token) bool {
		if token.Kind != lua_lexer.TEndOfFile {
			texts = append(texts, token.Text)
		}
		return true
	})
	return strings.Join(texts, " ")
}

func TestVisitTokensInDocumentOrder(t *testing.T) {
	tree := parse(t, "local x = f(1, 2)\nif x then return t.y[1] end")
	test.AssertEqual(t, tokenTexts(&tree), "local x = f ( 1 , 2 ) if x then return t . y [ 1 ] end")
}

func TestVisitTokensStops(t *testing.T) {
	tree := parse(t, "a = 1 b = 2")
	count := 0
	lua_ast.VisitTokens(&tree, func(token *lua_ast.Token) bool {
		count++
		return token.Text != "="
	})
	test.AssertEqual(t, count, 2)
}

func TestFirstAndLastToken(t *testing.T) {
	tree := parse(t, "print(a, { b = 2 })")
	stmt := tree.Block.Stmts[0].Data
	test.AssertEqual(t, lua_ast.FirstToken(stmt).Text, "print")
	test.AssertEqual(t, lua_ast.LastToken(stmt).Text, ")")

	call := stmt.(*lua_ast.SCall).Call
	args := call.Suffixes[0].(*lua_ast.SuffixCall).Args.(*lua_ast.ArgsParens)
	table := args.List.Items[1]
	test.AssertEqual(t, lua_ast.FirstToken(table).Text, "{")
	test.AssertEqual(t, lua_ast.LastToken(table).Text, "}")
}

func TestSpan(t *testing.T) {
	tree := parse(t, "local x = f(1, 2) -- note")
	local := tree.Block.Stmts[0].Data.(*lua_ast.SLocal)

	span, ok := lua_ast.Span(local)
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, span.Loc.Start, int32(0))
	test.AssertEqual(t, span.End(), int32(17))

	span, ok = lua_ast.Span(local.Values.Items[0])
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, span.Loc.Start, int32(10))
	test.AssertEqual(t, span.End(), int32(17))
}

func TestCloneBlockIsIndependent(t *testing.T) {
	contents := "local x = { 1, 2 }\nreturn x[1]"
	tree := parse(t, contents)
	clone := lua_ast.CloneBlock(tree.Block)

	lua_ast.VisitTokens(&clone, func(token *lua_ast.Token) bool {
		if token.Kind == lua_lexer.TNumber {
			token.Text = "0"
		}
		return true
	})

	test.AssertEqualWithDiff(t, string(lua_printer.Print(tree, lua_printer.Options{})), contents)
	cloned := lua_ast.AST{Block: clone, EOF: tree.EOF}
	test.AssertEqualWithDiff(t, string(lua_printer.Print(cloned, lua_printer.Options{})), "local x = { 0, 0 }\nreturn x[0]")
}

func TestMakeSuffixed(t *testing.T) {
	tree := parse(t, "a.b:c(1).d = 1")
	target := tree.Block.Stmts[0].Data.(*lua_ast.SAssign).Targets.Items[0].(*lua_ast.VarExpression)
	prefix, suffixes := target.Parts()

	if _, ok := lua_ast.MakeSuffixed(prefix, suffixes).(*lua_ast.VarExpression); !ok {
		t.Fatal("Expected a variable expression")
	}
	if _, ok := lua_ast.MakeSuffixed(prefix, suffixes[:len(suffixes)-1]).(*lua_ast.FunctionCall); !ok {
		t.Fatal("Expected a function call")
	}
	test.AssertEqual(t, lua_ast.MakeSuffixed(prefix, nil), prefix)
}
