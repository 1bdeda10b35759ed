package lua_lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/test"
)

func tokenize(t *testing.T, contents string) []Token {
	t.Helper()
	log := logger.NewDeferLog()
	tokens, ok := Tokenize(log, test.SourceForTest(contents))
	msgs := log.Done()
	if !ok || len(msgs) > 0 {
		t.Fatalf("Unexpected failure to tokenize %q: %v", contents, msgs)
	}
	return tokens
}

func triviaText(trivia []Trivia) string {
	sb := strings.Builder{}
	for _, item := range trivia {
		sb.WriteString(item.Text)
	}
	return sb.String()
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Tokenize(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += fmt.Sprintf("%d:%d: %s: %s\n", msg.Location.Line, msg.Location.Column, msg.Kind.String(), msg.Text)
		}
		test.AssertEqual(t, ok, false)
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectKinds(t *testing.T, contents string, expected ...T) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		tokens := tokenize(t, contents)
		var observed []string
		for _, token := range tokens {
			observed = append(observed, token.Kind.String())
		}
		var want []string
		for _, kind := range expected {
			want = append(want, kind.String())
		}
		want = append(want, TEndOfFile.String())
		test.AssertEqualWithDiff(t, strings.Join(observed, "\n"), strings.Join(want, "\n"))
	})
}

func TestTokens(t *testing.T) {
	expectKinds(t, "local x = 1", TLocal, TIdentifier, TEquals, TNumber)
	expectKinds(t, "a // b ~= c ~ d", TIdentifier, TSlashSlash, TIdentifier, TTildeEquals, TIdentifier, TTilde, TIdentifier)
	expectKinds(t, "a << b >> c <= d >= e == f", TIdentifier, TLessThanLessThan, TIdentifier, TGreaterThanGreaterThan,
		TIdentifier, TLessThanEquals, TIdentifier, TGreaterThanEquals, TIdentifier, TEqualsEquals, TIdentifier)
	expectKinds(t, "::top:: goto top", TColonColon, TIdentifier, TColonColon, TGoto, TIdentifier)
	expectKinds(t, "f(...) .. a.b", TIdentifier, TOpenParen, TDotDotDot, TCloseParen, TDotDot, TIdentifier, TDot, TIdentifier)
	expectKinds(t, "t[ [[x]] ]", TIdentifier, TOpenBracket, TLongString, TCloseBracket)
	expectKinds(t, "#t % 2 & 1 | 0", THash, TIdentifier, TPercent, TNumber, TAmpersand, TNumber, TBar, TNumber)
	expectKinds(t, "acquire 'x'", TIdentifier, TString)
	expectKinds(t, "x = -1", TIdentifier, TEquals, TMinus, TNumber)
}

func TestNumbers(t *testing.T) {
	for _, number := range []string{"3", "345", "0xff", "0xBEBADA", "3.0", "3.1416", "314.16e-2", "0.31416E1",
		"34e1", "0x0.1E", "0xA23p-4", "0X1.921FB54442D18P+1", ".5", "5."} {
		tokens := tokenize(t, number)
		test.AssertEqual(t, len(tokens), 2)
		test.AssertEqual(t, tokens[0].Kind, TNumber)
		test.AssertEqual(t, tokens[0].Text, number)
	}
}

func TestStrings(t *testing.T) {
	for contents, expected := range map[string]string{
		`"abc"`:           "abc",
		`'a\'b'`:          `a\'b`,
		`"a\"b"`:          `a\"b`,
		"'a\\\nb'":        "a\\\nb",
		"'a\\z  \n  b'":   "a\\z  \n  b",
		"[[abc]]":         "abc",
		"[==[x]]y]==]":    "x]]y",
		"[=[\nline\n]=]": "\nline\n",
	} {
		tokens := tokenize(t, contents)
		test.AssertEqual(t, len(tokens), 2)
		test.AssertEqual(t, tokens[0].Text, contents)
		literal, ok := tokens[0].StringLiteral()
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, literal, expected)
	}

	_, ok := Symbol(TOpenParen).StringLiteral()
	test.AssertEqual(t, ok, false)
}

func TestTriviaAssignment(t *testing.T) {
	tokens := tokenize(t, "local x = 1 -- one\n\n-- doc\nprint(x)\n")

	test.AssertEqual(t, len(tokens), 9)
	test.AssertEqual(t, tokens[0].Text, "local")
	test.AssertEqual(t, triviaText(tokens[0].Trailing), " ")
	test.AssertEqual(t, tokens[3].Text, "1")
	test.AssertEqual(t, triviaText(tokens[3].Trailing), " -- one\n")
	test.AssertEqual(t, tokens[3].TrailingHasNewline(), true)
	test.AssertEqual(t, tokens[4].Text, "print")
	test.AssertEqual(t, triviaText(tokens[4].Leading), "\n-- doc\n")
	test.AssertEqual(t, tokens[4].Leading[1].Kind, TriviaSingleLineComment)
	test.AssertEqual(t, tokens[7].Text, ")")
	test.AssertEqual(t, triviaText(tokens[7].Trailing), "\n")
	test.AssertEqual(t, tokens[8].Kind, TEndOfFile)
	test.AssertEqual(t, len(tokens[8].Leading), 0)
}

func TestTriviaAtEndOfFile(t *testing.T) {
	tokens := tokenize(t, "f()\n--[[ trailing\ncomment ]]\n")
	eof := tokens[len(tokens)-1]
	test.AssertEqual(t, eof.Kind, TEndOfFile)
	test.AssertEqual(t, triviaText(eof.Leading), "--[[ trailing\ncomment ]]\n")
	test.AssertEqual(t, eof.Leading[0].Kind, TriviaMultiLineComment)
}

func TestShebang(t *testing.T) {
	tokens := tokenize(t, "#!/usr/bin/env lua\nprint(#t)")
	test.AssertEqual(t, tokens[0].Leading[0].Kind, TriviaShebang)
	test.AssertEqual(t, tokens[0].Leading[0].Text, "#!/usr/bin/env lua")
	test.AssertEqual(t, tokens[2].Kind, THash)
}

func TestRoundTrip(t *testing.T) {
	for _, contents := range []string{
		"",
		"\n\n",
		"-- only a comment",
		"local x = 10;\nlocal y = 20;\n",
		"  acquire('a.lua') --[==[ long\ncomment ]==]  acquire \"b.lua\"\r\n",
		"return [[\nmulti\nline]] .. 'x'\t-- done",
	} {
		sb := strings.Builder{}
		for _, token := range tokenize(t, contents) {
			sb.WriteString(triviaText(token.Leading))
			sb.WriteString(token.Text)
			sb.WriteString(triviaText(token.Trailing))
		}
		test.AssertEqualWithDiff(t, sb.String(), contents)
	}
}

func TestRanges(t *testing.T) {
	tokens := tokenize(t, "f()  \n;")
	closeParen := tokens[2]
	test.AssertEqual(t, closeParen.Kind, TCloseParen)
	test.AssertEqual(t, closeParen.Range, logger.Range{Loc: logger.Loc{Start: 2}, Len: 1})
	test.AssertEqual(t, closeParen.EndAcrossWhitespace(), int32(6))
	test.AssertEqual(t, tokens[3].Kind, TSemicolon)
	test.AssertEqual(t, tokens[3].Range.Loc.Start, int32(6))

	// Synthesized trivia has no position and doesn't move the end
	closeParen.Trailing = append(closeParen.Trailing, Semicolon(), Whitespace("\n"))
	test.AssertEqual(t, closeParen.EndAcrossWhitespace(), int32(6))
	test.AssertEqual(t, Symbol(TCloseParen).IsSynthesized(), true)
	test.AssertEqual(t, closeParen.IsSynthesized(), false)
}

func TestIsIdentifier(t *testing.T) {
	test.AssertEqual(t, IsIdentifier("acquire"), true)
	test.AssertEqual(t, IsIdentifier("_G"), true)
	test.AssertEqual(t, IsIdentifier("end"), false)
	test.AssertEqual(t, IsIdentifier("1a"), false)
	test.AssertEqual(t, IsIdentifier(""), false)
}

func TestLexerErrors(t *testing.T) {
	expectLexerError(t, "x = \"abc", "1:4: error: Unterminated string literal\n")
	expectLexerError(t, "x = 'abc\nd'", "1:4: error: Unterminated string literal\n")
	expectLexerError(t, "x = 3abc", "1:4: error: Malformed number \"3abc\"\n")
	expectLexerError(t, "x = 0x", "1:4: error: Malformed number \"0x\"\n")
	expectLexerError(t, "x = 1e+", "1:4: error: Malformed number \"1e+\"\n")
	expectLexerError(t, "x = @", "1:4: error: Syntax error \"@\"\n")
	expectLexerError(t, "--[[ abc", "1:0: error: Unterminated long comment\n")
	expectLexerError(t, "\nx = [==[ abc ]]", "2:4: error: Unterminated long string\n")
}
