package bundler

import (
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

// An inlined call starts with "(", which Lua reads as a call on the previous
// statement when that statement ends in something callable:
//
//   print("a")
//   (function(...) end)()
//
// So a rewrite that starts a statement puts a ";" after the statement before
// it, and a rewrite that ends a statement gets a ";" after itself. Neither is
// added where the source already has one. A rewrite in the middle of a
// statement, such as "acquire('a').x = 1" or "acquire('a') + 1", gets no ";"
// after it.
//
// There is one tracker per file since the offsets it stores are only
// meaningful inside the file they were taken from.
type boundaryTracker struct {
	// One past the offset of every ";" token seen so far in this file. Offsets
	// are added as blocks are entered and are never removed.
	semicolons map[int32]bool

	// Span of the outermost call or variable expression visited most recently
	pending logger.Range
}

func newBoundaryTracker() *boundaryTracker {
	return &boundaryTracker{semicolons: make(map[int32]bool)}
}

// collect records the semicolons in a block, including ones in nested blocks
// and table constructors
func (t *boundaryTracker) collect(block *lua_ast.Block) {
	lua_ast.VisitTokens(block, func(token *lua_ast.Token) bool {
		if token.Kind == lua_lexer.TSemicolon && !token.IsSynthesized() {
			t.semicolons[token.Range.End()] = true
		}
		return true
	})
}

// update is called for every call or variable expression in document order.
// An expression nested inside the pending one doesn't replace it, so every
// acquire call in "f(g(), acquire('a'))" stays part of the outer call.
func (t *boundaryTracker) update(span logger.Range) {
	if !t.pending.Contains(span.Loc.Start) {
		t.pending = span
	}
}

// needsTerminator is false for an acquire call that starts inside the last
// ordinary expression, such as "f(acquire('a'))" or "x.y(acquire('a'))"
func (t *boundaryTracker) needsTerminator(start int32) bool {
	return !t.pending.Contains(start)
}

// terminate adds a ";" after "last" unless the source already has one there.
// The "boundary" token is where "last" came from in the source, which differs
// from "last" when "last" was synthesized to replace it.
func (t *boundaryTracker) terminate(last *lua_ast.Token, boundary lua_ast.Token) {
	if boundary.IsSynthesized() || t.semicolons[boundary.EndAcrossWhitespace()+1] {
		return
	}
	trailing := make([]lua_lexer.Trivia, 0, len(last.Trailing)+2)
	trailing = append(trailing, lua_lexer.Semicolon())
	trailing = append(trailing, last.Trailing...)
	if !last.TrailingHasNewline() {
		trailing = append(trailing, lua_lexer.Whitespace("\n"))
	}
	last.Trailing = trailing
}

// separate adds a ";" after the last token of the statement that comes before
// an inlined call. Nothing is added after a token that can't end a callable
// expression, such as "end" or a number.
func separate(last *lua_ast.Token) {
	if last == nil {
		return
	}
	switch last.Kind {
	case lua_lexer.TIdentifier, lua_lexer.TCloseParen, lua_lexer.TCloseBracket,
		lua_lexer.TCloseBrace, lua_lexer.TString, lua_lexer.TLongString:
	default:
		return
	}
	for _, trivia := range last.Trailing {
		if trivia.Kind == lua_lexer.TriviaSemicolon {
			return
		}
	}
	trailing := make([]lua_lexer.Trivia, 0, len(last.Trailing)+1)
	trailing = append(trailing, lua_lexer.Semicolon())
	last.Trailing = append(trailing, last.Trailing...)
}
