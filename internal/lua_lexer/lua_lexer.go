package lua_lexer

// The lexer converts a source file to a stream of tokens. Unlike esbuild-style
// compilers, nothing in the source is thrown away: whitespace and comments are
// kept as "trivia" attached to the neighboring tokens so that printing the
// tokens back out reproduces the input byte-for-byte.
//
// A token's trailing trivia is everything after it on the same line, up to and
// including the newline. Every other piece of trivia is leading trivia of the
// token that follows it. Trivia at the very end of the file belongs to the end
// of file token.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/luabundle/luabundle/internal/logger"
)

type T uint8

// If you add a new token, remember to add it to "tokenToString" too
const (
	TEndOfFile T = iota

	// Literals
	TIdentifier
	TNumber
	TString     // "abc" or 'abc'
	TLongString // [[abc]] or [==[abc]==]

	// Punctuation
	TAmpersand
	TAsterisk
	TBar
	TCaret
	TCloseBrace
	TCloseBracket
	TCloseParen
	TColon
	TColonColon
	TComma
	TDot
	TDotDot
	TDotDotDot
	TEquals
	TEqualsEquals
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	THash
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TMinus
	TOpenBrace
	TOpenBracket
	TOpenParen
	TPercent
	TPlus
	TSemicolon
	TSlash
	TSlashSlash
	TTilde
	TTildeEquals

	// Reserved words
	TAnd
	TBreak
	TDo
	TElse
	TElseif
	TEnd
	TFalse
	TFor
	TFunction
	TGoto
	TIf
	TIn
	TLocal
	TNil
	TNot
	TOr
	TRepeat
	TReturn
	TThen
	TTrue
	TUntil
	TWhile
)

var Keywords = map[string]T{
	"and":      TAnd,
	"break":    TBreak,
	"do":       TDo,
	"else":     TElse,
	"elseif":   TElseif,
	"end":      TEnd,
	"false":    TFalse,
	"for":      TFor,
	"function": TFunction,
	"goto":     TGoto,
	"if":       TIf,
	"in":       TIn,
	"local":    TLocal,
	"nil":      TNil,
	"not":      TNot,
	"or":       TOr,
	"repeat":   TRepeat,
	"return":   TReturn,
	"then":     TThen,
	"true":     TTrue,
	"until":    TUntil,
	"while":    TWhile,
}

var tokenToString = map[T]string{
	TEndOfFile:  "end of file",
	TIdentifier: "identifier",
	TNumber:     "number",
	TString:     "string",
	TLongString: "string",

	// Punctuation
	TAmpersand:              "&",
	TAsterisk:               "*",
	TBar:                    "|",
	TCaret:                  "^",
	TCloseBrace:             "}",
	TCloseBracket:           "]",
	TCloseParen:             ")",
	TColon:                  ":",
	TColonColon:             "::",
	TComma:                  ",",
	TDot:                    ".",
	TDotDot:                 "..",
	TDotDotDot:              "...",
	TEquals:                 "=",
	TEqualsEquals:           "==",
	TGreaterThan:            ">",
	TGreaterThanEquals:      ">=",
	TGreaterThanGreaterThan: ">>",
	THash:                   "#",
	TLessThan:               "<",
	TLessThanEquals:         "<=",
	TLessThanLessThan:       "<<",
	TMinus:                  "-",
	TOpenBrace:              "{",
	TOpenBracket:            "[",
	TOpenParen:              "(",
	TPercent:                "%",
	TPlus:                   "+",
	TSemicolon:              ";",
	TSlash:                  "/",
	TSlashSlash:             "//",
	TTilde:                  "~",
	TTildeEquals:            "~=",

	// Reserved words
	TAnd:      "and",
	TBreak:    "break",
	TDo:       "do",
	TElse:     "else",
	TElseif:   "elseif",
	TEnd:      "end",
	TFalse:    "false",
	TFor:      "for",
	TFunction: "function",
	TGoto:     "goto",
	TIf:       "if",
	TIn:       "in",
	TLocal:    "local",
	TNil:      "nil",
	TNot:      "not",
	TOr:       "or",
	TRepeat:   "repeat",
	TReturn:   "return",
	TThen:     "then",
	TTrue:     "true",
	TUntil:    "until",
	TWhile:    "while",
}

func (t T) String() string {
	return tokenToString[t]
}

func (t T) IsKeyword() bool {
	return t >= TAnd
}

type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaSingleLineComment
	TriviaMultiLineComment
	TriviaShebang

	// A statement terminator added after parsing. It lives in trivia so that
	// adding it doesn't change the shape of the tree.
	TriviaSemicolon
)

type Trivia struct {
	Kind  TriviaKind
	Text  string
	Range logger.Range
}

type Token struct {
	Leading  []Trivia
	Kind     T
	Text     string
	Range    logger.Range
	Trailing []Trivia
}

var noRange = logger.Range{Loc: logger.Loc{Start: -1}}

// Symbol creates a punctuation, keyword, or end of file token that did not
// come from any source file. It has no trivia and no position.
func Symbol(kind T) Token {
	text := tokenToString[kind]
	if kind == TEndOfFile {
		text = ""
	}
	return Token{Kind: kind, Text: text, Range: noRange}
}

func Synthesized(kind T, text string) Token {
	return Token{Kind: kind, Text: text, Range: noRange}
}

func Whitespace(text string) Trivia {
	return Trivia{Kind: TriviaWhitespace, Text: text, Range: noRange}
}

func SingleLineComment(text string) Trivia {
	return Trivia{Kind: TriviaSingleLineComment, Text: "--" + text, Range: noRange}
}

func Semicolon() Trivia {
	return Trivia{Kind: TriviaSemicolon, Text: ";", Range: noRange}
}

func (t Token) IsSynthesized() bool {
	return t.Range.Loc.Start < 0
}

// StringLiteral returns the raw contents of a string token without its quotes
// or long brackets. Escape sequences are left as written.
func (t Token) StringLiteral() (string, bool) {
	switch t.Kind {
	case TString:
		if len(t.Text) >= 2 {
			return t.Text[1 : len(t.Text)-1], true
		}
	case TLongString:
		level := strings.IndexByte(t.Text[1:], '[')
		if level >= 0 && len(t.Text) >= 2*level+4 {
			return t.Text[level+2 : len(t.Text)-level-2], true
		}
	}
	return "", false
}

// EndAcrossWhitespace returns the end of the token, extended to the end of
// the last whitespace item in its trailing trivia.
func (t Token) EndAcrossWhitespace() int32 {
	end := t.Range.End()
	for _, trivia := range t.Trailing {
		if trivia.Kind == TriviaWhitespace && trivia.Range.Loc.Start >= 0 {
			end = trivia.Range.End()
		}
	}
	return end
}

func (t Token) TrailingHasNewline() bool {
	for _, trivia := range t.Trailing {
		if trivia.Kind == TriviaWhitespace && strings.ContainsAny(trivia.Text, "\r\n") {
			return true
		}
	}
	return false
}

type LexerPanic struct{}

type lexer struct {
	log       logger.Log
	source    logger.Source
	current   int
	start     int
	end       int
	codePoint rune
}

// Tokenize splits the whole file into tokens. The last token is always
// TEndOfFile. If there was a syntax error, it has been reported to the log
// and "ok" is false.
func Tokenize(log logger.Log, source logger.Source) (tokens []Token, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(LexerPanic); isLexerPanic {
			ok = false
			tokens = nil
		} else if r != nil {
			panic(r)
		}
	}()

	lexer := lexer{log: log, source: source}
	lexer.step()

	var pending []Trivia
	for {
		token, trivia, isTrivia := lexer.next()
		if isTrivia {
			// Trailing trivia stops after the first newline
			if n := len(tokens); n > 0 && pending == nil && !tokens[n-1].TrailingHasNewline() {
				tokens[n-1].Trailing = append(tokens[n-1].Trailing, trivia)
				continue
			}
			pending = append(pending, trivia)
			continue
		}

		token.Leading = pending
		pending = nil
		tokens = append(tokens, token)
		if token.Kind == TEndOfFile {
			return
		}
	}
}

func (lexer *lexer) raw() string {
	return lexer.source.Contents[lexer.start:lexer.end]
}

func (lexer *lexer) rangeOfCurrent() logger.Range {
	return logger.RangeBetween(int32(lexer.start), int32(lexer.end))
}

func (lexer *lexer) next() (token Token, trivia Trivia, isTrivia bool) {
	lexer.start = lexer.end
	kind := TEndOfFile

	switch lexer.codePoint {
	case -1: // This indicates the end of the file

	case '#':
		if lexer.start == 0 && strings.HasPrefix(lexer.source.Contents, "#!") {
			// "#!/usr/bin/env lua"
			for lexer.codePoint != '\r' && lexer.codePoint != '\n' && lexer.codePoint != -1 {
				lexer.step()
			}
			return Token{}, lexer.trivia(TriviaShebang), true
		}
		lexer.step()
		kind = THash

	case ' ', '\t', '\v', '\f', '\r', '\n':
		for lexer.codePoint == ' ' || lexer.codePoint == '\t' || lexer.codePoint == '\v' || lexer.codePoint == '\f' {
			lexer.step()
		}
		switch lexer.codePoint {
		case '\r':
			lexer.step()
			if lexer.codePoint == '\n' {
				lexer.step()
			}
		case '\n':
			lexer.step()
		}
		return Token{}, lexer.trivia(TriviaWhitespace), true

	case '-':
		lexer.step()
		if lexer.codePoint != '-' {
			kind = TMinus
			break
		}
		lexer.step()

		// "--[[ ... ]]" or "--[==[ ... ]==]"
		if lexer.codePoint == '[' {
			if level, ok := lexer.longBracketLevel(); ok {
				lexer.scanLongBracket(level, "comment")
				return Token{}, lexer.trivia(TriviaMultiLineComment), true
			}
		}

		// "-- ..."
		for lexer.codePoint != '\r' && lexer.codePoint != '\n' && lexer.codePoint != -1 {
			lexer.step()
		}
		return Token{}, lexer.trivia(TriviaSingleLineComment), true

	case '[':
		if level, ok := lexer.longBracketLevel(); ok {
			lexer.scanLongBracket(level, "string")
			kind = TLongString
			break
		}
		lexer.step()
		kind = TOpenBracket

	case '"', '\'':
		lexer.scanQuotedString()
		kind = TString

	case '(':
		lexer.step()
		kind = TOpenParen

	case ')':
		lexer.step()
		kind = TCloseParen

	case ']':
		lexer.step()
		kind = TCloseBracket

	case '{':
		lexer.step()
		kind = TOpenBrace

	case '}':
		lexer.step()
		kind = TCloseBrace

	case ',':
		lexer.step()
		kind = TComma

	case ';':
		lexer.step()
		kind = TSemicolon

	case '+':
		lexer.step()
		kind = TPlus

	case '*':
		lexer.step()
		kind = TAsterisk

	case '%':
		lexer.step()
		kind = TPercent

	case '^':
		lexer.step()
		kind = TCaret

	case '&':
		lexer.step()
		kind = TAmpersand

	case '|':
		lexer.step()
		kind = TBar

	case '/':
		// '/' or '//'
		lexer.step()
		kind = TSlash
		if lexer.codePoint == '/' {
			lexer.step()
			kind = TSlashSlash
		}

	case ':':
		// ':' or '::'
		lexer.step()
		kind = TColon
		if lexer.codePoint == ':' {
			lexer.step()
			kind = TColonColon
		}

	case '~':
		// '~' or '~='
		lexer.step()
		kind = TTilde
		if lexer.codePoint == '=' {
			lexer.step()
			kind = TTildeEquals
		}

	case '=':
		// '=' or '=='
		lexer.step()
		kind = TEquals
		if lexer.codePoint == '=' {
			lexer.step()
			kind = TEqualsEquals
		}

	case '<':
		// '<' or '<=' or '<<'
		lexer.step()
		kind = TLessThan
		switch lexer.codePoint {
		case '=':
			lexer.step()
			kind = TLessThanEquals
		case '<':
			lexer.step()
			kind = TLessThanLessThan
		}

	case '>':
		// '>' or '>=' or '>>'
		lexer.step()
		kind = TGreaterThan
		switch lexer.codePoint {
		case '=':
			lexer.step()
			kind = TGreaterThanEquals
		case '>':
			lexer.step()
			kind = TGreaterThanGreaterThan
		}

	case '.':
		// '.' or '..' or '...' or a number like ".5"
		if c := lexer.peek(); c >= '0' && c <= '9' {
			lexer.scanNumber()
			kind = TNumber
			break
		}
		lexer.step()
		kind = TDot
		if lexer.codePoint == '.' {
			lexer.step()
			kind = TDotDot
			if lexer.codePoint == '.' {
				lexer.step()
				kind = TDotDotDot
			}
		}

	default:
		switch {
		case lexer.codePoint >= '0' && lexer.codePoint <= '9':
			lexer.scanNumber()
			kind = TNumber

		case IsIdentifierStart(lexer.codePoint):
			for IsIdentifierContinue(lexer.codePoint) {
				lexer.step()
			}
			kind = TIdentifier
			if keyword, ok := Keywords[lexer.raw()]; ok {
				kind = keyword
			}

		default:
			lexer.syntaxError()
		}
	}

	return Token{Kind: kind, Text: lexer.raw(), Range: lexer.rangeOfCurrent()}, Trivia{}, false
}

func (lexer *lexer) trivia(kind TriviaKind) Trivia {
	return Trivia{Kind: kind, Text: lexer.raw(), Range: lexer.rangeOfCurrent()}
}

// Returns the number of "=" signs between two "[" characters starting at the
// current position without consuming anything.
func (lexer *lexer) longBracketLevel() (int, bool) {
	text := lexer.source.Contents[lexer.end+1:]
	level := 0
	for level < len(text) && text[level] == '=' {
		level++
	}
	return level, level < len(text) && text[level] == '['
}

func (lexer *lexer) scanLongBracket(level int, what string) {
	for i := 0; i < level+2; i++ {
		lexer.step()
	}
	closer := "]" + strings.Repeat("=", level) + "]"
	rest := lexer.source.Contents[lexer.end:]
	index := strings.Index(rest, closer)
	if index == -1 {
		lexer.addRangeError(logger.RangeBetween(int32(lexer.start), int32(lexer.start+level+2)),
			fmt.Sprintf("Unterminated long %s", what))
		panic(LexerPanic{})
	}
	lexer.current = lexer.end + index + len(closer)
	lexer.step()
}

func (lexer *lexer) scanQuotedString() {
	quote := lexer.codePoint
	lexer.step()

	for {
		switch lexer.codePoint {
		case '\\':
			lexer.step()
			switch lexer.codePoint {
			case '\r':
				lexer.step()
				if lexer.codePoint == '\n' {
					lexer.step()
				}
				continue
			case 'z':
				// "\z" skips the following whitespace, including newlines
				lexer.step()
				for lexer.codePoint == ' ' || lexer.codePoint == '\t' || lexer.codePoint == '\r' ||
					lexer.codePoint == '\n' || lexer.codePoint == '\v' || lexer.codePoint == '\f' {
					lexer.step()
				}
				continue
			case -1:
				lexer.unterminatedString()
			}

		case -1, '\r', '\n':
			lexer.unterminatedString()

		case quote:
			lexer.step()
			return
		}
		lexer.step()
	}
}

func (lexer *lexer) unterminatedString() {
	lexer.addRangeError(logger.Range{Loc: logger.Loc{Start: int32(lexer.start)}, Len: 1}, "Unterminated string literal")
	panic(LexerPanic{})
}

func (lexer *lexer) scanNumber() {
	isHex := false
	if lexer.codePoint == '0' && (lexer.peek() == 'x' || lexer.peek() == 'X') {
		isHex = true
		lexer.step()
		lexer.step()
	}

	isDigit := func(c rune) bool {
		return (c >= '0' && c <= '9') || (isHex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')))
	}
	isExponent := func(c rune) bool {
		if isHex {
			return c == 'p' || c == 'P'
		}
		return c == 'e' || c == 'E'
	}

	for isDigit(lexer.codePoint) {
		lexer.step()
	}
	if lexer.codePoint == '.' {
		lexer.step()
		for isDigit(lexer.codePoint) {
			lexer.step()
		}
	}
	if isExponent(lexer.codePoint) {
		lexer.step()
		if lexer.codePoint == '+' || lexer.codePoint == '-' {
			lexer.step()
		}
		if lexer.codePoint < '0' || lexer.codePoint > '9' {
			lexer.malformedNumber()
		}
		for lexer.codePoint >= '0' && lexer.codePoint <= '9' {
			lexer.step()
		}
	}

	// Lua rejects things like "3abc" and "0x" instead of splitting them
	if IsIdentifierContinue(lexer.codePoint) || lexer.codePoint == '.' || lexer.raw() == "0x" || lexer.raw() == "0X" {
		lexer.malformedNumber()
	}
}

func (lexer *lexer) malformedNumber() {
	for IsIdentifierContinue(lexer.codePoint) || lexer.codePoint == '.' {
		lexer.step()
	}
	lexer.addRangeError(lexer.rangeOfCurrent(), fmt.Sprintf("Malformed number %q", lexer.raw()))
	panic(LexerPanic{})
}

func (lexer *lexer) syntaxError() {
	loc := logger.Loc{Start: int32(lexer.end)}
	c := lexer.codePoint
	var message string
	if c < 0x20 {
		message = fmt.Sprintf("Syntax error \"\\x%02X\"", c)
	} else if c >= 0x80 {
		message = fmt.Sprintf("Syntax error \"\\u{%x}\"", c)
	} else {
		message = fmt.Sprintf("Syntax error \"%c\"", c)
	}
	lexer.log.AddError(&lexer.source, loc, message)
	panic(LexerPanic{})
}

func (lexer *lexer) peek() rune {
	c, _ := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])
	return c
}

func (lexer *lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = -1
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *lexer) addRangeError(r logger.Range, text string) {
	lexer.log.AddRangeError(&lexer.source, r, text)
}

func IsIdentifierStart(codePoint rune) bool {
	return (codePoint >= 'a' && codePoint <= 'z') || (codePoint >= 'A' && codePoint <= 'Z') || codePoint == '_'
}

func IsIdentifierContinue(codePoint rune) bool {
	return IsIdentifierStart(codePoint) || (codePoint >= '0' && codePoint <= '9')
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, c := range text {
		if (i == 0 && !IsIdentifierStart(c)) || !IsIdentifierContinue(c) {
			return false
		}
	}
	_, isKeyword := Keywords[text]
	return !isKeyword
}
