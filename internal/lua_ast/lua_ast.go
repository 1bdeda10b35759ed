package lua_ast

// This syntax tree is lossless. Every token from the source file is stored in
// the node it belongs to, including its leading and trailing trivia, so the
// tree can be printed back out exactly as it was written. Nodes that are
// created after parsing use synthesized tokens which have no position.

import (
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_lexer"
)

type Token = lua_lexer.Token

type AST struct {
	Block Block

	// Comments and whitespace after the last statement live in the leading
	// trivia of this token
	EOF Token
}

type Block struct {
	Stmts []Stmt
}

type Stmt struct {
	Data      S
	Semicolon *Token
}

type S interface{ isStmt() }

// "local a <const>, b = 1, 2"
type SLocal struct {
	Local      Token
	Names      []LocalName
	NameCommas []Token
	Equals     *Token
	Values     ExprList
}

type LocalName struct {
	Name   Token
	Attrib *Attrib
}

// "<const>" or "<close>"
type Attrib struct {
	Open  Token
	Name  Token
	Close Token
}

// "a, b.c = 1, 2"
type SAssign struct {
	Targets ExprList
	Equals  Token
	Values  ExprList
}

type SCall struct {
	Call *FunctionCall
}

type SDo struct {
	Do    Token
	Block Block
	End   Token
}

type SWhile struct {
	While Token
	Test  E
	Do    Token
	Block Block
	End   Token
}

type SRepeat struct {
	Repeat Token
	Block  Block
	Until  Token
	Test   E
}

type SIf struct {
	If      Token
	Test    E
	Then    Token
	Yes     Block
	ElseIfs []ElseIf
	Else    *Token
	No      *Block
	End     Token
}

type ElseIf struct {
	ElseIf Token
	Test   E
	Then   Token
	Block  Block
}

// "for i = 1, 10, 2 do ... end"
type SNumericFor struct {
	For        Token
	Name       Token
	Equals     Token
	First      E
	FirstComma Token
	Last       E
	StepComma  *Token
	Step       E
	Do         Token
	Block      Block
	End        Token
}

// "for k, v in pairs(t) do ... end"
type SGenericFor struct {
	For   Token
	Names Params
	In    Token
	Exprs ExprList
	Do    Token
	Block Block
	End   Token
}

type SFunction struct {
	Function Token
	Name     FuncName
	Body     FunctionBody
}

// "a.b.c:d"
type FuncName struct {
	Names  []Token
	Dots   []Token
	Colon  *Token
	Method *Token
}

type SLocalFunction struct {
	Local    Token
	Function Token
	Name     Token
	Body     FunctionBody
}

type SReturn struct {
	Return Token
	Values ExprList
}

type SBreak struct {
	Break Token
}

type SGoto struct {
	Goto  Token
	Label Token
}

// "::name::"
type SLabel struct {
	Open  Token
	Name  Token
	Close Token
}

// A semicolon with no statement before it. The semicolon is stored in the
// enclosing Stmt.
type SEmpty struct{}

func (*SLocal) isStmt()         {}
func (*SAssign) isStmt()        {}
func (*SCall) isStmt()          {}
func (*SDo) isStmt()            {}
func (*SWhile) isStmt()         {}
func (*SRepeat) isStmt()        {}
func (*SIf) isStmt()            {}
func (*SNumericFor) isStmt()    {}
func (*SGenericFor) isStmt()    {}
func (*SFunction) isStmt()      {}
func (*SLocalFunction) isStmt() {}
func (*SReturn) isStmt()        {}
func (*SBreak) isStmt()         {}
func (*SGoto) isStmt()          {}
func (*SLabel) isStmt()         {}
func (*SEmpty) isStmt()         {}

type E interface{ isExpr() }

type EName struct {
	Name Token
}

// "nil", "true", "false", "...", numbers, and strings
type ELiteral struct {
	Token Token
}

type EParens struct {
	Open  Token
	Inner E
	Close Token
}

type EUnary struct {
	Op    Token
	Value E
}

type EBinary struct {
	Left  E
	Op    Token
	Right E
}

type EFunction struct {
	Function Token
	Body     FunctionBody
}

type ETable struct {
	Open   Token
	Fields []TableField
	Close  Token
}

type FieldKind uint8

const (
	FieldPositional FieldKind = iota // "value"
	FieldNamed                       // "name = value"
	FieldComputed                    // "[key] = value"
)

type TableField struct {
	Kind         FieldKind
	OpenBracket  Token
	Key          E
	CloseBracket Token
	Name         Token
	Equals       Token
	Value        E
	Separator    *Token // "," or ";"
}

// A prefix followed by a suffix chain whose last suffix is a call
type FunctionCall struct {
	Prefix   E
	Suffixes []Suffix
}

// A prefix followed by a suffix chain whose last suffix is an index. This is
// what can appear on the left side of an assignment.
type VarExpression struct {
	Prefix   E
	Suffixes []Suffix
}

func (*EName) isExpr()         {}
func (*ELiteral) isExpr()      {}
func (*EParens) isExpr()       {}
func (*EUnary) isExpr()        {}
func (*EBinary) isExpr()       {}
func (*EFunction) isExpr()     {}
func (*ETable) isExpr()        {}
func (*FunctionCall) isExpr()  {}
func (*VarExpression) isExpr() {}

type FunctionBody struct {
	Open   Token
	Params Params
	Close  Token
	Block  Block
	End    Token
}

// Names separated by commas. The last name may be a "..." token.
type Params struct {
	Names  []Token
	Commas []Token
}

type ExprList struct {
	Items  []E
	Commas []Token
}

type Suffix interface{ isSuffix() }

// ".name"
type SuffixDot struct {
	Dot  Token
	Name Token
}

// "[index]"
type SuffixBracket struct {
	Open  Token
	Index E
	Close Token
}

// "(args)", ":method(args)", "'str'", or "{...}"
type SuffixCall struct {
	Colon  *Token
	Method *Token
	Args   Args
}

func (*SuffixDot) isSuffix()     {}
func (*SuffixBracket) isSuffix() {}
func (*SuffixCall) isSuffix()    {}

type Args interface{ isArgs() }

type ArgsParens struct {
	Open  Token
	List  ExprList
	Close Token
}

type ArgsString struct {
	Token Token
}

type ArgsTable struct {
	Table *ETable
}

func (*ArgsParens) isArgs() {}
func (*ArgsString) isArgs() {}
func (*ArgsTable) isArgs()  {}

// Both shapes of suffixed expressions share this so that code working on a
// "prefix + suffix chain" only has to be written once.
type Suffixed interface {
	E
	Parts() (prefix E, suffixes []Suffix)
}

func (c *FunctionCall) Parts() (E, []Suffix)  { return c.Prefix, c.Suffixes }
func (v *VarExpression) Parts() (E, []Suffix) { return v.Prefix, v.Suffixes }

// MakeSuffixed returns a FunctionCall if the last suffix is a call and a
// VarExpression otherwise. Without any suffixes the prefix is returned as-is.
func MakeSuffixed(prefix E, suffixes []Suffix) E {
	if len(suffixes) == 0 {
		return prefix
	}
	if _, ok := suffixes[len(suffixes)-1].(*SuffixCall); ok {
		return &FunctionCall{Prefix: prefix, Suffixes: suffixes}
	}
	return &VarExpression{Prefix: prefix, Suffixes: suffixes}
}

// Span returns the range from the start of the first token of the node to the
// end of its last token, not counting any trivia. It returns false for nodes
// that only contain synthesized tokens.
func Span(node interface{}) (logger.Range, bool) {
	first := FirstToken(node)
	last := LastToken(node)
	if first == nil || last == nil || first.IsSynthesized() || last.IsSynthesized() {
		return logger.Range{}, false
	}
	return logger.RangeBetween(first.Range.Loc.Start, last.Range.End()), true
}
