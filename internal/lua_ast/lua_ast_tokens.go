package lua_ast

// VisitTokens calls "visit" on every token inside "node" in source order.
// Returning false from "visit" stops the walk early. The return value is false
// if the walk was stopped.
func VisitTokens(node interface{}, visit func(*Token) bool) bool {
	w := tokenWalker{visit: visit}
	w.node(node)
	return !w.stopped
}

type tokenWalker struct {
	visit   func(*Token) bool
	stopped bool
}

func (w *tokenWalker) token(t *Token) {
	if !w.stopped && !w.visit(t) {
		w.stopped = true
	}
}

func (w *tokenWalker) optionalToken(t *Token) {
	if t != nil {
		w.token(t)
	}
}

func (w *tokenWalker) block(b *Block) {
	for i := range b.Stmts {
		w.stmt(&b.Stmts[i])
	}
}

func (w *tokenWalker) stmt(s *Stmt) {
	w.node(s.Data)
	w.optionalToken(s.Semicolon)
}

func (w *tokenWalker) exprList(list *ExprList) {
	for i, item := range list.Items {
		w.node(item)
		if i < len(list.Commas) {
			w.token(&list.Commas[i])
		}
	}
}

func (w *tokenWalker) params(p *Params) {
	for i := range p.Names {
		w.token(&p.Names[i])
		if i < len(p.Commas) {
			w.token(&p.Commas[i])
		}
	}
}

func (w *tokenWalker) functionBody(body *FunctionBody) {
	w.token(&body.Open)
	w.params(&body.Params)
	w.token(&body.Close)
	w.block(&body.Block)
	w.token(&body.End)
}

func (w *tokenWalker) node(node interface{}) {
	if w.stopped {
		return
	}

	switch n := node.(type) {
	case *AST:
		w.block(&n.Block)
		w.token(&n.EOF)

	case *Block:
		w.block(n)

	case *Stmt:
		w.stmt(n)

	case *SLocal:
		w.token(&n.Local)
		for i := range n.Names {
			w.token(&n.Names[i].Name)
			if attrib := n.Names[i].Attrib; attrib != nil {
				w.token(&attrib.Open)
				w.token(&attrib.Name)
				w.token(&attrib.Close)
			}
			if i < len(n.NameCommas) {
				w.token(&n.NameCommas[i])
			}
		}
		w.optionalToken(n.Equals)
		w.exprList(&n.Values)

	case *SAssign:
		w.exprList(&n.Targets)
		w.token(&n.Equals)
		w.exprList(&n.Values)

	case *SCall:
		w.node(n.Call)

	case *SDo:
		w.token(&n.Do)
		w.block(&n.Block)
		w.token(&n.End)

	case *SWhile:
		w.token(&n.While)
		w.node(n.Test)
		w.token(&n.Do)
		w.block(&n.Block)
		w.token(&n.End)

	case *SRepeat:
		w.token(&n.Repeat)
		w.block(&n.Block)
		w.token(&n.Until)
		w.node(n.Test)

	case *SIf:
		w.token(&n.If)
		w.node(n.Test)
		w.token(&n.Then)
		w.block(&n.Yes)
		for i := range n.ElseIfs {
			elseIf := &n.ElseIfs[i]
			w.token(&elseIf.ElseIf)
			w.node(elseIf.Test)
			w.token(&elseIf.Then)
			w.block(&elseIf.Block)
		}
		w.optionalToken(n.Else)
		if n.No != nil {
			w.block(n.No)
		}
		w.token(&n.End)

	case *SNumericFor:
		w.token(&n.For)
		w.token(&n.Name)
		w.token(&n.Equals)
		w.node(n.First)
		w.token(&n.FirstComma)
		w.node(n.Last)
		if n.StepComma != nil {
			w.token(n.StepComma)
			w.node(n.Step)
		}
		w.token(&n.Do)
		w.block(&n.Block)
		w.token(&n.End)

	case *SGenericFor:
		w.token(&n.For)
		w.params(&n.Names)
		w.token(&n.In)
		w.exprList(&n.Exprs)
		w.token(&n.Do)
		w.block(&n.Block)
		w.token(&n.End)

	case *SFunction:
		w.token(&n.Function)
		for i := range n.Name.Names {
			w.token(&n.Name.Names[i])
			if i < len(n.Name.Dots) {
				w.token(&n.Name.Dots[i])
			}
		}
		if n.Name.Colon != nil {
			w.token(n.Name.Colon)
			w.token(n.Name.Method)
		}
		w.functionBody(&n.Body)

	case *SLocalFunction:
		w.token(&n.Local)
		w.token(&n.Function)
		w.token(&n.Name)
		w.functionBody(&n.Body)

	case *SReturn:
		w.token(&n.Return)
		w.exprList(&n.Values)

	case *SBreak:
		w.token(&n.Break)

	case *SGoto:
		w.token(&n.Goto)
		w.token(&n.Label)

	case *SLabel:
		w.token(&n.Open)
		w.token(&n.Name)
		w.token(&n.Close)

	case *SEmpty:

	case *EName:
		w.token(&n.Name)

	case *ELiteral:
		w.token(&n.Token)

	case *EParens:
		w.token(&n.Open)
		w.node(n.Inner)
		w.token(&n.Close)

	case *EUnary:
		w.token(&n.Op)
		w.node(n.Value)

	case *EBinary:
		w.node(n.Left)
		w.token(&n.Op)
		w.node(n.Right)

	case *EFunction:
		w.token(&n.Function)
		w.functionBody(&n.Body)

	case *ETable:
		w.token(&n.Open)
		for i := range n.Fields {
			field := &n.Fields[i]
			switch field.Kind {
			case FieldComputed:
				w.token(&field.OpenBracket)
				w.node(field.Key)
				w.token(&field.CloseBracket)
				w.token(&field.Equals)
			case FieldNamed:
				w.token(&field.Name)
				w.token(&field.Equals)
			}
			w.node(field.Value)
			w.optionalToken(field.Separator)
		}
		w.token(&n.Close)

	case *FunctionCall:
		w.node(n.Prefix)
		for _, suffix := range n.Suffixes {
			w.node(suffix)
		}

	case *VarExpression:
		w.node(n.Prefix)
		for _, suffix := range n.Suffixes {
			w.node(suffix)
		}

	case *SuffixDot:
		w.token(&n.Dot)
		w.token(&n.Name)

	case *SuffixBracket:
		w.token(&n.Open)
		w.node(n.Index)
		w.token(&n.Close)

	case *SuffixCall:
		if n.Colon != nil {
			w.token(n.Colon)
			w.token(n.Method)
		}
		w.node(n.Args)

	case *ArgsParens:
		w.token(&n.Open)
		w.exprList(&n.List)
		w.token(&n.Close)

	case *ArgsString:
		w.token(&n.Token)

	case *ArgsTable:
		w.node(n.Table)

	default:
		panic("Internal error")
	}
}

// FirstToken returns the first token of a node, or nil if it has none
func FirstToken(node interface{}) *Token {
	switch n := node.(type) {
	case *Block:
		for i := range n.Stmts {
			if t := FirstToken(&n.Stmts[i]); t != nil {
				return t
			}
		}
		return nil
	case *Stmt:
		if t := FirstToken(n.Data); t != nil {
			return t
		}
		return n.Semicolon
	case *SLocal:
		return &n.Local
	case *SAssign:
		return FirstToken(n.Targets.Items[0])
	case *SCall:
		return FirstToken(n.Call)
	case *SDo:
		return &n.Do
	case *SWhile:
		return &n.While
	case *SRepeat:
		return &n.Repeat
	case *SIf:
		return &n.If
	case *SNumericFor:
		return &n.For
	case *SGenericFor:
		return &n.For
	case *SFunction:
		return &n.Function
	case *SLocalFunction:
		return &n.Local
	case *SReturn:
		return &n.Return
	case *SBreak:
		return &n.Break
	case *SGoto:
		return &n.Goto
	case *SLabel:
		return &n.Open
	case *SEmpty:
		return nil
	case *EName:
		return &n.Name
	case *ELiteral:
		return &n.Token
	case *EParens:
		return &n.Open
	case *EUnary:
		return &n.Op
	case *EBinary:
		return FirstToken(n.Left)
	case *EFunction:
		return &n.Function
	case *ETable:
		return &n.Open
	case *FunctionCall:
		return FirstToken(n.Prefix)
	case *VarExpression:
		return FirstToken(n.Prefix)
	case *SuffixDot:
		return &n.Dot
	case *SuffixBracket:
		return &n.Open
	case *SuffixCall:
		if n.Colon != nil {
			return n.Colon
		}
		return FirstToken(n.Args)
	case *ArgsParens:
		return &n.Open
	case *ArgsString:
		return &n.Token
	case *ArgsTable:
		return &n.Table.Open
	default:
		panic("Internal error")
	}
}

// LastToken returns the last token of a node, or nil if it has none
func LastToken(node interface{}) *Token {
	switch n := node.(type) {
	case *Block:
		for i := len(n.Stmts) - 1; i >= 0; i-- {
			if t := LastToken(&n.Stmts[i]); t != nil {
				return t
			}
		}
		return nil
	case *Stmt:
		if n.Semicolon != nil {
			return n.Semicolon
		}
		return LastToken(n.Data)
	case *SLocal:
		if len(n.Values.Items) > 0 {
			return LastToken(n.Values.Items[len(n.Values.Items)-1])
		}
		last := &n.Names[len(n.Names)-1]
		if last.Attrib != nil {
			return &last.Attrib.Close
		}
		return &last.Name
	case *SAssign:
		return LastToken(n.Values.Items[len(n.Values.Items)-1])
	case *SCall:
		return LastToken(n.Call)
	case *SDo:
		return &n.End
	case *SWhile:
		return &n.End
	case *SRepeat:
		return LastToken(n.Test)
	case *SIf:
		return &n.End
	case *SNumericFor:
		return &n.End
	case *SGenericFor:
		return &n.End
	case *SFunction:
		return &n.Body.End
	case *SLocalFunction:
		return &n.Body.End
	case *SReturn:
		if len(n.Values.Items) > 0 {
			return LastToken(n.Values.Items[len(n.Values.Items)-1])
		}
		return &n.Return
	case *SBreak:
		return &n.Break
	case *SGoto:
		return &n.Label
	case *SLabel:
		return &n.Close
	case *SEmpty:
		return nil
	case *EName:
		return &n.Name
	case *ELiteral:
		return &n.Token
	case *EParens:
		return &n.Close
	case *EUnary:
		return LastToken(n.Value)
	case *EBinary:
		return LastToken(n.Right)
	case *EFunction:
		return &n.Body.End
	case *ETable:
		return &n.Close
	case *FunctionCall:
		return LastToken(n.Suffixes[len(n.Suffixes)-1])
	case *VarExpression:
		return LastToken(n.Suffixes[len(n.Suffixes)-1])
	case *SuffixDot:
		return &n.Name
	case *SuffixBracket:
		return &n.Close
	case *SuffixCall:
		return LastToken(n.Args)
	case *ArgsParens:
		return &n.Close
	case *ArgsString:
		return &n.Token
	case *ArgsTable:
		return &n.Table.Close
	default:
		panic("Internal error")
	}
}
