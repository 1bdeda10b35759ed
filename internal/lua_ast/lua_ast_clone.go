package lua_ast

// Cloning copies every node but shares the trivia slices of tokens. Trivia is
// never modified in place, so sharing it between copies is safe.

func CloneBlock(b Block) Block {
	if b.Stmts == nil {
		return Block{}
	}
	stmts := make([]Stmt, len(b.Stmts))
	for i, stmt := range b.Stmts {
		stmts[i] = Stmt{Data: CloneStmt(stmt.Data), Semicolon: cloneToken(stmt.Semicolon)}
	}
	return Block{Stmts: stmts}
}

func cloneToken(t *Token) *Token {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

func cloneTokens(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	return append([]Token{}, tokens...)
}

func cloneExprList(list ExprList) ExprList {
	var items []E
	if list.Items != nil {
		items = make([]E, len(list.Items))
		for i, item := range list.Items {
			items[i] = CloneExpr(item)
		}
	}
	return ExprList{Items: items, Commas: cloneTokens(list.Commas)}
}

func cloneParams(p Params) Params {
	return Params{Names: cloneTokens(p.Names), Commas: cloneTokens(p.Commas)}
}

func cloneFunctionBody(body FunctionBody) FunctionBody {
	return FunctionBody{
		Open:   body.Open,
		Params: cloneParams(body.Params),
		Close:  body.Close,
		Block:  CloneBlock(body.Block),
		End:    body.End,
	}
}

func cloneSuffixes(suffixes []Suffix) []Suffix {
	clone := make([]Suffix, len(suffixes))
	for i, suffix := range suffixes {
		clone[i] = CloneSuffix(suffix)
	}
	return clone
}

func CloneStmt(s S) S {
	switch s := s.(type) {
	case *SLocal:
		names := make([]LocalName, len(s.Names))
		for i, name := range s.Names {
			names[i] = LocalName{Name: name.Name}
			if name.Attrib != nil {
				attrib := *name.Attrib
				names[i].Attrib = &attrib
			}
		}
		return &SLocal{
			Local:      s.Local,
			Names:      names,
			NameCommas: cloneTokens(s.NameCommas),
			Equals:     cloneToken(s.Equals),
			Values:     cloneExprList(s.Values),
		}

	case *SAssign:
		return &SAssign{Targets: cloneExprList(s.Targets), Equals: s.Equals, Values: cloneExprList(s.Values)}

	case *SCall:
		return &SCall{Call: CloneExpr(s.Call).(*FunctionCall)}

	case *SDo:
		return &SDo{Do: s.Do, Block: CloneBlock(s.Block), End: s.End}

	case *SWhile:
		return &SWhile{While: s.While, Test: CloneExpr(s.Test), Do: s.Do, Block: CloneBlock(s.Block), End: s.End}

	case *SRepeat:
		return &SRepeat{Repeat: s.Repeat, Block: CloneBlock(s.Block), Until: s.Until, Test: CloneExpr(s.Test)}

	case *SIf:
		clone := &SIf{If: s.If, Test: CloneExpr(s.Test), Then: s.Then, Yes: CloneBlock(s.Yes), Else: cloneToken(s.Else), End: s.End}
		for _, elseIf := range s.ElseIfs {
			clone.ElseIfs = append(clone.ElseIfs, ElseIf{
				ElseIf: elseIf.ElseIf,
				Test:   CloneExpr(elseIf.Test),
				Then:   elseIf.Then,
				Block:  CloneBlock(elseIf.Block),
			})
		}
		if s.No != nil {
			no := CloneBlock(*s.No)
			clone.No = &no
		}
		return clone

	case *SNumericFor:
		clone := *s
		clone.First = CloneExpr(s.First)
		clone.Last = CloneExpr(s.Last)
		clone.StepComma = cloneToken(s.StepComma)
		if s.Step != nil {
			clone.Step = CloneExpr(s.Step)
		}
		clone.Block = CloneBlock(s.Block)
		return &clone

	case *SGenericFor:
		return &SGenericFor{
			For:   s.For,
			Names: cloneParams(s.Names),
			In:    s.In,
			Exprs: cloneExprList(s.Exprs),
			Do:    s.Do,
			Block: CloneBlock(s.Block),
			End:   s.End,
		}

	case *SFunction:
		return &SFunction{
			Function: s.Function,
			Name: FuncName{
				Names:  cloneTokens(s.Name.Names),
				Dots:   cloneTokens(s.Name.Dots),
				Colon:  cloneToken(s.Name.Colon),
				Method: cloneToken(s.Name.Method),
			},
			Body: cloneFunctionBody(s.Body),
		}

	case *SLocalFunction:
		return &SLocalFunction{Local: s.Local, Function: s.Function, Name: s.Name, Body: cloneFunctionBody(s.Body)}

	case *SReturn:
		return &SReturn{Return: s.Return, Values: cloneExprList(s.Values)}

	case *SBreak:
		clone := *s
		return &clone

	case *SGoto:
		clone := *s
		return &clone

	case *SLabel:
		clone := *s
		return &clone

	case *SEmpty:
		return &SEmpty{}

	default:
		panic("Internal error")
	}
}

func CloneExpr(e E) E {
	switch e := e.(type) {
	case *EName:
		clone := *e
		return &clone

	case *ELiteral:
		clone := *e
		return &clone

	case *EParens:
		return &EParens{Open: e.Open, Inner: CloneExpr(e.Inner), Close: e.Close}

	case *EUnary:
		return &EUnary{Op: e.Op, Value: CloneExpr(e.Value)}

	case *EBinary:
		return &EBinary{Left: CloneExpr(e.Left), Op: e.Op, Right: CloneExpr(e.Right)}

	case *EFunction:
		return &EFunction{Function: e.Function, Body: cloneFunctionBody(e.Body)}

	case *ETable:
		return cloneTable(e)

	case *FunctionCall:
		return &FunctionCall{Prefix: CloneExpr(e.Prefix), Suffixes: cloneSuffixes(e.Suffixes)}

	case *VarExpression:
		return &VarExpression{Prefix: CloneExpr(e.Prefix), Suffixes: cloneSuffixes(e.Suffixes)}

	default:
		panic("Internal error")
	}
}

func cloneTable(table *ETable) *ETable {
	clone := &ETable{Open: table.Open, Close: table.Close}
	if table.Fields != nil {
		clone.Fields = make([]TableField, len(table.Fields))
		for i, field := range table.Fields {
			field.Separator = cloneToken(field.Separator)
			if field.Key != nil {
				field.Key = CloneExpr(field.Key)
			}
			field.Value = CloneExpr(field.Value)
			clone.Fields[i] = field
		}
	}
	return clone
}

func CloneSuffix(suffix Suffix) Suffix {
	switch s := suffix.(type) {
	case *SuffixDot:
		clone := *s
		return &clone

	case *SuffixBracket:
		return &SuffixBracket{Open: s.Open, Index: CloneExpr(s.Index), Close: s.Close}

	case *SuffixCall:
		clone := &SuffixCall{Colon: cloneToken(s.Colon), Method: cloneToken(s.Method)}
		switch args := s.Args.(type) {
		case *ArgsParens:
			clone.Args = &ArgsParens{Open: args.Open, List: cloneExprList(args.List), Close: args.Close}
		case *ArgsString:
			argsClone := *args
			clone.Args = &argsClone
		case *ArgsTable:
			clone.Args = &ArgsTable{Table: cloneTable(args.Table)}
		}
		return clone

	default:
		panic("Internal error")
	}
}
