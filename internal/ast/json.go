package ast

import "golox/internal/token"

// NodeToMap projects a Node into a tagged-union map suitable for
// json.MarshalIndent, used by the `golox ast` command. Each node
// becomes {"node": <type name>, ...fields}.
func NodeToMap(n Node) map[string]any {
	switch v := n.(type) {
	case *Literal:
		return m("Literal", "value", v.Value)
	case *Grouping:
		return m("Grouping", "inner", NodeToMap(v.Inner))
	case *Unary:
		return m("Unary", "op", v.Op.Lexeme, "operand", NodeToMap(v.Operand))
	case *Binary:
		return m("Binary", "left", NodeToMap(v.Left), "op", v.Op.Lexeme, "right", NodeToMap(v.Right))
	case *Logical:
		return m("Logical", "left", NodeToMap(v.Left), "op", v.Op.Lexeme, "right", NodeToMap(v.Right))
	case *Variable:
		return m("Variable", "name", v.Name.Lexeme)
	case *Assign:
		return m("Assign", "name", v.Name.Lexeme, "value", NodeToMap(v.Value))
	case *Call:
		return m("Call", "callee", NodeToMap(v.Callee), "args", exprSlice(v.Args))
	case *ExpressionStmt:
		return m("ExpressionStmt", "expr", NodeToMap(v.Expr))
	case *PrintStmt:
		return m("PrintStmt", "expr", NodeToMap(v.Expr))
	case *VarStmt:
		out := m("VarStmt", "name", v.Name.Lexeme)
		if v.Initializer != nil {
			out["initializer"] = NodeToMap(v.Initializer)
		}
		return out
	case *BlockStmt:
		return m("BlockStmt", "statements", stmtSlice(v.Statements))
	case *IfStmt:
		out := m("IfStmt", "condition", NodeToMap(v.Condition), "then", NodeToMap(v.Then))
		if v.ElseBranch != nil {
			out["else"] = NodeToMap(v.ElseBranch)
		}
		return out
	case *WhileStmt:
		return m("WhileStmt", "condition", NodeToMap(v.Condition), "body", NodeToMap(v.Body))
	case *FunctionStmt:
		return m("FunctionStmt", "name", v.Name.Lexeme, "params", tokenNames(v.Params), "body", stmtSlice(v.Body))
	case *ReturnStmt:
		out := m("ReturnStmt")
		if v.Value != nil {
			out["value"] = NodeToMap(v.Value)
		}
		return out
	default:
		return m("Unknown")
	}
}

func m(kind string, kv ...any) map[string]any {
	out := map[string]any{"node": kind}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		out[key] = kv[i+1]
	}
	return out
}

func exprSlice(exprs []Expr) []map[string]any {
	out := make([]map[string]any, len(exprs))
	for i, e := range exprs {
		out[i] = NodeToMap(e)
	}
	return out
}

func stmtSlice(stmts []Stmt) []map[string]any {
	out := make([]map[string]any, len(stmts))
	for i, s := range stmts {
		out[i] = NodeToMap(s)
	}
	return out
}

func tokenNames(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Lexeme
	}
	return out
}
