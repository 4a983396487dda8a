package parser_test

import (
	"bytes"
	"testing"

	"golox/internal/ast"
	"golox/internal/diag"
	"golox/internal/parser"
	"golox/internal/scanner"
)

func parseOK(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	var buf bytes.Buffer
	r := diag.New(&buf)
	toks := scanner.New(source, r).ScanTokens()
	stmts := parser.New(toks, r).Parse()
	if r.HadError() {
		t.Fatalf("unexpected parse error(s): %s", buf.String())
	}
	return stmts
}

func TestParseVarDeclaration(t *testing.T) {
	stmts := parseOK(t, "var a = 1;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	v, ok := stmts[0].(*ast.VarStmt)
	if !ok {
		t.Fatalf("expected *ast.VarStmt, got %T", stmts[0])
	}
	if v.Name.Lexeme != "a" {
		t.Fatalf("expected name 'a', got %q", v.Name.Lexeme)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	stmts := parseOK(t, "1 + 2 * 3;")
	exprStmt := stmts[0].(*ast.ExpressionStmt)
	bin, ok := exprStmt.Expr.(*ast.Binary)
	if !ok {
		t.Fatalf("expected top-level *ast.Binary, got %T", exprStmt.Expr)
	}
	if bin.Op.Lexeme != "+" {
		t.Fatalf("expected '+' at the top, got %q (multiplication should bind tighter)", bin.Op.Lexeme)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("expected right operand of '+' to be the '*' subexpression, got %T", bin.Right)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts := parseOK(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	block, ok := stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("expected desugared for-loop to be a *ast.BlockStmt, got %T", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected initializer + while, got %d statements", len(block.Statements))
	}
	if _, ok := block.Statements[0].(*ast.VarStmt); !ok {
		t.Fatalf("expected first statement to be the initializer, got %T", block.Statements[0])
	}
	whileStmt, ok := block.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected second statement to be a *ast.WhileStmt, got %T", block.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.BlockStmt)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("expected while body to be [original body, increment], got %#v", whileStmt.Body)
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := parseOK(t, "fun add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*ast.FunctionStmt)
	if !ok {
		t.Fatalf("expected *ast.FunctionStmt, got %T", stmts[0])
	}
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
		t.Fatalf("expected fn add(a,b), got name=%q params=%d", fn.Name.Lexeme, len(fn.Params))
	}
}

func TestParseInvalidAssignmentTargetReportsAndContinues(t *testing.T) {
	var buf bytes.Buffer
	r := diag.New(&buf)
	toks := scanner.New("1 = 2; print 3;", r).ScanTokens()
	stmts := parser.New(toks, r).Parse()
	if !r.HadError() {
		t.Fatalf("expected an 'Invalid assignment target' error")
	}
	if len(stmts) != 2 {
		t.Fatalf("expected parser to continue past the bad assignment, got %d statements", len(stmts))
	}
}

func TestParseSynchronizesAfterASemicolon(t *testing.T) {
	var buf bytes.Buffer
	r := diag.New(&buf)
	toks := scanner.New("1 + ; print 2;", r).ScanTokens()
	stmts := parser.New(toks, r).Parse()
	if !r.HadError() {
		t.Fatalf("expected a missing-operand error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected synchronize to discard the bad statement and parse the print, got %d statements", len(stmts))
	}
	if _, ok := stmts[0].(*ast.PrintStmt); !ok {
		t.Fatalf("expected the recovered statement to be the print, got %T", stmts[0])
	}
}
