// Package parser builds an AST from a token stream via recursive
// descent over an explicit precedence ladder (assignment, or, and,
// equality, comparison, term, factor, unary, call, primary). Syntax
// errors are reported to a diag.Reporter and recovered from at
// statement boundaries by panicking a private parseError sentinel and
// recovering in the statement loop, mirroring the throw/catch
// discipline of the source this grammar comes from.
package parser

import (
	"golox/internal/ast"
	"golox/internal/diag"
	"golox/internal/span"
	"golox/internal/token"
)

// Parser consumes a token slice and produces statements.
type Parser struct {
	tokens   []token.Token
	current  int
	reporter *diag.Reporter
}

// New creates a Parser over tokens, reporting syntax errors to r.
func New(tokens []token.Token, r *diag.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: r}
}

// parseError unwinds parsing of the current statement; the panic is
// recovered in declarationRecovering, which then calls synchronize.
type parseError struct{}

// Parse parses the whole token stream as a program: zero or more
// declarations. A statement that fails to parse is skipped after
// synchronizing so the parser can report more than one syntax error.
func (p *Parser) Parse() []ast.Stmt {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declarationRecovering(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() ast.Stmt {
	if p.match(token.FUN) {
		return p.function("function")
	}
	if p.match(token.VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) function(kind string) ast.Stmt {
	name := p.expect(token.IDENTIFIER, "Expect "+kind+" name.")
	p.expect(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.expect(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	rparen := p.expect(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.expect(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return ast.NewFunctionStmt(spanBetween(name.Span, rparen.Span), name, params, body)
}

func (p *Parser) varDeclaration() ast.Stmt {
	varTok := p.previous()
	name := p.expect(token.IDENTIFIER, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	semi := p.expect(token.SEMICOLON, "Expect ';' after variable declaration.")
	return ast.NewVarStmt(spanBetween(varTok.Span, semi.Span), name, initializer)
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		start := p.previous()
		stmts := p.block()
		return ast.NewBlockStmt(spanBetween(start.Span, p.previous().Span), stmts)
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into a while
// loop wrapped in a block, per the grammar's for-loop rule.
func (p *Parser) forStatement() ast.Stmt {
	forTok := p.previous()
	p.expect(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.expect(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	rparen := p.expect(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlockStmt(body.GetSpan(), []ast.Stmt{
			body,
			ast.NewExpressionStmt(increment.GetSpan(), increment),
		})
	}

	if condition == nil {
		condition = ast.NewLiteral(rparen.Span, true)
	}
	body = ast.NewWhileStmt(spanBetween(forTok.Span, body.GetSpan()), condition, body)

	if initializer != nil {
		body = ast.NewBlockStmt(spanBetween(initializer.GetSpan(), body.GetSpan()), []ast.Stmt{initializer, body})
	}

	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	ifTok := p.previous()
	p.expect(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.expect(token.RIGHT_PAREN, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Stmt
	end := then.GetSpan()
	if p.match(token.ELSE) {
		elseBranch = p.statement()
		end = elseBranch.GetSpan()
	}
	return ast.NewIfStmt(spanBetween(ifTok.Span, end), condition, then, elseBranch)
}

func (p *Parser) printStatement() ast.Stmt {
	printTok := p.previous()
	value := p.expression()
	semi := p.expect(token.SEMICOLON, "Expect ';' after value.")
	return ast.NewPrintStmt(spanBetween(printTok.Span, semi.Span), value)
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	semi := p.expect(token.SEMICOLON, "Expect ';' after return value.")
	return ast.NewReturnStmt(spanBetween(keyword.Span, semi.Span), keyword, value)
}

func (p *Parser) whileStatement() ast.Stmt {
	whileTok := p.previous()
	p.expect(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.expect(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhileStmt(spanBetween(whileTok.Span, body.GetSpan()), condition, body)
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	semi := p.expect(token.SEMICOLON, "Expect ';' after expression.")
	return ast.NewExpressionStmt(spanBetween(expr.GetSpan(), semi.Span), expr)
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declarationRecovering(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.expect(token.RIGHT_BRACE, "Expect '}' after block.")
	return statements
}

// ============================================================
// Expressions — precedence ladder, lowest to highest binding.
// ============================================================

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return ast.NewAssign(spanBetween(expr.GetSpan(), value.GetSpan()), v.Name, value)
		}
		p.errorAt(equals, "Invalid assignment target.")
		return expr
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = ast.NewLogical(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(spanBetween(expr.GetSpan(), right.GetSpan()), expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		operand := p.unary()
		return ast.NewUnary(spanBetween(op.Span, operand.GetSpan()), op, operand)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		if p.match(token.LEFT_PAREN) {
			expr = p.finishCall(expr)
			continue
		}
		break
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return ast.NewCall(spanBetween(callee.GetSpan(), paren.Span), callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return ast.NewLiteral(p.previous().Span, false)
	case p.match(token.TRUE):
		return ast.NewLiteral(p.previous().Span, true)
	case p.match(token.NIL):
		return ast.NewLiteral(p.previous().Span, nil)
	case p.match(token.NUMBER, token.STRING):
		tok := p.previous()
		return ast.NewLiteral(tok.Span, tok.Literal)
	case p.match(token.IDENTIFIER):
		tok := p.previous()
		return ast.NewVariable(tok.Span, tok)
	case p.match(token.LEFT_PAREN):
		lparen := p.previous()
		expr := p.expression()
		rparen := p.expect(token.RIGHT_PAREN, "Expect ')' after expression.")
		return ast.NewGrouping(spanBetween(lparen.Span, rparen.Span), expr)
	}
	panic(p.errorAt(p.peek(), "Expect expression."))
}

// ============================================================
// Token cursor helpers
// ============================================================

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) expect(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt reports a syntax error at tok and returns the parseError
// sentinel so callers that need to unwind can `panic(p.errorAt(...))`.
func (p *Parser) errorAt(tok token.Token, message string) parseError {
	p.reporter.ErrorAtToken("E2000", tok, message)
	return parseError{}
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so the parser can resume after a syntax error and report
// more than one mistake per invocation.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

func spanBetween(a, b span.Span) span.Span {
	return span.Span{Start: a.Start, End: b.End}
}
