package parser

import (
	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/pkg/token"
)

// parseStatement parses one statement. Returns nil (and records an
// error) when the current token cannot begin one.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case token.RETURN:
		return p.parseReturnStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.SKIP:
		return p.parseSkipStmt()
	case token.SEMICOLON:
		p.advance()
		return nil
	}

	if p.curIs(token.IDENT) && (p.peekIs(token.COLON) || p.peekIs(token.COLONCOLON)) {
		return p.parseLocalVarDecl()
	}

	return p.parseSimpleStmt()
}

func (p *Parser) parseLocalVarDecl() ast.Stmt {
	name := p.cur.Literal
	pos := p.cur.Pos
	mutable := p.peekIs(token.COLON)
	p.advance() // name
	p.advance() // ':' or '::'
	decl := &ast.VariableDecl{Position: pos, Name: name, Mutable: mutable}
	if p.looksLikeTypeStart() {
		decl.Type = p.parseTypeRef()
		decl.HasType = true
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Init = p.parseExpression(precLowest)
	}
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) && p.cur.Pos.Line == pos.Line {
		p.addError("expected ';'")
	}
	p.consumeStatementEnd()
	return decl
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	stmt := &ast.ReturnStmt{Position: pos}
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt.Value = p.parseExpression(precLowest)
	}
	p.consumeStatementEnd()
	return stmt
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'if'
	cond := p.parseExpression(precLowest)
	then := p.parseBlock()

	if !p.curIs(token.ELSE) {
		return &ast.IfStmt{Position: pos, Cond: cond, Then: then}
	}
	p.advance() // 'else'
	if p.curIs(token.IF) {
		chain := &ast.IfChainStmt{Position: pos, Branches: []ast.IfBranch{{Cond: cond, Body: then}}}
		p.collectIfChain(chain)
		return chain
	}
	elseBody := p.parseBlock()
	return &ast.IfStmt{Position: pos, Cond: cond, Then: then, Else: elseBody}
}

func (p *Parser) collectIfChain(chain *ast.IfChainStmt) {
	for {
		p.advance() // 'if'
		cond := p.parseExpression(precLowest)
		body := p.parseBlock()
		chain.Branches = append(chain.Branches, ast.IfBranch{Cond: cond, Body: body})
		if !p.curIs(token.ELSE) {
			return
		}
		p.advance() // 'else'
		if p.curIs(token.IF) {
			continue
		}
		chain.Else = p.parseBlock()
		return
	}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'while'
	cond := p.parseExpression(precLowest)
	p.inLoop++
	body := p.parseBlock()
	p.inLoop--
	return &ast.WhileStmt{Position: pos, Cond: cond, Body: body}
}

func (p *Parser) parseForStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // 'for'
	if !p.expect(token.LPAREN, "after 'for'") {
		return nil
	}
	p.advance()

	stmt := &ast.ForStmt{Position: pos}
	if !p.curIs(token.SEMICOLON) {
		if p.curIs(token.IDENT) && (p.peekIs(token.COLON) || p.peekIs(token.COLONCOLON)) {
			if v, ok := p.parseLocalVarDecl().(*ast.VariableDecl); ok {
				stmt.Init = v
			}
		} else {
			p.addError("expected a variable declaration in for-init")
		}
	} else {
		p.advance()
	}

	if !p.curIs(token.SEMICOLON) {
		stmt.Cond = p.parseExpression(precLowest)
	}
	if p.expect(token.SEMICOLON, "after for-condition") {
		p.advance()
	}

	if !p.curIs(token.RPAREN) {
		stmt.Step = p.parseSimpleStmtNoTerminator()
	}
	if p.expect(token.RPAREN, "to close for-clauses") {
		p.advance()
	}

	p.inLoop++
	stmt.Body = p.parseBlock()
	p.inLoop--
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	if p.inLoop == 0 {
		p.addErrorAt(pos, "'break' used outside a loop")
	}
	p.consumeStatementEnd()
	return &ast.BreakStmt{Position: pos}
}

func (p *Parser) parseSkipStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	if p.inLoop == 0 {
		p.addErrorAt(pos, "'skip' used outside a loop")
	}
	p.consumeStatementEnd()
	return &ast.SkipStmt{Position: pos}
}

// parseSimpleStmt parses an expression or assignment statement and
// consumes its terminating ';'.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	stmt := p.parseSimpleStmtNoTerminator()
	if stmt == nil {
		return nil
	}
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.addError("expected ';'")
	}
	p.consumeStatementEnd()
	return stmt
}

// parseSimpleStmtNoTerminator parses an expression or assignment
// statement without requiring or consuming a terminator; used directly
// inside `for (...; ...; step)` clauses.
func (p *Parser) parseSimpleStmtNoTerminator() ast.Stmt {
	pos := p.cur.Pos
	expr := p.parseExpression(precLowest)
	if expr == nil {
		return nil
	}
	if assign, ok := expr.(*assignmentResult); ok {
		return &ast.AssignStmt{Position: pos, Target: assign.target, Op: assign.op, Value: assign.value}
	}
	return &ast.ExprStmt{Position: pos, X: expr}
}

// assignmentResult is an internal Expr wrapper used to smuggle an
// assignment's (target, op, value) triple out of the Pratt expression
// parser, which otherwise only returns ast.Expr values; parseSimpleStmt*
// unwraps it into ast.AssignStmt. It is never placed into the final AST.
type assignmentResult struct {
	Position token.Position
	target   ast.Expr
	op       string
	value    ast.Expr
}

func (a *assignmentResult) Pos() token.Position { return a.Position }
func (*assignmentResult) exprNode()             {}

func (p *Parser) parseAssignExpr(target ast.Expr) ast.Expr {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.advance()
	value := p.parseExpression(precAssign - 1) // right-associative
	return &assignmentResult{Position: pos, target: target, op: op, value: value}
}
