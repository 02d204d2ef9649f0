package parser

import (
	"fmt"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/types"
	"github.com/cwbudde/simple-lang/pkg/token"
)

// parseExpression is the Pratt-parser core: parse a prefix expression,
// then repeatedly fold in infix/postfix operators whose precedence
// exceeds minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.addError(fmt.Sprintf("no expression can start with '%s'", p.cur.Type))
		return nil
	}
	left := prefix()

	for !p.curIs(token.SEMICOLON) && minPrec < peekPrecedenceOfCur(p) {
		infix, ok := p.infixFns[p.cur.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func peekPrecedenceOfCur(p *Parser) int { return peekPrecedence(p.cur.Type) }

func (p *Parser) parseIdent() ast.Expr {
	id := &ast.Ident{Position: p.cur.Pos, Name: p.cur.Literal}
	p.advance()
	return id
}

func (p *Parser) parseIntLiteral() ast.Expr {
	lit := &ast.Literal{Position: p.cur.Pos, Kind: ast.IntLiteral, Text: p.cur.Literal}
	p.advance()
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	lit := &ast.Literal{Position: p.cur.Pos, Kind: ast.FloatLiteral, Text: p.cur.Literal}
	p.advance()
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expr {
	lit := &ast.Literal{Position: p.cur.Pos, Kind: ast.StringLiteral, Text: p.cur.Literal}
	p.advance()
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expr {
	var b byte
	if len(p.cur.Literal) > 0 {
		b = p.cur.Literal[0]
	}
	lit := &ast.Literal{Position: p.cur.Pos, Kind: ast.CharLiteral, Char: b}
	p.advance()
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	lit := &ast.Literal{Position: p.cur.Pos, Kind: ast.BoolLiteral, Bool: p.curIs(token.TRUE)}
	p.advance()
	return lit
}

func (p *Parser) parseUnaryPrefix() ast.Expr {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.advance()
	operand := p.parseExpression(precUnary)
	return &ast.UnaryExpr{Position: pos, Op: op, X: operand}
}

func (p *Parser) parsePostfixExpr(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	op := p.cur.Literal
	p.advance()
	return &ast.UnaryExpr{Position: pos, Op: op, X: left, Postfix: true}
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	pos := p.cur.Pos
	op := p.cur.Literal
	prec := peekPrecedence(p.cur.Type)
	p.advance()
	right := p.parseExpression(prec)
	return &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
}

func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '('
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RPAREN) {
		p.advance()
	} else {
		p.addError("expected ')' to close call arguments")
	}
	return &ast.CallExpr{Position: pos, Callee: callee, Args: args}
}

func (p *Parser) parseIndexExpr(base ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '['
	idx := p.parseExpression(precLowest)
	if p.curIs(token.RBRACK) {
		p.advance()
	} else {
		p.addError("expected ']' to close index expression")
	}
	return &ast.IndexExpr{Position: pos, Base: base, Index: idx}
}

func (p *Parser) parseMemberExpr(base ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '.'
	if !p.curIs(token.IDENT) {
		p.addError("expected identifier after '.'")
		return base
	}
	name := p.cur.Literal
	p.advance()
	return &ast.MemberExpr{Position: pos, Base: base, Name: name}
}

// parseGroupedOrFunctionLiteral disambiguates `(expr)` from a function
// literal `(params) { body }` by trying the function-literal shape first
// with a saved-state rollback.
func (p *Parser) parseGroupedOrFunctionLiteral() ast.Expr {
	if lit, ok := p.tryParseFunctionLiteral(); ok {
		return lit
	}
	pos := p.cur.Pos
	p.advance() // '('
	inner := p.parseExpression(precLowest)
	if p.curIs(token.RPAREN) {
		p.advance()
	} else {
		p.addErrorAt(pos, "expected ')' to close grouped expression")
	}
	return inner
}

// tryParseFunctionLiteral attempts `(name : Type, ...) { ... }`; a
// grouped expression never contains a top-level ':' before its closing
// paren, so scanning for that shape is sufficient to disambiguate
// without a full backtracking parse.
func (p *Parser) tryParseFunctionLiteral() (ast.Expr, bool) {
	if !p.peekIs(token.IDENT) && !p.peekIs(token.RPAREN) {
		return nil, false
	}
	// Look ahead: a function literal parameter list is either empty or
	// starts with `ident :`/`ident ::`. p.cur is '(' and p.peek is the
	// token after it, so Peek(0) is the token after p.peek.
	if p.peekIs(token.RPAREN) {
		if p.lex.Peek(0).Type == token.LBRACE {
			return p.parseFunctionLiteral(), true
		}
		return nil, false
	}
	depth := 0
	sawColon := false
	closeIdx := -1
	for i := 0; i <= 256; i++ {
		t := p.lex.Peek(i)
		if t.Type == token.EOF {
			break
		}
		if t.Type == token.LPAREN {
			depth++
			continue
		}
		if t.Type == token.RPAREN {
			if depth == 0 {
				closeIdx = i
				break
			}
			depth--
			continue
		}
		if depth == 0 && (t.Type == token.COLON || t.Type == token.COLONCOLON) {
			sawColon = true
		}
	}
	if closeIdx == -1 {
		return nil, false
	}
	afterParen := p.lex.Peek(closeIdx + 1)
	isFnLiteral := (sawColon || p.peekIs(token.RPAREN)) && afterParen.Type == token.LBRACE
	if !isFnLiteral {
		return nil, false
	}
	return p.parseFunctionLiteral(), true
}

func (p *Parser) parseFunctionLiteral() ast.Expr {
	pos := p.cur.Pos
	p.advance() // '('
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			break
		}
		pname := p.cur.Literal
		ppos := p.cur.Pos
		p.advance()
		mutable, typ := p.parseParamTypeSuffix()
		params = append(params, ast.Param{Name: pname, Type: typ, Mutable: mutable, Position: ppos})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RPAREN) {
		p.advance()
	}

	// Capture the body verbatim: the emitter re-parses it once the
	// target procedure type is known (spec.md §3.6, §9).
	if !p.expect(token.LBRACE, "to start function literal body") {
		return &ast.FunctionLiteral{Position: pos, Params: params}
	}
	var body []token.Token
	depth := 0
	for {
		body = append(body, p.cur)
		if p.curIs(token.LBRACE) {
			depth++
		} else if p.curIs(token.RBRACE) {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		} else if p.curIs(token.EOF) {
			p.addErrorAt(pos, "unterminated function literal body")
			break
		}
		p.advance()
	}
	return &ast.FunctionLiteral{Position: pos, Params: params, Body: body}
}

// parseBracketLiteral parses `[e, e, ...]`; whether this is an array
// literal or a list literal is a property of the target TypeRef the
// validator resolves it against, not of the syntax, so the parser
// always produces an ArrayLiteral and the validator retags it to a
// ListLiteral-equivalent meaning when the expected type is dynamic.
func (p *Parser) parseBracketLiteral() ast.Expr {
	pos := p.cur.Pos
	p.advance() // '['
	var elems []ast.Expr
	for !p.curIs(token.RBRACK) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseExpression(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RBRACK) {
		p.advance()
	} else {
		p.addErrorAt(pos, "expected ']' to close array literal")
	}
	return &ast.ArrayLiteral{Position: pos, Elems: elems}
}

// parseArtifactLiteral parses `{ positional, .name = value, ... }`.
func (p *Parser) parseArtifactLiteral() ast.Expr {
	pos := p.cur.Pos
	p.advance() // '{'
	lit := &ast.ArtifactLiteral{Position: pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT) {
			p.advance()
			if !p.curIs(token.IDENT) {
				p.addError("expected field name after '.' in artifact literal")
				break
			}
			fname := p.cur.Literal
			p.advance()
			if !p.expect(token.ASSIGN, "in artifact field initializer") {
				break
			}
			p.advance()
			val := p.parseExpression(precLowest)
			lit.Named = append(lit.Named, ast.ArtifactFieldInit{Name: fname, Value: val})
		} else {
			lit.Positional = append(lit.Positional, p.parseExpression(precLowest))
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RBRACE) {
		p.advance()
	} else {
		p.addErrorAt(pos, "expected '}' to close artifact literal")
	}
	return lit
}

// parseCastExpr parses `@Type(expr)`.
func (p *Parser) parseCastExpr() ast.Expr {
	pos := p.cur.Pos
	p.advance() // '@'
	typ := p.parseTypeRef()
	if !p.expect(token.LPAREN, "to start cast argument") {
		return &ast.Ident{Position: pos, Name: typ.Name}
	}
	p.advance()
	arg := p.parseExpression(precLowest)
	if p.curIs(token.RPAREN) {
		p.advance()
	}
	return &ast.CallExpr{
		Position: pos,
		Callee:   &ast.Ident{Position: pos, Name: "@" + typ.Name},
		Args:     []ast.Expr{arg},
		TypeArgs: []types.TypeRef{typ},
	}
}
