// Package parser implements Simple's recursive-descent, operator-
// precedence parser: token sequence in, a Program AST (or a list of
// parse errors) out.
package parser

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/types"
	"github.com/cwbudde/simple-lang/pkg/token"
)

// ParseError is a single parser diagnostic.
type ParseError struct {
	Message string
	Pos     token.Position
	Hint    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

type prefixParseFn func() ast.Expr
type infixParseFn func(ast.Expr) ast.Expr

// Parser turns a token stream into a Program. It never panics on
// malformed input: errors are recorded and, inside a block, parsing
// resynchronizes at the next statement boundary per spec.md §4.2.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token

	errors []*ParseError

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn

	inLoop  int // non-zero while parsing a while/for body
	inBlock int // non-zero while inside a { } block, governs recovery policy
}

// New creates a Parser ready to parse the token stream l produces.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.prefixFns = map[token.Type]prefixParseFn{}
	p.infixFns = map[token.Type]infixParseFn{}

	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.CHAR, p.parseCharLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.SELF, p.parseIdent)
	p.registerPrefix(token.MINUS, p.parseUnaryPrefix)
	p.registerPrefix(token.NOT, p.parseUnaryPrefix)
	p.registerPrefix(token.INC, p.parseUnaryPrefix)
	p.registerPrefix(token.DEC, p.parseUnaryPrefix)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrFunctionLiteral)
	p.registerPrefix(token.LBRACK, p.parseBracketLiteral)
	p.registerPrefix(token.LBRACE, p.parseArtifactLiteral)
	p.registerPrefix(token.AT, p.parseCastExpr)

	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR,
		token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE,
		token.AND_AND, token.OR_OR,
	} {
		p.registerInfix(t, p.parseBinaryExpr)
	}
	for t := range assignOps {
		p.registerInfix(t, p.parseAssignExpr)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpr)
	p.registerInfix(token.LBRACK, p.parseIndexExpr)
	p.registerInfix(token.DOT, p.parseMemberExpr)
	p.registerInfix(token.INC, p.parsePostfixExpr)
	p.registerInfix(token.DEC, p.parsePostfixExpr)

	p.advance()
	p.advance()
	return p
}

func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixFns[t] = fn }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{Message: msg, Pos: p.cur.Pos})
}

func (p *Parser) addErrorAt(pos token.Position, msg string) {
	p.errors = append(p.errors, &ParseError{Message: msg, Pos: pos})
}

func (p *Parser) expect(t token.Type, context string) bool {
	if p.curIs(t) {
		return true
	}
	p.addError(fmt.Sprintf("expected '%s' %s, got '%s'", t, context, p.cur.Type))
	return false
}

// synchronize skips tokens until a statement boundary (';', newline
// equivalent — this lexer does not emit newline tokens, so ';' and '}'
// are the resynchronization points) or EOF.
func (p *Parser) synchronize() {
	for !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.advance()
	}
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		before := p.cur
		if decl := p.parseTopLevelItem(prog); decl {
			// parseTopLevelItem appended directly to prog
		}
		if p.cur == before {
			// no progress made; avoid an infinite loop on unexpected input
			p.addError(fmt.Sprintf("unexpected token '%s'", p.cur.Type))
			p.advance()
		}
	}
	return prog
}

// parseTopLevelItem parses one declaration or top-level statement and
// appends it to prog. Returns true always (kept boolean for call-site
// symmetry with earlier drafts of this loop).
func (p *Parser) parseTopLevelItem(prog *ast.Program) bool {
	switch p.cur.Type {
	case token.IMPORT:
		if d := p.parseImportDecl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		return true
	case token.EXTERN:
		if d := p.parseExternDecl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		return true
	case token.FN:
		if d := p.parseLegacyFunctionDecl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		return true
	}

	if p.curIs(token.IDENT) && p.peekIs(token.COLONCOLON) {
		if d := p.parseTypeOrConstDecl(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		return true
	}
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		if d := p.parseTypedBinding(); d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		return true
	}

	if stmt := p.parseStatement(); stmt != nil {
		prog.Statements = append(prog.Statements, stmt)
	}
	return true
}

func (p *Parser) parseImportDecl() ast.Decl {
	pos := p.cur.Pos
	p.advance() // 'import'
	if !p.curIs(token.STRING) && !p.curIs(token.IDENT) {
		p.addError("expected an import path")
		return nil
	}
	path := p.cur.Literal
	if p.curIs(token.IDENT) {
		for p.peekIs(token.DOT) {
			p.advance()
			p.advance()
			if !p.curIs(token.IDENT) {
				p.addError("expected identifier after '.' in import path")
				return nil
			}
			path += "." + p.cur.Literal
		}
	}
	p.advance()
	alias := ""
	if p.curIs(token.IDENT) && p.cur.Literal == "as" {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.addError("expected identifier after 'as'")
			return nil
		}
		alias = p.cur.Literal
		p.advance()
	}
	p.consumeStatementEnd()
	return &ast.ImportDecl{Position: pos, Path: path, Alias: alias}
}

func (p *Parser) consumeStatementEnd() {
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseExternDecl() ast.Decl {
	pos := p.cur.Pos
	p.advance() // 'extern'
	if !p.curIs(token.IDENT) {
		p.addError("expected identifier after 'extern'")
		return nil
	}
	first := p.cur.Literal
	p.advance()
	module := ""
	name := first
	if p.curIs(token.DOT) {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.addError("expected identifier after '.'")
			return nil
		}
		module = first
		name = p.cur.Literal
		p.advance()
	}
	if !p.expect(token.COLON, "after extern name") {
		return nil
	}
	p.advance()
	retType, retMutable := p.parseTypeRefWithMutability()
	if !p.expect(token.LPAREN, "to start extern parameter list") {
		return nil
	}
	p.advance()
	var params []ast.ExternParam
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.addError("expected parameter name")
			break
		}
		pname := p.cur.Literal
		p.advance()
		mutable, typ := p.parseParamTypeSuffix()
		params = append(params, ast.ExternParam{Name: pname, Type: typ, Mutable: mutable})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RPAREN) {
		p.advance()
	}
	p.consumeStatementEnd()
	return &ast.ExternDecl{
		Position: pos, Module: module, Name: name,
		Params: params, ReturnType: retType, ReturnMutable: retMutable,
	}
}

// parseParamTypeSuffix parses the `: Type` / `:: Type` suffix after a
// parameter name, returning whether the binding is mutable and the type.
func (p *Parser) parseParamTypeSuffix() (mutable bool, typ types.TypeRef) {
	if p.curIs(token.COLONCOLON) {
		p.advance()
		return false, p.parseTypeRef()
	}
	if p.curIs(token.COLON) {
		p.advance()
		return true, p.parseTypeRef()
	}
	p.addError("expected ':' or '::' after parameter name")
	return true, types.TypeRef{}
}

func (p *Parser) parseTypeRefWithMutability() (types.TypeRef, bool) {
	typ := p.parseTypeRef()
	return typ, true
}

// parseTypeRef parses a TypeRef: optional leading '^' pointer markers,
// optional array/list dimensions, a base name, and optional generic
// type arguments.
func (p *Parser) parseTypeRef() types.TypeRef {
	var t types.TypeRef
	for p.curIs(token.CARET) {
		t.PointerDepth++
		p.advance()
	}
	for p.curIs(token.LBRACK) {
		p.advance()
		size := 0
		if p.curIs(token.INT) {
			if n, err := strconv.Atoi(p.cur.Literal); err == nil {
				size = n
			}
			p.advance()
		}
		if p.curIs(token.RBRACK) {
			p.advance()
		}
		t.Dims = append(t.Dims, types.Dim{Size: size})
	}
	if !p.curIs(token.IDENT) && !p.cur.Type.IsKeyword() {
		p.addError(fmt.Sprintf("expected a type name, got '%s'", p.cur.Type))
		return t
	}
	name := p.cur.Literal
	p.advance()
	for p.curIs(token.DOT) {
		p.advance()
		if !p.curIs(token.IDENT) {
			p.addError("expected identifier after '.' in qualified type name")
			break
		}
		name += "." + p.cur.Literal
		p.advance()
	}
	t.Name = name
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && !p.curIs(token.EOF) {
			t.TypeArgs = append(t.TypeArgs, p.parseTypeRef())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		if p.curIs(token.GT) {
			p.advance()
		}
	}
	return t
}

// parseTypeOrConstDecl handles `Name :: ...`: an artifact/module/enum
// type declaration, or a named constant/immutable binding.
func (p *Parser) parseTypeOrConstDecl() ast.Decl {
	name := p.cur.Literal
	pos := p.cur.Pos
	p.advance() // name
	p.advance() // '::'

	switch {
	case p.curIs(token.ARTIFACT):
		return p.parseArtifactDecl(name, pos)
	case p.curIs(token.MODULE):
		return p.parseModuleDecl(name, pos)
	case p.curIs(token.ENUM):
		return p.parseEnumDecl(name, pos)
	}

	return p.parseImmutableBinding(name, pos)
}

func (p *Parser) parseImmutableBinding(name string, pos token.Position) ast.Decl {
	decl := &ast.VariableDecl{Position: pos, Name: name, Mutable: false}
	if p.looksLikeTypeStart() {
		decl.Type = p.parseTypeRef()
		decl.HasType = true
		if p.curIs(token.LPAREN) {
			return p.finishFunctionDecl(name, pos, decl.Type, false)
		}
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Init = p.parseExpression(precLowest)
	}
	p.consumeStatementEnd()
	return decl
}

// looksLikeTypeStart reports whether the parser is positioned at tokens
// that can only begin a TypeRef (pointer marker, dimension, the `fn`
// procedure-type keyword, or a bare type name followed by a function
// parameter list, an assignment, or a statement end), used to
// disambiguate `name :: Type [= init]` from a bare `name :: init`
// constant with an inferred type.
func (p *Parser) looksLikeTypeStart() bool {
	if p.curIs(token.CARET) || p.curIs(token.LBRACK) || p.curIs(token.FN) {
		return true
	}
	if !p.curIs(token.IDENT) {
		return false
	}
	if types.IsPrimitiveName(p.cur.Literal) {
		return true
	}
	switch p.peek.Type {
	case token.LPAREN, token.LT, token.ASSIGN, token.SEMICOLON, token.EOF:
		return true
	}
	return false
}

func (p *Parser) parseArtifactDecl(name string, pos token.Position) ast.Decl {
	p.advance() // 'artifact'
	var generics []string
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && !p.curIs(token.EOF) {
			if p.curIs(token.IDENT) {
				generics = append(generics, p.cur.Literal)
				p.advance()
			}
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		if p.curIs(token.GT) {
			p.advance()
		}
	}
	if !p.expect(token.LBRACE, "to start artifact body") {
		return nil
	}
	p.advance()
	decl := &ast.ArtifactDecl{Position: pos, Name: name, GenericParams: generics}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.COMMA) {
			p.addError("use newline or ';' between members")
			p.advance()
			continue
		}
		if !p.curIs(token.IDENT) {
			p.addError("expected a field or method name")
			p.advance()
			continue
		}
		memberName := p.cur.Literal
		memberPos := p.cur.Pos
		if p.peekIs(token.COLON) || p.peekIs(token.COLONCOLON) {
			mutable := p.peekIs(token.COLON)
			p.advance()
			p.advance()
			typ := p.parseTypeRef()
			if p.curIs(token.LPAREN) {
				fn := p.finishFunctionDecl(memberName, memberPos, typ, false).(*ast.FunctionDecl)
				fn.IsMethod = true
				fn.ReceiverName = name
				decl.Methods = append(decl.Methods, fn)
			} else {
				decl.Fields = append(decl.Fields, ast.Field{Name: memberName, Type: typ, Mutable: mutable, Position: memberPos})
				p.consumeMemberSeparator()
			}
		} else {
			p.addError(fmt.Sprintf("expected ':' or '::' after field name '%s'", memberName))
			p.advance()
		}
	}
	if p.curIs(token.RBRACE) {
		p.advance()
	}
	return decl
}

func (p *Parser) consumeMemberSeparator() {
	if p.curIs(token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) parseModuleDecl(name string, pos token.Position) ast.Decl {
	p.advance() // 'module'
	if !p.expect(token.LBRACE, "to start module body") {
		return nil
	}
	p.advance()
	decl := &ast.ModuleDecl{Position: pos, Name: name}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.addError("expected a declaration inside module body")
			p.advance()
			continue
		}
		memberName := p.cur.Literal
		memberPos := p.cur.Pos
		mutable := p.peekIs(token.COLON)
		if !mutable && !p.peekIs(token.COLONCOLON) {
			p.addError(fmt.Sprintf("expected ':' or '::' after '%s'", memberName))
			p.advance()
			continue
		}
		p.advance()
		p.advance()
		typ := p.parseTypeRef()
		if p.curIs(token.LPAREN) {
			fn := p.finishFunctionDecl(memberName, memberPos, typ, false).(*ast.FunctionDecl)
			decl.Functions = append(decl.Functions, fn)
		} else {
			v := &ast.VariableDecl{Position: memberPos, Name: memberName, Type: typ, HasType: true, Mutable: mutable}
			if p.curIs(token.ASSIGN) {
				p.advance()
				v.Init = p.parseExpression(precLowest)
			}
			p.consumeMemberSeparator()
			decl.Variables = append(decl.Variables, v)
		}
	}
	if p.curIs(token.RBRACE) {
		p.advance()
	}
	return decl
}

func (p *Parser) parseEnumDecl(name string, pos token.Position) ast.Decl {
	p.advance() // 'enum'
	if !p.expect(token.LBRACE, "to start enum body") {
		return nil
	}
	p.advance()
	decl := &ast.EnumDecl{Position: pos, Name: name}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.addError("expected an enum member name")
			p.advance()
			continue
		}
		member := ast.EnumMember{Name: p.cur.Literal, Position: p.cur.Pos}
		p.advance()
		if p.curIs(token.ASSIGN) {
			p.advance()
			member.Value = p.parseExpression(precLowest)
		}
		decl.Members = append(decl.Members, member)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RBRACE) {
		p.advance()
	}
	return decl
}

// parseTypedBinding handles `name : ...`: a mutable variable declaration
// or a function declaration (`name : RetType (params) { body }`).
func (p *Parser) parseTypedBinding() ast.Decl {
	name := p.cur.Literal
	pos := p.cur.Pos
	p.advance() // name
	p.advance() // ':'
	typ := p.parseTypeRef()
	if p.curIs(token.LPAREN) {
		return p.finishFunctionDecl(name, pos, typ, true)
	}
	decl := &ast.VariableDecl{Position: pos, Name: name, Type: typ, HasType: true, Mutable: true}
	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Init = p.parseExpression(precLowest)
	}
	p.consumeStatementEnd()
	return decl
}

// finishFunctionDecl parses `(params) { body }` given the name, return
// type, and return mutability already consumed by the caller.
func (p *Parser) finishFunctionDecl(name string, pos token.Position, retType types.TypeRef, retMutable bool) ast.Decl {
	p.advance() // '('
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if !p.curIs(token.IDENT) {
			p.addError("expected parameter name")
			break
		}
		if token.IsKeywordWord(p.cur.Literal) {
			p.addError(fmt.Sprintf("keyword '%s' cannot be used as identifier", p.cur.Literal))
		}
		pname := p.cur.Literal
		ppos := p.cur.Pos
		p.advance()
		mutable, ptyp := p.parseParamTypeSuffix()
		params = append(params, ast.Param{Name: pname, Type: ptyp, Mutable: mutable, Position: ppos})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	if p.curIs(token.RPAREN) {
		p.advance()
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{
		Position: pos, Name: name, Params: params,
		ReturnType: retType, ReturnMutable: retMutable, Body: body,
	}
}

// parseLegacyFunctionDecl handles `fn name :: RetType () { body }`.
func (p *Parser) parseLegacyFunctionDecl() ast.Decl {
	pos := p.cur.Pos
	p.advance() // 'fn'
	if !p.curIs(token.IDENT) {
		p.addError("expected function name after 'fn'")
		return nil
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(token.COLONCOLON, "after legacy function name") {
		return nil
	}
	p.advance()
	retType := p.parseTypeRef()
	if !p.expect(token.LPAREN, "to start parameter list") {
		return nil
	}
	return p.finishFunctionDecl(name, pos, retType, false)
}

// ParseBlockTokens re-parses a brace-delimited statement block captured
// verbatim by tryParseFunctionLiteral, returning its statements and any
// parse errors. The emitter calls this once per function literal, at
// the point it lowers the literal into a named procedure.
func ParseBlockTokens(tokens []token.Token) ([]ast.Stmt, []*ParseError) {
	p := New(lexer.FromTokens(tokens))
	stmts := p.parseBlock()
	return stmts, p.errors
}

func (p *Parser) parseBlock() []ast.Stmt {
	if !p.expect(token.LBRACE, "to start block") {
		return nil
	}
	p.advance()
	p.inBlock++
	defer func() { p.inBlock-- }()

	var stmts []ast.Stmt
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		before := p.cur
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.cur == before {
			p.addError(fmt.Sprintf("unexpected token '%s'", p.cur.Type))
			p.synchronize()
		}
	}
	if p.curIs(token.RBRACE) {
		p.advance()
	} else {
		p.addErrorAt(p.cur.Pos, "unterminated block")
	}
	return stmts
}
