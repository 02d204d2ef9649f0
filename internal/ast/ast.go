// Package ast defines Simple's closed-variant abstract syntax tree: the
// Program the parser produces and the validator and emitter consume.
// There are no back-pointers anywhere in this tree — cross-references
// (a method to its artifact, a call to its target function) are resolved
// by name in side tables the validator builds, never by pointers stored
// on the nodes themselves.
package ast

import (
	"github.com/cwbudde/simple-lang/internal/types"
	"github.com/cwbudde/simple-lang/pkg/token"
)

// Node is implemented by every AST node and exposes its starting
// Position for diagnostics.
type Node interface {
	Pos() token.Position
}

// Decl is a top-level declaration variant.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement variant.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression variant.
type Expr interface {
	Node
	exprNode()
}

// Program is the value the validator and emitter process: an ordered
// sequence of declarations plus an ordered sequence of top-level script
// statements.
type Program struct {
	Decls      []Decl
	Statements []Stmt
}

// ---- Declarations ----

// ImportDecl is a reserved-module or file-unit import.
type ImportDecl struct {
	Position token.Position
	Path     string
	Alias    string // "" when no explicit alias
}

func (d *ImportDecl) Pos() token.Position { return d.Position }
func (*ImportDecl) declNode()             {}

// ExternParam is one parameter of an extern declaration.
type ExternParam struct {
	Name    string
	Type    types.TypeRef
	Mutable bool
}

// ExternDecl binds a foreign ABI symbol.
type ExternDecl struct {
	Position        token.Position
	Module          string // "" when not module-qualified
	Name            string
	Params          []ExternParam
	ReturnType      types.TypeRef
	ReturnMutable   bool
}

func (d *ExternDecl) Pos() token.Position { return d.Position }
func (*ExternDecl) declNode()             {}

// EnumMember is one member of an enum declaration. The parser leaves
// Value nil when the member has no explicit value, and the validator
// does not check that one is present.
type EnumMember struct {
	Name     string
	Value    Expr // integer literal expression, may be nil if omitted in source
	Position token.Position
}

// EnumDecl is a `Name :: enum { A = n, ... }` declaration.
type EnumDecl struct {
	Position token.Position
	Name     string
	Members  []EnumMember
}

func (d *EnumDecl) Pos() token.Position { return d.Position }
func (*EnumDecl) declNode()             {}

// Field is one field of an artifact.
type Field struct {
	Name     string
	Type     types.TypeRef
	Mutable  bool
	Position token.Position
}

// ArtifactDecl is a `Name :: artifact { ... }` declaration: a record type
// with named, typed fields and associated methods.
type ArtifactDecl struct {
	Position       token.Position
	Name           string
	GenericParams  []string
	Fields         []Field
	Methods        []*FunctionDecl
}

func (d *ArtifactDecl) Pos() token.Position { return d.Position }
func (*ArtifactDecl) declNode()             {}

// ModuleDecl is a `Name :: module { ... }` declaration: module-scope
// variables and functions grouped under a namespace.
type ModuleDecl struct {
	Position  token.Position
	Name      string
	Variables []*VariableDecl
	Functions []*FunctionDecl
}

func (d *ModuleDecl) Pos() token.Position { return d.Position }
func (*ModuleDecl) declNode()             {}

// Param is one function parameter.
type Param struct {
	Name     string
	Type     types.TypeRef
	Mutable  bool
	Position token.Position
}

// FunctionDecl is a named function (or artifact method) declaration.
type FunctionDecl struct {
	Position       token.Position
	Name           string
	GenericParams  []string
	Params         []Param
	ReturnType     types.TypeRef
	ReturnMutable  bool
	Body           []Stmt
	IsMethod       bool
	ReceiverName   string // owning artifact name, set when IsMethod
}

func (d *FunctionDecl) Pos() token.Position { return d.Position }
func (*FunctionDecl) declNode()             {}

// VariableDecl is a top-level or local `name : Type = init` / `name ::
// Type = init` binding.
type VariableDecl struct {
	Position    token.Position
	Name        string
	Type        types.TypeRef
	HasType     bool // false when the type is to be inferred from Init
	Mutable     bool
	Init        Expr // nil when no initializer
}

func (d *VariableDecl) Pos() token.Position { return d.Position }
func (*VariableDecl) declNode()             {}
func (d *VariableDecl) stmtNode()           {}

// ---- Statements ----

// AssignStmt is `target op= value` for any of the assignment-family
// operators (`=`, `+=`, `-=`, ...); Op holds the operator's literal
// spelling.
type AssignStmt struct {
	Position token.Position
	Target   Expr
	Op       string
	Value    Expr
}

func (s *AssignStmt) Pos() token.Position { return s.Position }
func (*AssignStmt) stmtNode()             {}

// ExprStmt wraps an expression evaluated for its side effects.
type ExprStmt struct {
	Position token.Position
	X        Expr
}

func (s *ExprStmt) Pos() token.Position { return s.Position }
func (*ExprStmt) stmtNode()             {}

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	Position token.Position
	Value    Expr // nil for a bare `return;`
}

func (s *ReturnStmt) Pos() token.Position { return s.Position }
func (*ReturnStmt) stmtNode()             {}

// IfStmt is `if cond { then } [else { else }]`.
type IfStmt struct {
	Position token.Position
	Cond     Expr
	Then     []Stmt
	Else     []Stmt // nil when absent
}

func (s *IfStmt) Pos() token.Position { return s.Position }
func (*IfStmt) stmtNode()             {}

// IfBranch is one condition/body pair of an if-chain.
type IfBranch struct {
	Cond Expr
	Body []Stmt
}

// IfChainStmt is `if c1 {...} else if c2 {...} ... [else {...}]`,
// represented as an ordered list of branches plus an optional trailing
// else body.
type IfChainStmt struct {
	Position token.Position
	Branches []IfBranch
	Else     []Stmt // nil when absent
}

func (s *IfChainStmt) Pos() token.Position { return s.Position }
func (*IfChainStmt) stmtNode()             {}

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	Position token.Position
	Cond     Expr
	Body     []Stmt
}

func (s *WhileStmt) Pos() token.Position { return s.Position }
func (*WhileStmt) stmtNode()             {}

// ForStmt is `for (init; cond; step) { body }`; each clause is optional.
type ForStmt struct {
	Position token.Position
	Init     *VariableDecl // nil when absent
	Cond     Expr          // nil when absent
	Step     Stmt          // nil when absent
	Body     []Stmt
}

func (s *ForStmt) Pos() token.Position { return s.Position }
func (*ForStmt) stmtNode()             {}

// BreakStmt is `break;`.
type BreakStmt struct{ Position token.Position }

func (s *BreakStmt) Pos() token.Position { return s.Position }
func (*BreakStmt) stmtNode()             {}

// SkipStmt is `skip;` (loop continue).
type SkipStmt struct{ Position token.Position }

func (s *SkipStmt) Pos() token.Position { return s.Position }
func (*SkipStmt) stmtNode()             {}

// ---- Expressions ----

// LiteralKind discriminates the value-literal variants.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	CharLiteral
	BoolLiteral
)

// Literal is a scalar literal expression.
type Literal struct {
	Position token.Position
	Kind     LiteralKind
	Text     string // original lexeme, for integer/float re-parsing
	Bool     bool
	Char     byte
}

func (e *Literal) Pos() token.Position { return e.Position }
func (*Literal) exprNode()             {}

// Ident is a bare identifier reference (variable, function, module,
// enum member via its enclosing member-access, or `self`).
type Ident struct {
	Position token.Position
	Name     string
}

func (e *Ident) Pos() token.Position { return e.Position }
func (*Ident) exprNode()             {}

// UnaryExpr is a prefix (`-x`, `!x`, `++x`, `--x`) or postfix (`x++`,
// `x--`) unary operator application.
type UnaryExpr struct {
	Position token.Position
	Op       string
	X        Expr
	Postfix  bool
}

func (e *UnaryExpr) Pos() token.Position { return e.Position }
func (*UnaryExpr) exprNode()             {}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Position token.Position
	Op       string
	Left     Expr
	Right    Expr
}

func (e *BinaryExpr) Pos() token.Position { return e.Position }
func (*BinaryExpr) exprNode()             {}

// CallExpr is `callee(args...)` with optional explicit generic type
// arguments `callee<T1,...>(args...)`.
type CallExpr struct {
	Position token.Position
	Callee   Expr
	Args     []Expr
	TypeArgs []types.TypeRef
}

func (e *CallExpr) Pos() token.Position { return e.Position }
func (*CallExpr) exprNode()             {}

// MemberExpr is `base.name`.
type MemberExpr struct {
	Position token.Position
	Base     Expr
	Name     string
}

func (e *MemberExpr) Pos() token.Position { return e.Position }
func (*MemberExpr) exprNode()             {}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	Position token.Position
	Base     Expr
	Index    Expr
}

func (e *IndexExpr) Pos() token.Position { return e.Position }
func (*IndexExpr) exprNode()             {}

// ArrayLiteral is `[e, e, ...]` in array context.
type ArrayLiteral struct {
	Position token.Position
	Elems    []Expr
}

func (e *ArrayLiteral) Pos() token.Position { return e.Position }
func (*ArrayLiteral) exprNode()             {}

// ListLiteral is `[e, e, ...]` in list (dynamic) context; syntactically
// identical to ArrayLiteral, distinguished only by the target TypeRef
// the validator resolves it against.
type ListLiteral struct {
	Position token.Position
	Elems    []Expr
}

func (e *ListLiteral) Pos() token.Position { return e.Position }
func (*ListLiteral) exprNode()             {}

// ArtifactFieldInit is one `.name = value` pair of an artifact literal.
type ArtifactFieldInit struct {
	Name  string
	Value Expr
}

// ArtifactLiteral is `{ positional..., .name = value, ... }`.
type ArtifactLiteral struct {
	Position   token.Position
	TypeName   string // "" when inferred purely from context
	Positional []Expr
	Named      []ArtifactFieldInit
}

func (e *ArtifactLiteral) Pos() token.Position { return e.Position }
func (*ArtifactLiteral) exprNode()             {}

// FunctionLiteral is `(params) { body-tokens }`: an anonymous function
// value. Body is captured as raw tokens and owned by this node until the
// emitter re-parses it once the target procedure type is known
// (spec.md §3.6, §9 "Fn-literal body capture").
type FunctionLiteral struct {
	Position token.Position
	Params   []Param
	Body     []token.Token
}

func (e *FunctionLiteral) Pos() token.Position { return e.Position }
func (*FunctionLiteral) exprNode()             {}
