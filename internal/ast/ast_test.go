package ast

import (
	"testing"

	"github.com/cwbudde/simple-lang/pkg/token"
)

func TestNodeKindsImplementNode(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1}
	var nodes []Node = []Node{
		&ImportDecl{Position: pos},
		&ExternDecl{Position: pos},
		&EnumDecl{Position: pos},
		&ArtifactDecl{Position: pos},
		&ModuleDecl{Position: pos},
		&FunctionDecl{Position: pos},
		&VariableDecl{Position: pos},
		&AssignStmt{Position: pos},
		&ExprStmt{Position: pos},
		&ReturnStmt{Position: pos},
		&IfStmt{Position: pos},
		&IfChainStmt{Position: pos},
		&WhileStmt{Position: pos},
		&ForStmt{Position: pos},
		&BreakStmt{Position: pos},
		&SkipStmt{Position: pos},
		&Literal{Position: pos},
		&Ident{Position: pos},
		&UnaryExpr{Position: pos},
		&BinaryExpr{Position: pos},
		&CallExpr{Position: pos},
		&MemberExpr{Position: pos},
		&IndexExpr{Position: pos},
		&ArrayLiteral{Position: pos},
		&ListLiteral{Position: pos},
		&ArtifactLiteral{Position: pos},
		&FunctionLiteral{Position: pos},
	}
	for i, n := range nodes {
		if n.Pos() != pos {
			t.Errorf("node %d: Pos() = %v, want %v", i, n.Pos(), pos)
		}
	}
}

func TestProgramHoldsDeclsAndStatements(t *testing.T) {
	prog := &Program{
		Decls: []Decl{&FunctionDecl{Name: "main"}},
		Statements: []Stmt{
			&ExprStmt{X: &Literal{Kind: IntLiteral, Text: "1"}},
		},
	}
	if len(prog.Decls) != 1 || len(prog.Statements) != 1 {
		t.Fatalf("unexpected program shape: %+v", prog)
	}
	fn, ok := prog.Decls[0].(*FunctionDecl)
	if !ok || fn.Name != "main" {
		t.Fatalf("expected FunctionDecl main, got %#v", prog.Decls[0])
	}
}
