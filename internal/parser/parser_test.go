package parser

import (
	"testing"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/lexer"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *Parser) {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	return prog, p
}

func TestParse_SimpleFunction(t *testing.T) {
	prog, p := parseProgram(t, `main : i32 () { return 40 + 2; }`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "main" || len(fn.Body) != 1 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected return statement, got %T", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected binary '+' expression, got %#v", ret.Value)
	}
}

func TestParse_TopLevelScript(t *testing.T) {
	src := `
add : i32 (a : i32, b : i32) { return a + b; }
x : i32 = add(40, 2);
x = x + 1;
`
	prog, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d: %#v", len(prog.Decls), prog.Decls)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d: %#v", len(prog.Statements), prog.Statements)
	}
	if _, ok := prog.Decls[1].(*ast.VariableDecl); !ok {
		t.Errorf("decl 1: expected *ast.VariableDecl, got %T", prog.Decls[1])
	}
	if _, ok := prog.Statements[0].(*ast.AssignStmt); !ok {
		t.Errorf("statement 0: expected *ast.AssignStmt, got %T", prog.Statements[0])
	}
}

func TestParse_IfElseChain(t *testing.T) {
	src := `
classify : i32 (x : i32) {
  if x < 0 {
    return -1;
  } else if x == 0 {
    return 0;
  } else {
    return 1;
  }
}
`
	prog, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn := prog.Decls[0].(*ast.FunctionDecl)
	chain, ok := fn.Body[0].(*ast.IfChainStmt)
	if !ok {
		t.Fatalf("expected *ast.IfChainStmt, got %T", fn.Body[0])
	}
	if len(chain.Branches) != 2 || chain.Else == nil {
		t.Fatalf("unexpected chain shape: %+v", chain)
	}
}

func TestParse_WhileLoop(t *testing.T) {
	src := `
sum : i32 () {
  total : i32 = 0;
  i : i32 = 0;
  while i < 100 {
    total = total + i;
    i = i + 1;
  }
  return total;
}
`
	prog, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn := prog.Decls[0].(*ast.FunctionDecl)
	if len(fn.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d: %#v", len(fn.Body), fn.Body)
	}
	loop, ok := fn.Body[2].(*ast.WhileStmt)
	if !ok || len(loop.Body) != 2 {
		t.Fatalf("unexpected while shape: %#v", fn.Body[2])
	}
}

func TestParse_ArtifactDecl(t *testing.T) {
	src := `
Point :: artifact {
  x : i32
  y : i32
}
`
	prog, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	art, ok := prog.Decls[0].(*ast.ArtifactDecl)
	if !ok || len(art.Fields) != 2 {
		t.Fatalf("unexpected artifact shape: %#v", prog.Decls[0])
	}
}

func TestParse_EnumDecl(t *testing.T) {
	src := `Color :: enum { Red = 0, Green = 1, Blue = 2 }`
	prog, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	enum, ok := prog.Decls[0].(*ast.EnumDecl)
	if !ok || len(enum.Members) != 3 {
		t.Fatalf("unexpected enum shape: %#v", prog.Decls[0])
	}
}

func TestParse_FunctionLiteral(t *testing.T) {
	src := `main : i32 () { add : fn = (a : i32, b : i32) { return a + b; }; return 0; }`
	_, p := parseProgram(t, src)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
}

func TestParse_MissingSemicolonRecovers(t *testing.T) {
	src := `foo : i32 () { x : i32 = 1 y : i32 = 2; return y; }`
	_, p := parseProgram(t, src)
	if len(p.Errors()) == 0 {
		t.Fatal("expected a missing-';' error")
	}
}

func TestParse_BreakOutsideLoop(t *testing.T) {
	src := `foo : void () { break; }`
	_, p := parseProgram(t, src)
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error for 'break' outside a loop")
	}
}
