package sirvm_test

import (
	"testing"

	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/cwbudde/simple-lang/internal/sirvm"
)

func run(t *testing.T, src string) (int, *sirvm.VM) {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	mod := sir.Emit(prog, map[reserved.Module]bool{})
	vm := sirvm.New(mod)
	code, err := vm.Run()
	if err != nil {
		t.Fatalf("sirvm run failed: %v\n--- SIR ---\n%s", err, mod.String())
	}
	return code, vm
}

func TestRun_ArithmeticReturn(t *testing.T) {
	code, _ := run(t, `main : i32 () { return 40 + 2; }`)
	if code != 42 {
		t.Fatalf("expected exit code 42, got %d", code)
	}
}

func TestRun_TopLevelScript(t *testing.T) {
	src := `
add : i32 (a : i32, b : i32) { return a + b; }
x : i32 = add(40, 2);
x = x + 1;
`
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	mod := sir.Emit(prog, map[reserved.Module]bool{})
	if mod.Entry != "__script_entry" {
		t.Fatalf("expected entry __script_entry, got %q", mod.Entry)
	}
	vm := sirvm.New(mod)
	code, err := vm.Run()
	if err != nil {
		t.Fatalf("sirvm run failed: %v\n--- SIR ---\n%s", err, mod.String())
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRun_SumLoop(t *testing.T) {
	src := `
main : i32 () {
  sum : i32 = 0;
  for (i : i32 = 0; i < 100; i = i + 1) {
    sum = sum + i;
  }
  return sum;
}
`
	code, _ := run(t, src)
	if code != 4950 {
		t.Fatalf("expected exit code 4950, got %d", code)
	}
}

func TestRun_WhileLoopAndBreak(t *testing.T) {
	src := `
main : i32 () {
  n : i32 = 0;
  while (true) {
    n = n + 1;
    if n == 5 {
      break;
    }
  }
  return n;
}
`
	code, _ := run(t, src)
	if code != 5 {
		t.Fatalf("expected exit code 5, got %d", code)
	}
}
