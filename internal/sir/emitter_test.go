package sir_test

import (
	"strings"
	"testing"

	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/sir"
)

func emit(t *testing.T, src string) *sir.Module {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return sir.Emit(prog, map[reserved.Module]bool{})
}

func TestEmit_MainEntrySelectedWhenNoTopLevelStatements(t *testing.T) {
	mod := emit(t, `main : i32 () { return 1; }`)
	if mod.Entry != "main" {
		t.Fatalf("expected entry main, got %q", mod.Entry)
	}
}

func TestEmit_ScriptEntrySelectedWhenTopLevelStatementsPresent(t *testing.T) {
	mod := emit(t, `
add : i32 (a : i32, b : i32) { return a + b; }
x : i32 = add(40, 2);
x = x + 1;
`)
	if mod.Entry != "__script_entry" {
		t.Fatalf("expected entry __script_entry, got %q", mod.Entry)
	}
	text := mod.String()
	if !strings.Contains(text, "entry __script_entry") {
		t.Fatalf("expected rendered SIR to contain 'entry __script_entry', got:\n%s", text)
	}
}

func TestEmit_StackHeaderCoversObservedDepth(t *testing.T) {
	mod := emit(t, `main : i32 () { return 1 + 2 * 3 - 4; }`)
	var main *sir.Func
	for _, fn := range mod.Funcs {
		if fn.Name == "main" {
			main = fn
		}
	}
	if main == nil {
		t.Fatal("expected a main function in the emitted module")
	}
	if main.Stack < 2 {
		t.Fatalf("expected a stack header of at least 2 for nested arithmetic, got %d", main.Stack)
	}
}

func TestEmit_LocalsCountsParamsAndDeclarations(t *testing.T) {
	mod := emit(t, `
add3 : i32 (a : i32, b : i32, c : i32) {
  total : i32 = a + b;
  total = total + c;
  return total;
}
`)
	var fn *sir.Func
	for _, f := range mod.Funcs {
		if f.Name == "add3" {
			fn = f
		}
	}
	if fn == nil {
		t.Fatal("expected an add3 function in the emitted module")
	}
	if fn.Locals != 4 { // a, b, c, total
		t.Fatalf("expected 4 locals (3 params + 1 declared), got %d", fn.Locals)
	}
}

func TestEmit_RenderedOutputStableAcrossRuns(t *testing.T) {
	src := `main : i32 () { return 40 + 2; }`
	a := emit(t, src).String()
	b := emit(t, src).String()
	if a != b {
		t.Fatalf("expected identical emission for identical input, got:\n%s\n---\n%s", a, b)
	}
}
