package semantic

import (
	"strings"
	"testing"

	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
)

func validateSrc(t *testing.T, src string) []string {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	errs := Validate(prog, map[reserved.Module]bool{}, src)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

func TestValidate_ArithmeticReturnOK(t *testing.T) {
	msgs := validateSrc(t, `main : i32 () { return 40 + 2; }`)
	if len(msgs) != 0 {
		t.Fatalf("expected no errors, got %v", msgs)
	}
}

func TestValidate_UndeclaredIdentifier(t *testing.T) {
	msgs := validateSrc(t, `main : i32 () { return undeclared; }`)
	if len(msgs) == 0 {
		t.Fatal("expected an undeclared-identifier error")
	}
}

func TestValidate_MissingReturnOnSomePath(t *testing.T) {
	msgs := validateSrc(t, `
classify : i32 (x : i32) {
  if x < 0 {
    return -1;
  }
}
`)
	if len(msgs) == 0 {
		t.Fatal("expected a missing-return error")
	}
}

func TestValidate_MissingReturnExactMessage(t *testing.T) {
	msgs := validateSrc(t, `foo : i32 () { x : i32 = 1; }`)
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "non-void function does not return on all paths") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the spec's exact diagnostic substring, got %v", msgs)
	}
}

func TestValidate_FormatPlaceholderMismatch(t *testing.T) {
	p := parser.New(lexer.New(`
import "io"
main : void () { IO.println("x={}, y={}", 1); }
`))
	prog := p.ParseProgram()
	errs := Validate(prog, map[reserved.Module]bool{reserved.IO: true}, "")
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "format placeholder count mismatch: expected 2, got 1") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the spec's exact placeholder-mismatch message, got %v", errs)
	}
}

func TestValidate_SelfOutsideMethod(t *testing.T) {
	msgs := validateSrc(t, `main : i32 () { return self; }`)
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "self used outside of artifact method") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a self-outside-method error, got %v", msgs)
	}
}

func TestValidate_MainMayFallThrough(t *testing.T) {
	msgs := validateSrc(t, `main : i32 () { x : i32 = 1; }`)
	if len(msgs) != 0 {
		t.Fatalf("expected no errors for main falling through, got %v", msgs)
	}
}

func TestValidate_ImmutableAssignRejected(t *testing.T) {
	msgs := validateSrc(t, `
main : i32 () {
  x :: i32 = 1;
  x = 2;
  return x;
}
`)
	if len(msgs) == 0 {
		t.Fatal("expected a mutability error for assigning to an immutable binding")
	}
}

func TestValidate_CallArityMismatch(t *testing.T) {
	msgs := validateSrc(t, `
add : i32 (a : i32, b : i32) { return a + b; }
main : i32 () { return add(1); }
`)
	if len(msgs) == 0 {
		t.Fatal("expected an arity mismatch error")
	}
}

func TestValidate_SkipOutsideLoopReported(t *testing.T) {
	p := parser.New(lexer.New(`main : void () { if true { skip; } }`))
	prog := p.ParseProgram()
	errs := Validate(prog, map[reserved.Module]bool{}, "")
	if len(errs) == 0 {
		t.Fatal("expected a 'skip used outside a loop' error")
	}
}
