package sir_test

import (
	"testing"

	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestEmit_Fixtures renders the SIR module for each inline fixture source and
// compares it against a stored snapshot, the same golden-test pattern
// the teacher's interpreter fixture suite uses, but snapshotted with
// go-snaps instead of hand-maintained expected-output files.
func TestEmit_Fixtures(t *testing.T) {
	cases := map[string]string{
		"arithmetic": `main : i32 () { return 1 + 2 * 3 - 4; }`,
		"sum_loop": `
main : i32 () {
  sum : i32 = 0;
  for (i : i32 = 0; i < 10; i = i + 1) {
    sum = sum + i;
  }
  return sum;
}
`,
		"script_entry": `
add : i32 (a : i32, b : i32) { return a + b; }
x : i32 = add(40, 2);
x = x + 1;
`,
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			p := parser.New(lexer.New(src))
			prog := p.ParseProgram()
			if len(p.Errors()) != 0 {
				t.Fatalf("unexpected parse errors: %v", p.Errors())
			}
			mod := sir.Emit(prog, map[reserved.Module]bool{})
			snaps.MatchSnapshot(t, mod.String())
		})
	}
}
