package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/simple-lang/internal/ast"
	"github.com/cwbudde/simple-lang/internal/config"
	"github.com/cwbudde/simple-lang/internal/errors"
	"github.com/cwbudde/simple-lang/internal/lexer"
	"github.com/cwbudde/simple-lang/internal/parser"
	"github.com/cwbudde/simple-lang/internal/reserved"
	"github.com/cwbudde/simple-lang/internal/resolve"
	"github.com/cwbudde/simple-lang/internal/semantic"
	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/cwbudde/simple-lang/internal/sir/sirjson"
	"github.com/spf13/cobra"
)

var (
	emitIR      bool
	emitSBC     bool
	emitJSON    bool
	emitOutput  string
	emitPrint   bool
	emitNoColor bool
)

var emitCmd = &cobra.Command{
	Use:   "emit <file>",
	Short: "Emit SIR (or bytecode) for a Simple source file",
	Long: `emit drives a source file through the full front-end pipeline —
lexing, parsing, import resolution, semantic validation, and SIR
emission — and writes the result to disk.

  emit -ir file.simple    write the textual SIR module (default)
  emit -ir --json         also write a JSON mirror of the SIR module
  emit -sbc file.simple   verified SBC bytecode: a named external
                          interface, not built in this distribution

If the file has no import declarations, resolution is skipped and the
file is parsed standalone. Otherwise every import it reaches,
transitively, is merged in source order before validation.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().BoolVar(&emitIR, "ir", true, "emit the textual SIR module")
	emitCmd.Flags().BoolVar(&emitSBC, "sbc", false, "emit verified SBC bytecode (not implemented in this distribution)")
	emitCmd.Flags().BoolVar(&emitJSON, "json", false, "also write a JSON mirror of the SIR module alongside the textual one")
	emitCmd.Flags().StringVarP(&emitOutput, "output", "o", "", "output file (default: input name with .sir extension)")
	emitCmd.Flags().BoolVar(&emitPrint, "print", false, "also print the emitted SIR to stdout")
	emitCmd.Flags().BoolVar(&emitNoColor, "no-color", false, "disable colored diagnostics")
}

func runEmit(cmd *cobra.Command, args []string) error {
	if emitSBC {
		return fmt.Errorf("emit -sbc: verified SBC bytecode is a named external interface, not implemented in this distribution")
	}

	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	program, caps, source, err := loadSource(path, string(data))
	if err != nil {
		return err
	}

	if diags := semantic.Validate(program, caps, source); len(diags) > 0 {
		reportDiagnostics(path, diags)
		return fmt.Errorf("semantic validation failed with %d error(s)", len(diags))
	}

	mod := sir.Emit(program, caps)
	out := mod.String()

	outPath := emitOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".sir"
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if emitJSON {
		jsonOut, err := sirjson.Marshal(mod)
		if err != nil {
			return fmt.Errorf("marshaling SIR to JSON: %w", err)
		}
		jsonPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".sir.json"
		if err := os.WriteFile(jsonPath, jsonOut, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", jsonPath, err)
		}
	}

	if emitPrint {
		fmt.Println(out)
	}

	fmt.Fprintf(os.Stderr, "emitted %s -> %s (entry %s)\n", path, outPath, mod.Entry)
	return nil
}

// loadSource parses source and, if it contains imports, resolves them
// against path's containing directory (skipped for "<eval>" input). It
// returns the merged program, the reserved-module capability set the
// program touches, and the source it parsed (for diagnostic rendering).
func loadSource(path, source string) (*ast.Program, map[reserved.Module]bool, string, error) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		var sb strings.Builder
		for _, e := range p.Errors() {
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
		return nil, nil, source, fmt.Errorf("parsing failed with %d error(s):\n%s", len(p.Errors()), sb.String())
	}

	hasImport := false
	for _, d := range program.Decls {
		if _, ok := d.(*ast.ImportDecl); ok {
			hasImport = true
			break
		}
	}

	caps := map[reserved.Module]bool{}
	if hasImport && path != "<eval>" {
		res, cerr := resolve.Resolve(path, filepath.Dir(path))
		if cerr != nil {
			return nil, nil, source, cerr
		}
		program, caps = res.Program, res.Capabilities
	}

	if configPath != "" {
		m, err := config.Load(configPath)
		if err != nil {
			return nil, nil, source, err
		}
		caps = m.ApplyCapabilities(caps)
	}

	return program, caps, source, nil
}

func reportDiagnostics(path string, diags []*errors.CompilerError) {
	color := !emitNoColor
	for _, d := range diags {
		d.File = path
		fmt.Fprintln(os.Stderr, d.Pretty(color))
	}
}
