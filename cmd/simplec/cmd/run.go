package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/simple-lang/internal/semantic"
	"github.com/cwbudde/simple-lang/internal/sir"
	"github.com/cwbudde/simple-lang/internal/sirvm"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	runDumpSIR bool
	runRefVM   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Simple program",
	Long: `run compiles a Simple source file through the full front-end
pipeline and executes it.

By default this reports that execution requires the verified stack VM
over SBC bytecode, a named external interface not built in this
distribution (spec.md §1). Pass --ref-interp to execute the emitted
SIR instead with internal/sirvm, a minimal reference interpreter built
only so the front end can be exercised end to end in-repo.

Examples:
  simplec run --ref-interp script.simple
  simplec run --ref-interp -e "main : i32 () { return 1 + 1; }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpSIR, "dump-sir", false, "print the emitted SIR before running it")
	runCmd.Flags().BoolVar(&runRefVM, "ref-interp", false, "execute with internal/sirvm instead of reporting the external VM as unavailable")
}

func runRun(cmd *cobra.Command, args []string) error {
	var path, source string

	if evalExpr != "" {
		path = "<eval>"
		source = evalExpr
	} else if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		source = string(data)
	} else {
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	program, caps, loadedSource, err := loadSource(path, source)
	if err != nil {
		return err
	}

	if diags := semantic.Validate(program, caps, loadedSource); len(diags) > 0 {
		reportDiagnostics(path, diags)
		return fmt.Errorf("semantic validation failed with %d error(s)", len(diags))
	}

	mod := sir.Emit(program, caps)
	if runDumpSIR {
		fmt.Fprintln(os.Stderr, mod.String())
	}

	if !runRefVM {
		return fmt.Errorf("run: executing SBC bytecode on the verified stack VM is a named external interface, not implemented in this distribution; pass --ref-interp to run the emitted SIR with internal/sirvm instead")
	}

	vm := sirvm.New(mod)
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "running %s (entry %s)\n", path, mod.Entry)
	}

	code, runErr := vm.Run()
	if out := vm.Output(); out != "" {
		fmt.Print(out)
	}
	if runErr != nil {
		return fmt.Errorf("runtime error: %w", runErr)
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
