package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/simple-lang/internal/semantic"
	"github.com/spf13/cobra"
)

var checkNoColor bool

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse and validate a Simple source file without emitting anything",
	Long: `check drives a source file through lexing, parsing, import
resolution, and semantic validation, reporting diagnostics but never
producing SIR. Exit code 0 means the file is well-formed; exit code 1
means at least one diagnostic was reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored diagnostics")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	program, caps, source, err := loadSource(path, string(data))
	if err != nil {
		return err
	}

	diags := semantic.Validate(program, caps, source)
	if len(diags) == 0 {
		fmt.Fprintf(os.Stderr, "%s: ok\n", path)
		return nil
	}

	color := !checkNoColor
	for _, d := range diags {
		d.File = path
		fmt.Fprintln(os.Stderr, d.Pretty(color))
	}
	return fmt.Errorf("%d error(s)", len(diags))
}
