package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "simplec",
	Short: "Simple language compiler front end",
	Long: `simplec is the compiler front end for Simple, a small statically-typed
systems language.

It drives the source pipeline through lexing, parsing, import resolution,
semantic validation, and SIR emission:
  - Strong static typing with literal widening
  - Artifacts (fields + methods) and enums
  - A reserved-module capability system (IO, Math, Time, File, Core.*)
  - A textual, stack-based intermediate representation (SIR)

This distribution implements the front end only: SIR assembly to the
verified SBC bytecode format, the stack VM, and the LSP server are
named external interfaces and are not built here.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var (
	configPath string
	rootFlag   string
	entryFlag  string
)

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a simple.yaml project manifest")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "project root (overrides the manifest's root)")
	rootCmd.PersistentFlags().StringVar(&entryFlag, "entry", "", "entry file (overrides the manifest's entry)")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
