package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Build a native executable embedding the Simple runtime (not implemented)",
	Long: `build would link an emitted SBC module against the native-embedding
helper to produce a standalone executable. The embedding helper is a
named external interface and is not built in this distribution; use
"simplec emit -ir" to produce SIR and "simplec run" to execute it with
the in-repo reference interpreter instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("build: native-embedding helper is a named external interface, not implemented in this distribution")
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
