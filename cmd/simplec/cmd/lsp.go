package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the language server (not implemented)",
	Long: `lsp would start the Simple language-server-protocol server over
stdio. The LSP server is a named external interface and is not built
in this distribution; use "simplec check" for one-shot diagnostics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("lsp: language server is a named external interface, not implemented in this distribution")
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}
