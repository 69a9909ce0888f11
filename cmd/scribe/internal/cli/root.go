// Package cli wires scribe's cobra subcommands: a bare rootCmd plus one
// AddCommand per subcommand, with auto-generated completion disabled.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Incremental text reconciler demo, bench, and verify tool",
	Long: `scribe drives pkg/scribe's reconciler through a handful of scripted
editing scenarios: "demo" renders the live buffer in a terminal UI, "bench"
loops the scenarios and records timing/shape metrics, and "verify" replays a
fixture under strict diagnostics and reports any invariant violation.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
