package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the barpipe command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "barpipe",
		Short: "Transparent click-event relay for status-line generators",
		Long: `barpipe sits between a status-line generator (such as i3status) and a
consumer that speaks the i3bar streaming JSON protocol. It launches the
generator, rewrites the protocol header to advertise click-event
support, and forwards every subsequent line unmodified.

The relay's own stdout carries nothing but the protocol stream; all
diagnostics go to stderr.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd
}
