package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, set at build time via ldflags.
// Example: go build -ldflags "-X github.com/trishajanath/altx-canvas/cmd.Version=1.0.0"
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the altx-canvas version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "altx-canvas version %s\n", Version)
		},
	}
}
