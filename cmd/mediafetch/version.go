package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"media-fetcher/internal/startup"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version works without a valid configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			info := startup.GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "mediafetch %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}
}
