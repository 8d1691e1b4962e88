package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jobflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jobflow version %s\n", strings.TrimSpace(jobflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
