package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow/internal/cli"
)

var buildCmd = &cobra.Command{
	Use:   "build [job]",
	Short: "Pick a branch and parameters, then trigger a build",
	Long: `Collects the inputs of a build interactively and triggers it.
The job may be given as an exact name or a fragment matching exactly one job;
without it, jobflow offers recent jobs, search and the full job list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *cli.Session, sc *cli.SignalContext) error {
			return s.Build(sc, firstArg(args))
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [job]",
	Short: "Show the last build of a job and act on it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *cli.Session, sc *cli.SignalContext) error {
			return s.Status(sc, firstArg(args))
		})
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(statusCmd)
}
