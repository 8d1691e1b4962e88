package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow/internal/cli"
	"github.com/aretw0/jobflow/internal/search"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [query]",
	Short: "List the server's jobs, optionally fuzzy-filtered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *cli.Session, sc *cli.SignalContext) error {
			jobs, err := s.Jobs(sc)
			if err != nil {
				return err
			}
			if q := firstArg(args); q != "" {
				jobs = search.Names(search.Rank(q, jobs))
			}
			out := cmd.OutOrStdout()
			for _, j := range jobs {
				fmt.Fprintln(out, j)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
