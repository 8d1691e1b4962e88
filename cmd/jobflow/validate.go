package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every built-in flow against its handlers",
	Long: `Reports undefined targets, missing handlers, undeclared events and
unreachable states of each flow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := flows.ValidateAll(); err != nil {
			return err
		}
		tui.Success(cmd.OutOrStdout(), "%d flows are valid", len(flows.Catalog()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
