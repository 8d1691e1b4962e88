package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jobflow/internal/flows"
	"github.com/aretw0/jobflow/internal/presentation/graph"
)

var graphFormat string

var graphCmd = &cobra.Command{
	Use:   "graph [flow]",
	Short: "Export flow diagrams",
	Long: `Prints a Mermaid flowchart (graph TD) or a YAML description of a flow.
Without an argument every flow is exported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := flows.Catalog()
		if id := firstArg(args); id != "" {
			e, err := flows.Lookup(id)
			if err != nil {
				return err
			}
			entries = []flows.Entry{e}
		}

		out := cmd.OutOrStdout()
		for i, e := range entries {
			switch graphFormat {
			case "mermaid":
				if len(entries) > 1 {
					fmt.Fprintf(out, "%%%% %s\n", e.ID)
				}
				fmt.Fprint(out, graph.GenerateMermaid(e.Blueprint()))
			case "yaml":
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				data, err := graph.GenerateYAML(e.Blueprint())
				if err != nil {
					return err
				}
				out.Write(data)
			default:
				return fmt.Errorf("unknown format %q (use mermaid or yaml)", graphFormat)
			}
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "mermaid", "output format: mermaid or yaml")
	rootCmd.AddCommand(graphCmd)
}
