package cmd

import (
	"github.com/spf13/cobra"

	"github.com/signalnine/toolrl/internal/report"
)

func newInspectCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Summarize converted datasets",
		Long:  "Summarize the converted datasets in dir, or in data.output_dir from --config when dir is omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			} else {
				d, err := configuredOutputDir()
				if err != nil {
					return err
				}
				dir = d
			}
			return report.Generate(dir, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, markdown, json)")
	return cmd
}
