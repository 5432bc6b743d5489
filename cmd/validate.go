package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalnine/toolrl/internal/report"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Check converted datasets for record invariants",
		Long: "Read back every split listed by the manifests in <dir> and check that indices are contiguous,\n" +
			"prompts are [system, user] and every record carries a ground truth.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := report.Summarize(args[0])
			if err != nil {
				return err
			}
			failed := 0
			for _, s := range summaries {
				if len(s.Issues) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "ok    %s/%s (%d rows)\n", s.Source, s.Split, s.Rows)
					continue
				}
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s/%s (%d rows)\n", s.Source, s.Split, s.Rows)
				for _, issue := range s.Issues {
					logger.Warn(issue, zap.String("source", s.Source), zap.String("split", s.Split))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d splits failed validation", failed, len(summaries))
			}
			return nil
		},
	}
}
