package cmd

import (
	"github.com/spf13/cobra"

	"github.com/signalnine/toolrl/internal/config"
	"github.com/signalnine/toolrl/internal/convert"
)

func newConvertCmd() *cobra.Command {
	opts := &convert.Options{}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a local math dataset into rule-scored training parquet files",
		Long: "Load a parquet dataset with train and test splits, extract the boxed answer of every solution\n" +
			"and write <source>_train.parquet and <source>_test.parquet into --local_dir\n" +
			"(default: data.output_dir from --config).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("local_dir") {
				dir, err := configuredOutputDir()
				if err != nil {
					return err
				}
				opts.OutputDir = dir
			}
			opts.Stdout = cmd.OutOrStdout()
			opts.Logger = logger
			_, err := convert.Run(cmd.Context(), opts)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.DatasetPath, "local_dataset_path", "", "directory holding the parquet dataset")
	f.StringVar(&opts.OutputDir, "local_dir", config.DefaultOutputDir, "output directory")
	f.StringVar(&opts.Level, "level", "hard", "accepted for compatibility, has no effect")
	f.BoolVar(&opts.AddExecutionPrompt, "add_execution_prompt", false, "accepted for compatibility, has no effect")
	f.BoolVar(&opts.DetailedInstruction, "detailed_instruction", false, "accepted for compatibility, has no effect")
	f.IntVar(&opts.Parallel, "parallel", len(convert.Splits), "max splits processed concurrently")
	cmd.MarkFlagRequired("local_dataset_path")
	return cmd
}
