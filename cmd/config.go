package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/signalnine/toolrl/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long:  "Print the agent actor and data settings after applying --config on top of the defaults. A missing config file means defaults.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	show.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	cmd.AddCommand(show)
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("config file not found, using defaults")
		return config.Default(), nil
	}
	return cfg, err
}

// configuredOutputDir is data.output_dir from --config, or the built-in
// default when the file or key is absent.
func configuredOutputDir() (string, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return "", err
	}
	if cfg.Data.OutputDir == "" {
		return config.DefaultOutputDir, nil
	}
	return cfg.Data.OutputDir, nil
}
