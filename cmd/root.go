package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/signalnine/toolrl/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	logger = zap.NewNop()
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "toolrl",
		Short:        "Data and configuration tooling for tool-augmented RL training",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logger.Sync()
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "toolrl.yaml", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	root.AddCommand(newConvertCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs root with args. Boolean flags also accept their value as the
// next argument ("--add_execution_prompt false"), as the dataset scripts
// these commands replace were invoked that way.
func Execute(root *cobra.Command, args []string) error {
	root.SetArgs(joinBoolValues(args, boolFlags(root)))
	return root.Execute()
}

// boolFlags returns the names of every boolean flag defined on cmd or its
// subcommands, long and shorthand.
func boolFlags(cmd *cobra.Command) map[string]bool {
	names := make(map[string]bool)
	var walk func(*cobra.Command)
	walk = func(c *cobra.Command) {
		visit := func(f *pflag.Flag) {
			if f.Value.Type() != "bool" {
				return
			}
			names["--"+f.Name] = true
			if f.Shorthand != "" {
				names["-"+f.Shorthand] = true
			}
		}
		c.Flags().VisitAll(visit)
		c.PersistentFlags().VisitAll(visit)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(cmd)
	return names
}

// joinBoolValues rewrites "--flag value" into "--flag=value" when flag is
// boolean and value parses as one. Arguments after "--" are left alone.
func joinBoolValues(args []string, bools map[string]bool) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if bools[arg] && i+1 < len(args) {
			value := strings.ToLower(args[i+1])
			if _, err := strconv.ParseBool(value); err == nil {
				out = append(out, arg+"="+value)
				i++
				continue
			}
		}
		out = append(out, arg)
	}
	return out
}
