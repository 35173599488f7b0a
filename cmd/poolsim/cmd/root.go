package cmd

import (
	"github.com/spf13/cobra"
)

const flagConfig = "config"

// NewRootCmd creates the poolsim root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "poolsim",
		Short:        "Constant-product pool simulator",
		Long:         `poolsim runs scripted scenarios against an in-process chain holding a single two-asset pool.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file path")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "plain", "log format (plain, json)")
	rootCmd.PersistentFlags().String("output", "text", "output format (text, json)")

	rootCmd.AddCommand(
		SimulateCmd(),
		QuoteCmd(),
		ParamsCmd(),
	)
	return rootCmd
}

// loadConfig resolves the config for cmd from its flags and the --config file.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return Config{}, err
	}
	return LoadConfig(cfgFile, cmd.Flags())
}
