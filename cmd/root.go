// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlag = "config"

// NewRootCommand returns the devflow command. Children read their settings
// from flags, DEVFLOW_* environment variables or config.yaml, in that order.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devflow",
		Short: "DevFlow is a Q&A forum backend",
		Long: `DevFlow serves a JSON API for questions, answers, tags, votes and saved
questions, with AI-assisted answer drafting.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path, _ := cmd.Flags().GetString(configFlag); path != "" {
				v.SetConfigFile(path)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String(configFlag, "", "path to a config file (default: config.yaml in /etc/devflow, $HOME/.devflow or .)")

	return cmd
}

// bindFlags binds each flag to its configuration key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		for name, key := range keys {
			if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		return nil
	}
}
