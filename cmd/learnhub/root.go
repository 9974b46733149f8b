package main

import (
	"fmt"

	"github.com/MrEthical07/learnhub/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "learnhub",
		Short: "learnhub e-learning API",
		Long: `learnhub serves the e-learning REST API: accounts and sessions,
courses, orders, notifications, homepage layout and analytics.

Configuration is read from an optional YAML file and the environment.
A .env file in the working directory is applied first.

Example usage:
  learnhub serve --config config.yaml
  learnhub migrate
  learnhub version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "learnhub %s\n", version)
		},
	}
}
