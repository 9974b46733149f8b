package main

import (
	"fmt"

	"github.com/MrEthical07/learnhub/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured store",
		Long: `Prepare the durable store selected by store.driver:

  postgres  create tables and indexes (idempotent)
  mongo     create the unique email and layout type indexes
  memory    nothing to do`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			log := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})

			st, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = st.close(cmd.Context()) }()

			if st.migrate == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "store %q has nothing to migrate\n", cfg.Store.Driver)
				return nil
			}
			if err := st.migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.Store.Driver, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %q migrated\n", cfg.Store.Driver)
			return nil
		},
	}
}
