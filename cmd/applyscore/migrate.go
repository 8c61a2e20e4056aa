package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyscore/applyscore/internal/bootstrap"
	"github.com/applyscore/applyscore/internal/platform"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := bootstrap.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Database.InMemory {
				return fmt.Errorf("migrate needs a SQL database; in-memory storage is enabled")
			}

			driver := platform.Driver(cfg.Database.Driver)
			fmt.Fprintf(cmd.ErrOrStderr(), "Migrating %s database...\n", driver)
			db, err := platform.Open(cmd.Context(), driver, cfg.Database.DSN(), platform.Pool{}, true)
			if err != nil {
				return err
			}
			defer db.Close()

			version, dirty, err := platform.MigrationVersion(db, driver)
			if err != nil {
				return err
			}

			state := "clean"
			if dirty {
				state = "dirty"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", version, state)
			return nil
		},
	}
}
