package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rpattn/portaldata/internal/config"
	"github.com/rpattn/portaldata/internal/db"
)

func newMigrateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := requirePostgres(c.cfg); err != nil {
				return err
			}
			return db.RunMigrations(c.cfg.Database, c.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := requirePostgres(c.cfg); err != nil {
				return err
			}
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			return db.RollbackMigrations(c.cfg.Database, steps, c.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func requirePostgres(cfg config.Config) error {
	if cfg.Storage.Driver != config.DriverPostgres {
		return errors.New("migrations need the postgres storage driver")
	}
	return nil
}
