package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/config"
	"github.com/rpattn/portaldata/internal/logging"
	"github.com/rpattn/portaldata/internal/server"
)

// cli holds the persistent flags and the values derived from them.
type cli struct {
	configPath string
	driver     string
	seedFile   string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operate the portal data store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", ".", "directory containing config.yaml")
	flags.StringVar(&c.driver, "storage", "", "storage driver override (postgres or memory)")
	flags.StringVar(&c.seedFile, "seed", "", "seed file for the memory driver")
	flags.StringVar(&c.logLevel, "log-level", "", "log level override")

	root.AddCommand(newMigrateCmd(c), newProteinArrayCmd(c))
	return root
}

func (c *cli) setup() error {
	// Flag overrides land in the environment so config.Load validates them
	// together with the file.
	if c.driver != "" {
		if err := os.Setenv("PORTAL_STORAGE_DRIVER", c.driver); err != nil {
			return err
		}
	}
	if c.seedFile != "" {
		if err := os.Setenv("PORTAL_STORAGE_SEED_FILE", c.seedFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	// Logs go to stderr in development mode; stdout may carry a matrix.
	logger, err := logging.New("development", cfg.Log.Level)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) services(ctx context.Context) (*server.Services, func(), error) {
	repos, err := server.OpenRepositories(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, nil, err
	}
	return server.NewServices(repos, c.logger), repos.Close, nil
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
