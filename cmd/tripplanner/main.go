package main

import (
	"fmt"
	"os"

	"github.com/Kerhoff/tripplanner/internal/config"
	"github.com/Kerhoff/tripplanner/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripplanner",
		Short:         "Shared trip planning web app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
	)

	return root
}

// bootstrap loads configuration and opens the database shared by every
// subcommand.
func bootstrap() (*config.Config, *logrus.Logger, *config.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, l, db, nil
}
