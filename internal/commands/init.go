package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/storage"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema and seed the default chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runInit(cmd, cfg)
		},
	}
}

func runInit(cmd *cobra.Command, cfg *config.Config) error {
	db, err := storage.Open(storage.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	registry := coa.NewRegistry(db)
	if err := coa.Seed(registry); err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	accounts, err := registry.List(coa.Filter{})
	if err != nil {
		return err
	}
	cmd.Printf("Initialized %s database %q with %d accounts\n",
		cfg.Database.Driver, cfg.Database.DSN, len(accounts))
	return nil
}
