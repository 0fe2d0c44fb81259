package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/importer"
	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/storage"
)

func newImportCommand() *cobra.Command {
	var post bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import journal entries from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runImport(cmd, cfg, args[0], post)
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "post entries after creating them")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, path string, post bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

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
	jrn := journal.NewService(db, registry)

	res, err := importer.New(jrn).Import(cmd.Context(), f, post)
	if res != nil {
		cmd.Printf("Imported %d entries (%d rows), created %d, posted %d\n",
			res.Entries, res.RowsRead, len(res.Created), len(res.Posted))
	}
	return err
}
