package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerline-dev/ledgerline/internal/bridge"
	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/config"
	"github.com/ledgerline-dev/ledgerline/internal/httpapi"
	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/ledger"
	"github.com/ledgerline-dev/ledgerline/internal/logging"
	"github.com/ledgerline-dev/ledgerline/internal/reports"
	"github.com/ledgerline-dev/ledgerline/internal/storage"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	logger, err := logging.New(cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(storage.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		LogSQL:       cfg.Database.LogSQL,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	registry := coa.NewRegistry(db)
	jrn := journal.NewService(db, registry)
	brg := bridge.NewService(db, registry, bridge.ControlAccounts{
		Receivable:    cfg.Control.Receivable,
		Payable:       cfg.Control.Payable,
		Cash:          cfg.Control.Cash,
		Revenue:       cfg.Control.Revenue,
		Expense:       cfg.Control.Expense,
		TaxPayable:    cfg.Control.TaxPayable,
		TaxReceivable: cfg.Control.TaxReceivable,
	})
	agg := ledger.NewAggregator(db, registry)
	rpt := reports.NewService(registry, agg, brg)

	handler := httpapi.NewHandler(registry, jrn, brg, rpt)
	srv := httpapi.NewServer(logger, cfg.Server.Port, cfg.Server.Mode, handler)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
