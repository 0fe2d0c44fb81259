package reports

import (
	"context"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/ledger"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// DocumentSource lists open subsidiary documents for the aging reports.
// Satisfied by bridge.Service.
type DocumentSource interface {
	OpenInvoices(ctx context.Context) ([]model.Invoice, error)
	OpenBills(ctx context.Context) ([]model.Bill, error)
}

// Service generates the five financial reports. Every figure comes from
// the ledger aggregator or the open-document lists; generators are
// read-only and never mutate ledger state.
type Service struct {
	registry *coa.Registry
	agg      *ledger.Aggregator
	docs     DocumentSource
}

// NewService creates a reports Service.
func NewService(registry *coa.Registry, agg *ledger.Aggregator, docs DocumentSource) *Service {
	return &Service{registry: registry, agg: agg, docs: docs}
}

// cashAccounts returns the designated cash/bank accounts.
func (s *Service) cashAccounts(ctx context.Context) ([]model.Account, error) {
	return s.registry.List(coa.Filter{Type: model.AccountTypeAsset, SubType: model.SubTypeCash})
}
