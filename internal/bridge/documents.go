package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// CreateInvoice stores an invoice received from the AR module. Business
// rules (pricing, tax calculation) are the sender's problem; only the
// internal consistency of the totals is checked here.
func (s *Service) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	if !invoice.TotalsConsistent() {
		return fmt.Errorf("%w: invoice %s", model.ErrInconsistentDocumentTotals, invoice.Number)
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.Status == "" {
		invoice.Status = model.DocumentDraft
	}
	if err := s.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}
	return nil
}

// GetInvoice returns an invoice with its items.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := s.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invoice %s", model.ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	return &invoice, nil
}

// OpenInvoices returns posted invoices with an outstanding balance,
// ordered by number.
func (s *Service) OpenInvoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := s.db.WithContext(ctx).
		Where("journal_entry_id IS NOT NULL AND paid_amount < total_amount").
		Order("number").Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("listing open invoices: %w", err)
	}
	return invoices, nil
}

// CreateBill stores a bill received from the AP module.
func (s *Service) CreateBill(ctx context.Context, bill *model.Bill) error {
	if !bill.TotalsConsistent() {
		return fmt.Errorf("%w: bill %s", model.ErrInconsistentDocumentTotals, bill.Number)
	}
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	if bill.Status == "" {
		bill.Status = model.DocumentDraft
	}
	if err := s.db.WithContext(ctx).Create(bill).Error; err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}
	return nil
}

// GetBill returns a bill with its items.
func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	err := s.db.WithContext(ctx).Preload("Items").First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: bill %s", model.ErrDocumentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading bill: %w", err)
	}
	return &bill, nil
}

// OpenBills returns posted bills with an outstanding balance, ordered by
// number.
func (s *Service) OpenBills(ctx context.Context) ([]model.Bill, error) {
	var bills []model.Bill
	err := s.db.WithContext(ctx).
		Where("journal_entry_id IS NOT NULL AND paid_amount < total_amount").
		Order("number").Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("listing open bills: %w", err)
	}
	return bills, nil
}
