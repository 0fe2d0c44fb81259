package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/ref"
)

// ControlAccounts names the general-ledger accounts the bridge posts
// against. Line items may override the revenue/expense side with their
// own account code.
type ControlAccounts struct {
	Receivable    string // AR control account
	Payable       string // AP control account
	Cash          string // cash/bank account for payments
	Revenue       string // default revenue account for invoice lines
	Expense       string // default expense account for bill lines
	TaxPayable    string // sales tax collected on invoices
	TaxReceivable string // tax paid on bills
}

// Service translates invoices, bills and their payments into balanced
// journal entries against the control accounts, keeping subsidiary
// document balances and the general ledger consistent: the document and
// its journal entry change in one transaction or not at all.
type Service struct {
	db       *gorm.DB
	registry *coa.Registry
	control  ControlAccounts
}

// NewService creates a bridge Service.
func NewService(db *gorm.DB, registry *coa.Registry, control ControlAccounts) *Service {
	return &Service{db: db, registry: registry, control: control}
}

// PostInvoice finalizes an invoice into the ledger: debit AR for the
// total, credit revenue for the lines (discount debited back against the
// default revenue account), credit tax payable. A second call for the
// same invoice fails with ErrAlreadyPosted; it never duplicates postings.
func (s *Service) PostInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.JournalEntry, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: invoice %s", model.ErrAlreadyPosted, invoice.Number)
	}
	if !invoice.TotalsConsistent() {
		return nil, fmt.Errorf("%w: invoice %s: total %s != subtotal %s + tax %s - discount %s",
			model.ErrInconsistentDocumentTotals, invoice.Number,
			invoice.TotalAmount.StringFixed(2), invoice.Subtotal.StringFixed(2),
			invoice.TaxAmount.StringFixed(2), invoice.DiscountAmount.StringFixed(2))
	}

	lines := []journal.Line{{AccountCode: s.control.Receivable, Debit: invoice.TotalAmount}}
	if len(invoice.Items) == 0 {
		lines = append(lines, journal.Line{AccountCode: s.control.Revenue, Credit: invoice.Subtotal})
	}
	for account, amount := range creditsByAccount(invoiceLines(invoice), s.control.Revenue) {
		lines = append(lines, journal.Line{AccountCode: account, Credit: amount})
	}
	if invoice.DiscountAmount.IsPositive() {
		lines = append(lines, journal.Line{AccountCode: s.control.Revenue, Debit: invoice.DiscountAmount})
	}
	if invoice.TaxAmount.IsPositive() {
		lines = append(lines, journal.Line{AccountCode: s.control.TaxPayable, Credit: invoice.TaxAmount})
	}

	var entry *model.JournalEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err = s.postEntry(ctx, tx, journal.CreateDraftParams{
			Date:        invoice.Date,
			Reference:   ref.ForDocument(ref.PrefixInvoice, invoice.Number),
			Description: fmt.Sprintf("Invoice %s - %s", invoice.Number, invoice.CustomerName),
			Lines:       lines,
		})
		if err != nil {
			return err
		}

		return tx.Model(invoice).Updates(map[string]any{
			"journal_entry_id": entry.ID,
			"status":           model.DocumentOpen,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostBill finalizes a bill into the ledger: debit expense/inventory for
// the lines, debit tax receivable, credit AP for the total. Idempotent
// per bill; a second call fails with ErrAlreadyPosted.
func (s *Service) PostBill(ctx context.Context, billID uuid.UUID) (*model.JournalEntry, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.JournalEntryID != nil {
		return nil, fmt.Errorf("%w: bill %s", model.ErrAlreadyPosted, bill.Number)
	}
	if !bill.TotalsConsistent() {
		return nil, fmt.Errorf("%w: bill %s: total %s != subtotal %s + tax %s",
			model.ErrInconsistentDocumentTotals, bill.Number,
			bill.TotalAmount.StringFixed(2), bill.Subtotal.StringFixed(2), bill.TaxAmount.StringFixed(2))
	}

	var lines []journal.Line
	if len(bill.Items) == 0 {
		lines = append(lines, journal.Line{AccountCode: s.control.Expense, Debit: bill.Subtotal})
	}
	for account, amount := range creditsByAccount(billLines(bill), s.control.Expense) {
		lines = append(lines, journal.Line{AccountCode: account, Debit: amount})
	}
	if bill.TaxAmount.IsPositive() {
		lines = append(lines, journal.Line{AccountCode: s.control.TaxReceivable, Debit: bill.TaxAmount})
	}
	lines = append(lines, journal.Line{AccountCode: s.control.Payable, Credit: bill.TotalAmount})

	var entry *model.JournalEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err = s.postEntry(ctx, tx, journal.CreateDraftParams{
			Date:        bill.Date,
			Reference:   ref.ForDocument(ref.PrefixBill, bill.Number),
			Description: fmt.Sprintf("Bill %s - %s", bill.Number, bill.VendorName),
			Lines:       lines,
		})
		if err != nil {
			return err
		}

		return tx.Model(bill).Updates(map[string]any{
			"journal_entry_id": entry.ID,
			"status":           model.DocumentOpen,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostInvoicePayment records a customer payment: debit cash, credit AR,
// and increase the invoice's paid amount, all in one transaction.
func (s *Service) PostInvoicePayment(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*model.JournalEntry, error) {
	invoice, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.JournalEntryID == nil {
		return nil, fmt.Errorf("invoice %s has not been posted", invoice.Number)
	}
	if err := checkPaymentAmount(amount, invoice.Balance()); err != nil {
		return nil, err
	}

	var entry *model.JournalEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, err := s.nextPaymentReference(tx, ref.PrefixInvoice, invoice.Number)
		if err != nil {
			return err
		}

		entry, err = s.postEntry(ctx, tx, journal.CreateDraftParams{
			Date:        paymentDate,
			Reference:   reference,
			Description: fmt.Sprintf("Payment for invoice %s", invoice.Number),
			Lines: []journal.Line{
				{AccountCode: s.control.Cash, Debit: amount},
				{AccountCode: s.control.Receivable, Credit: amount},
			},
		})
		if err != nil {
			return err
		}

		paid := invoice.PaidAmount.Add(amount)
		return tx.Model(invoice).Updates(map[string]any{
			"paid_amount": paid,
			"status":      paymentStatus(paid, invoice.TotalAmount),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostBillPayment records a vendor payment: debit AP, credit cash, and
// increase the bill's paid amount, all in one transaction.
func (s *Service) PostBillPayment(ctx context.Context, billID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*model.JournalEntry, error) {
	bill, err := s.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.JournalEntryID == nil {
		return nil, fmt.Errorf("bill %s has not been posted", bill.Number)
	}
	if err := checkPaymentAmount(amount, bill.Balance()); err != nil {
		return nil, err
	}

	var entry *model.JournalEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reference, err := s.nextPaymentReference(tx, ref.PrefixBill, bill.Number)
		if err != nil {
			return err
		}

		entry, err = s.postEntry(ctx, tx, journal.CreateDraftParams{
			Date:        paymentDate,
			Reference:   reference,
			Description: fmt.Sprintf("Payment for bill %s", bill.Number),
			Lines: []journal.Line{
				{AccountCode: s.control.Payable, Debit: amount},
				{AccountCode: s.control.Cash, Credit: amount},
			},
		})
		if err != nil {
			return err
		}

		paid := bill.PaidAmount.Add(amount)
		return tx.Model(bill).Updates(map[string]any{
			"paid_amount": paid,
			"status":      paymentStatus(paid, bill.TotalAmount),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// postEntry creates and immediately posts an entry through the journal
// service, scoped to the bridge's transaction so the whole bridge call
// commits or rolls back as one.
func (s *Service) postEntry(ctx context.Context, tx *gorm.DB, params journal.CreateDraftParams) (*model.JournalEntry, error) {
	scoped := journal.NewService(tx, coa.NewRegistry(tx))
	entry, err := scoped.CreateDraft(ctx, params)
	if err != nil {
		return nil, err
	}
	return scoped.Post(ctx, entry.Reference)
}

func (s *Service) nextPaymentReference(tx *gorm.DB, docPrefix, number string) (string, error) {
	prefix := ref.ForPayment(docPrefix, number, 0)
	prefix = prefix[:len(prefix)-1] // keep the trailing dash

	var count int64
	err := tx.Model(&model.JournalEntry{}).
		Where("reference LIKE ?", prefix+"%").Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("counting payments: %w", err)
	}
	return ref.ForPayment(docPrefix, number, int(count)+1), nil
}

func checkPaymentAmount(amount, balance decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", model.ErrInvalidLine)
	}
	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: payment %s exceeds open balance %s",
			model.ErrInvalidLine, amount.StringFixed(2), balance.StringFixed(2))
	}
	return nil
}

func paymentStatus(paid, total decimal.Decimal) model.DocumentStatus {
	if paid.GreaterThanOrEqual(total) {
		return model.DocumentPaid
	}
	return model.DocumentPartial
}

// docLine is the account/amount pair a document line bridges to.
type docLine struct {
	accountCode string
	amount      decimal.Decimal
}

func invoiceLines(invoice *model.Invoice) []docLine {
	lines := make([]docLine, len(invoice.Items))
	for i, item := range invoice.Items {
		lines[i] = docLine{accountCode: item.AccountCode, amount: item.LineTotal}
	}
	return lines
}

func billLines(bill *model.Bill) []docLine {
	lines := make([]docLine, len(bill.Items))
	for i, item := range bill.Items {
		lines[i] = docLine{accountCode: item.AccountCode, amount: item.LineTotal}
	}
	return lines
}

// creditsByAccount groups line totals by their account, falling back to
// the default account for lines without one.
func creditsByAccount(lines []docLine, defaultAccount string) map[string]decimal.Decimal {
	grouped := make(map[string]decimal.Decimal)
	for _, line := range lines {
		account := line.accountCode
		if account == "" {
			account = defaultAccount
		}
		grouped[account] = grouped[account].Add(line.amount)
	}
	return grouped
}
