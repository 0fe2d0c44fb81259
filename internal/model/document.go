package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStatus is the lifecycle state of an invoice or bill.
type DocumentStatus string

const (
	DocumentDraft   DocumentStatus = "draft"
	DocumentOpen    DocumentStatus = "open"
	DocumentPartial DocumentStatus = "partial"
	DocumentPaid    DocumentStatus = "paid"
)

// Invoice is a customer (accounts receivable) document. It arrives fully
// formed from the AR module; the ledger engine only checks that its totals
// are internally consistent before bridging it to a journal entry.
type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"number"`
	CustomerName   string          `gorm:"type:varchar(200);not null" json:"customer_name"`
	Date           time.Time       `gorm:"not null" json:"date"`
	DueDate        time.Time       `gorm:"not null;index" json:"due_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Status         DocumentStatus  `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
	JournalEntryID *uint           `gorm:"index" json:"-"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}

// TableName sets the gorm table name.
func (Invoice) TableName() string { return "invoices" }

// Balance is the amount still owed by the customer.
func (i *Invoice) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// TotalsConsistent reports whether total == subtotal + tax - discount.
func (i *Invoice) TotalsConsistent() bool {
	return i.TotalAmount.Equal(i.Subtotal.Add(i.TaxAmount).Sub(i.DiscountAmount))
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
	AccountCode string          `gorm:"type:varchar(32)" json:"account_code,omitempty"`
	ProductRef  string          `gorm:"type:varchar(64)" json:"product_ref,omitempty"`
}

// TableName sets the gorm table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// Bill is a vendor (accounts payable) document. Bills carry no discount.
type Bill struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number         string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"number"`
	VendorName     string          `gorm:"type:varchar(200);not null" json:"vendor_name"`
	Date           time.Time       `gorm:"not null" json:"date"`
	DueDate        time.Time       `gorm:"not null;index" json:"due_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Status         DocumentStatus  `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Items          []BillItem      `gorm:"foreignKey:BillID" json:"items"`
	JournalEntryID *uint           `gorm:"index" json:"-"`
	CreatedAt      time.Time       `json:"-"`
	UpdatedAt      time.Time       `json:"-"`
}

// TableName sets the gorm table name.
func (Bill) TableName() string { return "bills" }

// Balance is the amount still owed to the vendor.
func (b *Bill) Balance() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount)
}

// TotalsConsistent reports whether total == subtotal + tax.
func (b *Bill) TotalsConsistent() bool {
	return b.TotalAmount.Equal(b.Subtotal.Add(b.TaxAmount))
}

// BillItem is one line on a bill.
type BillItem struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	BillID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
	AccountCode string          `gorm:"type:varchar(32)" json:"account_code,omitempty"`
	ProductRef  string          `gorm:"type:varchar(64)" json:"product_ref,omitempty"`
}

// TableName sets the gorm table name.
func (BillItem) TableName() string { return "bill_items" }
