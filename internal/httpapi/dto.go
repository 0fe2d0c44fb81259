package httpapi

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/journal"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

const dateFormat = "2006-01-02"

// CreateAccountRequest is the payload for POST /accounts.
type CreateAccountRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
	SubType string `json:"sub_type"`
}

// EntryLineRequest is one requested journal line. Amounts travel as
// strings to keep exact decimals across the wire.
type EntryLineRequest struct {
	AccountCode string `json:"account_code" binding:"required"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

// CreateEntryRequest is the payload for POST /journal/entries.
type CreateEntryRequest struct {
	Date        string             `json:"date" binding:"required"`
	Reference   string             `json:"reference"`
	Description string             `json:"description"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2"`
}

// toParams converts the request into journal service parameters.
func (r CreateEntryRequest) toParams() (journal.CreateDraftParams, error) {
	date, err := time.Parse(dateFormat, r.Date)
	if err != nil {
		return journal.CreateDraftParams{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	params := journal.CreateDraftParams{
		Date:        date,
		Reference:   r.Reference,
		Description: r.Description,
	}
	for _, line := range r.Lines {
		debit, err := parseAmount(line.Debit)
		if err != nil {
			return journal.CreateDraftParams{}, err
		}
		credit, err := parseAmount(line.Credit)
		if err != nil {
			return journal.CreateDraftParams{}, err
		}
		params.Lines = append(params.Lines, journal.Line{
			AccountCode: line.AccountCode,
			Debit:       debit,
			Credit:      credit,
		})
	}
	return params, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// VoidEntryRequest is the payload for POST /journal/entries/:ref/void.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PaymentRequest is the payload for document payment endpoints.
type PaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// DocumentItemRequest is one line on an incoming invoice or bill.
type DocumentItemRequest struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	LineTotal   string `json:"line_total" binding:"required"`
	AccountCode string `json:"account_code"`
	ProductRef  string `json:"product_ref"`
}

// CreateInvoiceRequest is the payload for POST /invoices.
type CreateInvoiceRequest struct {
	Number         string                `json:"number" binding:"required"`
	CustomerName   string                `json:"customer_name" binding:"required"`
	Date           string                `json:"date" binding:"required"`
	DueDate        string                `json:"due_date" binding:"required"`
	Subtotal       string                `json:"subtotal" binding:"required"`
	TaxAmount      string                `json:"tax_amount"`
	DiscountAmount string                `json:"discount_amount"`
	TotalAmount    string                `json:"total_amount" binding:"required"`
	Items          []DocumentItemRequest `json:"items"`
}

func (r CreateInvoiceRequest) toModel() (*model.Invoice, error) {
	date, err := time.Parse(dateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	due, err := time.Parse(dateFormat, r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date %q: %w", r.DueDate, err)
	}

	invoice := &model.Invoice{
		Number:       r.Number,
		CustomerName: r.CustomerName,
		Date:         date,
		DueDate:      due,
	}
	if invoice.Subtotal, err = parseAmount(r.Subtotal); err != nil {
		return nil, err
	}
	if invoice.TaxAmount, err = parseAmount(r.TaxAmount); err != nil {
		return nil, err
	}
	if invoice.DiscountAmount, err = parseAmount(r.DiscountAmount); err != nil {
		return nil, err
	}
	if invoice.TotalAmount, err = parseAmount(r.TotalAmount); err != nil {
		return nil, err
	}

	for _, item := range r.Items {
		line, err := item.toInvoiceItem()
		if err != nil {
			return nil, err
		}
		invoice.Items = append(invoice.Items, line)
	}
	return invoice, nil
}

func (r DocumentItemRequest) toInvoiceItem() (model.InvoiceItem, error) {
	var item model.InvoiceItem
	var err error
	if item.Quantity, err = parseAmount(r.Quantity); err != nil {
		return item, err
	}
	if item.UnitPrice, err = parseAmount(r.UnitPrice); err != nil {
		return item, err
	}
	if item.LineTotal, err = parseAmount(r.LineTotal); err != nil {
		return item, err
	}
	item.Description = r.Description
	item.AccountCode = r.AccountCode
	item.ProductRef = r.ProductRef
	return item, nil
}

// CreateBillRequest is the payload for POST /bills.
type CreateBillRequest struct {
	Number      string                `json:"number" binding:"required"`
	VendorName  string                `json:"vendor_name" binding:"required"`
	Date        string                `json:"date" binding:"required"`
	DueDate     string                `json:"due_date" binding:"required"`
	Subtotal    string                `json:"subtotal" binding:"required"`
	TaxAmount   string                `json:"tax_amount"`
	TotalAmount string                `json:"total_amount" binding:"required"`
	Items       []DocumentItemRequest `json:"items"`
}

func (r CreateBillRequest) toModel() (*model.Bill, error) {
	date, err := time.Parse(dateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	due, err := time.Parse(dateFormat, r.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date %q: %w", r.DueDate, err)
	}

	bill := &model.Bill{
		Number:     r.Number,
		VendorName: r.VendorName,
		Date:       date,
		DueDate:    due,
	}
	if bill.Subtotal, err = parseAmount(r.Subtotal); err != nil {
		return nil, err
	}
	if bill.TaxAmount, err = parseAmount(r.TaxAmount); err != nil {
		return nil, err
	}
	if bill.TotalAmount, err = parseAmount(r.TotalAmount); err != nil {
		return nil, err
	}

	for _, item := range r.Items {
		var line model.BillItem
		invLine, err := item.toInvoiceItem()
		if err != nil {
			return nil, err
		}
		line.Description = invLine.Description
		line.Quantity = invLine.Quantity
		line.UnitPrice = invLine.UnitPrice
		line.LineTotal = invLine.LineTotal
		line.AccountCode = invLine.AccountCode
		line.ProductRef = invLine.ProductRef
		bill.Items = append(bill.Items, line)
	}
	return bill, nil
}
