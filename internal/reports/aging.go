package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucket is a due-date-relative band for outstanding documents.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "current"
	Bucket0to30   AgingBucket = "0-30"
	Bucket31to60  AgingBucket = "31-60"
	Bucket61to90  AgingBucket = "61-90"
	BucketOver90  AgingBucket = "90+"
)

// BucketForAge maps days overdue onto a bucket. Zero or negative age
// (not yet due) is current.
func BucketForAge(ageDays int) AgingBucket {
	switch {
	case ageDays <= 0:
		return BucketCurrent
	case ageDays <= 30:
		return Bucket0to30
	case ageDays <= 60:
		return Bucket31to60
	case ageDays <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}

// AgingRow is one open document with its overdue age and bucket.
type AgingRow struct {
	Number   string          `json:"number"`
	Party    string          `json:"party"`
	DueDate  time.Time       `json:"due_date"`
	AgeDays  int             `json:"age_days"`
	Bucket   AgingBucket     `json:"bucket"`
	Balance  decimal.Decimal `json:"balance"`
}

// AgingReport buckets open receivables or payables by overdue severity.
// GrandTotal equals the sum of all open balances of the document type.
type AgingReport struct {
	Date         time.Time                       `json:"date"`
	Rows         []AgingRow                      `json:"rows"`
	BucketTotals map[AgingBucket]decimal.Decimal `json:"bucket_totals"`
	GrandTotal   decimal.Decimal                 `json:"grand_total"`
}

// AgedReceivables buckets open customer invoices by days overdue at date.
func (s *Service) AgedReceivables(ctx context.Context, date time.Time) (*AgingReport, error) {
	invoices, err := s.docs.OpenInvoices(ctx)
	if err != nil {
		return nil, err
	}

	report := newAgingReport(date)
	for _, invoice := range invoices {
		report.add(AgingRow{
			Number:  invoice.Number,
			Party:   invoice.CustomerName,
			DueDate: invoice.DueDate,
		}, invoice.Balance(), date)
	}
	return report, nil
}

// AgedPayables buckets open vendor bills by days overdue at date.
func (s *Service) AgedPayables(ctx context.Context, date time.Time) (*AgingReport, error) {
	bills, err := s.docs.OpenBills(ctx)
	if err != nil {
		return nil, err
	}

	report := newAgingReport(date)
	for _, bill := range bills {
		report.add(AgingRow{
			Number:  bill.Number,
			Party:   bill.VendorName,
			DueDate: bill.DueDate,
		}, bill.Balance(), date)
	}
	return report, nil
}

func newAgingReport(date time.Time) *AgingReport {
	totals := make(map[AgingBucket]decimal.Decimal, 5)
	for _, b := range []AgingBucket{BucketCurrent, Bucket0to30, Bucket31to60, Bucket61to90, BucketOver90} {
		totals[b] = decimal.Zero
	}
	return &AgingReport{Date: date, BucketTotals: totals, GrandTotal: decimal.Zero}
}

func (r *AgingReport) add(row AgingRow, balance decimal.Decimal, asOf time.Time) {
	row.AgeDays = ageDays(asOf, row.DueDate)
	row.Bucket = BucketForAge(row.AgeDays)
	row.Balance = balance

	r.Rows = append(r.Rows, row)
	r.BucketTotals[row.Bucket] = r.BucketTotals[row.Bucket].Add(balance)
	r.GrandTotal = r.GrandTotal.Add(balance)
}

// ageDays counts whole days from dueDate to asOf, by calendar date.
func ageDays(asOf, dueDate time.Time) int {
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(d).Hours() / 24)
}
