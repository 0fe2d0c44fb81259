package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// IncomeStatement reports revenue and expense flows over a period.
type IncomeStatement struct {
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Revenue      []AccountBalance `json:"revenue"`
	Expenses     []AccountBalance `json:"expenses"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	TotalExpense decimal.Decimal  `json:"total_expense"`
	NetIncome    decimal.Decimal  `json:"net_income"`
}

// IncomeStatement generates the income statement over [start, end].
// Revenue and expense accounts are measured as period flows; the
// underlying store never zeroes them, the window does.
func (s *Service) IncomeStatement(ctx context.Context, start, end time.Time) (*IncomeStatement, error) {
	accounts, err := s.registry.List(coa.Filter{})
	if err != nil {
		return nil, err
	}
	activity, err := s.agg.AllPeriodActivity(ctx, accounts, start, end)
	if err != nil {
		return nil, err
	}

	report := &IncomeStatement{
		Start:        start,
		End:          end,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, account := range accounts {
		amount, ok := activity[account.Code]
		if !ok || amount.IsZero() {
			continue
		}
		line := AccountBalance{Code: account.Code, Name: account.Name, Balance: amount}

		switch account.Type {
		case model.AccountTypeRevenue:
			report.Revenue = append(report.Revenue, line)
			report.TotalRevenue = report.TotalRevenue.Add(amount)
		case model.AccountTypeExpense:
			report.Expenses = append(report.Expenses, line)
			report.TotalExpense = report.TotalExpense.Add(amount)
		}
	}

	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpense)
	return report, nil
}
