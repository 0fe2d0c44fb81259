package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// AccountBalance is one account's natural-sign balance within a report
// section.
type AccountBalance struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheet groups asset, liability and equity balances as of a date.
// Income accounts roll into equity through the computed CurrentEarnings
// line (no closing entries are ever posted), so TotalAssets equals
// TotalLiabilities + TotalEquity on a healthy ledger. Diff exposes any
// departure instead of hiding it.
type BalanceSheet struct {
	Date             time.Time        `json:"date"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	CurrentEarnings  decimal.Decimal  `json:"current_earnings"`
	TotalAssets      decimal.Decimal  `json:"total_assets"`
	TotalLiabilities decimal.Decimal  `json:"total_liabilities"`
	TotalEquity      decimal.Decimal  `json:"total_equity"`
	Diff             decimal.Decimal  `json:"diff"`
}

// BalanceSheet generates the balance sheet as of end of day on date.
func (s *Service) BalanceSheet(ctx context.Context, date time.Time) (*BalanceSheet, error) {
	accounts, err := s.registry.List(coa.Filter{})
	if err != nil {
		return nil, err
	}
	balances, err := s.agg.AllBalancesAsOf(ctx, accounts, date)
	if err != nil {
		return nil, err
	}

	report := &BalanceSheet{
		Date:             date,
		CurrentEarnings:  decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}

	for _, account := range accounts {
		balance, ok := balances[account.Code]
		if !ok || balance.IsZero() {
			continue
		}
		line := AccountBalance{Code: account.Code, Name: account.Name, Balance: balance}

		switch account.Type {
		case model.AccountTypeAsset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case model.AccountTypeLiability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case model.AccountTypeEquity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(balance)
		case model.AccountTypeRevenue:
			report.CurrentEarnings = report.CurrentEarnings.Add(balance)
		case model.AccountTypeExpense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(balance)
		}
	}

	// Income accounts roll into equity here.
	report.TotalEquity = report.TotalEquity.Add(report.CurrentEarnings)
	report.Diff = report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity)
	return report, nil
}
