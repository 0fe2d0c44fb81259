package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/coa"
	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// TrialBalanceRow is one account's balance placed in its debit or credit
// column.
type TrialBalanceRow struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with a nonzero balance as of a date.
// A nonzero Diff means the ledger itself is out of balance: an upstream
// posting bug. The report presents it; it does not hide it.
type TrialBalance struct {
	Date        time.Time         `json:"date"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Diff        decimal.Decimal   `json:"diff"`
}

// TrialBalance generates the trial balance as of end of day on date.
func (s *Service) TrialBalance(ctx context.Context, date time.Time) (*TrialBalance, error) {
	accounts, err := s.registry.List(coa.Filter{})
	if err != nil {
		return nil, err
	}
	balances, err := s.agg.AllBalancesAsOf(ctx, accounts, date)
	if err != nil {
		return nil, err
	}

	report := &TrialBalance{
		Date:        date,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, account := range accounts {
		balance, ok := balances[account.Code]
		if !ok || balance.IsZero() {
			continue
		}

		row := TrialBalanceRow{Code: account.Code, Name: account.Name}
		// A positive natural balance sits on the account's normal side; a
		// negative one flips to the opposite column.
		side := account.Type.NormalSide()
		if balance.IsNegative() {
			side = opposite(side)
			balance = balance.Neg()
		}
		if side == model.SideDebit {
			row.Debit = balance
		} else {
			row.Credit = balance
		}

		report.Rows = append(report.Rows, row)
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}

	report.Diff = report.TotalDebit.Sub(report.TotalCredit)
	return report, nil
}

func opposite(side model.Side) model.Side {
	if side == model.SideDebit {
		return model.SideCredit
	}
	return model.SideDebit
}
