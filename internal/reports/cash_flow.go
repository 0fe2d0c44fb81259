package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// CashFlowStatement classifies cash movements over a period into
// operating, investing and financing buckets by the type of the
// counter-account on each posted entry. This is a transaction
// classification approximation, not an indirect-method reconciliation:
// non-cash adjustments such as depreciation never touch cash and so
// never appear here.
type CashFlowStatement struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Operating       decimal.Decimal `json:"operating"`
	Investing       decimal.Decimal `json:"investing"`
	Financing       decimal.Decimal `json:"financing"`
	NetChangeInCash decimal.Decimal `json:"net_change_in_cash"`
	OpeningCash     decimal.Decimal `json:"opening_cash"`
	ClosingCash     decimal.Decimal `json:"closing_cash"`
}

// CashFlowStatement generates the cash flow statement over [start, end].
// NetChangeInCash always equals the change in the cash accounts' balances
// over the same window.
func (s *Service) CashFlowStatement(ctx context.Context, start, end time.Time) (*CashFlowStatement, error) {
	cashAccts, err := s.cashAccounts(ctx)
	if err != nil {
		return nil, err
	}
	cashCodes := make(map[string]bool, len(cashAccts))
	codes := make([]string, 0, len(cashAccts))
	for _, account := range cashAccts {
		cashCodes[account.Code] = true
		codes = append(codes, account.Code)
	}

	report := &CashFlowStatement{
		Start:     start,
		End:       end,
		Operating: decimal.Zero,
		Investing: decimal.Zero,
		Financing: decimal.Zero,
	}

	entries, err := s.agg.PostedEntriesTouching(ctx, codes, start, end)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		s.classifyEntry(&entry, cashCodes, report)
	}

	report.NetChangeInCash = report.Operating.Add(report.Investing).Add(report.Financing)

	report.OpeningCash = decimal.Zero
	report.ClosingCash = decimal.Zero
	for _, account := range cashAccts {
		opening, err := s.agg.BalanceAsOf(ctx, account.Code, start.AddDate(0, 0, -1))
		if err != nil {
			return nil, err
		}
		closing, err := s.agg.BalanceAsOf(ctx, account.Code, end)
		if err != nil {
			return nil, err
		}
		report.OpeningCash = report.OpeningCash.Add(opening)
		report.ClosingCash = report.ClosingCash.Add(closing)
	}

	return report, nil
}

// classifyEntry spreads an entry's net cash movement across its
// counter-items in proportion to their amounts and adds each share to
// the counter-account's bucket.
func (s *Service) classifyEntry(entry *model.JournalEntry, cashCodes map[string]bool, report *CashFlowStatement) {
	cashDelta := decimal.Zero
	var counters []model.JournalItem
	for _, item := range entry.Items {
		if cashCodes[item.AccountCode] {
			cashDelta = cashDelta.Add(item.Debit).Sub(item.Credit)
		} else {
			counters = append(counters, item)
		}
	}

	// Cash-to-cash transfers have no counters and net to zero.
	if cashDelta.IsZero() || len(counters) == 0 {
		return
	}

	counterTotal := decimal.Zero
	for _, item := range counters {
		counterTotal = counterTotal.Add(item.Debit).Add(item.Credit)
	}
	if counterTotal.IsZero() {
		return
	}

	remaining := cashDelta
	for i, item := range counters {
		var share decimal.Decimal
		if i == len(counters)-1 {
			// Last counter absorbs rounding so the shares sum exactly.
			share = remaining
		} else {
			weight := item.Debit.Add(item.Credit)
			share = cashDelta.Mul(weight).DivRound(counterTotal, 2)
			remaining = remaining.Sub(share)
		}

		switch s.bucketFor(item.AccountCode) {
		case bucketInvesting:
			report.Investing = report.Investing.Add(share)
		case bucketFinancing:
			report.Financing = report.Financing.Add(share)
		default:
			report.Operating = report.Operating.Add(share)
		}
	}
}

type cashBucket int

const (
	bucketOperating cashBucket = iota
	bucketInvesting
	bucketFinancing
)

// bucketFor maps a counter-account to its cash flow bucket:
// revenue/expense and working-capital assets (AR, inventory, prepaids)
// are operating; fixed assets and their depreciation are investing;
// liabilities and equity are financing.
func (s *Service) bucketFor(accountCode string) cashBucket {
	account, err := s.registry.Get(accountCode)
	if err != nil {
		// Item against a deleted or unknown account; keep the movement
		// visible in operating rather than dropping it.
		return bucketOperating
	}

	switch account.Type {
	case model.AccountTypeAsset:
		if account.SubType == model.SubTypeFixedAsset || account.SubType == model.SubTypeAccumulatedDepr {
			return bucketInvesting
		}
		return bucketOperating
	case model.AccountTypeLiability, model.AccountTypeEquity:
		return bucketFinancing
	default:
		return bucketOperating
	}
}
