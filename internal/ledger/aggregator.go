package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// Aggregator computes account balances by summing posted journal items.
// There is no stored running balance anywhere in the engine; every figure
// is a fresh summation over the requested window, so balances cannot
// drift from the items that produced them. Draft and void entries are
// invisible.
type Aggregator struct {
	db       *gorm.DB
	accounts AccountLookup
}

// AccountLookup resolves account codes to accounts. Satisfied by
// coa.Registry.
type AccountLookup interface {
	Get(code string) (*model.Account, error)
}

// NewAggregator creates an Aggregator over a database handle.
func NewAggregator(db *gorm.DB, accounts AccountLookup) *Aggregator {
	return &Aggregator{db: db, accounts: accounts}
}

// row is the raw summation result for one account.
type row struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// BalanceAsOf returns the account's cumulative balance at end of day on
// date, expressed on the account's natural side: positive means a healthy
// balance in the account's own terms, for debit-normal and credit-normal
// accounts alike.
func (a *Aggregator) BalanceAsOf(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	account, err := a.accounts.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := a.sumOne(ctx, code, nil, &date)
	if err != nil {
		return decimal.Zero, err
	}
	return naturalSign(account.Type, raw), nil
}

// PeriodActivity returns the account's net flow over [start, end],
// expressed on the account's natural side. This is the meaningful measure
// for revenue and expense accounts, which conceptually reset at period
// boundaries.
func (a *Aggregator) PeriodActivity(ctx context.Context, code string, start, end time.Time) (decimal.Decimal, error) {
	account, err := a.accounts.Get(code)
	if err != nil {
		return decimal.Zero, err
	}
	raw, err := a.sumOne(ctx, code, &start, &end)
	if err != nil {
		return decimal.Zero, err
	}
	return naturalSign(account.Type, raw), nil
}

// AllBalancesAsOf returns natural-sign balances for every account with
// posted activity up to date, keyed by account code, in one query.
func (a *Aggregator) AllBalancesAsOf(ctx context.Context, accounts []model.Account, date time.Time) (map[string]decimal.Decimal, error) {
	return a.sumAll(ctx, accounts, nil, &date)
}

// AllPeriodActivity returns natural-sign period flows for every account
// with posted activity in [start, end], keyed by account code.
func (a *Aggregator) AllPeriodActivity(ctx context.Context, accounts []model.Account, start, end time.Time) (map[string]decimal.Decimal, error) {
	return a.sumAll(ctx, accounts, &start, &end)
}

func (a *Aggregator) sumOne(ctx context.Context, code string, start, end *time.Time) (decimal.Decimal, error) {
	rows, err := a.query(ctx, start, end, code)
	if err != nil {
		return decimal.Zero, err
	}
	if len(rows) == 0 {
		return decimal.Zero, nil
	}
	return rows[0].Debit.Sub(rows[0].Credit), nil
}

func (a *Aggregator) sumAll(ctx context.Context, accounts []model.Account, start, end *time.Time) (map[string]decimal.Decimal, error) {
	typeByCode := make(map[string]model.AccountType, len(accounts))
	for _, acc := range accounts {
		typeByCode[acc.Code] = acc.Type
	}

	rows, err := a.query(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		accountType, ok := typeByCode[r.AccountCode]
		if !ok {
			// Posted item against an account not in the caller's set;
			// surface it raw so the discrepancy stays visible.
			balances[r.AccountCode] = r.Debit.Sub(r.Credit)
			continue
		}
		balances[r.AccountCode] = naturalSign(accountType, r.Debit.Sub(r.Credit))
	}
	return balances, nil
}

// query sums debit and credit per account over posted entries in the
// window. A nil start means "from the beginning of the books".
func (a *Aggregator) query(ctx context.Context, start, end *time.Time, code string) ([]row, error) {
	q := a.db.WithContext(ctx).Model(&model.JournalItem{}).
		Select("journal_items.account_code, SUM(journal_items.debit) AS debit, SUM(journal_items.credit) AS credit").
		Joins("JOIN journal_entries ON journal_entries.id = journal_items.entry_id").
		Where("journal_entries.status = ?", model.StatusPosted).
		Group("journal_items.account_code")

	if code != "" {
		q = q.Where("journal_items.account_code = ?", code)
	}
	if start != nil {
		q = q.Where("journal_entries.date >= ?", dayStart(*start))
	}
	if end != nil {
		q = q.Where("journal_entries.date <= ?", dayEnd(*end))
	}

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("summing journal items: %w", err)
	}
	return rows, nil
}

// PostedEntriesTouching returns posted entries dated within [start, end]
// that have at least one item against any of the given account codes,
// with all items preloaded. Used by the cash flow report to examine
// counter-accounts.
func (a *Aggregator) PostedEntriesTouching(ctx context.Context, codes []string, start, end time.Time) ([]model.JournalEntry, error) {
	var entryIDs []uint
	err := a.db.WithContext(ctx).Model(&model.JournalItem{}).
		Distinct("entry_id").
		Where("account_code IN ?", codes).
		Pluck("entry_id", &entryIDs).Error
	if err != nil {
		return nil, fmt.Errorf("finding entries touching accounts: %w", err)
	}
	if len(entryIDs) == 0 {
		return nil, nil
	}

	var entries []model.JournalEntry
	err = a.db.WithContext(ctx).Preload("Items").
		Where("id IN ? AND status = ? AND date >= ? AND date <= ?",
			entryIDs, model.StatusPosted, dayStart(start), dayEnd(end)).
		Order("date, reference").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	return entries, nil
}

// naturalSign negates the raw debit-minus-credit figure for credit-normal
// accounts, so liabilities, equity and revenue read positive when healthy.
func naturalSign(accountType model.AccountType, debitMinusCredit decimal.Decimal) decimal.Decimal {
	if accountType.NormalSide() == model.SideCredit {
		return debitMinusCredit.Neg()
	}
	return debitMinusCredit
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
