package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// ValidationError describes a single invariant violation on an entry.
type ValidationError struct {
	Invariant   int
	Reference   string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Reference, e.Description)
}

// AccountChecker tests whether an account code exists in the chart of
// accounts.
type AccountChecker interface {
	Exists(code string) bool
}

var hundred = decimal.NewFromInt(100)

// twoDecimalPlaces reports whether d survives scaling to minor units
// without a remainder.
func twoDecimalPlaces(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Floor())
}

// ValidateEntry enforces the posting invariants on one entry:
//
//  1. sum(debits) == sum(credits)
//  2. each item is a debit line or a credit line, never both, never neither
//  3. amounts are non-negative
//  4. amounts have at most 2 decimal places
//  5. every item references a known account
//  6. the entry has at least two items
func ValidateEntry(entry *model.JournalEntry, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	if len(entry.Items) < 2 {
		errs = append(errs, ValidationError{
			Invariant:   6,
			Reference:   entry.Reference,
			Description: fmt.Sprintf("entry has %d item(s), need at least 2", len(entry.Items)),
		})
	}

	for i, item := range entry.Items {
		line := fmt.Sprintf("item %d", i+1)

		if item.Debit.IsNegative() || item.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Reference:   entry.Reference,
				Description: fmt.Sprintf("%s: negative amount", line),
			})
			continue
		}

		hasDebit := !item.Debit.IsZero()
		hasCredit := !item.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Reference:   entry.Reference,
				Description: fmt.Sprintf("%s: must have exactly one of debit or credit", line),
			})
		}

		if !twoDecimalPlaces(item.Debit) || !twoDecimalPlaces(item.Credit) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Reference:   entry.Reference,
				Description: fmt.Sprintf("%s: more than 2 decimal places", line),
			})
		}

		if !accounts.Exists(item.AccountCode) {
			errs = append(errs, ValidationError{
				Invariant:   5,
				Reference:   entry.Reference,
				Description: fmt.Sprintf("%s: unknown account %q", line, item.AccountCode),
			})
		}
	}

	if !entry.Balanced() {
		errs = append(errs, ValidationError{
			Invariant: 1,
			Reference: entry.Reference,
			Description: fmt.Sprintf("debits (%s) != credits (%s)",
				entry.TotalDebit().StringFixed(2), entry.TotalCredit().StringFixed(2)),
		})
	}

	return errs
}
