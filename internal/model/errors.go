package model

import "errors"

// Error taxonomy for the ledger engine. Mutating operations are
// all-or-nothing: any of these failures leaves stored state untouched.
var (
	// ErrAccountNotFound is returned for lookups of unknown account codes.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccountCode is returned when creating an account whose
	// code already exists.
	ErrDuplicateAccountCode = errors.New("duplicate account code")

	// ErrAccountReferenced is returned when deleting an account that is
	// referenced by a journal item.
	ErrAccountReferenced = errors.New("account referenced by journal items")

	// ErrUnbalancedEntry is returned when an entry's debits do not equal
	// its credits.
	ErrUnbalancedEntry = errors.New("journal entry debits do not equal credits")

	// ErrInvalidLine is returned for a malformed journal line: both sides
	// set, both zero, negative, or more than two decimal places.
	ErrInvalidLine = errors.New("invalid journal line")

	// ErrDuplicateReference is returned when creating an entry with a
	// reference that already exists.
	ErrDuplicateReference = errors.New("duplicate journal reference")

	// ErrInvalidStateTransition is returned for posting or voiding from
	// the wrong status. Safe to retry once the entry is in a legal state.
	ErrInvalidStateTransition = errors.New("invalid entry state transition")

	// ErrEntryNotFound is returned for lookups of unknown entries.
	ErrEntryNotFound = errors.New("journal entry not found")

	// ErrAlreadyPosted is returned by the subsidiary ledger bridge when a
	// document already has a linked journal entry. Callers may treat it
	// as a benign no-op.
	ErrAlreadyPosted = errors.New("document already posted")

	// ErrInconsistentDocumentTotals is returned when a document's
	// total_amount does not match its subtotal, tax and discount.
	ErrInconsistentDocumentTotals = errors.New("inconsistent document totals")

	// ErrDocumentNotFound is returned for lookups of unknown invoices or
	// bills.
	ErrDocumentNotFound = errors.New("document not found")
)
