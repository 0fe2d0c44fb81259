package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
	StatusVoid   EntryStatus = "void"
)

// CanTransition reports whether the status may move to next. The only legal
// moves are draft->posted, draft->void and posted->void.
func (s EntryStatus) CanTransition(next EntryStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusPosted || next == StatusVoid
	case StatusPosted:
		return next == StatusVoid
	}
	return false
}

// JournalEntry groups the debit and credit lines of one accounting event.
// Entries are created as drafts and only become visible to balance
// computations once posted. Voiding keeps the entry and its items for
// audit but removes their ledger effect.
type JournalEntry struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	Reference   string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	Date        time.Time     `gorm:"not null;index" json:"date"`
	Description string        `gorm:"type:text" json:"description"`
	Status      EntryStatus   `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	Items       []JournalItem `gorm:"foreignKey:EntryID" json:"items"`
	PostedAt    *time.Time    `json:"posted_at,omitempty"`
	VoidedAt    *time.Time    `json:"voided_at,omitempty"`
	VoidReason  string        `gorm:"type:varchar(500)" json:"void_reason,omitempty"`
	CreatedAt   time.Time     `json:"-"`
	UpdatedAt   time.Time     `json:"-"`
}

// TableName sets the gorm table name.
func (JournalEntry) TableName() string { return "journal_entries" }

// TotalDebit sums the debit side of all items.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.Items {
		total = total.Add(it.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all items.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.Items {
		total = total.Add(it.Credit)
	}
	return total
}

// Balanced reports whether debits equal credits exactly.
func (e *JournalEntry) Balanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}

// JournalItem is one line of a journal entry: a debit or a credit against
// a single account, never both. Immutable once the parent entry is posted.
type JournalItem struct {
	ID          uint            `gorm:"primaryKey" json:"-"`
	EntryID     uint            `gorm:"not null;index" json:"-"`
	AccountCode string          `gorm:"type:varchar(32);not null;index" json:"account_code"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"credit"`
}

// TableName sets the gorm table name.
func (JournalItem) TableName() string { return "journal_items" }
