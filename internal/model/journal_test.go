package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEntryStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from EntryStatus
		to   EntryStatus
		want bool
	}{
		{StatusDraft, StatusPosted, true},
		{StatusDraft, StatusVoid, true},
		{StatusDraft, StatusDraft, false},
		{StatusPosted, StatusVoid, true},
		{StatusPosted, StatusDraft, false},
		{StatusPosted, StatusPosted, false},
		{StatusVoid, StatusDraft, false},
		{StatusVoid, StatusPosted, false},
		{StatusVoid, StatusVoid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestJournalEntry_Totals(t *testing.T) {
	entry := JournalEntry{
		Items: []JournalItem{
			{AccountCode: "1010", Debit: decimal.RequireFromString("100.00")},
			{AccountCode: "1100", Debit: decimal.RequireFromString("10.00")},
			{AccountCode: "4000", Credit: decimal.RequireFromString("110.00")},
		},
	}
	assert.Equal(t, "110.00", entry.TotalDebit().StringFixed(2))
	assert.Equal(t, "110.00", entry.TotalCredit().StringFixed(2))
	assert.True(t, entry.Balanced())
}

func TestJournalEntry_Unbalanced(t *testing.T) {
	entry := JournalEntry{
		Items: []JournalItem{
			{AccountCode: "1010", Debit: decimal.RequireFromString("100.00")},
			{AccountCode: "4000", Credit: decimal.RequireFromString("99.99")},
		},
	}
	assert.False(t, entry.Balanced())
}

func TestJournalEntry_EmptyBalances(t *testing.T) {
	var entry JournalEntry
	assert.True(t, entry.TotalDebit().IsZero())
	assert.True(t, entry.TotalCredit().IsZero())
	assert.True(t, entry.Balanced())
}
