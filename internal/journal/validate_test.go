package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// mockAccounts implements AccountChecker for testing.
type mockAccounts struct {
	codes map[string]bool
}

func (m *mockAccounts) Exists(code string) bool {
	return m.codes[code]
}

func newMockAccounts(codes ...string) *mockAccounts {
	m := &mockAccounts{codes: make(map[string]bool)}
	for _, c := range codes {
		m.codes[c] = true
	}
	return m
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func testEntry(items ...model.JournalItem) *model.JournalEntry {
	return &model.JournalEntry{
		Reference: "JE-2025-01-001",
		Date:      date(2025, 1, 15),
		Status:    model.StatusDraft,
		Items:     items,
	}
}

var defaultAccounts = newMockAccounts("1010", "1100", "2000", "3000", "4000", "5300")

func TestValidate_Balanced(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("100.00")},
		model.JournalItem{AccountCode: "1010", Credit: dec("100.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	assert.Empty(t, errs)
}

func TestValidate_Unbalanced(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("100.00")},
		model.JournalItem{AccountCode: "1010", Credit: dec("99.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Invariant)
	assert.Contains(t, errs[0].Error(), "debits (100.00) != credits (99.00)")
}

func TestValidate_BothSidesSet(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("50.00"), Credit: dec("50.00")},
		model.JournalItem{AccountCode: "1010", Credit: dec("0.00"), Debit: dec("0.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	invariants := invariantSet(errs)
	assert.True(t, invariants[2], "both-set and both-zero lines violate invariant 2")
}

func TestValidate_NegativeAmount(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("-10.00")},
		model.JournalItem{AccountCode: "1010", Credit: dec("-10.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	assert.True(t, invariantSet(errs)[3])
}

func TestValidate_TooManyDecimalPlaces(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("10.001")},
		model.JournalItem{AccountCode: "1010", Credit: dec("10.001")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	assert.True(t, invariantSet(errs)[4])
}

func TestValidate_UnknownAccount(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "9999", Debit: dec("10.00")},
		model.JournalItem{AccountCode: "1010", Credit: dec("10.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "9999")
}

func TestValidate_TooFewItems(t *testing.T) {
	entry := testEntry(
		model.JournalItem{AccountCode: "5300", Debit: dec("10.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	invariants := invariantSet(errs)
	assert.True(t, invariants[6])
	assert.True(t, invariants[1], "single debit line is also unbalanced")
}

func TestValidate_MultiLeg(t *testing.T) {
	// Invoice-shaped entry: one debit, two credits.
	entry := testEntry(
		model.JournalItem{AccountCode: "1100", Debit: dec("110.00")},
		model.JournalItem{AccountCode: "4000", Credit: dec("100.00")},
		model.JournalItem{AccountCode: "2000", Credit: dec("10.00")},
	)
	errs := ValidateEntry(entry, defaultAccounts)
	assert.Empty(t, errs)
}

func invariantSet(errs []ValidationError) map[int]bool {
	set := make(map[int]bool)
	for _, e := range errs {
		set[e.Invariant] = true
	}
	return set
}
