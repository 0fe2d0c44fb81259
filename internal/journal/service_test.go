package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/storage"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := storage.OpenTest()
	require.NoError(t, err)
	return NewService(db, defaultAccounts), db
}

func simpleLines(amount string) []Line {
	return []Line{
		{AccountCode: "5300", Debit: dec(amount)},
		{AccountCode: "1010", Credit: dec(amount)},
	}
}

func TestCreateDraft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:        date(2025, 1, 15),
		Description: "Software subscription",
		Lines:       simpleLines("4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-01-001", entry.Reference)
	assert.Equal(t, model.StatusDraft, entry.Status)
	require.Len(t, entry.Items, 2)

	// Sequential references within the month.
	second, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 20),
		Lines: simpleLines("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-01-002", second.Reference)

	// New month restarts the sequence.
	third, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 2, 1),
		Lines: simpleLines("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-02-001", third.Reference)
}

func TestCreateDraft_Unbalanced(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.CreateDraft(context.Background(), CreateDraftParams{
		Date: date(2025, 1, 15),
		Lines: []Line{
			{AccountCode: "5300", Debit: dec("100.00")},
			{AccountCode: "1010", Credit: dec("90.00")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnbalancedEntry)

	// Nothing persisted.
	var count int64
	require.NoError(t, db.Model(&model.JournalEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateDraft_InvalidLine(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateDraft(context.Background(), CreateDraftParams{
		Date: date(2025, 1, 15),
		Lines: []Line{
			{AccountCode: "5300", Debit: dec("50.00"), Credit: dec("50.00")},
			{AccountCode: "1010", Credit: dec("50.00"), Debit: dec("50.00")},
		},
	})
	assert.ErrorIs(t, err, model.ErrInvalidLine)
}

func TestCreateDraft_UnknownAccount(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateDraft(context.Background(), CreateDraftParams{
		Date: date(2025, 1, 15),
		Lines: []Line{
			{AccountCode: "9999", Debit: dec("50.00")},
			{AccountCode: "1010", Credit: dec("50.00")},
		},
	})
	assert.ErrorIs(t, err, model.ErrAccountNotFound)
}

func TestCreateDraft_DuplicateReference(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:      date(2025, 1, 15),
		Reference: "JE-2025-01-001",
		Lines:     simpleLines("5.00"),
	})
	require.NoError(t, err)

	_, err = svc.CreateDraft(ctx, CreateDraftParams{
		Date:      date(2025, 1, 16),
		Reference: "JE-2025-01-001",
		Lines:     simpleLines("5.00"),
	})
	assert.ErrorIs(t, err, model.ErrDuplicateReference)
}

func TestPost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)

	posted, err := svc.Post(ctx, entry.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, posted.Status)
	require.NotNil(t, posted.PostedAt)

	// Round-trip through storage.
	got, err := svc.Get(ctx, entry.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, got.Status)
	assert.True(t, got.Balanced())
}

func TestPost_Twice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)

	_, err = svc.Post(ctx, entry.Reference)
	require.NoError(t, err)

	_, err = svc.Post(ctx, entry.Reference)
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)

	// The rejected retry changed nothing.
	got, err := svc.Get(ctx, entry.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, got.Status)
}

func TestPost_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Post(context.Background(), "JE-2099-01-001")
	assert.ErrorIs(t, err, model.ErrEntryNotFound)
}

func TestPost_RevalidatesBalance(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)

	// Corrupt a draft item behind the service's back; Post must catch it.
	require.NoError(t, db.Model(&model.JournalItem{}).
		Where("entry_id = ? AND debit > 0", entry.ID).
		Update("debit", dec("99.00")).Error)

	_, err = svc.Post(ctx, entry.Reference)
	assert.ErrorIs(t, err, model.ErrUnbalancedEntry)

	got, err := svc.Get(ctx, entry.Reference)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, got.Status)
}

func TestVoid_Posted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)
	_, err = svc.Post(ctx, entry.Reference)
	require.NoError(t, err)

	voided, err := svc.Void(ctx, entry.Reference, "duplicate of JE-2025-01-002")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVoid, voided.Status)
	assert.Equal(t, "duplicate of JE-2025-01-002", voided.VoidReason)

	// Items survive for audit.
	got, err := svc.Get(ctx, entry.Reference)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestVoid_Draft(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)

	voided, err := svc.Void(ctx, entry.Reference, "cancelled before posting")
	require.NoError(t, err)
	assert.Equal(t, model.StatusVoid, voided.Status)
}

func TestVoid_AlreadyVoid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)
	_, err = svc.Void(ctx, entry.Reference, "first void")
	require.NoError(t, err)

	_, err = svc.Void(ctx, entry.Reference, "second void")
	assert.ErrorIs(t, err, model.ErrInvalidStateTransition)
}

func TestPost_VoidEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)
	_, err = svc.Void(ctx, entry.Reference, "cancelled")
	require.NoError(t, err)

	_, err = svc.Post(ctx, entry.Reference)
	require.ErrorIs(t, err, model.ErrInvalidStateTransition)
	assert.Contains(t, err.Error(), "cannot post")
}

func TestVoid_RequiresReason(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.CreateDraft(ctx, CreateDraftParams{
		Date:  date(2025, 1, 15),
		Lines: simpleLines("25.00"),
	})
	require.NoError(t, err)

	_, err = svc.Void(ctx, entry.Reference, "  ")
	require.Error(t, err)
}

func TestList_ByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateDraft(ctx, CreateDraftParams{Date: date(2025, 1, 10), Lines: simpleLines("1.00")})
	require.NoError(t, err)
	_, err = svc.CreateDraft(ctx, CreateDraftParams{Date: date(2025, 1, 11), Lines: simpleLines("2.00")})
	require.NoError(t, err)
	_, err = svc.Post(ctx, first.Reference)
	require.NoError(t, err)

	drafts, err := svc.List(ctx, model.StatusDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	posted, err := svc.List(ctx, model.StatusPosted)
	require.NoError(t, err)
	assert.Len(t, posted, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
