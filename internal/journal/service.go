package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/model"
	"github.com/ledgerline-dev/ledgerline/internal/ref"
)

// Service is the only legal mutation path for journal entries. It owns
// the draft -> posted -> void state machine; nothing else flips entry
// status.
type Service struct {
	db       *gorm.DB
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(db *gorm.DB, accounts AccountChecker) *Service {
	return &Service{db: db, accounts: accounts}
}

// Line is one requested debit or credit against an account.
type Line struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// CreateDraftParams holds parameters for creating a draft entry.
type CreateDraftParams struct {
	Date        time.Time
	Reference   string // generated from the date when empty
	Description string
	Lines       []Line
}

// CreateDraft validates and persists a new draft entry. Drafts are
// invisible to every balance computation until posted.
func (s *Service) CreateDraft(ctx context.Context, params CreateDraftParams) (*model.JournalEntry, error) {
	reference := params.Reference
	if reference == "" {
		var err error
		reference, err = s.NextReference(ctx, params.Date)
		if err != nil {
			return nil, err
		}
	}

	entry := &model.JournalEntry{
		Reference:   reference,
		Date:        params.Date,
		Description: params.Description,
		Status:      model.StatusDraft,
	}
	for _, line := range params.Lines {
		entry.Items = append(entry.Items, model.JournalItem{
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	if err := classify(ValidateEntry(entry, s.accounts)); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("reference = ?", reference).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking reference: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateReference, reference)
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("creating draft entry: %w", err)
	}
	return entry, nil
}

// Post flips a draft entry to posted, making it visible to all balance
// computations and its items immutable. The balance invariant is
// re-checked authoritatively here; the flip is a single status-guarded
// update inside one transaction, so a concurrent Post on the same entry
// loses cleanly with ErrInvalidStateTransition and a reader never
// observes a partially posted entry.
func (s *Service) Post(ctx context.Context, reference string) (*model.JournalEntry, error) {
	entry, err := s.Get(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !entry.Status.CanTransition(model.StatusPosted) {
		return nil, fmt.Errorf("%w: cannot post %s from %s", model.ErrInvalidStateTransition, reference, entry.Status)
	}

	if !entry.Balanced() {
		return nil, fmt.Errorf("%w: %s (debit %s, credit %s)", model.ErrUnbalancedEntry,
			reference, entry.TotalDebit().StringFixed(2), entry.TotalCredit().StringFixed(2))
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.JournalEntry{}).
			Where("id = ? AND status = ?", entry.ID, model.StatusDraft).
			Updates(map[string]any{
				"status":    model.StatusPosted,
				"posted_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("posting entry %s: %w", reference, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s is %s, not draft", model.ErrInvalidStateTransition, reference, entry.Status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry.Status = model.StatusPosted
	entry.PostedAt = &now
	return entry, nil
}

// Void removes an entry's ledger effect without deleting it. Legal from
// draft (cancel, no ledger effect to begin with) and from posted
// (reversal-by-exclusion; the aggregator ignores void entries). A reason
// is required for audit.
func (s *Service) Void(ctx context.Context, reference, reason string) (*model.JournalEntry, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("void reason must not be empty")
	}

	entry, err := s.Get(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !entry.Status.CanTransition(model.StatusVoid) {
		return nil, fmt.Errorf("%w: cannot void %s from %s", model.ErrInvalidStateTransition, reference, entry.Status)
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.JournalEntry{}).
			Where("id = ? AND status IN ?", entry.ID, []model.EntryStatus{model.StatusDraft, model.StatusPosted}).
			Updates(map[string]any{
				"status":      model.StatusVoid,
				"voided_at":   now,
				"void_reason": reason,
			})
		if res.Error != nil {
			return fmt.Errorf("voiding entry %s: %w", reference, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s is already void", model.ErrInvalidStateTransition, reference)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry.Status = model.StatusVoid
	entry.VoidedAt = &now
	entry.VoidReason = reason
	return entry, nil
}

// Get returns an entry with its items by reference.
func (s *Service) Get(ctx context.Context, reference string) (*model.JournalEntry, error) {
	var entry model.JournalEntry
	err := s.db.WithContext(ctx).Preload("Items").
		Where("reference = ?", reference).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrEntryNotFound, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("loading entry %s: %w", reference, err)
	}
	return &entry, nil
}

// List returns entries ordered by date then reference, optionally
// filtered by status.
func (s *Service) List(ctx context.Context, status model.EntryStatus) ([]model.JournalEntry, error) {
	q := s.db.WithContext(ctx).Preload("Items").Order("date, reference")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []model.JournalEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// NextReference returns the next free manual reference for the month of
// date, e.g. "JE-2025-01-003".
func (s *Service) NextReference(ctx context.Context, date time.Time) (string, error) {
	prefix := ref.MonthPrefix(ref.PrefixManual, date)

	var last string
	err := s.db.WithContext(ctx).Model(&model.JournalEntry{}).
		Where("reference LIKE ?", prefix+"%").
		Select("reference").Order("reference DESC").Limit(1).Scan(&last).Error
	if err != nil {
		return "", fmt.Errorf("finding last reference: %w", err)
	}

	seq := 1
	if last != "" {
		_, _, lastSeq, err := parseSeq(last)
		if err == nil {
			seq = lastSeq + 1
		}
	}
	return ref.Format(ref.PrefixManual, date.Year(), int(date.Month()), seq), nil
}

func parseSeq(reference string) (year, month, seq int, err error) {
	_, year, month, seq, err = ref.Parse(reference)
	return year, month, seq, err
}

// classify maps validation errors onto the engine's error taxonomy: an
// unbalanced entry outranks line-level problems, which outrank unknown
// accounts only in reporting order, not severity.
func classify(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}

	msgs := make([]string, len(verrs))
	unbalanced, unknownAccount := false, false
	for i, ve := range verrs {
		msgs[i] = ve.Error()
		switch ve.Invariant {
		case 1:
			unbalanced = true
		case 5:
			unknownAccount = true
		}
	}
	joined := strings.Join(msgs, "; ")

	switch {
	case unbalanced:
		return fmt.Errorf("%w: %s", model.ErrUnbalancedEntry, joined)
	case unknownAccount:
		return fmt.Errorf("%w: %s", model.ErrAccountNotFound, joined)
	default:
		return fmt.Errorf("%w: %s", model.ErrInvalidLine, joined)
	}
}
