package coa

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ledgerline-dev/ledgerline/internal/model"
)

// Registry provides lookup and maintenance of the chart of accounts.
// Accounts are long-lived reference data: created by configuration,
// rarely mutated, never hard-deleted once referenced by a journal item.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates a Registry over a database handle.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type    model.AccountType
	SubType string
}

// Create persists a new account. The code must be unique and the type
// must be one of the five closed variants.
func (r *Registry) Create(account *model.Account) error {
	if account.Code == "" {
		return fmt.Errorf("account code must not be empty")
	}
	if !account.Type.Valid() {
		return fmt.Errorf("invalid account type %q", account.Type)
	}

	var count int64
	if err := r.db.Model(&model.Account{}).Where("code = ?", account.Code).Count(&count).Error; err != nil {
		return fmt.Errorf("checking account code: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", model.ErrDuplicateAccountCode, account.Code)
	}

	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// Get returns the account with the given code.
func (r *Registry) Get(code string) (*model.Account, error) {
	var account model.Account
	err := r.db.Where("code = ?", code).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrAccountNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", code, err)
	}
	return &account, nil
}

// Exists reports whether an account code exists.
func (r *Registry) Exists(code string) bool {
	var count int64
	if err := r.db.Model(&model.Account{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// List returns accounts matching the filter, ordered by code.
func (r *Registry) List(filter Filter) ([]model.Account, error) {
	q := r.db.Order("code")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.SubType != "" {
		q = q.Where("sub_type = ?", filter.SubType)
	}

	var accounts []model.Account
	if err := q.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// ByType returns all accounts of the given type, ordered by code.
func (r *Registry) ByType(accountType model.AccountType) ([]model.Account, error) {
	return r.List(Filter{Type: accountType})
}

// Delete removes an account that has never been used. Accounts referenced
// by any journal item are kept for audit and return ErrAccountReferenced.
func (r *Registry) Delete(code string) error {
	if _, err := r.Get(code); err != nil {
		return err
	}

	var refs int64
	if err := r.db.Model(&model.JournalItem{}).Where("account_code = ?", code).Count(&refs).Error; err != nil {
		return fmt.Errorf("checking journal references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: %s", model.ErrAccountReferenced, code)
	}

	if err := r.db.Where("code = ?", code).Delete(&model.Account{}).Error; err != nil {
		return fmt.Errorf("deleting account %s: %w", code, err)
	}
	return nil
}
