package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a fiscal-year plan. Read-only with respect to the ledger:
// nothing in balance computation depends on budgets.
type Budget struct {
	ID         uint         `gorm:"primaryKey" json:"-"`
	Name       string       `gorm:"type:varchar(200);not null" json:"name"`
	FiscalYear int          `gorm:"not null;index" json:"fiscal_year"`
	Items      []BudgetItem `gorm:"foreignKey:BudgetID" json:"items"`
	CreatedAt  time.Time    `json:"-"`
	UpdatedAt  time.Time    `json:"-"`
}

// TableName sets the gorm table name.
func (Budget) TableName() string { return "budgets" }

// BudgetItem is the planned vs actual amount for one account.
type BudgetItem struct {
	ID             uint            `gorm:"primaryKey" json:"-"`
	BudgetID       uint            `gorm:"not null;index" json:"-"`
	AccountCode    string          `gorm:"type:varchar(32);not null" json:"account_code"`
	BudgetedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"budgeted_amount"`
	ActualAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"actual_amount"`
}

// TableName sets the gorm table name.
func (BudgetItem) TableName() string { return "budget_items" }

// Variance is budgeted minus actual.
func (i BudgetItem) Variance() decimal.Decimal {
	return i.BudgetedAmount.Sub(i.ActualAmount)
}
