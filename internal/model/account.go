package model

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity,
		AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Side is the debit or credit side of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// NormalSide returns the side on which an account of this type carries a
// positive balance. The derivation lives here and nowhere else; reports
// and the aggregator must not re-derive it.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Well-known sub-type classifications. Free text otherwise; these values
// carry meaning for the cash flow report.
const (
	SubTypeCash            = "cash"
	SubTypeFixedAsset      = "fixed_asset"
	SubTypeAccumulatedDepr = "accumulated_depreciation"
)

// Account is a row in the chart of accounts. Codes are unique, sortable
// strings; type is fixed for the life of the account.
type Account struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	Code      string      `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Name      string      `gorm:"type:varchar(200);not null" json:"name"`
	Type      AccountType `gorm:"type:varchar(20);not null;index" json:"type"`
	SubType   string      `gorm:"type:varchar(50);index" json:"sub_type,omitempty"`
	ParentID  *uint       `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// TableName sets the gorm table name.
func (Account) TableName() string { return "accounts" }
