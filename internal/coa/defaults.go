package coa

import "github.com/ledgerline-dev/ledgerline/internal/model"

// DefaultChart returns the seed chart of accounts for a new company.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "1000", Name: "Cash on Hand", Type: model.AccountTypeAsset, SubType: model.SubTypeCash},
		{Code: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, SubType: model.SubTypeCash},
		{Code: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, SubType: "receivable"},
		{Code: "1200", Name: "Inventory", Type: model.AccountTypeAsset, SubType: "inventory"},
		{Code: "1300", Name: "Prepaid Expenses", Type: model.AccountTypeAsset, SubType: "prepaid"},
		{Code: "1400", Name: "Tax Receivable", Type: model.AccountTypeAsset, SubType: "receivable"},
		{Code: "1500", Name: "Equipment", Type: model.AccountTypeAsset, SubType: model.SubTypeFixedAsset},
		{Code: "1510", Name: "Accumulated Depreciation", Type: model.AccountTypeAsset, SubType: model.SubTypeAccumulatedDepr},
		{Code: "2000", Name: "Accounts Payable", Type: model.AccountTypeLiability, SubType: "payable"},
		{Code: "2100", Name: "Sales Tax Payable", Type: model.AccountTypeLiability, SubType: "tax"},
		{Code: "2200", Name: "Loans Payable", Type: model.AccountTypeLiability, SubType: "loan"},
		{Code: "3000", Name: "Owner's Equity", Type: model.AccountTypeEquity, SubType: "capital"},
		{Code: "3100", Name: "Retained Earnings", Type: model.AccountTypeEquity, SubType: "retained"},
		{Code: "4000", Name: "Sales Revenue", Type: model.AccountTypeRevenue, SubType: "sales"},
		{Code: "4100", Name: "Service Revenue", Type: model.AccountTypeRevenue, SubType: "service"},
		{Code: "5000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense, SubType: "cogs"},
		{Code: "5100", Name: "Rent Expense", Type: model.AccountTypeExpense, SubType: "operating"},
		{Code: "5200", Name: "Salaries Expense", Type: model.AccountTypeExpense, SubType: "operating"},
		{Code: "5300", Name: "Software & Subscriptions", Type: model.AccountTypeExpense, SubType: "operating"},
		{Code: "5400", Name: "Depreciation Expense", Type: model.AccountTypeExpense, SubType: "operating"},
	}
}

// Seed inserts the default chart into an empty registry. Existing codes
// are left untouched.
func Seed(r *Registry) error {
	for _, account := range DefaultChart() {
		a := account
		if r.Exists(a.Code) {
			continue
		}
		if err := r.Create(&a); err != nil {
			return err
		}
	}
	return nil
}
