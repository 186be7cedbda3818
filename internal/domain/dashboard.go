package domain

import "github.com/shopspring/decimal"

// RecentEntriesLimit is the number of entries shown on the dashboard.
const RecentEntriesLimit = 5

// Dashboard is the overview of a user's position across all accounts.
type Dashboard struct {
	TotalBalance  decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	Accounts      []AccountSummary
	RecentEntries []*Entry
}

// NewDashboard folds per-account summaries into overall totals.
func NewDashboard(accounts []AccountSummary, recent []*Entry) *Dashboard {
	d := &Dashboard{
		TotalBalance:  decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpense:  decimal.Zero,
		Accounts:      accounts,
		RecentEntries: recent,
	}
	for _, a := range accounts {
		d.TotalBalance = d.TotalBalance.Add(a.Balance)
		d.TotalIncome = d.TotalIncome.Add(a.Income)
		d.TotalExpense = d.TotalExpense.Add(a.Expense)
	}
	return d
}
