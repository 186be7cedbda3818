package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named container of money owned by a single user.
type Account struct {
	ID             string
	UserID         string
	Name           string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AccountSummary is an account together with its derived balance.
type AccountSummary struct {
	Account *Account
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summarize derives the current balance of the account from the tally of
// its entries.
func (a *Account) Summarize(t Tally) AccountSummary {
	return AccountSummary{
		Account: a,
		Income:  t.Income,
		Expense: t.Expense,
		Balance: a.OpeningBalance.Add(t.Net()),
	}
}
