package domain

import "github.com/shopspring/decimal"

// Tally accumulates entry amounts by kind. Entries are added one at a time,
// so a tally can be fed from a slice or a stream in any order.
type Tally struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Add records one entry. Entries of an unknown kind contribute nothing.
func (t *Tally) Add(e *Entry) {
	switch e.Kind {
	case KindIncome:
		t.Income = t.Income.Add(e.Amount)
	case KindExpense:
		t.Expense = t.Expense.Add(e.Amount)
	}
}

// Net is income minus expense.
func (t Tally) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// TallyOf folds entries into a single Tally.
func TallyOf(entries []*Entry) Tally {
	t := Tally{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// TallyByAccount folds entries into one Tally per account ID.
func TallyByAccount(entries []*Entry) map[string]Tally {
	tallies := make(map[string]Tally)
	for _, e := range entries {
		t := tallies[e.AccountID]
		t.Add(e)
		tallies[e.AccountID] = t
	}
	return tallies
}

// Balance returns opening plus the signed sum of entries.
func Balance(opening decimal.Decimal, entries []*Entry) decimal.Decimal {
	return opening.Add(SignedSum(entries))
}

// SignedSum adds income and subtracts expense amounts.
func SignedSum(entries []*Entry) decimal.Decimal {
	return TallyOf(entries).Net()
}

// Totals returns the unsigned income and expense sums of entries.
func Totals(entries []*Entry) (income, expense decimal.Decimal) {
	t := TallyOf(entries)
	return t.Income, t.Expense
}
