package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single dated income or expense tied to one account and one category.
type Entry struct {
	ID          string
	UserID      string
	AccountID   string
	CategoryID  string
	Kind        Kind
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	ReceiptPath string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated on reads for display.
	AccountName   string
	CategoryName  string
	CategoryColor string
	CategoryIcon  string
}

// Signed returns the amount with income positive and expense negative.
// Entries of an unknown kind contribute zero.
func (e *Entry) Signed() decimal.Decimal {
	switch e.Kind {
	case KindIncome:
		return e.Amount
	case KindExpense:
		return e.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// HasReceipt reports whether a receipt file is attached.
func (e *Entry) HasReceipt() bool {
	return e.ReceiptPath != ""
}

// EntryFilter narrows an entry listing. Zero values mean "no constraint".
type EntryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Kind       Kind
	Limit      int
	Offset     int
}

// NormalizeDescription trims the description and enforces its length limit.
func NormalizeDescription(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) > MaxDescriptionLength {
		return "", ErrDescriptionTooLong
	}
	return s, nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
