package domain

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency assigned to new users.
const DefaultCurrency = money.BRL

// DisplayDateLayout is the dd/mm/yyyy layout used in reports.
const DisplayDateLayout = "02/01/2006"

// FormatMoney renders amount using the grouping, decimal separator and symbol
// of currency. Unknown codes fall back to DefaultCurrency.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}

	units := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(units, cur.Code).Display()
}

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}
