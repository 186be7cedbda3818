package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of report date bounds.
const DateLayout = "2006-01-02"

// ReportFormat selects the document a report is rendered to.
type ReportFormat string

const (
	ReportFormatPDF         ReportFormat = "pdf"
	ReportFormatSpreadsheet ReportFormat = "spreadsheet"
)

// ParseReportFormat returns the format named by s. The second result is false
// for anything that is not a renderable format, including the empty string.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportFormatPDF, ReportFormatSpreadsheet:
		return f, true
	default:
		return "", false
	}
}

// Filename is the attachment name of the rendered document.
func (f ReportFormat) Filename() string {
	switch f {
	case ReportFormatPDF:
		return "relatorio.pdf"
	case ReportFormatSpreadsheet:
		return "relatorio.xlsx"
	default:
		return ""
	}
}

// ContentType is the MIME type of the rendered document.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatPDF:
		return "application/pdf"
	case ReportFormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod parses YYYY-MM-DD bounds into a Period.
func ParsePeriod(start, end string) (Period, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return Period{}, ErrMissingDateRange
	}

	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %s", ErrInvalidDate, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %s", ErrInvalidDate, end)
	}

	return NewPeriod(s, e)
}

// NewPeriod builds a Period from two dates, ignoring their time of day.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DateOnly(start), End: DateOnly(end)}
	if p.Start.After(p.End) {
		return Period{}, ErrStartAfterEnd
	}
	return p, nil
}

// Contains reports whether t falls on a day within the period.
func (p Period) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Report is the computed cash flow of one user over a period.
type Report struct {
	Period         Period
	Currency       string
	OpeningBalance decimal.Decimal
	Income         decimal.Decimal
	Expense        decimal.Decimal
	ClosingBalance decimal.Decimal
	Entries        []*Entry
}

// NewReport computes totals for entries that fall inside period.
// opening is the signed sum of everything dated before period.Start.
// Entries outside the period are ignored; the rest are ordered by date.
func NewReport(period Period, currency string, opening decimal.Decimal, entries []*Entry) *Report {
	inRange := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if period.Contains(e.Date) {
			inRange = append(inRange, e)
		}
	}

	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].Date.Before(inRange[j].Date)
	})

	income, expense := Totals(inRange)

	return &Report{
		Period:         period,
		Currency:       currency,
		OpeningBalance: opening,
		Income:         income,
		Expense:        expense,
		ClosingBalance: Balance(opening, inRange),
		Entries:        inRange,
	}
}

// Title is the heading shown on rendered documents.
func (r *Report) Title() string {
	return fmt.Sprintf("Relatório Financeiro - %s a %s", FormatDate(r.Period.Start), FormatDate(r.Period.End))
}

// Money formats amount in the report currency.
func (r *Report) Money(amount decimal.Decimal) string {
	return FormatMoney(amount, r.Currency)
}
