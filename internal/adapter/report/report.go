// Package report renders domain reports to downloadable documents.
package report

import (
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

var columns = []string{"Data", "Tipo", "Categoria", "Conta", "Valor", "Descrição"}

// Renderers returns every available renderer keyed by format.
func Renderers() map[domain.ReportFormat]usecase.ReportRenderer {
	return map[domain.ReportFormat]usecase.ReportRenderer{
		domain.ReportFormatPDF:         NewPDFRenderer(),
		domain.ReportFormatSpreadsheet: NewSpreadsheetRenderer(),
	}
}

type summaryLine struct {
	label string
	value string
	bold  bool
}

func summary(r *domain.Report) []summaryLine {
	return []summaryLine{
		{label: "Saldo Inicial", value: r.Money(r.OpeningBalance)},
		{label: "Total de Receitas", value: r.Money(r.Income)},
		{label: "Total de Despesas", value: r.Money(r.Expense)},
		{label: "Saldo Final", value: r.Money(r.ClosingBalance), bold: true},
	}
}

// entryRow lays out one entry in column order.
func entryRow(r *domain.Report, e *domain.Entry) []string {
	return []string{
		domain.FormatDate(e.Date),
		e.Kind.Label(),
		orDash(e.CategoryName),
		orDash(e.AccountName),
		r.Money(e.Amount),
		e.Description,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
