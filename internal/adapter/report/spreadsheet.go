package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iho/fintrack/internal/domain"
)

// SheetName is the title of the only worksheet.
const SheetName = "Relatório Financeiro"

const (
	headerRow    = 7
	firstDataRow = 8
	amountColumn = "E"
)

// SpreadsheetRenderer renders reports as XLSX workbooks.
type SpreadsheetRenderer struct{}

// NewSpreadsheetRenderer creates a new SpreadsheetRenderer.
func NewSpreadsheetRenderer() *SpreadsheetRenderer {
	return &SpreadsheetRenderer{}
}

// Render writes the report as XLSX to w.
func (r *SpreadsheetRenderer) Render(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Relatório", fmt.Sprintf("%s a %s", domain.FormatDate(report.Period.Start), domain.FormatDate(report.Period.End))},
		{"Saldo Inicial", report.Money(report.OpeningBalance)},
		{"Receitas", report.Money(report.Income)},
		{"Despesas", report.Money(report.Expense)},
		{"Saldo Final", report.Money(report.ClosingBalance)},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow), &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastColumn, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastColumn, headerRow), bold); err != nil {
		return err
	}

	for i, e := range report.Entries {
		values := entryRow(report, e)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", firstDataRow+i), &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, amountColumn, amountColumn, 20); err != nil {
		return err
	}

	if n := len(report.Entries); n > 0 {
		right, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}})
		if err != nil {
			return err
		}
		first := fmt.Sprintf("%s%d", amountColumn, firstDataRow)
		last := fmt.Sprintf("%s%d", amountColumn, firstDataRow+n-1)
		if err := f.SetCellStyle(SheetName, first, last, right); err != nil {
			return err
		}
	}

	return f.Write(w)
}
