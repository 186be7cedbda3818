package report

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/iho/fintrack/internal/domain"
)

const (
	pageMargin = 15.0
	rowHeight  = 7.0
)

// Column widths in mm across the A4 printable width.
var pdfColumnWidths = []float64{21, 21, 31, 28, 34, 45}

// PDFRenderer renders reports as A4 PDF documents.
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes the report as PDF to w.
func (r *PDFRenderer) Render(w io.Writer, report *domain.Report) error {
	return r.build(report).Output(w)
}

func (r *PDFRenderer) build(report *domain.Report) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(report.Title(), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(report.Title()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, line := range summary(report) {
		style := ""
		if line.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(0, 6, tr(line.label+": "+line.value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	tableHeader(pdf, tr)

	_, pageHeight := pdf.GetPageSize()
	for _, e := range report.Entries {
		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			pdf.AddPage()
			tableHeader(pdf, tr)
		}

		for i, value := range entryRow(report, e) {
			pdf.CellFormat(pdfColumnWidths[i], rowHeight, fit(pdf, tr(value), pdfColumnWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf
}

func tableHeader(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.1)

	for i, title := range columns {
		pdf.CellFormat(pdfColumnWidths[i], rowHeight, tr(title), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
}

// fit shortens s with an ellipsis until it fits in width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}

	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > limit {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
