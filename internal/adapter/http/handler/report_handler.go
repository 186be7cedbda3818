package handler

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	BuildReport(ctx context.Context, input usecase.ReportInput) (*domain.Report, error)
	GenerateReport(ctx context.Context, input usecase.ReportInput, format domain.ReportFormat) (*usecase.ReportDocument, error)
	Formats() []domain.ReportFormat
}

// ReportHandler serves financial reports.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Download renders the report for ?start_date&end_date in ?format. The dates
// are validated first; with valid dates and a missing or unknown format the
// form descriptor is returned instead.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	input := usecase.ReportInput{
		UserID:    userID,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	if _, err := domain.ParsePeriod(input.StartDate, input.EndDate); err != nil {
		respondError(w, r, "invalid report period", err)
		return
	}

	format, ok := domain.ParseReportFormat(q.Get("format"))
	if !ok || !h.supports(format) {
		writeJSON(w, http.StatusOK, dto.NewReportForm(h.reportUC.Formats(), input.StartDate, input.EndDate))
		return
	}

	doc, err := h.reportUC.GenerateReport(r.Context(), input, format)
	if err != nil {
		respondError(w, r, "failed to generate report", err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Body)
}

// Summary returns the report as JSON.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	report, err := h.reportUC.BuildReport(r.Context(), usecase.ReportInput{
		UserID:    userID,
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		respondError(w, r, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}

func (h *ReportHandler) supports(format domain.ReportFormat) bool {
	for _, f := range h.reportUC.Formats() {
		if f == format {
			return true
		}
	}
	return false
}
