package usecase_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

func TestReportUseCase_BuildReport(t *testing.T) {
	ctrl := gomock.NewController(t)

	entries := mocks.NewMockEntryRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	users.EXPECT().GetByID(gomock.Any(), "user-1").Return(&domain.User{ID: "user-1", Currency: "BRL"}, nil)
	entries.EXPECT().Amounts(gomock.Any(), "user-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, before *time.Time) ([]*domain.Entry, error) {
			if before == nil || !before.Equal(start) {
				t.Fatalf("expected entries before %s, got %v", start, before)
			}
			return []*domain.Entry{
				{Kind: domain.KindIncome, Amount: decimal.RequireFromString("150.00"), Date: start.AddDate(0, 0, -10)},
				{Kind: domain.KindExpense, Amount: decimal.RequireFromString("50.00"), Date: start.AddDate(0, 0, -3)},
				{Kind: domain.Kind("transfer"), Amount: decimal.RequireFromString("999.00"), Date: start.AddDate(0, 0, -1)},
			}, nil
		})
	entries.EXPECT().ListBetween(gomock.Any(), "user-1", start, end).Return([]*domain.Entry{
		{ID: "e1", Kind: domain.KindIncome, Amount: decimal.RequireFromString("50.00"), Date: start},
		{ID: "e2", Kind: domain.KindExpense, Amount: decimal.RequireFromString("30.00"), Date: start.AddDate(0, 0, 1)},
	}, nil)

	uc := usecase.NewReportUseCase(entries, users, nil, nil)

	report, err := uc.BuildReport(context.Background(), usecase.ReportInput{
		UserID:    "user-1",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.OpeningBalance.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected opening 100.00, got %s", report.OpeningBalance)
	}
	if !report.Income.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected income 50.00, got %s", report.Income)
	}
	if !report.Expense.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected expense 30.00, got %s", report.Expense)
	}
	if !report.ClosingBalance.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("expected closing 120.00, got %s", report.ClosingBalance)
	}
	if report.Currency != "BRL" {
		t.Errorf("expected user currency, got %q", report.Currency)
	}
}

func TestReportUseCase_BuildReportValidation(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		expectError error
	}{
		{name: "missing", start: "", end: "", expectError: domain.ErrMissingDateRange},
		{name: "malformed", start: "2024-1-1", end: "2024-01-31", expectError: domain.ErrInvalidDate},
		{name: "start after end", start: "2024-02-01", end: "2024-01-01", expectError: domain.ErrStartAfterEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := usecase.NewReportUseCase(mocks.NewMockEntryRepository(ctrl), mocks.NewMockUserRepository(ctrl), nil, nil)

			_, err := uc.BuildReport(context.Background(), usecase.ReportInput{UserID: "user-1", StartDate: tt.start, EndDate: tt.end})
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestReportUseCase_GenerateReport(t *testing.T) {
	ctrl := gomock.NewController(t)

	entries := mocks.NewMockEntryRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	renderer := mocks.NewMockReportRenderer(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	users.EXPECT().GetByID(gomock.Any(), "user-1").Return(&domain.User{ID: "user-1", Currency: "BRL"}, nil)
	entries.EXPECT().Amounts(gomock.Any(), "user-1", gomock.Any()).Return(nil, nil)
	entries.EXPECT().ListBetween(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).Return(nil, nil)
	renderer.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(func(w io.Writer, _ *domain.Report) error {
		_, err := w.Write([]byte("%PDF-1.3"))
		return err
	})
	metrics.EXPECT().ReportGenerated(domain.ReportFormatPDF, gomock.Any())

	uc := usecase.NewReportUseCase(entries, users, map[domain.ReportFormat]usecase.ReportRenderer{
		domain.ReportFormatPDF: renderer,
	}, metrics)

	doc, err := uc.GenerateReport(context.Background(), usecase.ReportInput{
		UserID:    "user-1",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
	}, domain.ReportFormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Filename != "relatorio.pdf" || doc.ContentType != "application/pdf" {
		t.Errorf("unexpected document metadata %q %q", doc.Filename, doc.ContentType)
	}
	if string(doc.Body) != "%PDF-1.3" {
		t.Errorf("unexpected body %q", doc.Body)
	}
}

func TestReportUseCase_GenerateReportNoDocumentOnInvalidRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockReportRenderer(ctrl)

	uc := usecase.NewReportUseCase(mocks.NewMockEntryRepository(ctrl), mocks.NewMockUserRepository(ctrl),
		map[domain.ReportFormat]usecase.ReportRenderer{domain.ReportFormatSpreadsheet: renderer}, nil)

	doc, err := uc.GenerateReport(context.Background(), usecase.ReportInput{
		UserID:    "user-1",
		StartDate: "2024-03-01",
		EndDate:   "2024-02-01",
	}, domain.ReportFormatSpreadsheet)
	if !errors.Is(err, domain.ErrStartAfterEnd) {
		t.Fatalf("expected ErrStartAfterEnd, got %v", err)
	}
	if doc != nil {
		t.Fatal("expected no document")
	}
}

func TestReportUseCase_UnsupportedFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewReportUseCase(mocks.NewMockEntryRepository(ctrl), mocks.NewMockUserRepository(ctrl), nil, nil)

	_, err := uc.GenerateReport(context.Background(), usecase.ReportInput{UserID: "u"}, domain.ReportFormat("csv"))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if len(uc.Formats()) != 0 {
		t.Fatalf("expected no formats, got %v", uc.Formats())
	}
}
