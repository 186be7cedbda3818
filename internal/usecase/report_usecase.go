package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

// ReportUseCase computes period reports and renders them to documents.
type ReportUseCase struct {
	entryRepo EntryRepository
	userRepo  UserRepository
	renderers map[domain.ReportFormat]ReportRenderer
	metrics   MetricsRecorder
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	entryRepo EntryRepository,
	userRepo UserRepository,
	renderers map[domain.ReportFormat]ReportRenderer,
	metrics MetricsRecorder,
) *ReportUseCase {
	if metrics == nil {
		metrics = NopMetrics
	}
	return &ReportUseCase{
		entryRepo: entryRepo,
		userRepo:  userRepo,
		renderers: renderers,
		metrics:   metrics,
	}
}

// ReportInput identifies the report to build. Dates are YYYY-MM-DD.
type ReportInput struct {
	UserID    string
	StartDate string
	EndDate   string
}

// ReportDocument is a rendered report.
type ReportDocument struct {
	Report      *domain.Report
	Format      domain.ReportFormat
	Filename    string
	ContentType string
	Body        []byte
}

// BuildReport validates the date range and computes the report.
func (uc *ReportUseCase) BuildReport(ctx context.Context, input ReportInput) (*domain.Report, error) {
	period, err := domain.ParsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	prior, err := uc.entryRepo.Amounts(ctx, input.UserID, &period.Start)
	if err != nil {
		return nil, err
	}
	opening := domain.SignedSum(prior)

	entries, err := uc.entryRepo.ListBetween(ctx, input.UserID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	return domain.NewReport(period, user.Currency, opening, entries), nil
}

// GenerateReport builds the report and renders it in format.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, input ReportInput, format domain.ReportFormat) (*ReportDocument, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	start := time.Now()

	report, err := uc.BuildReport(ctx, input)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}

	uc.metrics.ReportGenerated(format, time.Since(start))

	return &ReportDocument{
		Report:      report,
		Format:      format,
		Filename:    format.Filename(),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// Formats lists the formats this use case can render.
func (uc *ReportUseCase) Formats() []domain.ReportFormat {
	formats := make([]domain.ReportFormat, 0, len(uc.renderers))
	for _, f := range []domain.ReportFormat{domain.ReportFormatPDF, domain.ReportFormatSpreadsheet} {
		if _, ok := uc.renderers[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}
