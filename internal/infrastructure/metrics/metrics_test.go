package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

var _ usecase.MetricsRecorder = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegisterer(registry)

	if m.ReportsGenerated == nil || m.EntriesCreated == nil || m.AuthAttempts == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.RateLimitHits.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestRecorderMethods(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ReportGenerated(domain.ReportFormatPDF, 20*time.Millisecond)
	m.ReportGenerated(domain.ReportFormatPDF, 30*time.Millisecond)
	m.EntryCreated(domain.KindExpense)
	m.AuthAttempt(false)
	m.NotificationSent(domain.TemplateWelcome, errors.New("smtp down"))

	if got := testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("pdf")); got != 2 {
		t.Fatalf("expected 2 pdf reports, got %v", got)
	}
	if got := testutil.ToFloat64(m.EntriesCreated.WithLabelValues("expense")); got != 1 {
		t.Fatalf("expected 1 expense entry, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuthAttempts.WithLabelValues("false")); got != 1 {
		t.Fatalf("expected 1 failed login, got %v", got)
	}
	if got := testutil.ToFloat64(m.NotificationsSent.WithLabelValues("welcome", "error")); got != 1 {
		t.Fatalf("expected 1 failed notification, got %v", got)
	}
}
