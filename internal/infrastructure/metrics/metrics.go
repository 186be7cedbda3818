package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/fintrack/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Report metrics
	ReportsGenerated *prometheus.CounterVec
	ReportDuration   *prometheus.HistogramVec

	// Entry metrics
	EntriesCreated *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Notification metrics
	NotificationsSent *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_reports_generated_total",
				Help: "Total number of reports generated by format",
			},
			[]string{"format"},
		),
		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_report_duration_seconds",
				Help:    "Time spent building and rendering a report",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),

		EntriesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_entries_created_total",
				Help: "Total number of entries created by kind",
			},
			[]string{"kind"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_auth_attempts_total",
				Help: "Total login attempts",
			},
			[]string{"success"},
		),

		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_notifications_sent_total",
				Help: "Total notifications handed to a transport",
			},
			[]string{"template", "status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ReportGenerated implements usecase.MetricsRecorder.
func (m *Metrics) ReportGenerated(format domain.ReportFormat, elapsed time.Duration) {
	m.ReportsGenerated.WithLabelValues(string(format)).Inc()
	m.ReportDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
}

// EntryCreated implements usecase.MetricsRecorder.
func (m *Metrics) EntryCreated(kind domain.Kind) {
	m.EntriesCreated.WithLabelValues(string(kind)).Inc()
}

// AuthAttempt implements usecase.MetricsRecorder.
func (m *Metrics) AuthAttempt(success bool) {
	m.AuthAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// NotificationSent counts a delivery attempt of template.
func (m *Metrics) NotificationSent(template string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.NotificationsSent.WithLabelValues(template, status).Inc()
}
