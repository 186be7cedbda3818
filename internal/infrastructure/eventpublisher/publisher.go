package eventpublisher

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/fintrack/internal/domain"
)

// ErrQueueFull is returned by Send when the buffer has no room left.
var ErrQueueFull = errors.New("notification queue is full")

// Publisher delivers a notification to an external system.
type Publisher interface {
	Send(ctx context.Context, notification *domain.Notification) error
}

// Recorder observes delivery outcomes.
type Recorder interface {
	NotificationSent(template string, err error)
}

// EventPublisher hands notifications to a Publisher from a background worker,
// so callers never wait on the mail server or the broker.
type EventPublisher struct {
	queue       chan *domain.Notification
	publisher   Publisher
	recorder    Recorder
	logger      zerolog.Logger
	maxAttempts uint64
	interval    time.Duration
}

// Config for EventPublisher.
type Config struct {
	Publisher   Publisher
	Recorder    Recorder
	Logger      *zerolog.Logger
	BufferSize  int           // Pending notifications held in memory
	MaxAttempts int           // Delivery attempts per notification
	Interval    time.Duration // Initial delay between attempts
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &EventPublisher{
		queue:       make(chan *domain.Notification, cfg.BufferSize),
		publisher:   cfg.Publisher,
		recorder:    cfg.Recorder,
		logger:      logger,
		maxAttempts: uint64(cfg.MaxAttempts),
		interval:    cfg.Interval,
	}
}

// Send enqueues a notification. It implements usecase.Notifier.
func (ep *EventPublisher) Send(_ context.Context, notification *domain.Notification) error {
	select {
	case ep.queue <- notification:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start runs the delivery worker until ctx is cancelled. Notifications
// still buffered at that point are delivered once before returning.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("buffer_size", cap(ep.queue)).
		Uint64("max_attempts", ep.maxAttempts).
		Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.drain()
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case n := <-ep.queue:
			ep.deliver(ctx, n)
		}
	}
}

func (ep *EventPublisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case n := <-ep.queue:
			ep.publishOnce(ctx, n)
		default:
			return
		}
	}
}

// deliver retries a notification with exponential backoff.
func (ep *EventPublisher) deliver(ctx context.Context, n *domain.Notification) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = ep.interval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, ep.maxAttempts-1), ctx)

	err := backoff.Retry(func() error {
		return ep.publisher.Send(ctx, n)
	}, policy)

	ep.record(n, err)
}

func (ep *EventPublisher) publishOnce(ctx context.Context, n *domain.Notification) {
	ep.record(n, ep.publisher.Send(ctx, n))
}

func (ep *EventPublisher) record(n *domain.Notification, err error) {
	if ep.recorder != nil {
		ep.recorder.NotificationSent(n.Template, err)
	}

	if err != nil {
		ep.logger.Error().
			Err(err).
			Str("notification_id", n.ID).
			Str("template", n.Template).
			Msg("failed to deliver notification")
		return
	}

	ep.logger.Debug().
		Str("notification_id", n.ID).
		Str("template", n.Template).
		Msg("notification delivered")
}

// LogPublisher writes notifications to the log instead of delivering them.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *zerolog.Logger) *LogPublisher {
	if logger == nil {
		logger = &log.Logger
	}
	return &LogPublisher{logger: *logger}
}

// Send logs the notification.
func (p *LogPublisher) Send(_ context.Context, n *domain.Notification) error {
	p.logger.Info().
		Str("notification_id", n.ID).
		Str("template", n.Template).
		Str("recipient", n.Recipient).
		Interface("data", n.Data).
		Msg("notification")

	return nil
}
