package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iho/fintrack/internal/adapter/amqp"
	httpAdapter "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	"github.com/iho/fintrack/internal/adapter/report"
	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/adapter/storage"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/eventpublisher"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/mailer"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/infrastructure/redis"
	"github.com/iho/fintrack/internal/usecase"
)

const limiterCleanupInterval = 5 * time.Minute

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("failed to read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.SetGlobal(logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "fintrack",
	}))

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(log.Logger.WithContext(ctx), cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	l := zerolog.Ctx(ctx)

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	l.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	l.Info().Msg("connected to redis")

	receipts, err := storage.NewLocalStorage(cfg.ReceiptsDir)
	if err != nil {
		return fmt.Errorf("open receipt storage: %w", err)
	}

	m := metrics.New()

	transport, closeTransport, err := newTransport(cfg, l)
	if err != nil {
		return err
	}
	defer closeTransport.Close()

	notifications := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Publisher: transport,
		Recorder:  m,
		Logger:    l,
	})

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier().WithLogger(*l)
	idGen := postgresRepo.NewULIDGenerator()
	userRepo := postgresRepo.NewUserRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	dashboards := usecase.NewDashboardCache(redisRepo.NewCache(redisClient), cfg.DashboardCacheTTL)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(usecase.UserDeps{
		UserRepo:    userRepo,
		EntryRepo:   entryRepo,
		Receipts:    receipts,
		ResetTokens: redisRepo.NewResetTokenStore(redisClient),
		Notifier:    notifications,
		Tokens:      jwtManager,
		IDGen:       idGen,
		Metrics:     m,
		ResetURL:    cfg.PasswordResetURL(),
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, entryRepo, receipts, dashboards, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, entryRepo, receipts, dashboards, idGen)
	entryUC := usecase.NewEntryUseCase(txManager, retrier, entryRepo, accountRepo, categoryRepo, receipts, dashboards, idGen, m)
	dashboardUC := usecase.NewDashboardUseCase(accountRepo, entryRepo, dashboards)
	reportUC := usecase.NewReportUseCase(entryRepo, userRepo, report.Renderers(), m)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
		WithHitCounter(m.RateLimitHits)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC),
		AccountHandler:   handler.NewAccountHandler(accountUC),
		CategoryHandler:  handler.NewCategoryHandler(categoryUC),
		EntryHandler:     handler.NewEntryHandler(entryUC, cfg.MaxReceiptSize),
		DashboardHandler: handler.NewDashboardHandler(dashboardUC),
		ReportHandler:    handler.NewReportHandler(reportUC),
		HealthHandler: handler.NewHealthHandler(
			pool,
			handler.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		TokenVerifier:    jwtManager,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Logger:           l,
		MetricsHandler:   promhttp.Handler(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return ignoreCanceled(notifications.Start(gctx))
	})

	g.Go(func() error {
		return ignoreCanceled(rateLimiter.Run(gctx, limiterCleanupInterval))
	})

	return g.Wait()
}

// newTransport picks how notifications leave the process: the message
// broker when configured, then SMTP, then the log.
func newTransport(cfg *config.Config, l *zerolog.Logger) (eventpublisher.Publisher, io.Closer, error) {
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to AMQP: %w", err)
		}
		l.Info().Str("queue", cfg.AMQPQueue).Msg("notifications published to AMQP")
		return client, client, nil
	}

	if cfg.SMTPHost != "" {
		m, err := mailer.NewSMTPMailer(mailerConfig(cfg))
		if err != nil {
			return nil, nil, fmt.Errorf("configure mailer: %w", err)
		}
		l.Info().Str("host", cfg.SMTPHost).Msg("notifications sent over SMTP")
		return m, closerFunc(noopClose), nil
	}

	l.Warn().Msg("no AMQP or SMTP configured, notifications are only logged")
	return eventpublisher.NewLogPublisher(l), closerFunc(noopClose), nil
}

func mailerConfig(cfg *config.Config) mailer.Config {
	return mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func noopClose() error { return nil }
