package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/iho/fintrack/internal/adapter/amqp"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/mailer"
)

const prefetch = 10

var (
	errMissingAMQP = errors.New("AMQP_URL must be set")
	errMissingSMTP = errors.New("SMTP_HOST must be set")
)

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
		Service: "fintrack-notifier",
	}))

	if err := validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	m, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure mailer")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to AMQP")
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", cfg.AMQPQueue).Str("smtp_host", cfg.SMTPHost).Msg("starting notifier")

	err = client.Consume(log.Logger.WithContext(ctx), prefetch, m.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("notification consumer stopped")
		return
	}

	log.Info().Msg("notifier stopped")
}

// validate checks the settings the notifier cannot run without.
func validate(cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return errMissingAMQP
	}
	if cfg.SMTPHost == "" {
		return errMissingSMTP
	}
	return nil
}
