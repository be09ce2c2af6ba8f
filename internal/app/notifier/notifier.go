// Package notifier assembles the notification worker: it consumes the
// submission events published on approval and rejection and mails the
// review outcome to the author.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/mhoralek/pointmarket/internal/config"
	"github.com/mhoralek/pointmarket/internal/lib/rabbitmq"
	"github.com/mhoralek/pointmarket/internal/lib/smtp"
	"github.com/mhoralek/pointmarket/internal/services"
	"github.com/mhoralek/pointmarket/internal/storage"
)

type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	notifier *services.NotifierService
	logger   *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetSubmissionQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	notifier := services.NewNotifierService(db, transport, logger)

	return &App{
		conn:     conn,
		ch:       ch,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "submission.approved", a.notifier.SendSubmissionApproved)
	if err != nil {
		a.logger.Error("failed to start submission.approved consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "submission.rejected", a.notifier.SendSubmissionRejected)
	if err != nil {
		a.logger.Error("failed to start submission.rejected consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
