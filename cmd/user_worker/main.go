package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/iterate-backend/config"
	"github.com/oksasatya/iterate-backend/internal/application"
	"github.com/oksasatya/iterate-backend/internal/infrastructure/search"
	"github.com/oksasatya/iterate-backend/internal/infrastructure/storage"
	"github.com/oksasatya/iterate-backend/pkg/helpers"
	"github.com/oksasatya/iterate-backend/pkg/mailer"
)

// user_worker consumes saved-user events and projects them into the search
// index, the avatar bucket and welcome emails.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-user-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &application.UserEventProjector{AppName: cfg.AppName, AppURL: cfg.AppURL, Logger: logger}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Fatal("elasticsearch client")
		}
		if err := helpers.EnsureIndex(ctx, es, cfg.ESUsersIndex, search.UserMapping); err != nil {
			logger.WithError(err).Warn("could not ensure users index; relying on dynamic mapping")
		}
		p.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to init GCS client")
		}
		defer func() { _ = gcs.Close() }()
		p.Avatars = storage.NewAvatarMirror(gcs, cfg.GCSBucket)
	}

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; welcome emails disabled")
	} else if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	} else {
		p.Mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	msgs, err := ch.Consume(cfg.RabbitMQUserEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := p.Handle(c, msg.Body)
			cancel()
			switch {
			case err == nil:
				_ = msg.Ack(false)
			case errors.Is(err, application.ErrBadEvent):
				logger.WithError(err).Warn("dropping user event")
				_ = msg.Nack(false, false)
			default:
				logger.WithError(err).Error("user event failed; requeueing")
				_ = msg.Nack(false, !msg.Redelivered)
			}
		}
	}()

	logger.WithField("queue", cfg.RabbitMQUserEventsQueue).Info("user worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
