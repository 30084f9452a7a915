package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/config"
	"github.com/unclebandit/ggph-smms/internal/db"
	"github.com/unclebandit/ggph-smms/internal/logging"
	"github.com/unclebandit/ggph-smms/internal/observability"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

var version = "dev"

// The worker drains campaign change events from RabbitMQ into the
// campaign_audit table.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}
	if cfg.DataBackend != config.BackendPostgres {
		log.Fatal("the worker writes to postgres; DATA_BACKEND must be postgres")
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Closer()
	logger := lg.Base.With(zap.String("component", "worker"))

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	broker, err := queue.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer broker.Close()

	recorder := service.NewAuditRecorder(&repository.AuditRepository{DB: conn}, logger)

	logger.Info("worker running, waiting for messages", zap.String("queue", cfg.AMQPQueue))
	if err := broker.Consume(ctx, recorder.Handle); err != nil && !errors.Is(err, context.Canceled) {
		observability.CaptureErr(err)
		logger.Error("consumer stopped", zap.Error(err))
	}
}
