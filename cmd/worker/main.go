package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Bigidan/beauty-salon-ms/internal/repository/postgres"
	internalworker "github.com/Bigidan/beauty-salon-ms/internal/worker"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
	"github.com/Bigidan/beauty-salon-ms/pkg/messaging/redis"
	"github.com/Bigidan/beauty-salon-ms/pkg/metrics"
	"github.com/Bigidan/beauty-salon-ms/pkg/worker"
)

// Config is read from the environment so the worker can run without a
// config file next to it.
type Config struct {
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL        string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	BatchSize       int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval    time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetentionDays   int           `envconfig:"OUTBOX_RETENTION_DAYS" default:"7"`
	CleanupInterval time.Duration `envconfig:"OUTBOX_CLEANUP_INTERVAL" default:"1h"`
	HealthPort      int           `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	m := metrics.NewMetrics("salon", "worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, appLogger, m, cfg.BatchSize, cfg.PollInterval)
	cleanup := internalworker.NewOutboxCleanupWorker(outboxRepo, appLogger, cfg.RetentionDays, cfg.CleanupInterval)

	startHealthServer(cfg.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down worker")
		cancel()
	}()

	go cleanup.Start(ctx)

	appLogger.Info("outbox worker started", "batch_size", cfg.BatchSize)
	processor.Start(ctx)
}

func startHealthServer(port int, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			appLogger.Fatal(err, "health server failed")
		}
	}()
}
