package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // CRON_TZ in scratch images

	"github.com/prometheus/client_golang/prometheus"

	pgRepo "newsfeed-hub/internal/infra/adapter/persistence/postgres"
	"newsfeed-hub/internal/infra/db"
	"newsfeed-hub/internal/infra/fetcher"
	"newsfeed-hub/internal/infra/notifier"
	"newsfeed-hub/internal/infra/scraper"
	workerPkg "newsfeed-hub/internal/infra/worker"
	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/internal/observability/metrics"
	"newsfeed-hub/internal/usecase/ingest"
	"newsfeed-hub/pkg/config"
)

// waitForMigrations blocks until the API has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM parsed_news LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	workerMetrics := workerPkg.NewMetrics(prometheus.DefaultRegisterer)
	cfg := workerPkg.LoadConfig(logger, workerMetrics)
	if cfg.ServiceKey == "" {
		logger.Warn("SERVICE_ROLE_KEY is not set, trigger endpoints will reject every request")
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("crawl_timeout", cfg.CrawlTimeout),
		slog.String("addr", cfg.Addr))

	runner := &workerPkg.Runner{
		Ingester: setupIngestService(logger, database),
		Metrics:  workerMetrics,
		Alerter:  notifier.New(notifier.LoadConfig(logger)),
		Timeout:  cfg.CrawlTimeout,
		Logger:   logger,
	}

	server := workerPkg.NewServer(runner, cfg.ServiceKey, prometheus.DefaultGatherer, logger)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx, cfg.Addr)
	}()

	go reportDBStats(ctx, database, 15*time.Second)

	scheduler, err := workerPkg.NewScheduler(cfg, runner)
	if err != nil {
		logger.Error("failed to schedule ingestion", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	server.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	serverDone := false
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		serverDone = true
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker server failed", slog.Any("error", err))
		}
		stop()
	}

	logger.Info("shutting down worker...")
	server.SetReady(false)

	// 実行中のジョブを最大10秒待つ
	done := scheduler.Stop()
	select {
	case <-done.Done():
	case <-time.After(10 * time.Second):
		logger.Warn("ingestion run still active at shutdown")
	}
	if !serverDone {
		<-serverErr
	}
	logger.Info("worker stopped")
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(ctx, logger, database)
	return database
}

// setupIngestService wires the feed fetcher, the optional readability fetcher and the repositories.
func setupIngestService(logger *slog.Logger, database *sql.DB) *ingest.Service {
	ingestCfg := ingest.LoadConfig()

	var enhancer ingest.ContentFetcher
	if ingestCfg.ContentFetchEnabled {
		fetchCfg, err := fetcher.LoadConfig()
		if err != nil {
			logger.Error("invalid content fetch configuration, content fetching disabled", slog.Any("error", err))
			ingestCfg.ContentFetchEnabled = false
		} else {
			enhancer = fetcher.NewReadabilityFetcher(fetchCfg)
			logger.Info("content fetching enabled",
				slog.Int("threshold", ingestCfg.ContentThreshold),
				slog.Int("parallelism", ingestCfg.ContentParallelism),
				slog.Duration("timeout", fetchCfg.Timeout))
		}
	} else {
		logger.Info("content fetching disabled")
	}

	return &ingest.Service{
		Newspapers: pgRepo.NewNewspaperRepo(database),
		Articles:   pgRepo.NewArticleRepo(database),
		Fetcher:    scraper.NewRSSFetcher(createHTTPClient()),
		Enhancer:   enhancer,
		Config:     ingestCfg,
	}
}

// createHTTPClient creates the feed client. TLS 1.2+ is enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

func reportDBStats(ctx context.Context, database *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		metrics.UpdateDBStats(database.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
