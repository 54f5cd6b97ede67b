package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pgRepo "newsfeed-hub/internal/infra/adapter/persistence/postgres"
	"newsfeed-hub/internal/infra/db"
	"newsfeed-hub/internal/infra/functions"
	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/internal/observability/slo"
	"newsfeed-hub/internal/observability/tracing"
	"newsfeed-hub/pkg/config"

	artUC "newsfeed-hub/internal/usecase/article"
	countryUC "newsfeed-hub/internal/usecase/country"
	feedUC "newsfeed-hub/internal/usecase/feed"
	listUC "newsfeed-hub/internal/usecase/newslist"
	newspaperUC "newsfeed-hub/internal/usecase/newspaper"
	"newsfeed-hub/internal/usecase/notify"
	refreshUC "newsfeed-hub/internal/usecase/refresh"

	hhttp "newsfeed-hub/internal/handler/http"
	harticle "newsfeed-hub/internal/handler/http/article"
	hauth "newsfeed-hub/internal/handler/http/auth"
	hcountry "newsfeed-hub/internal/handler/http/country"
	hfeed "newsfeed-hub/internal/handler/http/feed"
	"newsfeed-hub/internal/handler/http/middleware"
	hlist "newsfeed-hub/internal/handler/http/newslist"
	hnewspaper "newsfeed-hub/internal/handler/http/newspaper"
	hrefresh "newsfeed-hub/internal/handler/http/refresh"
	"newsfeed-hub/internal/handler/http/requestid"
)

// maxRequestBody caps every request body (1MB).
const maxRequestBody = 1 << 20

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}
	logger := initLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := config.GetEnvString("VERSION", "dev")
	components := setupServer(logger, database, version)

	runServer(logger, components, version)
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(context.Background())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// ServerComponents holds what runServer needs besides the handler.
type ServerComponents struct {
	Handler        http.Handler
	RefreshLimiter *middleware.IPRateLimiter
}

func setupServer(logger *slog.Logger, database *sql.DB, version string) *ServerComponents {
	notifier := notify.NewDispatcher(logger)

	countries := pgRepo.NewCountryRepo(database)
	newspapers := pgRepo.NewNewspaperRepo(database)
	lists := pgRepo.NewNewspaperListRepo(database)
	articles := pgRepo.NewArticleRepo(database)

	countrySvc := &countryUC.Service{Repo: countries, Notifier: notifier}
	newspaperSvc := &newspaperUC.Service{Repo: newspapers, Notifier: notifier}
	listSvc := &listUC.Service{Repo: lists, Notifier: notifier}
	artSvc := &artUC.Service{Repo: articles}
	feedSvc := &feedUC.Service{
		Newspapers: newspapers,
		Lists:      lists,
		Articles:   articles,
		Config:     feedUC.LoadConfig(),
	}

	fnCfg := functions.LoadConfig()
	if fnCfg.BaseURL == "" {
		logger.Warn("FUNCTIONS_URL is not set, refresh endpoints will fail")
	}
	refreshSvc := &refreshUC.Service{Trigger: functions.NewClient(fnCfg)}

	proxyConfig, err := middleware.LoadTrustedProxyConfig()
	if err != nil {
		logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	var ipExtractor middleware.IPExtractor = &middleware.RemoteAddrExtractor{}
	if proxyConfig.Enabled {
		ipExtractor = middleware.NewTrustedProxyExtractor(*proxyConfig)
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxyConfig.AllowedCIDRs)))
	}
	limitCfg := middleware.LoadRefreshRateLimitConfig()
	refreshLimiter := middleware.NewIPRateLimiter(limitCfg, ipExtractor)
	logger.Info("refresh rate limiting initialized",
		slog.Int("per_minute", limitCfg.PerMinute),
		slog.Int("burst", limitCfg.Burst))

	verifier := hauth.NewVerifier(config.GetEnvString("JWT_SECRET", ""))

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	harticle.Register(mux, artSvc)
	hfeed.Register(mux, feedSvc)
	hrefresh.Register(mux, refreshSvc, refreshLimiter.Middleware)
	hcountry.Register(mux, countrySvc, verifier)
	hnewspaper.Register(mux, newspaperSvc, verifier)
	hlist.Register(mux, listSvc, verifier)

	corsConfig := middleware.LoadCORSConfig()
	logger.Info("CORS configured",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Int("max_age", corsConfig.MaxAge))

	// 先頭が最も外側
	handler := hhttp.Chain(mux,
		middleware.CORS(corsConfig),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.InputValidation(maxRequestBody),
		hhttp.MetricsMiddleware,
	)

	return &ServerComponents{Handler: handler, RefreshLimiter: refreshLimiter}
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go components.RefreshLimiter.RunCleanup(ctx, time.Minute)
	go slo.Default.Run(ctx, time.Minute)

	addr := config.GetEnvString("API_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second, // refresh waits for the function service (FUNCTIONS_TIMEOUT)
		IdleTimeout:       60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
