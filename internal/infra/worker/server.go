package worker

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/usecase/ingest"
)

// Server exposes the ingestion triggers next to the health and metrics endpoints:
//
//	POST /process_newspaper              run every newspaper
//	POST /process_one_newspaper/{id}     run one newspaper
//	GET  /health                         liveness, always 200
//	GET  /health/ready                   200 once SetReady(true), 503 before
//	GET  /metrics                        Prometheus
//
// The trigger endpoints require "Authorization: Bearer <service key>".
type Server struct {
	runner     *Runner
	serviceKey []byte
	logger     *slog.Logger
	ready      atomic.Bool
	handler    http.Handler
}

type statusResponse struct {
	Status string `json:"status"`
}

type allFailedResponse struct {
	Error string        `json:"error"`
	Stats *ingest.Stats `json:"stats"`
}

// NewServer builds the worker server. gatherer backs /metrics.
func NewServer(runner *Runner, serviceKey string, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		runner:     runner,
		serviceKey: []byte(serviceKey),
		logger:     logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("POST /process_newspaper", s.authorized(http.HandlerFunc(s.handleProcessAll)))
	mux.Handle("POST /process_one_newspaper/{id}", s.authorized(http.HandlerFunc(s.handleProcessOne)))
	s.handler = mux
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
	s.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// Start serves on addr until ctx is cancelled, then drains for up to 10s.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// triggers run synchronously; the runner deadline applies
		WriteTimeout: s.runner.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("worker server starting", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("worker server shutdown failed", slog.Any("error", err))
			return err
		}
		s.logger.Info("worker server stopped")
		return http.ErrServerClosed
	case err := <-errCh:
		return err
	}
}

func (s *Server) authorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || len(s.serviceKey) == 0 ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), s.serviceKey) != 1 {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProcessAll(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.All(r.Context(), TriggerAll)
	switch {
	case errors.Is(err, ingest.ErrAllFeedsFailed):
		respond.JSON(w, http.StatusInternalServerError, allFailedResponse{Error: err.Error(), Stats: stats})
	case err != nil:
		respond.Message(w, http.StatusInternalServerError, respond.SanitizeError(err))
	default:
		respond.JSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleProcessOne(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "A valid numerical newspaper ID is required.")
		return
	}

	stats, err := s.runner.One(r.Context(), id)
	switch {
	case errors.Is(err, ingest.ErrNewspaperNotFound):
		respond.Message(w, http.StatusNotFound, "Newspaper not found")
	case errors.Is(err, ingest.ErrNoFeed):
		respond.Message(w, http.StatusUnprocessableEntity, "Newspaper has no RSS feed")
	case err != nil:
		respond.Message(w, http.StatusBadGateway, respond.SanitizeError(err))
	default:
		respond.JSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		respond.JSON(w, http.StatusServiceUnavailable, statusResponse{Status: "not ready"})
		return
	}
	respond.JSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
