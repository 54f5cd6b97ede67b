// Package feed serves the RSS 2.0 feeds.
package feed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"newsfeed-hub/internal/handler/http/pathutil"
	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/infra/rss"
	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/internal/observability/metrics"
	"newsfeed-hub/internal/observability/tracing"
	feedUC "newsfeed-hub/internal/usecase/feed"
)

const (
	msgListNotFound      = "Newspaper list not found"
	msgNewspaperNotFound = "Newspaper not found"
	msgBuildFailed       = "Failed to build RSS feed"
	msgInvalidID         = "Invalid ID"
)

// Handler serves one feed scope ("all", "list" or "newspaper").
type Handler struct {
	Scope string
	build func(r *http.Request) (*feedUC.Feed, error)
}

// AllHandler serves GET /api/rss/all.
func AllHandler(svc *feedUC.Service) Handler {
	return Handler{Scope: "all", build: func(r *http.Request) (*feedUC.Feed, error) {
		return svc.All(r.Context())
	}}
}

// ListHandler serves GET /api/rss/list/{id}.
func ListHandler(svc *feedUC.Service) Handler {
	return Handler{Scope: "list", build: func(r *http.Request) (*feedUC.Feed, error) {
		return svc.ByList(r.Context(), r.PathValue("id"))
	}}
}

// NewspaperHandler serves GET /api/rss/newspaper/{id}.
func NewspaperHandler(svc *feedUC.Service) Handler {
	return Handler{Scope: "newspaper", build: func(r *http.Request) (*feedUC.Feed, error) {
		id, err := pathutil.ParseID(r.PathValue("id"))
		if err != nil {
			return nil, err
		}
		return svc.ByNewspaper(r.Context(), id)
	}}
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.Start(r.Context(), "feed."+h.Scope,
		attribute.String("feed.scope", h.Scope),
		attribute.String("feed.id", r.PathValue("id")))
	defer span.End()
	r = r.WithContext(ctx)

	f, err := h.build(r)
	if err != nil {
		h.fail(ctx, span, w, err)
		return
	}

	// 途中で失敗しても 500 を返せるよう先にバッファへ書き出す
	var buf bytes.Buffer
	if err := rss.Write(&buf, f); err != nil {
		h.fail(ctx, span, w, err)
		return
	}

	span.SetAttributes(attribute.Int("feed.items", len(f.Items)))
	metrics.RecordFeedServed(h.Scope, len(f.Items))

	w.Header().Set("Content-Type", rss.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h Handler) fail(ctx context.Context, span trace.Span, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pathutil.ErrInvalidID):
		metrics.RecordFeedFailed(h.Scope, "bad_request")
		respond.Message(w, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, feedUC.ErrListNotFound):
		metrics.RecordFeedFailed(h.Scope, "not_found")
		respond.Message(w, http.StatusNotFound, msgListNotFound)
	case errors.Is(err, feedUC.ErrNewspaperNotFound):
		metrics.RecordFeedFailed(h.Scope, "not_found")
		respond.Message(w, http.StatusNotFound, msgNewspaperNotFound)
	default:
		metrics.RecordFeedFailed(h.Scope, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, msgBuildFailed)
		logging.FromContext(ctx).Error("failed to build rss feed",
			slog.String("scope", h.Scope),
			slog.String("error", respond.SanitizeError(err)))
		respond.Message(w, http.StatusInternalServerError, msgBuildFailed)
	}
}

// Register adds the feed routes to mux.
func Register(mux *http.ServeMux, svc *feedUC.Service) {
	mux.Handle("GET /api/rss/all", AllHandler(svc))
	mux.Handle("GET /api/rss/list/{id}", ListHandler(svc))
	mux.Handle("GET /api/rss/newspaper/{id}", NewspaperHandler(svc))
}
