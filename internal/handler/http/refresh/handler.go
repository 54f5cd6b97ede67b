// Package refresh exposes the ingestion refresh trigger.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/internal/observability/metrics"
	refreshUC "newsfeed-hub/internal/usecase/refresh"
)

const (
	msgInvalidID     = "A valid numerical newspaper ID is required."
	msgRefreshFailed = "Failed to refresh newspaper feed."
)

// failure is the 500 body. Unlike other routes it carries the upstream error.
type failure struct {
	Error         string `json:"error"`
	OriginalError string `json:"originalError"`
}

// OneHandler serves GET /api/refresh/{id}.
type OneHandler struct{ Svc *refreshUC.Service }

func (h OneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := h.Svc.One(r.Context(), r.PathValue("id"))
	if errors.Is(err, refreshUC.ErrInvalidNewspaperID) {
		respond.Message(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	write(r.Context(), w, "one", data, err)
}

// AllHandler serves GET /api/refresh/all.
type AllHandler struct{ Svc *refreshUC.Service }

func (h AllHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, err := h.Svc.All(r.Context())
	write(r.Context(), w, "all", data, err)
}

func write(ctx context.Context, w http.ResponseWriter, scope string, data map[string]any, err error) {
	metrics.RecordRefresh(scope, err == nil)
	if err != nil {
		logging.FromContext(ctx).Error("refresh trigger failed",
			slog.String("scope", scope),
			slog.String("error", respond.SanitizeError(err)))
		respond.JSON(w, http.StatusInternalServerError, failure{
			Error:         msgRefreshFailed,
			OriginalError: respond.SanitizeError(err),
		})
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	respond.JSON(w, http.StatusOK, data)
}

// Register adds the refresh routes behind limit. The literal "all" route wins over {id}.
func Register(mux *http.ServeMux, svc *refreshUC.Service, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(h http.Handler) http.Handler { return h }
	}
	mux.Handle("GET /api/refresh/all", limit(AllHandler{Svc: svc}))
	mux.Handle("GET /api/refresh/{id}", limit(OneHandler{Svc: svc}))
}
