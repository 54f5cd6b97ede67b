// Package outcome writes the results of the write endpoints of countries,
// newspapers and lists, together with the notices the use case emitted.
package outcome

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/observability/logging"
	"newsfeed-hub/internal/usecase/notify"
)

// maxBodyBytes bounds JSON request bodies of the write endpoints.
const maxBodyBytes = 64 << 10

// Collect installs a notify.Collector in the request context.
func Collect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := notify.WithCollector(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Decode reads a JSON body into v and rejects unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// OK writes body plus the collected notices under "notices".
func OK(w http.ResponseWriter, r *http.Request, code int, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	body["notices"] = notices(r)
	respond.JSON(w, code, body)
}

// NotFound pairs a use case sentinel with its client-facing message.
type NotFound struct {
	Err     error
	Message string
}

// Fail maps a use case error to a status code:
//
//	*entity.ValidationError -> 400 "<field>: <message>"
//	entity.ErrForbidden     -> 403
//	nf.Err                  -> 404 nf.Message
//	anything else           -> 500
func Fail(w http.ResponseWriter, r *http.Request, resource string, nf NotFound, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		fail(w, r, http.StatusBadRequest, vErr.Field+": "+vErr.Message)
	case errors.Is(err, entity.ErrForbidden):
		auth.RecordForbiddenAttempt(resource, r.Method)
		fail(w, r, http.StatusForbidden, "forbidden")
	case nf.Err != nil && errors.Is(err, nf.Err):
		fail(w, r, http.StatusNotFound, nf.Message)
	default:
		logging.FromContext(r.Context()).Error("request failed",
			slog.String("resource", resource),
			slog.String("method", r.Method),
			slog.String("error", respond.SanitizeError(err)))
		fail(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func fail(w http.ResponseWriter, r *http.Request, code int, msg string) {
	respond.JSON(w, code, map[string]any{
		"error":   msg,
		"notices": notices(r),
	})
}

func notices(r *http.Request) []notify.Notice {
	if c := notify.CollectorFromContext(r.Context()); c != nil {
		return c.Notices()
	}
	return []notify.Notice{}
}
