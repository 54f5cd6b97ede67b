// Package auth verifies bearer tokens of the hosted auth service.
// The token subject identifies the owner of countries, newspapers and lists.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsfeed-hub/internal/handler/http/respond"
)

type ctxKey string

const ctxOwner ctxKey = "owner"

// Verifier checks HS256 tokens signed with the shared secret (JWT_SECRET).
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier creates a verifier for secret. An empty secret rejects every token.
func NewVerifier(secret string) *Verifier {
	if secret == "" {
		slog.Warn("JWT_SECRET is empty, authenticated routes will reject every request")
	}
	return &Verifier{secret: []byte(secret), now: time.Now}
}

// Required rejects requests without a valid token with 401.
func (v *Verifier) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		owner, err := validateJWT(r.Header.Get("Authorization"), v.secret, v.now())
		RecordAuthDuration("required", time.Since(start).Seconds())
		if err != nil {
			RecordAuthRequest("required", "failure")
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
			return
		}
		RecordAuthRequest("required", "success")
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// Optional attaches the owner when a valid token is present and passes
// every request through. Invalid tokens are treated as anonymous.
func (v *Verifier) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		owner, err := validateJWT(r.Header.Get("Authorization"), v.secret, v.now())
		if err != nil {
			RecordAuthRequest("optional", "failure")
			slog.Debug("ignoring invalid token on optional route",
				slog.String("path", r.URL.Path),
				slog.String("reason", err.Error()))
			next.ServeHTTP(w, r)
			return
		}
		RecordAuthRequest("optional", "success")
		next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
	})
}

// WithOwner stores the authenticated subject in ctx.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ctxOwner, owner)
}

// OwnerFromContext returns the authenticated subject or "".
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ctxOwner).(string)
	return owner
}
