package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/observability/metrics"
	"newsfeed-hub/pkg/config"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	// PerMinute is the sustained number of requests per client
	PerMinute int

	// Burst is the bucket size
	Burst int

	// IdleTTL removes clients that have not been seen for this long
	IdleTTL time.Duration

	// Scope labels metrics and logs (e.g. "refresh")
	Scope string
}

// LoadRefreshRateLimitConfig reads REFRESH_RATE_LIMIT (requests per minute, default 6).
func LoadRefreshRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		PerMinute: config.GetEnvIntInRange("REFRESH_RATE_LIMIT", 6, 1, 10_000),
		Burst:     3,
		IdleTTL:   10 * time.Minute,
		Scope:     "refresh",
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one golang.org/x/time/rate limiter per client address.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	cfg       RateLimitConfig
	extractor IPExtractor
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter; a nil extractor uses the remote address.
func NewIPRateLimiter(cfg RateLimitConfig, extractor IPExtractor) *IPRateLimiter {
	if cfg.PerMinute < 1 {
		cfg.PerMinute = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if extractor == nil {
		extractor = &RemoteAddrExtractor{}
	}
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		cfg:       cfg,
		extractor: extractor,
		now:       time.Now,
	}
}

func (l *IPRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.cfg.PerMinute)), l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Middleware answers 429 with Retry-After once the client's bucket is empty.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := l.extractor.ExtractIP(r)
		if err != nil {
			key = r.RemoteAddr
		}

		res := l.limiterFor(key).ReserveN(l.now(), 1)
		if delay := res.DelayFrom(l.now()); delay > 0 {
			res.CancelAt(l.now())
			metrics.RecordRateLimited(l.cfg.Scope)
			slog.Warn("rate limit exceeded",
				slog.String("scope", l.cfg.Scope),
				slog.String("client", key),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup drops clients idle for longer than IdleTTL and returns how many were removed.
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleTTL)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (l *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.String("scope", l.cfg.Scope),
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped", slog.String("scope", l.cfg.Scope))
			return
		case <-ticker.C:
			removed := l.Cleanup()
			slog.Debug("rate limit cleanup completed",
				slog.String("scope", l.cfg.Scope),
				slog.Int("removed", removed),
				slog.Int("active", l.Len()))
		}
	}
}
