package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitError is a 429 from the webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// StatusError is any other non-2xx response. 5xx is retried, 4xx is not.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

const (
	maxAttempts    = 2
	baseRetryDelay = 5 * time.Second
	maxErrorBody   = 1 << 10
)

// webhook posts JSON payloads to one URL, throttled by limiter.
type webhook struct {
	name       string
	url        string
	client     *http.Client
	limiter    *rate.Limiter
	retryDelay time.Duration
}

func newWebhook(name, url string, timeout time.Duration, limit rate.Limit, burst int) *webhook {
	return &webhook{
		name:       name,
		url:        url,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		retryDelay: baseRetryDelay,
	}
}

// deliver waits for the limiter, then posts payload. 429 waits for the announced
// delay; 5xx and network errors back off linearly; 4xx fails at once.
func (w *webhook) deliver(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.name, err)
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", w.name, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = w.post(ctx, body)
		if lastErr == nil {
			return nil
		}

		delay := w.retryDelay * time.Duration(attempt)
		var rl *RateLimitError
		var se *StatusError
		switch {
		case errors.As(lastErr, &rl):
			delay = rl.RetryAfter
		case errors.As(lastErr, &se) && se.StatusCode < 500:
			return fmt.Errorf("%s alert: %w", w.name, lastErr)
		case errors.Is(lastErr, context.Canceled), errors.Is(lastErr, context.DeadlineExceeded):
			return fmt.Errorf("%s alert: %w", w.name, lastErr)
		}
		if attempt == maxAttempts {
			break
		}

		slog.Warn("alert delivery failed, retrying",
			slog.String("channel", w.name),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s alert: %w", w.name, ctx.Err())
		}
	}
	return fmt.Errorf("%s alert failed after %d attempts: %w", w.name, maxAttempts, lastErr)
}

func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"), msg)}
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
}

// retryAfter prefers Discord's JSON retry_after (seconds, fractional), then the header.
func retryAfter(header string, body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	if s, err := strconv.Atoi(header); err == nil && s > 0 {
		return time.Duration(s) * time.Second
	}
	return 5 * time.Second
}

// truncate cuts s to max bytes on a rune boundary, appending "..." when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
