package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAlert = Alert{
	Trigger:    "cron",
	Newspapers: 12,
	FeedErrors: 2,
	Duration:   3 * time.Second,
	At:         time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC),
}

func TestAlert_Text(t *testing.T) {
	assert.Equal(t, "Ingestion run finished with 2 feed errors (cron)", testAlert.Title())
	assert.Equal(t, "Newspapers: 12\nFeed errors: 2\nDuration: 3s", testAlert.Body())

	failed := testAlert
	failed.Err = errors.New("list newspapers with feed: timeout")
	assert.Equal(t, "Ingestion run failed (cron)", failed.Title())
	assert.True(t, strings.HasSuffix(failed.Body(), "\nError: list newspapers with feed: timeout"))
}

func TestDiscord_PostsEmbed(t *testing.T) {
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewDiscord(srv.URL, time.Second).Alert(context.Background(), testAlert))
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, testAlert.Title(), got.Embeds[0].Title)
	assert.Equal(t, discordYellow, got.Embeds[0].Color)
	assert.Equal(t, "2026-05-01T08:30:00Z", got.Embeds[0].Timestamp)
}

func TestDiscord_FailedRunIsRed(t *testing.T) {
	a := testAlert
	a.Err = errors.New("boom")
	assert.Equal(t, discordRed, discordPayloadFor(a).Embeds[0].Color)
}

func TestSlack_PostsBlocks(t *testing.T) {
	var got slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	require.NoError(t, NewSlack(srv.URL, time.Second).Alert(context.Background(), testAlert))
	assert.Equal(t, testAlert.Title(), got.Text)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "section", got.Blocks[0].Type)
	assert.Contains(t, got.Blocks[0].Text.Text, "Feed errors: 2")
	assert.Equal(t, "context", got.Blocks[1].Type)
}

func TestWebhook_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL, time.Second)
	d.hook.retryDelay = time.Millisecond
	require.NoError(t, d.Alert(context.Background(), testAlert))
	assert.EqualValues(t, 2, calls.Load())
}

func TestWebhook_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid webhook token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL, time.Second)
	d.hook.retryDelay = time.Millisecond
	err := d.Alert(context.Background(), testAlert)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}

func TestWebhook_RateLimitHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"message":"You are being rate limited.","retry_after":0.01}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewDiscord(srv.URL, time.Second).Alert(context.Background(), testAlert))
	assert.EqualValues(t, 2, calls.Load())
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, retryAfter("", []byte(`{"retry_after":1.5}`)))
	assert.Equal(t, 7*time.Second, retryAfter("7", []byte("slow down")))
	assert.Equal(t, 5*time.Second, retryAfter("", nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	// "ü" is two bytes and must not be split
	assert.Equal(t, "ab...", truncate("abüxyz", 6))
}

type recorder struct {
	got []Alert
	err error
}

func (r *recorder) Alert(_ context.Context, a Alert) error {
	r.got = append(r.got, a)
	return r.err
}

func TestMulti_SendsToAllAndJoinsErrors(t *testing.T) {
	first := &recorder{err: errors.New("discord down")}
	second := &recorder{}

	err := Multi{first, second}.Alert(context.Background(), testAlert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord down")
	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
}

func TestLoadConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv("ALERT_DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/123/abc")
	t.Setenv("ALERT_SLACK_WEBHOOK_URL", "http://hooks.slack.com/services/T/B/X")
	cfg := LoadConfig(logger)
	assert.Equal(t, "https://discord.com/api/webhooks/123/abc", cfg.DiscordWebhookURL)
	assert.Empty(t, cfg.SlackWebhookURL, "plain http is rejected")
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	t.Setenv("ALERT_DISCORD_WEBHOOK_URL", "https://evil.example/api/webhooks/1")
	assert.Empty(t, LoadConfig(logger).DiscordWebhookURL)
}

func TestNew(t *testing.T) {
	assert.Equal(t, Noop{}, New(Config{}))

	m, ok := New(Config{
		DiscordWebhookURL: "https://discord.com/api/webhooks/1/x",
		SlackWebhookURL:   "https://hooks.slack.com/services/T/B/X",
		Timeout:           time.Second,
	}).(Multi)
	require.True(t, ok)
	assert.Len(t, m, 2)
}
