// Package notifier posts ingestion run alerts to chat webhooks (Discord, Slack).
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"newsfeed-hub/pkg/config"
)

// Alert describes a failed or degraded ingestion run.
type Alert struct {
	Trigger    string
	Err        error
	Newspapers int
	FeedErrors int64
	Duration   time.Duration
	At         time.Time
}

// Title is the one-line headline of the alert.
func (a Alert) Title() string {
	if a.Err != nil {
		return fmt.Sprintf("Ingestion run failed (%s)", a.Trigger)
	}
	return fmt.Sprintf("Ingestion run finished with %d feed errors (%s)", a.FeedErrors, a.Trigger)
}

// Body is the detail text of the alert.
func (a Alert) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Newspapers: %d\nFeed errors: %d\nDuration: %s", a.Newspapers, a.FeedErrors, a.Duration.Round(time.Millisecond))
	if a.Err != nil {
		fmt.Fprintf(&b, "\nError: %s", a.Err)
	}
	return b.String()
}

// Alerter delivers alerts.
type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}

// Noop drops every alert.
type Noop struct{}

// Alert implements Alerter.
func (Noop) Alert(context.Context, Alert) error { return nil }

// Multi sends to every alerter and joins their errors.
type Multi []Alerter

// Alert implements Alerter.
func (m Multi) Alert(ctx context.Context, a Alert) error {
	var errs []error
	for _, al := range m {
		if err := al.Alert(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Config holds the webhook targets. An empty URL disables that channel.
type Config struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
	Timeout           time.Duration
}

// LoadConfig reads ALERT_DISCORD_WEBHOOK_URL, ALERT_SLACK_WEBHOOK_URL and ALERT_TIMEOUT.
// A URL that fails validation disables its channel with a warning.
func LoadConfig(logger *slog.Logger) Config {
	cfg := Config{
		DiscordWebhookURL: config.GetEnvString("ALERT_DISCORD_WEBHOOK_URL", ""),
		SlackWebhookURL:   config.GetEnvString("ALERT_SLACK_WEBHOOK_URL", ""),
		Timeout:           config.GetEnvDuration("ALERT_TIMEOUT", 30*time.Second),
	}
	if cfg.DiscordWebhookURL != "" {
		if err := validateWebhookURL(cfg.DiscordWebhookURL, "discord.com", "/api/webhooks/"); err != nil {
			logger.Warn("invalid Discord webhook URL, Discord alerts disabled", slog.Any("error", err))
			cfg.DiscordWebhookURL = ""
		}
	}
	if cfg.SlackWebhookURL != "" {
		if err := validateWebhookURL(cfg.SlackWebhookURL, "hooks.slack.com", "/services/"); err != nil {
			logger.Warn("invalid Slack webhook URL, Slack alerts disabled", slog.Any("error", err))
			cfg.SlackWebhookURL = ""
		}
	}
	return cfg
}

// New builds the alerter for cfg: Noop when no channel is configured.
func New(cfg Config) Alerter {
	var m Multi
	if cfg.DiscordWebhookURL != "" {
		m = append(m, NewDiscord(cfg.DiscordWebhookURL, cfg.Timeout))
	}
	if cfg.SlackWebhookURL != "" {
		m = append(m, NewSlack(cfg.SlackWebhookURL, cfg.Timeout))
	}
	if len(m) == 0 {
		return Noop{}
	}
	return m
}

func validateWebhookURL(raw, host, pathPrefix string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if u.Scheme != "https" {
		return errors.New("scheme must be https")
	}
	if u.Host != host {
		return fmt.Errorf("host must be %s, got %s", host, u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("path must start with %s", pathPrefix)
	}
	return nil
}
