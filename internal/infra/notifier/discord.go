package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	discordMaxTitle       = 256
	discordMaxDescription = 4096

	discordRed    = 15548997 // #ED4245
	discordYellow = 16705372 // #FEE75C
)

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

// Discord posts alerts as embeds to a Discord webhook (30 requests per minute).
type Discord struct {
	hook *webhook
}

// NewDiscord creates a Discord alerter.
func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	return &Discord{hook: newWebhook("discord", webhookURL, timeout, rate.Limit(0.5), 3)}
}

// Alert implements Alerter.
func (d *Discord) Alert(ctx context.Context, a Alert) error {
	return d.hook.deliver(ctx, discordPayloadFor(a))
}

func discordPayloadFor(a Alert) discordPayload {
	color := discordYellow
	if a.Err != nil {
		color = discordRed
	}
	return discordPayload{Embeds: []discordEmbed{{
		Title:       truncate(a.Title(), discordMaxTitle),
		Description: truncate(a.Body(), discordMaxDescription),
		Color:       color,
		Timestamp:   a.At.UTC().Format(time.RFC3339),
	}}}
}
