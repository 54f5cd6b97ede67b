package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	slackMaxSection  = 3000
	slackMaxFallback = 150
)

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string       `json:"type"`
	Text     *slackText   `json:"text,omitempty"`
	Elements []*slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Slack posts alerts as Block Kit messages to an incoming webhook (1 request per second).
type Slack struct {
	hook *webhook
}

// NewSlack creates a Slack alerter.
func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	return &Slack{hook: newWebhook("slack", webhookURL, timeout, rate.Limit(1), 1)}
}

// Alert implements Alerter.
func (s *Slack) Alert(ctx context.Context, a Alert) error {
	return s.hook.deliver(ctx, slackPayloadFor(a))
}

func slackPayloadFor(a Alert) slackPayload {
	return slackPayload{
		Text: truncate(a.Title(), slackMaxFallback),
		Blocks: []slackBlock{
			{Type: "section", Text: &slackText{Type: "mrkdwn", Text: truncate("*"+a.Title()+"*\n"+a.Body(), slackMaxSection)}},
			{Type: "context", Elements: []*slackText{{Type: "mrkdwn", Text: a.At.UTC().Format(time.RFC3339)}}},
		},
	}
}
