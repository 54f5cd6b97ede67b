// Package functions invokes the hosted ingestion functions over HTTP.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newsfeed-hub/pkg/config"
)

const (
	processAllPath = "/process_newspaper"
	processOnePath = "/process_one_newspaper/"

	// maxBodySize limits how much of a function response is read.
	maxBodySize = 1 << 20
)

// Config contains the connection settings of the function service.
type Config struct {
	// BaseURL is the function endpoint, e.g. https://<project>.supabase.co/functions/v1
	BaseURL string

	// ServiceKey is sent as bearer token. It grants privileged access and must never reach clients.
	ServiceKey string

	Timeout time.Duration
}

// LoadConfig reads FUNCTIONS_URL, SERVICE_ROLE_KEY and FUNCTIONS_TIMEOUT.
func LoadConfig() Config {
	return Config{
		BaseURL:    config.GetEnvString("FUNCTIONS_URL", ""),
		ServiceKey: config.GetEnvString("SERVICE_ROLE_KEY", ""),
		Timeout:    config.GetEnvDuration("FUNCTIONS_TIMEOUT", 60*time.Second),
	}
}

// Error is returned when a function answers with a non-2xx status.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("function returned status %d: %s", e.StatusCode, msg)
}

// Client calls the ingestion functions. Every call is a single attempt.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a Client. A zero timeout means 60 seconds.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ProcessNewspaper asks the function service to ingest one newspaper.
func (c *Client) ProcessNewspaper(ctx context.Context, id int64) (map[string]any, error) {
	return c.invoke(ctx, processOnePath+strconv.FormatInt(id, 10))
}

// ProcessAll asks the function service to ingest every newspaper.
func (c *Client) ProcessAll(ctx context.Context) (map[string]any, error) {
	return c.invoke(ctx, processAllPath)
}

func (c *Client) invoke(ctx context.Context, path string) (map[string]any, error) {
	if c.config.BaseURL == "" {
		return nil, fmt.Errorf("invoke %s: FUNCTIONS_URL is not configured", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	out := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		// 関数が JSON 以外を返した場合はそのまま渡す
		return map[string]any{"message": string(body)}, nil
	}
	return out, nil
}
