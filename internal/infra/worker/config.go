package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsfeed-hub/internal/pkg/config"
	envcfg "newsfeed-hub/pkg/config"
)

// Config holds the scheduling and serving settings of the ingestion worker.
type Config struct {
	// CronSchedule is a five-field cron expression or a descriptor such as "@hourly"
	CronSchedule string

	// Timezone is the IANA zone the schedule is evaluated in
	Timezone string

	// CrawlTimeout bounds one ProcessAll run (1m..4h)
	CrawlTimeout time.Duration

	// Addr is the listen address of the trigger/health server
	Addr string

	// ServiceKey is the bearer token required by the trigger endpoints.
	// Empty disables the trigger endpoints.
	ServiceKey string
}

// DefaultConfig returns the default worker settings.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "*/30 * * * *",
		Timezone:     "Europe/Berlin",
		CrawlTimeout: 10 * time.Minute,
		Addr:         ":9091",
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.CrawlTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("crawl timeout: %w", err))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr: cannot be empty"))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads CRON_SCHEDULE, CRON_TZ, CRAWL_TIMEOUT, WORKER_ADDR and
// SERVICE_ROLE_KEY. Invalid values never fail the load: the default is used,
// a warning is logged and the fallback is counted in metrics.
func LoadConfig(logger *slog.Logger, metrics *Metrics) Config {
	cfg := DefaultConfig()

	schedule := config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	noteFallback(logger, metrics, "cron_schedule", schedule.FallbackApplied, schedule.Warning)

	tz := config.LoadString("CRON_TZ", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	noteFallback(logger, metrics, "timezone", tz.FallbackApplied, tz.Warning)

	timeout := config.LoadDuration("CRAWL_TIMEOUT", cfg.CrawlTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.CrawlTimeout = timeout.Value
	noteFallback(logger, metrics, "crawl_timeout", timeout.FallbackApplied, timeout.Warning)

	cfg.Addr = envcfg.GetEnvString("WORKER_ADDR", cfg.Addr)
	cfg.ServiceKey = envcfg.GetEnvString("SERVICE_ROLE_KEY", "")

	return cfg
}

func noteFallback(logger *slog.Logger, metrics *Metrics, field string, applied bool, warning string) {
	if !applied {
		return
	}
	if metrics != nil {
		metrics.RecordConfigFallback(field)
	}
	logger.Warn("configuration fallback applied",
		slog.String("field", field),
		slog.String("warning", warning))
}
