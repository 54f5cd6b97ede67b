// Package worker schedules ingestion runs and serves the trigger, health and
// metrics endpoints of the ingestion worker.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"newsfeed-hub/internal/handler/http/respond"
	"newsfeed-hub/internal/infra/notifier"
	"newsfeed-hub/internal/observability/tracing"
	"newsfeed-hub/internal/usecase/ingest"
)

// Triggers label where a run came from.
const (
	TriggerCron = "cron"
	TriggerAll  = "all"
	TriggerOne  = "one"
)

// Ingester runs ingestion. *ingest.Service implements it.
type Ingester interface {
	ProcessAll(ctx context.Context) (*ingest.Stats, error)
	ProcessOne(ctx context.Context, id int64) (*ingest.Stats, error)
}

// alertTimeout bounds alert delivery after a scheduled run.
const alertTimeout = 30 * time.Second

// Runner executes ingestion runs with a deadline and records their outcome.
// Scheduled runs that fail or hit feed errors are reported to Alerter when set.
type Runner struct {
	Ingester Ingester
	Metrics  *Metrics
	Alerter  notifier.Alerter
	Timeout  time.Duration
	Logger   *slog.Logger
}

// All processes every newspaper.
func (r *Runner) All(ctx context.Context, trigger string) (*ingest.Stats, error) {
	return r.run(ctx, trigger, r.Ingester.ProcessAll, attribute.String("ingest.trigger", trigger))
}

// One processes the newspaper id.
func (r *Runner) One(ctx context.Context, id int64) (*ingest.Stats, error) {
	return r.run(ctx, TriggerOne, func(ctx context.Context) (*ingest.Stats, error) {
		return r.Ingester.ProcessOne(ctx, id)
	}, attribute.String("ingest.trigger", TriggerOne), attribute.Int64("newspaper.id", id))
}

func (r *Runner) run(ctx context.Context, trigger string, fn func(context.Context) (*ingest.Stats, error), attrs ...attribute.KeyValue) (*ingest.Stats, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	ctx, span := tracing.Start(ctx, "ingest.run", attrs...)
	defer span.End()

	start := time.Now()
	stats, err := fn(ctx)
	elapsed := time.Since(start)

	newspapers := 0
	var feedErrors int64
	if stats != nil {
		newspapers = stats.Newspapers
		feedErrors = stats.FeedErrors
	}
	if r.Metrics != nil {
		r.Metrics.RecordRun(trigger, elapsed, newspapers, err)
	}
	if trigger == TriggerCron && (err != nil || feedErrors > 0) {
		var alertErr error
		if err != nil {
			alertErr = errors.New(respond.SanitizeError(err))
		}
		r.alert(notifier.Alert{
			Trigger:    trigger,
			Err:        alertErr,
			Newspapers: newspapers,
			FeedErrors: feedErrors,
			Duration:   elapsed,
			At:         start,
		})
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion failed")
		r.logger().Error("ingestion run failed",
			slog.String("trigger", trigger),
			slog.Duration("duration", elapsed),
			slog.String("error", respond.SanitizeError(err)))
		return stats, err
	}
	r.logger().Info("ingestion run finished",
		slog.String("trigger", trigger),
		slog.Int("newspapers", newspapers),
		slog.Duration("duration", elapsed))
	return stats, nil
}

func (r *Runner) alert(a notifier.Alert) {
	if r.Alerter == nil {
		return
	}
	// run の ctx は期限切れの可能性があるので独立させる
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()
	if err := r.Alerter.Alert(ctx, a); err != nil {
		r.logger().Warn("failed to deliver ingestion alert", slog.Any("error", err))
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// NewScheduler returns a cron that runs r.All on cfg.CronSchedule in cfg.Timezone.
// A run still in progress when the next tick fires makes that tick a no-op.
func NewScheduler(cfg Config, r *Runner) (*cron.Cron, error) {
	log := cronLogger{r.logger()}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		_, _ = r.All(context.Background(), TriggerCron)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
