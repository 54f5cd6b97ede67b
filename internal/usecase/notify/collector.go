package notify

import (
	"context"
	"log/slog"
	"sync"
)

type collectorKey struct{}

// Collector accumulates the notices emitted while serving one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// WithCollector returns a child context carrying a fresh Collector.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFromContext returns the Collector installed by WithCollector, or nil.
func CollectorFromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}

func (c *Collector) add(n Notice) {
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
}

// Notices returns a copy of the collected notices in emission order.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Dispatcher is the production Notifier: it logs every notice and, when the context
// carries a Collector, records the notice there as well.
type Dispatcher struct {
	Logger *slog.Logger
}

// NewDispatcher returns a Dispatcher logging through logger (slog.Default when nil).
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{Logger: logger}
}

func (d *Dispatcher) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Kind == KindError {
		level = slog.LevelWarn
	}
	d.Logger.LogAttrs(ctx, level, "notice",
		slog.String("kind", string(n.Kind)),
		slog.String("title", n.Title),
		slog.String("description", n.Description))

	if c := CollectorFromContext(ctx); c != nil {
		c.add(n)
	}
}
