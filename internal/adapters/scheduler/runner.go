// Package scheduler provides the adapter that runs periodic maintenance,
// currently the enrollment-window closer.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/neduet/campus-api/internal/observability/metrics"
	"github.com/neduet/campus-api/internal/observability/statsd"
)

// WindowCloser is the slice of the enrollment repository the runner needs.
type WindowCloser interface {
	CloseExpiredWindows(ctx context.Context) (int64, error)
}

// Runner ticks at a configurable interval and closes enrollment windows
// whose deadline has passed.
type Runner struct {
	windows  WindowCloser
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Windows  WindowCloser
	Interval time.Duration
	Logger   *slog.Logger
	Metrics  statsd.Sink
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Windows == nil {
		return nil, errors.New("enrollment window repository is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		windows:  opts.Windows,
		interval: opts.Interval,
		logger:   opts.Logger.With("component", "scheduler"),
		metrics:  opts.Metrics,
	}, nil
}

// Run ticks until ctx is cancelled. An immediate first tick closes any
// windows that expired while the service was down.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "scheduler started", "interval", r.interval.String())

	r.tick(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "scheduler stopping")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	closed, err := r.windows.CloseExpiredWindows(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.logger.ErrorContext(ctx, "close expired windows", "err", err)
		metrics.EmitWindowSweep(r.metrics, metrics.SweepMetric{Duration: time.Since(start), Err: err})
		return
	}
	metrics.EmitWindowSweep(r.metrics, metrics.SweepMetric{Closed: closed, Duration: time.Since(start)})
	if closed > 0 {
		r.logger.InfoContext(ctx, "closed expired enrollment windows", "count", closed)
	}
}
