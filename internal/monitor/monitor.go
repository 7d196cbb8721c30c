package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/sadopc/timecard/internal/api"
	"github.com/sadopc/timecard/internal/model"
)

// Notifier delivers a desktop notification. Delivery is best-effort;
// failures are logged and never interrupt the monitor loop.
type Notifier interface {
	Notify(title, body string) error
}

// Orchestrator fetches the full state on an interval, runs every registered
// check against it, and acts on the results.
type Orchestrator struct {
	client   *api.Client
	notifier Notifier
	logger   *slog.Logger
	checks   []Check

	// The end-of-day nag fires at most once per tracked day.
	lastNotifiedDay *model.Day
}

func NewOrchestrator(client *api.Client, notifier Notifier, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{client: client, notifier: notifier, logger: logger}
}

func (o *Orchestrator) AddCheck(c Check) {
	o.checks = append(o.checks, c)
}

// Run loops until the context is cancelled, sleeping interval between
// sweeps. A failed sweep is logged and retried on the next tick.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := o.sweep(ctx); err != nil {
				o.logger.Error("monitor sweep failed", "error", err)
			}
		}
	}
}

func (o *Orchestrator) sweep(ctx context.Context) error {
	now := time.Now().UTC()
	o.resetDailyFlag(now)

	state, err := o.client.FullState(ctx)
	if err != nil {
		return err
	}

	for _, check := range o.checks {
		for _, result := range check.Run(state, now) {
			o.handle(ctx, check, result, now)
		}
	}
	return nil
}

func (o *Orchestrator) resetDailyFlag(now time.Time) {
	day, ok := model.CurrentDay(now)
	if !ok {
		o.lastNotifiedDay = nil
		return
	}
	if o.lastNotifiedDay != nil && *o.lastNotifiedDay != day {
		o.lastNotifiedDay = nil
	}
}

func (o *Orchestrator) handle(ctx context.Context, check Check, result Result, now time.Time) {
	switch result.Kind {
	case KindNotify:
		if check.Name() == "end-of-day" {
			day, ok := model.CurrentDay(now)
			if !ok || o.lastNotifiedDay != nil {
				return
			}
			o.lastNotifiedDay = &day
		}
		o.logger.Info("notify", "check", check.Name(), "message", result.Message)
		if err := o.notifier.Notify("timecard", result.Message); err != nil {
			o.logger.Warn("notification failed", "error", err)
		}
	case KindPauseTimer:
		o.logger.Info("pausing timer", "check", check.Name(), "entry", result.EntryID)
		if _, err := o.client.Pause(ctx, result.EntryID); err != nil {
			o.logger.Error("remote pause failed", "entry", result.EntryID, "error", err)
			return
		}
		if result.Message != "" {
			if err := o.notifier.Notify("timecard", result.Message); err != nil {
				o.logger.Warn("notification failed", "error", err)
			}
		}
	}
}
