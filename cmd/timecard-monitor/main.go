package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sadopc/timecard/internal/api"
	"github.com/sadopc/timecard/internal/config"
	"github.com/sadopc/timecard/internal/monitor"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	client := api.New(cfg.ServerURL)
	orchestrator := monitor.NewOrchestrator(client, monitor.DesktopNotifier{}, logger)
	orchestrator.AddCheck(monitor.NewEodCheck())
	orchestrator.AddCheck(monitor.NewLongTimerCheck())
	orchestrator.AddCheck(monitor.MidnightCheck{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := time.Duration(cfg.MonitorIntervalSecs) * time.Second
	logger.Info("starting workday monitor", "server", cfg.ServerURL, "interval", interval)

	if err := orchestrator.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor stopped", "error", err)
		os.Exit(1)
	}
}
