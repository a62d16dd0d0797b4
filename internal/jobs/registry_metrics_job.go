package jobs

import (
	"context"
	"log/slog"

	"ridehail/internal/core/ports"
	"ridehail/internal/observability"

	"github.com/robfig/cron/v3"
)

// RegistryMetricsJob samples the driver registry and exports the number
// of online drivers as a gauge. Runs every fifteen seconds; the gauge is
// a trailing indicator, not a live counter.
type RegistryMetricsJob struct {
	registry ports.DriverRegistry
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRegistryMetricsJob creates a job that samples driver registry metrics.
func NewRegistryMetricsJob(registry ports.DriverRegistry, logger *slog.Logger) *RegistryMetricsJob {
	return &RegistryMetricsJob{
		registry: registry,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "registry_metrics_job"),
	}
}

// Start begins the metrics sampling on a fifteen second schedule.
func (j *RegistryMetricsJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		online, err := j.registry.CountOnline(ctx)
		if err != nil {
			j.logger.WarnContext(ctx, "Failed to sample online driver count", "error", err)
			return
		}

		observability.DriversOnline.Set(float64(online))
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Registry metrics job started (running every fifteen seconds)")
	return nil
}

// Stop stops the metrics sampling job.
func (j *RegistryMetricsJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Registry metrics job stopped")
}
