package jobs

import (
	"context"
	"log/slog"

	"ridehail/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchPendingOrdersJob periodically retries the driver search for
// orders still in SearchingDriver. Runs every five seconds so orders
// created while no driver was around get picked up as soon as one comes
// online.
type DispatchPendingOrdersJob struct {
	handler commands.DispatchPendingOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewDispatchPendingOrdersJob creates a job that sweeps pending orders.
func NewDispatchPendingOrdersJob(
	handler commands.DispatchPendingOrdersCommandHandler,
	logger *slog.Logger,
) *DispatchPendingOrdersJob {
	return &DispatchPendingOrdersJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "dispatch_pending_orders_job"),
	}
}

// Start begins the dispatch sweep on a five second schedule.
func (j *DispatchPendingOrdersJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchPendingOrdersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every five seconds)")
	return nil
}

// Stop stops the dispatch job.
func (j *DispatchPendingOrdersJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}
