package commands

import (
	"context"
	"errors"
	"log/slog"

	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/domain/services"
	"ridehail/internal/core/ports"
	"ridehail/internal/observability"
)

// DispatchPendingOrdersCommandHandler sweeps orders stuck in
// SearchingDriver and retries the driver search for each. Orders that
// still find no driver simply stay in the queue for the next sweep.
//
// Example:
//
//	handler := NewDispatchPendingOrdersCommandHandler(uowFactory, matcher, notifier, logger)
//	cmd := NewDispatchPendingOrdersCommand()
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Dispatch sweep failed: %v", err)
//	}
type DispatchPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	matcher    DriverMatcher
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewDispatchPendingOrdersCommandHandler creates a handler for the
// periodic dispatch sweep.
func NewDispatchPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	matcher DriverMatcher,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) DispatchPendingOrdersCommandHandler {
	return DispatchPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		notifier:   notifier,
		logger:     logger,
	}
}

type dispatchResult struct {
	aggregate *order.Order
	candidate ports.NearbyDriver
}

// Handle processes the dispatch sweep command.
// All assignments from one sweep commit in a single transaction; claim
// confirmations and notifications run after the commit.
func (h DispatchPendingOrdersCommandHandler) Handle(ctx context.Context, command DispatchPendingOrdersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	pending, err := repo.GetAllInStatus(ctx, order.SearchingDriver)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return uow.Commit(ctx)
	}

	assigned := make([]dispatchResult, 0, len(pending))

	for _, aggregate := range pending {
		candidate, matchErr := h.matcher.FindDriverForOrder(ctx, aggregate)
		if errors.Is(matchErr, services.ErrNoDriverAvailable) {
			observability.MatchMissesTotal.Inc()
			continue
		}
		if matchErr != nil {
			return matchErr
		}

		if err = aggregate.AssignDriver(candidate.DriverID); err != nil {
			return err
		}

		if err = repo.Update(ctx, aggregate); err != nil {
			return err
		}

		assigned = append(assigned, dispatchResult{aggregate: aggregate, candidate: candidate})
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, result := range assigned {
		if confirmErr := h.matcher.ConfirmAssignment(ctx, result.candidate.DriverID); confirmErr != nil {
			h.logger.WarnContext(ctx, "failed to confirm driver assignment",
				"orderId", result.aggregate.ID().String(),
				"driverId", result.candidate.DriverID.String(),
				"error", confirmErr,
			)
		}

		observability.MatchesTotal.Inc()
		emitSnapshot(ctx, h.notifier, h.logger, ports.NewOrderSnapshot(result.aggregate, &result.candidate.Position))
	}

	h.logger.InfoContext(ctx, "dispatch sweep finished",
		"pending", len(pending),
		"assigned", len(assigned),
	)

	return nil
}
