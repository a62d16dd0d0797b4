package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ridehail/internal/core/domain/services"
	"ridehail/internal/core/ports"
	"ridehail/internal/observability"
)

// SearchDriverCommandHandler runs the driver search for an order.
// Moves the order into SearchingDriver, asks the matchmaker for the
// nearest claimable driver and, on a hit, records the assignment and
// confirms the claim. When no driver is found the order stays in
// SearchingDriver so the dispatch job can retry it later.
//
// Example:
//
//	handler := NewSearchDriverCommandHandler(uowFactory, matcher, notifier, logger)
//	cmd, _ := NewSearchDriverCommand(orderID, actor)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Driver search failed: %v", err)
//	}
type SearchDriverCommandHandler struct {
	uowFactory OrderUoWFactory
	matcher    DriverMatcher
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewSearchDriverCommandHandler creates a handler for driver search operations.
func NewSearchDriverCommandHandler(
	uowFactory OrderUoWFactory,
	matcher DriverMatcher,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) SearchDriverCommandHandler {
	return SearchDriverCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes the driver search command.
// A search with no available driver is a normal outcome and returns nil;
// the order remains in SearchingDriver.
func (h SearchDriverCommandHandler) Handle(ctx context.Context, command SearchDriverCommand) error {
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

	aggregate, err := repo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.StartSearch(command.Actor()); err != nil {
		return err
	}

	started := time.Now()

	candidate, matchErr := h.matcher.FindDriverForOrder(ctx, aggregate)
	if matchErr != nil && !errors.Is(matchErr, services.ErrNoDriverAvailable) {
		return matchErr
	}

	matched := matchErr == nil
	if matched {
		if err = aggregate.AssignDriver(candidate.DriverID); err != nil {
			return err
		}
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if !matched {
		observability.MatchMissesTotal.Inc()
		emitSnapshot(ctx, h.notifier, h.logger, ports.NewOrderSnapshot(aggregate, nil))
		return nil
	}

	if err = h.matcher.ConfirmAssignment(ctx, candidate.DriverID); err != nil {
		// The claim still holds until its TTL lapses; the ride flow is
		// unaffected beyond the driver briefly reappearing in searches.
		h.logger.WarnContext(ctx, "failed to confirm driver assignment",
			"orderId", aggregate.ID().String(),
			"driverId", candidate.DriverID.String(),
			"error", err,
		)
	}

	observability.MatchesTotal.Inc()
	observability.MatchLatency.Observe(time.Since(started).Seconds())
	emitSnapshot(ctx, h.notifier, h.logger, ports.NewOrderSnapshot(aggregate, &candidate.Position))

	return nil
}
