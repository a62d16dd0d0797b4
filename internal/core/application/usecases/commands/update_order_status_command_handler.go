package commands

import (
	"context"
	"log/slog"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/ports"
	"ridehail/internal/observability"
)

// UpdateOrderStatusCommandHandler applies lifecycle transitions to orders.
// The aggregate enforces the transition table, role authorization and the
// pickup proximity gate; the handler supplies the driver's live position
// for ride starts and keeps the driver registry in step with terminal
// transitions.
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(
//	    uowFactory, registry, matcher, notifier, logger, 120,
//	)
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, driverActor, order.InProgress)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrPreconditionFailed) {
//	    log.Println("Driver is not at the pickup point yet")
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory         OrderUoWFactory
	registry           ports.DriverRegistry
	matcher            DriverMatcher
	notifier           ports.NotificationSink
	logger             *slog.Logger
	pickupRadiusMeters float64
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status
// transitions. pickupRadiusMeters configures how close the driver must be
// to the pickup point to start the ride; values <= 0 use the default.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	registry ports.DriverRegistry,
	matcher DriverMatcher,
	notifier ports.NotificationSink,
	logger *slog.Logger,
	pickupRadiusMeters float64,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:         uowFactory,
		registry:           registry,
		matcher:            matcher,
		notifier:           notifier,
		logger:             logger,
		pickupRadiusMeters: pickupRadiusMeters,
	}
}

// Handle processes the status change command.
// Ride starts consult the driver's last reported position against the
// pickup gate. Terminal transitions free the driver in the registry.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, command UpdateOrderStatusCommand) error {
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

	previous := aggregate.Status()

	var driverPosition *kernel.GeoPoint
	if command.NextStatus() == order.InProgress && aggregate.Driver() != nil {
		driverPosition, err = h.registry.LastPosition(ctx, *aggregate.Driver())
		if err != nil {
			return err
		}
	}

	if err = aggregate.ChangeStatus(command.Actor(), command.NextStatus(), driverPosition, h.pickupRadiusMeters); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.syncRegistry(ctx, aggregate)

	observability.StatusTransitionsTotal.
		WithLabelValues(previous.String(), aggregate.Status().String()).
		Inc()
	emitSnapshot(ctx, h.notifier, h.logger, ports.NewOrderSnapshot(aggregate, driverPosition))

	return nil
}

// syncRegistry lines the driver registry up with the order's new status.
// Registry failures are logged, not returned: the order change is already
// committed and busy flags self-correct when the driver goes offline.
func (h UpdateOrderStatusCommandHandler) syncRegistry(ctx context.Context, aggregate *order.Order) {
	driver := aggregate.Driver()
	if driver == nil {
		return
	}

	var err error
	switch {
	case aggregate.Status().IsTerminal():
		err = h.matcher.ReleaseDriver(ctx, *driver)
	case aggregate.Status() == order.DriverArriving:
		err = h.registry.SetBusy(ctx, *driver, true)
	default:
		return
	}

	if err != nil {
		h.logger.WarnContext(ctx, "failed to sync driver registry after status change",
			"orderId", aggregate.ID().String(),
			"driverId", driver.String(),
			"status", aggregate.Status().String(),
			"error", err,
		)
	}
}
