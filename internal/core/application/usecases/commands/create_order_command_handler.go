package commands

import (
	"context"
	"log/slog"

	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/domain/services"
	"ridehail/internal/core/ports"
	"ridehail/internal/observability"
	"ridehail/internal/pkg/errs"
)

// CreateOrderCommandHandler registers a new ride order for a passenger.
// Resolves the route through the routing provider, prices it with the
// current tariff and persists the order in Created status. A passenger
// may hold at most one active order at a time.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, routes, pricing, notifier, logger)
//	cmd, _ := NewCreateOrderCommand(orderID, passengerID, pickup, dropoff, "almaty", 0)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Order creation failed: %v", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	routes     RouteEstimator
	pricing    services.PricingService
	notifier   ports.NotificationSink
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	routes RouteEstimator,
	pricing services.PricingService,
	notifier ports.NotificationSink,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		routes:     routes,
		pricing:    pricing,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes the order creation command.
// Estimates the route, calculates the fare and stores the order. Returns
// a conflict error when the passenger already has an active order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	distanceKm, durationMinutes, err := h.routes.EstimateRoute(ctx, command.Pickup(), command.Dropoff())
	if err != nil {
		return err
	}

	var fare order.Fare
	if surge := command.SurgeMultiplier(); surge > 0 {
		fare, err = h.pricing.CalculateFareWithSurge(distanceKm, durationMinutes, surge)
	} else {
		fare, err = h.pricing.CalculateFare(distanceKm, durationMinutes)
	}
	if err != nil {
		return err
	}

	aggregate, err := order.NewOrder(
		command.OrderID(),
		command.PassengerID(),
		command.Pickup(),
		command.Dropoff(),
		distanceKm,
		durationMinutes,
		command.CityID(),
		fare,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	active, err := repo.GetActiveByPassenger(ctx, command.PassengerID())
	if err != nil {
		return err
	}
	if active != nil {
		return errs.NewConflictError("passenger already has an active order", active.ID())
	}

	if err = repo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	observability.OrdersCreatedTotal.Inc()
	emitSnapshot(ctx, h.notifier, h.logger, ports.NewOrderSnapshot(aggregate, nil))

	return nil
}
