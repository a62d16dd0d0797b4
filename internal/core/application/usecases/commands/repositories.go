// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// RouteEstimator resolves the driving distance and duration between two
// points. Backed by the external routing provider in production.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, pickup, dropoff kernel.GeoPoint) (distanceKm float64, durationMinutes int, err error)
}

// DriverMatcher runs the driver search and manages claim lifecycle for
// assignments. Satisfied by the domain matchmaker service.
type DriverMatcher interface {
	FindDriverForOrder(ctx context.Context, aggregate *order.Order) (ports.NearbyDriver, error)
	ConfirmAssignment(ctx context.Context, driverID kernel.UUID) error
	ReleaseDriver(ctx context.Context, driverID kernel.UUID) error
}
