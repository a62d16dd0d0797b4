// Package ports defines the outbound interfaces of the dispatch core.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write
	// is guarded by the aggregate's version; a concurrent update of the
	// same order surfaces as a version error, never as a lost write.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByPassenger returns the passenger's order in a
	// non-terminal status, or nil when there is none. At most one such
	// order exists.
	GetActiveByPassenger(ctx context.Context, passengerID kernel.UUID) (*order.Order, error)

	// GetAllByPassenger retrieves the passenger's orders, newest first.
	GetAllByPassenger(ctx context.Context, passengerID kernel.UUID) ([]*order.Order, error)

	// GetAllByDriver retrieves orders assigned to the driver, newest first.
	GetAllByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status.
	// Used by the dispatch retry job to pick up orders still searching.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
