package ports

import (
	"context"
	"time"

	"ridehail/internal/core/domain/model/kernel"
)

// NearbyDriver is a single candidate returned by a proximity query:
// the driver, their last reported position and the distance from the
// query center.
type NearbyDriver struct {
	DriverID   kernel.UUID
	Position   kernel.GeoPoint
	DistanceKm float64
}

// DriverRegistry is the live-state store for drivers: positions,
// availability, busy flags and dispatch claims. The registry knows
// nothing about orders beyond the opaque order id used to tag a claim;
// order semantics live entirely in the order aggregate.
//
// All state in the registry is ephemeral and driver-keyed. A driver who
// goes offline disappears from proximity queries entirely.
type DriverRegistry interface {
	// UpsertPosition records the driver's latest position, replacing any
	// previous one. The upsert itself does not change availability.
	UpsertPosition(ctx context.Context, driverID kernel.UUID, position kernel.GeoPoint) error

	// SetAvailability marks the driver online (accepting offers) or
	// offline. Going offline removes the driver's position, busy flag
	// and any claim, so a returning driver starts from a clean slate.
	SetAvailability(ctx context.Context, driverID kernel.UUID, available bool) error

	// SetBusy marks the driver as occupied by an active ride. Busy
	// drivers remain online but are skipped by proximity queries and
	// rejected by Claim.
	SetBusy(ctx context.Context, driverID kernel.UUID, busy bool) error

	// LastPosition returns the driver's last reported position, or nil
	// if the driver has never reported one or has gone offline.
	LastPosition(ctx context.Context, driverID kernel.UUID) (*kernel.GeoPoint, error)

	// QueryNearby returns up to limit online, non-busy drivers within
	// radiusKm of center, ordered nearest first.
	QueryNearby(ctx context.Context, center kernel.GeoPoint, radiusKm float64, limit int) ([]NearbyDriver, error)

	// Claim atomically reserves the driver for the given order. The
	// reservation succeeds only if the driver is online, not busy and
	// not already claimed; it expires on its own after ttl unless the
	// assignment is confirmed. Returns false, without error, when the
	// driver could not be claimed.
	Claim(ctx context.Context, driverID kernel.UUID, orderID kernel.UUID, ttl time.Duration) (bool, error)

	// Release drops the driver's claim, if any. Safe to call when no
	// claim exists.
	Release(ctx context.Context, driverID kernel.UUID) error

	// CountOnline returns the number of drivers currently online.
	CountOnline(ctx context.Context) (int64, error)
}
