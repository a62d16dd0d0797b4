package queries

import (
	"errors"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/pkg/errs"
	"ridehail/internal/pkg/guard"
)

const (
	defaultNearbyRadiusKm = 5.0
	maxNearbyLimit        = 100
)

var ErrListNearbyDriversQueryIsNotConstructed = errors.New(
	"ListNearbyDriversQuery must be created via NewListNearbyDriversQuery constructor",
)

// ListNearbyDriversQuery finds online, non-busy drivers around a point.
// radiusKm <= 0 falls back to the default search radius.
type ListNearbyDriversQuery struct { //nolint:recvcheck //using for validation
	center   kernel.GeoPoint
	radiusKm float64
	limit    int

	guard guard.ConstructorGuard
}

// NewListNearbyDriversQuery creates a proximity query around center.
func NewListNearbyDriversQuery(center kernel.GeoPoint, radiusKm float64, limit int) (ListNearbyDriversQuery, error) {
	nearbyQuery := ListNearbyDriversQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		nearbyQuery.setCenter(center),
		nearbyQuery.setRadiusKm(radiusKm),
		nearbyQuery.setLimit(limit),
	); err != nil {
		return ListNearbyDriversQuery{}, err
	}

	return nearbyQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListNearbyDriversQueryIsNotConstructed if validation fails.
func (q ListNearbyDriversQuery) Validate() error {
	return q.guard.Validate(ErrListNearbyDriversQueryIsNotConstructed)
}

// Center returns the search center.
func (q ListNearbyDriversQuery) Center() kernel.GeoPoint {
	return q.center
}

// RadiusKm returns the search radius in kilometers.
func (q ListNearbyDriversQuery) RadiusKm() float64 {
	return q.radiusKm
}

// Limit returns the maximum number of drivers to return.
func (q ListNearbyDriversQuery) Limit() int {
	return q.limit
}

func (q *ListNearbyDriversQuery) setCenter(center kernel.GeoPoint) error {
	if err := center.Validate(); err != nil {
		return err
	}

	q.center = center
	return nil
}

func (q *ListNearbyDriversQuery) setRadiusKm(radiusKm float64) error {
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}

	q.radiusKm = radiusKm
	return nil
}

func (q *ListNearbyDriversQuery) setLimit(limit int) error {
	if limit <= 0 || limit > maxNearbyLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, maxNearbyLimit)
	}

	q.limit = limit
	return nil
}
