package queries

import (
	"context"

	"ridehail/internal/core/ports"
)

// NearbyDriverView is a single driver in a proximity query response.
type NearbyDriverView struct {
	DriverID   string       `json:"driverId"`
	Position   GeoPointView `json:"position"`
	DistanceKm float64      `json:"distanceKm"`
}

// ListNearbyDriversQueryHandler answers proximity queries from the live
// driver registry rather than the database.
type ListNearbyDriversQueryHandler struct {
	registry ports.DriverRegistry
}

// NewListNearbyDriversQueryHandler creates a handler for driver
// proximity queries.
func NewListNearbyDriversQueryHandler(registry ports.DriverRegistry) ListNearbyDriversQueryHandler {
	return ListNearbyDriversQueryHandler{registry: registry}
}

// Handle executes the proximity query. Drivers come back nearest first.
func (h ListNearbyDriversQueryHandler) Handle(
	ctx context.Context,
	query ListNearbyDriversQuery,
) ([]NearbyDriverView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := h.registry.QueryNearby(ctx, query.Center(), query.RadiusKm(), query.Limit())
	if err != nil {
		return nil, err
	}

	views := make([]NearbyDriverView, 0, len(candidates))
	for _, candidate := range candidates {
		views = append(views, NearbyDriverView{
			DriverID: candidate.DriverID.String(),
			Position: GeoPointView{
				Latitude:  candidate.Position.Latitude(),
				Longitude: candidate.Position.Longitude(),
			},
			DistanceKm: candidate.DistanceKm,
		})
	}

	return views, nil
}
