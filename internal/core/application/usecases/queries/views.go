// Package queries contains read-only operations for retrieving system state.
// Implements the Query side of the CQRS architecture: handlers read the
// database or the driver registry directly and return plain view types,
// bypassing the aggregate model.
package queries

import (
	"time"

	"ridehail/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// GeoPointView is a plain coordinate pair in query responses.
type GeoPointView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FareView is the pricing snapshot of an order in query responses.
type FareView struct {
	BaseFare        float64 `json:"baseFare"`
	PerKm           float64 `json:"perKm"`
	PerMinute       float64 `json:"perMinute"`
	SurgeMultiplier float64 `json:"surgeMultiplier"`
	FinalPrice      float64 `json:"finalPrice"`
}

// OrderView is the read model of a single order.
type OrderView struct {
	ID              kernel.UUID  `json:"id"`
	PassengerID     kernel.UUID  `json:"passengerId"`
	DriverID        *kernel.UUID `json:"driverId,omitempty"`
	Status          string       `json:"status"`
	Pickup          GeoPointView `json:"pickup"`
	Dropoff         GeoPointView `json:"dropoff"`
	DistanceKm      float64      `json:"distanceKm"`
	DurationMinutes int          `json:"durationMinutes"`
	CityID          string       `json:"cityId"`
	Fare            FareView     `json:"fare"`
	CanceledByRole  *string      `json:"canceledByRole,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// orderRow mirrors the columns of the orders table for read queries.
type orderRow struct {
	ID                  uuid.UUID
	PassengerID         uuid.UUID
	DriverID            *uuid.UUID
	Status              string
	PickupLatitude      float64
	PickupLongitude     float64
	DropoffLatitude     float64
	DropoffLongitude    float64
	DistanceKm          float64
	DurationMinutes     int
	CityID              string
	FareBase            float64
	FarePerKm           float64
	FarePerMinute       float64
	FareSurgeMultiplier float64
	FareFinalPrice      float64
	CanceledByRole      *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (row orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return OrderView{}, err
	}

	passengerID, err := kernel.UUIDFromBytes(row.PassengerID[:])
	if err != nil {
		return OrderView{}, err
	}

	var driverID *kernel.UUID
	if row.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*row.DriverID)[:])
		if driverErr != nil {
			return OrderView{}, driverErr
		}

		driverID = &dID
	}

	return OrderView{
		ID:          id,
		PassengerID: passengerID,
		DriverID:    driverID,
		Status:      row.Status,
		Pickup: GeoPointView{
			Latitude:  row.PickupLatitude,
			Longitude: row.PickupLongitude,
		},
		Dropoff: GeoPointView{
			Latitude:  row.DropoffLatitude,
			Longitude: row.DropoffLongitude,
		},
		DistanceKm:      row.DistanceKm,
		DurationMinutes: row.DurationMinutes,
		CityID:          row.CityID,
		Fare: FareView{
			BaseFare:        row.FareBase,
			PerKm:           row.FarePerKm,
			PerMinute:       row.FarePerMinute,
			SurgeMultiplier: row.FareSurgeMultiplier,
			FinalPrice:      row.FareFinalPrice,
		},
		CanceledByRole: row.CanceledByRole,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}
