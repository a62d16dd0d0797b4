// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and the parties involved.
type OrderDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	PassengerID     uuid.UUID   `gorm:"type:uuid;index"`
	DriverID        *uuid.UUID  `gorm:"type:uuid;index"`
	Status          string      `gorm:"type:varchar(32);index"`
	Pickup          GeoPointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff         GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	DistanceKm      float64
	DurationMinutes int
	CityID          string     `gorm:"type:varchar(64)"`
	Fare            FareDTO    `gorm:"embedded;embeddedPrefix:fare_"`
	CanceledByRole  *string    `gorm:"type:varchar(16)"`
	CanceledByID    *uuid.UUID `gorm:"type:uuid"`
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO represents embedded geographic coordinates within the order table.
type GeoPointDTO struct {
	Latitude  float64
	Longitude float64
}

// FareDTO represents the embedded pricing snapshot within the order table.
type FareDTO struct {
	Base            float64
	PerKm           float64
	PerMinute       float64
	SurgeMultiplier float64
	FinalPrice      float64
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including optional driver assignment and cancellation attribution.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var canceledByRole *string
	var canceledByID *uuid.UUID
	if canceledBy := aggregate.CanceledBy(); canceledBy != nil {
		role := canceledBy.Role().String()
		canceledByRole = &role
		raw := canceledBy.UserID().Bytes()
		canceledByID = &raw
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		PassengerID: aggregate.PassengerID().Bytes(),
		DriverID:    driverID,
		Status:      aggregate.Status().String(),
		Pickup: GeoPointDTO{
			Latitude:  aggregate.Pickup().Latitude(),
			Longitude: aggregate.Pickup().Longitude(),
		},
		Dropoff: GeoPointDTO{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		DistanceKm:      aggregate.DistanceKm(),
		DurationMinutes: aggregate.DurationMinutes(),
		CityID:          aggregate.CityID(),
		Fare: FareDTO{
			Base:            aggregate.Fare().BaseFare(),
			PerKm:           aggregate.Fare().PerKm(),
			PerMinute:       aggregate.Fare().PerMinute(),
			SurgeMultiplier: aggregate.Fare().SurgeMultiplier(),
			FinalPrice:      aggregate.Fare().FinalPrice(),
		},
		CanceledByRole: canceledByRole,
		CanceledByID:   canceledByID,
		Version:        aggregate.Version(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status, driver assignment
// and cancellation attribution using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	passengerID, err := kernel.UUIDFromBytes(dto.PassengerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}

		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	fare, err := order.NewFare(
		dto.Fare.Base,
		dto.Fare.PerKm,
		dto.Fare.PerMinute,
		dto.Fare.SurgeMultiplier,
		dto.Fare.FinalPrice,
	)
	if err != nil {
		return nil, err
	}

	var canceledBy *order.Cancellation
	if dto.CanceledByRole != nil && dto.CanceledByID != nil {
		role, roleErr := order.RoleFromString(*dto.CanceledByRole)
		if roleErr != nil {
			return nil, roleErr
		}

		userID, idErr := kernel.UUIDFromBytes((*dto.CanceledByID)[:])
		if idErr != nil {
			return nil, idErr
		}

		cancellation, cancelErr := order.NewCancellation(role, userID)
		if cancelErr != nil {
			return nil, cancelErr
		}

		canceledBy = &cancellation
	}

	return order.RestoreOrder(
		id,
		passengerID,
		driverID,
		status,
		pickup,
		dropoff,
		dto.DistanceKm,
		dto.DurationMinutes,
		dto.CityID,
		fare,
		canceledBy,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
