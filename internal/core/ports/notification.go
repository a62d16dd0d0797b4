package ports

import (
	"context"
	"time"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
)

// GeoPosition is a plain serializable coordinate pair used in snapshots.
type GeoPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OrderSnapshot is the self-contained notification payload emitted after
// every order change. It carries everything a subscriber needs to render
// the update, so consumers never have to query the engine back.
type OrderSnapshot struct {
	OrderID        string       `json:"orderId"`
	PassengerID    string       `json:"passengerId"`
	DriverID       *string      `json:"driverId,omitempty"`
	Status         string       `json:"status"`
	Pickup         GeoPosition  `json:"pickup"`
	Dropoff        GeoPosition  `json:"dropoff"`
	DriverPosition *GeoPosition `json:"driverPosition,omitempty"`
	FinalPrice     float64      `json:"finalPrice"`
	CanceledByRole *string      `json:"canceledByRole,omitempty"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// NewOrderSnapshot captures the order's externally visible state,
// optionally enriched with the assigned driver's last known position.
func NewOrderSnapshot(aggregate *order.Order, driverPosition *kernel.GeoPoint) OrderSnapshot {
	snapshot := OrderSnapshot{
		OrderID:     aggregate.ID().String(),
		PassengerID: aggregate.PassengerID().String(),
		Status:      aggregate.Status().String(),
		Pickup: GeoPosition{
			Latitude:  aggregate.Pickup().Latitude(),
			Longitude: aggregate.Pickup().Longitude(),
		},
		Dropoff: GeoPosition{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		FinalPrice: aggregate.Fare().FinalPrice(),
		UpdatedAt:  aggregate.UpdatedAt(),
	}

	if driver := aggregate.Driver(); driver != nil {
		id := driver.String()
		snapshot.DriverID = &id
	}

	if driverPosition != nil {
		snapshot.DriverPosition = &GeoPosition{
			Latitude:  driverPosition.Latitude(),
			Longitude: driverPosition.Longitude(),
		}
	}

	if canceledBy := aggregate.CanceledBy(); canceledBy != nil {
		role := canceledBy.Role().String()
		snapshot.CanceledByRole = &role
	}

	return snapshot
}

// NotificationSink delivers order snapshots to interested parties.
// Delivery is best effort: emitting runs after the state change is
// committed and a failed emit never rolls the change back. Callers log
// emit errors and move on.
type NotificationSink interface {
	Emit(ctx context.Context, snapshot OrderSnapshot) error
}
