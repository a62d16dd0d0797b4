package commands

import (
	"errors"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrSurgeMultiplierIsNegative = errors.New("surge multiplier must not be negative")
)

// CreateOrderCommand represents a passenger's request for a new ride.
// Carries the pickup and dropoff points; distance, duration and fare are
// resolved by the handler.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, passengerID, pickup, dropoff, "almaty", 0)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	passengerID kernel.UUID
	pickup      kernel.GeoPoint
	dropoff     kernel.GeoPoint
	cityID      string

	// surgeMultiplier overrides the tariff's surge when positive;
	// zero means "price with the configured tariff".
	surgeMultiplier float64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new ride order.
// Validates identifiers and both coordinates; cityID is optional. A
// positive surgeMultiplier overrides the default tariff surge; pass 0
// to price with the configured tariff. Returns an error if any
// validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	passengerID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	cityID string,
	surgeMultiplier float64,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setPassengerID(passengerID),
		orderCommand.setPickup(pickup),
		orderCommand.setDropoff(dropoff),
		orderCommand.setCityID(cityID),
		orderCommand.setSurgeMultiplier(surgeMultiplier),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PassengerID returns the identifier of the requesting passenger.
func (c CreateOrderCommand) PassengerID() kernel.UUID {
	return c.passengerID
}

// Pickup returns the ride's pickup point.
func (c CreateOrderCommand) Pickup() kernel.GeoPoint {
	return c.pickup
}

// Dropoff returns the ride's destination point.
func (c CreateOrderCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

// CityID returns the city the ride is requested in.
func (c CreateOrderCommand) CityID() string {
	return c.cityID
}

// SurgeMultiplier returns the per-order surge override, or 0 when the
// default tariff surge applies.
func (c CreateOrderCommand) SurgeMultiplier() float64 {
	return c.surgeMultiplier
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setPassengerID(passengerID kernel.UUID) error {
	if err := passengerID.Validate(); err != nil {
		return err
	}

	c.passengerID = passengerID
	return nil
}

func (c *CreateOrderCommand) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}

	c.pickup = pickup
	return nil
}

func (c *CreateOrderCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}

// The city is informational only; an empty value means "unknown".
func (c *CreateOrderCommand) setCityID(cityID string) error {
	c.cityID = cityID
	return nil
}

func (c *CreateOrderCommand) setSurgeMultiplier(surgeMultiplier float64) error {
	if surgeMultiplier < 0 {
		return ErrSurgeMultiplierIsNegative
	}

	c.surgeMultiplier = surgeMultiplier
	return nil
}
