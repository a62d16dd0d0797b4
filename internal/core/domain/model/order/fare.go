package order

import (
	"errors"
	"fmt"

	"ridehail/internal/pkg/errs"
	"ridehail/internal/pkg/guard"
)

// ErrFareIsNotConstructed is returned when a Fare was not created via NewFare.
var ErrFareIsNotConstructed = errors.New("Fare must be created via NewFare constructor")

// Fare captures the pricing components frozen onto an order at creation
// time: the tariff that was applied and the resulting final price. The
// fare never changes after the order is created; pricing itself is a
// pure calculation owned by the pricing domain service.
type Fare struct { //nolint:recvcheck //using for validation
	baseFare        float64
	perKm           float64
	perMinute       float64
	surgeMultiplier float64
	finalPrice      float64

	guard guard.ConstructorGuard
}

// NewFare creates a Fare from tariff components and the computed final price.
// All components must be non-negative and the surge multiplier positive.
func NewFare(baseFare, perKm, perMinute, surgeMultiplier, finalPrice float64) (Fare, error) {
	fare := Fare{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		fare.setComponent(&fare.baseFare, "baseFare", baseFare),
		fare.setComponent(&fare.perKm, "perKm", perKm),
		fare.setComponent(&fare.perMinute, "perMinute", perMinute),
		fare.setSurgeMultiplier(surgeMultiplier),
		fare.setComponent(&fare.finalPrice, "finalPrice", finalPrice),
	); err != nil {
		return Fare{}, err
	}

	return fare, nil
}

// Validate ensures the fare was created through the constructor.
func (f Fare) Validate() error {
	return f.guard.Validate(ErrFareIsNotConstructed)
}

// BaseFare returns the flag-fall component of the applied tariff.
func (f Fare) BaseFare() float64 {
	return f.baseFare
}

// PerKm returns the per-kilometer rate of the applied tariff.
func (f Fare) PerKm() float64 {
	return f.perKm
}

// PerMinute returns the per-minute rate of the applied tariff.
func (f Fare) PerMinute() float64 {
	return f.perMinute
}

// SurgeMultiplier returns the surge multiplier of the applied tariff.
func (f Fare) SurgeMultiplier() float64 {
	return f.surgeMultiplier
}

// FinalPrice returns the total price quoted for the ride.
func (f Fare) FinalPrice() float64 {
	return f.finalPrice
}

func (f *Fare) setComponent(target *float64, name string, value float64) error {
	if value < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name,
			fmt.Errorf("%v is negative", value))
	}

	*target = value
	return nil
}

func (f *Fare) setSurgeMultiplier(value float64) error {
	if value <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("surgeMultiplier",
			fmt.Errorf("%v is not greater than 0", value))
	}

	f.surgeMultiplier = value
	return nil
}
