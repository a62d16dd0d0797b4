package services

import (
	"fmt"
	"math"

	"ridehail/internal/core/domain/model/order"
)

// Tariff holds the pricing rates applied to a ride.
type Tariff struct {
	// BaseFare is the flat amount charged on every ride.
	BaseFare float64

	// PerKm is the rate per kilometer of planned route distance.
	PerKm float64

	// PerMinute is the rate per minute of planned route duration.
	PerMinute float64

	// SurgeMultiplier scales the whole fare; 1 means no surge.
	SurgeMultiplier float64
}

// NewTariff validates and creates a tariff.
func NewTariff(baseFare, perKm, perMinute, surgeMultiplier float64) (Tariff, error) {
	if baseFare < 0 || perKm < 0 || perMinute < 0 {
		return Tariff{}, fmt.Errorf("tariff rates must not be negative: base=%v perKm=%v perMinute=%v",
			baseFare, perKm, perMinute)
	}
	if surgeMultiplier <= 0 {
		return Tariff{}, fmt.Errorf("surge multiplier must be positive, got %v", surgeMultiplier)
	}

	return Tariff{
		BaseFare:        baseFare,
		PerKm:           perKm,
		PerMinute:       perMinute,
		SurgeMultiplier: surgeMultiplier,
	}, nil
}

// PricingService computes the fare snapshot frozen onto an order at
// creation. Pricing is a pure calculation over the planned route; it
// never consults live driver state.
type PricingService struct {
	tariff Tariff
}

// NewPricingService creates a PricingService with the given tariff.
func NewPricingService(tariff Tariff) PricingService {
	return PricingService{tariff: tariff}
}

// CalculateFare prices a ride with the planned distance and duration:
// (base + distance * perKm + duration * perMinute) * surge, rounded to
// two decimal places.
func (s PricingService) CalculateFare(distanceKm float64, durationMinutes int) (order.Fare, error) {
	return s.CalculateFareWithSurge(distanceKm, durationMinutes, s.tariff.SurgeMultiplier)
}

// CalculateFareWithSurge prices a ride with an explicit surge multiplier
// instead of the tariff's default. The override is recorded in the fare
// components so the order carries the rate it was actually priced with.
func (s PricingService) CalculateFareWithSurge(
	distanceKm float64,
	durationMinutes int,
	surgeMultiplier float64,
) (order.Fare, error) {
	if distanceKm < 0 {
		return order.Fare{}, fmt.Errorf("distance must not be negative, got %v", distanceKm)
	}
	if durationMinutes < 0 {
		return order.Fare{}, fmt.Errorf("duration must not be negative, got %d", durationMinutes)
	}
	if surgeMultiplier <= 0 {
		return order.Fare{}, fmt.Errorf("surge multiplier must be positive, got %v", surgeMultiplier)
	}

	raw := (s.tariff.BaseFare +
		distanceKm*s.tariff.PerKm +
		float64(durationMinutes)*s.tariff.PerMinute) * surgeMultiplier
	finalPrice := math.Round(raw*100) / 100

	return order.NewFare(
		s.tariff.BaseFare,
		s.tariff.PerKm,
		s.tariff.PerMinute,
		surgeMultiplier,
		finalPrice,
	)
}
