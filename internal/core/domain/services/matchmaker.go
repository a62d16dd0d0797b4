package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/ports"
)

// ErrNoDriverAvailable is returned when matchmaking exhausted every
// search radius without claiming a driver. This is a normal business
// outcome, not a failure: the order stays in SearchingDriver and a later
// retry may succeed.
var ErrNoDriverAvailable = errors.New("no driver available")

// MatchingConfig tunes the expanding-radius search.
type MatchingConfig struct {
	// BaseRadiusKm is the first search ring around the pickup point.
	BaseRadiusKm float64

	// MaxRadiusKm caps the search; the last ring is exactly this wide.
	MaxRadiusKm float64

	// CandidateLimit bounds how many candidates each ring may return.
	CandidateLimit int

	// ClaimTTL is how long a claimed driver stays reserved before the
	// claim expires on its own.
	ClaimTTL time.Duration
}

// NewMatchingConfig validates and creates a matching configuration.
func NewMatchingConfig(baseRadiusKm, maxRadiusKm float64, candidateLimit int, claimTTL time.Duration) (MatchingConfig, error) {
	if baseRadiusKm <= 0 {
		return MatchingConfig{}, fmt.Errorf("base radius must be positive, got %v", baseRadiusKm)
	}
	if maxRadiusKm < baseRadiusKm {
		return MatchingConfig{}, fmt.Errorf("max radius %v is smaller than base radius %v", maxRadiusKm, baseRadiusKm)
	}
	if candidateLimit <= 0 {
		return MatchingConfig{}, fmt.Errorf("candidate limit must be positive, got %d", candidateLimit)
	}
	if claimTTL <= 0 {
		return MatchingConfig{}, fmt.Errorf("claim TTL must be positive, got %v", claimTTL)
	}

	return MatchingConfig{
		BaseRadiusKm:   baseRadiusKm,
		MaxRadiusKm:    maxRadiusKm,
		CandidateLimit: candidateLimit,
		ClaimTTL:       claimTTL,
	}, nil
}

// SearchRadii returns the rings matchmaking walks through: the base
// radius, its doublings, and the max radius, deduplicated and sorted
// ascending. Rings beyond the max are clipped away.
func (c MatchingConfig) SearchRadii() []float64 {
	candidates := []float64{c.BaseRadiusKm, c.BaseRadiusKm * 2, c.BaseRadiusKm * 4, c.MaxRadiusKm}

	seen := make(map[float64]bool, len(candidates))
	radii := make([]float64, 0, len(candidates))
	for _, r := range candidates {
		if r > c.MaxRadiusKm || seen[r] {
			continue
		}
		seen[r] = true
		radii = append(radii, r)
	}

	sort.Float64s(radii)
	return radii
}

// Matchmaker is the domain service that picks a driver for an order.
// It walks expanding radii around the pickup point, asks the registry
// for the nearest free drivers, and tries to claim them one by one,
// nearest first. The claim is the only arbiter under concurrency: two
// matchmakers racing for the same driver see exactly one claim succeed.
type Matchmaker struct {
	registry ports.DriverRegistry
	config   MatchingConfig
}

// NewMatchmaker creates a Matchmaker over the given registry.
func NewMatchmaker(registry ports.DriverRegistry, config MatchingConfig) (*Matchmaker, error) {
	if registry == nil {
		return nil, errors.New("registry must not be nil")
	}

	return &Matchmaker{registry: registry, config: config}, nil
}

// FindDriverForOrder searches for and claims a driver for the order.
// Returns the claimed candidate, or ErrNoDriverAvailable when every
// radius came up empty or every candidate was claimed by someone else
// first. The claim expires after the configured TTL; the caller must
// confirm the assignment before then.
func (m *Matchmaker) FindDriverForOrder(ctx context.Context, aggregate *order.Order) (ports.NearbyDriver, error) {
	if err := aggregate.Validate(); err != nil {
		return ports.NearbyDriver{}, err
	}

	tried := make(map[kernel.UUID]bool)

	for _, radiusKm := range m.config.SearchRadii() {
		candidates, err := m.registry.QueryNearby(ctx, aggregate.Pickup(), radiusKm, m.config.CandidateLimit)
		if err != nil {
			return ports.NearbyDriver{}, fmt.Errorf("query drivers within %vkm: %w", radiusKm, err)
		}

		for _, candidate := range candidates {
			if tried[candidate.DriverID] {
				continue
			}
			tried[candidate.DriverID] = true

			claimed, err := m.registry.Claim(ctx, candidate.DriverID, aggregate.ID(), m.config.ClaimTTL)
			if err != nil {
				return ports.NearbyDriver{}, fmt.Errorf("claim driver %s: %w", candidate.DriverID, err)
			}
			if claimed {
				return candidate, nil
			}
		}
	}

	return ports.NearbyDriver{}, ErrNoDriverAvailable
}

// ConfirmAssignment marks the claimed driver busy so proximity queries
// skip them for the whole ride. The claim itself is left to expire; busy
// is what protects the driver from here on.
func (m *Matchmaker) ConfirmAssignment(ctx context.Context, driverID kernel.UUID) error {
	if err := m.registry.SetBusy(ctx, driverID, true); err != nil {
		return fmt.Errorf("mark driver %s busy: %w", driverID, err)
	}

	return nil
}

// ReleaseDriver returns the driver to the pool after a terminal order:
// the busy flag and any remaining claim are dropped.
func (m *Matchmaker) ReleaseDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := m.registry.SetBusy(ctx, driverID, false); err != nil {
		return fmt.Errorf("unmark driver %s busy: %w", driverID, err)
	}

	if err := m.registry.Release(ctx, driverID); err != nil {
		return fmt.Errorf("release driver %s claim: %w", driverID, err)
	}

	return nil
}
