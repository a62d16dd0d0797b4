package commands

import (
	"context"

	"ridehail/internal/core/ports"
)

// SetDriverAvailabilityCommandHandler flips the driver's online flag in
// the registry. Going offline wipes the driver's position, busy flag and
// any pending claim, so a driver who disappears mid-search can never be
// matched.
type SetDriverAvailabilityCommandHandler struct {
	registry ports.DriverRegistry
}

// NewSetDriverAvailabilityCommandHandler creates a handler for driver
// availability changes.
func NewSetDriverAvailabilityCommandHandler(registry ports.DriverRegistry) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{registry: registry}
}

// Handle applies the availability change.
func (h SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, command SetDriverAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.registry.SetAvailability(ctx, command.DriverID(), command.Available())
}
