package commands

import (
	"context"

	"ridehail/internal/core/ports"
)

// UpdateDriverLocationCommandHandler stores driver position reports in
// the driver registry. Position updates are high-frequency and touch no
// persistent state, so there is no transaction here.
type UpdateDriverLocationCommandHandler struct {
	registry ports.DriverRegistry
}

// NewUpdateDriverLocationCommandHandler creates a handler for driver
// position reports.
func NewUpdateDriverLocationCommandHandler(registry ports.DriverRegistry) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{registry: registry}
}

// Handle records the driver's latest position, replacing any previous one.
func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, command UpdateDriverLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.registry.UpsertPosition(ctx, command.DriverID(), command.Position())
}
