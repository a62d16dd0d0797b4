package commands_test

import (
	"errors"
	"testing"

	"ridehail/internal/core/application/usecases/commands"
	"ridehail/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateDriverLocationCommand(t *testing.T) {
	t.Run("creates a valid command", func(t *testing.T) {
		driverID := kernel.NewUUID()
		position := mustGeoPoint(t, 43.2400, 76.9000)

		cmd, err := commands.NewUpdateDriverLocationCommand(driverID, position)

		require.NoError(t, err)
		assert.True(t, cmd.DriverID().IsEqual(driverID))
		require.NoError(t, cmd.Validate())
	})

	t.Run("rejects empty driver id", func(t *testing.T) {
		_, err := commands.NewUpdateDriverLocationCommand(kernel.UUID{}, mustGeoPoint(t, 43.2400, 76.9000))
		require.Error(t, err)
	})

	t.Run("rejects unconstructed position", func(t *testing.T) {
		_, err := commands.NewUpdateDriverLocationCommand(kernel.NewUUID(), kernel.GeoPoint{})
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.UpdateDriverLocationCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrUpdateDriverLocationCommandIsNotConstructed)
	})
}

func TestUpdateDriverLocationCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	position := mustGeoPoint(t, 43.2400, 76.9000)

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, position)
	require.NoError(t, err)

	t.Run("stores the position", func(t *testing.T) {
		registry := new(MockDriverRegistry)
		registry.On("UpsertPosition", mock.Anything, driverID, position).Return(nil).Once()

		h := commands.NewUpdateDriverLocationCommandHandler(registry)
		require.NoError(t, h.Handle(ctx, cmd))
		registry.AssertExpectations(t)
	})

	t.Run("propagates registry errors", func(t *testing.T) {
		registry := new(MockDriverRegistry)
		registry.On("UpsertPosition", mock.Anything, driverID, position).
			Return(errors.New("redis unavailable")).Once()

		h := commands.NewUpdateDriverLocationCommandHandler(registry)
		require.Error(t, h.Handle(ctx, cmd))
	})

	t.Run("rejects unconstructed command", func(t *testing.T) {
		h := commands.NewUpdateDriverLocationCommandHandler(new(MockDriverRegistry))
		require.Error(t, h.Handle(ctx, commands.UpdateDriverLocationCommand{}))
	})
}
