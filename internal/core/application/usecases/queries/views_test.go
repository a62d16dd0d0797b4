package queries_test

import (
	"encoding/json"
	"testing"
	"time"

	"ridehail/internal/core/application/usecases/queries"
	"ridehail/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderView_MarshalJSON(t *testing.T) {
	t.Run("serializes ids as strings", func(t *testing.T) {
		orderID := kernel.NewUUID()
		passengerID := kernel.NewUUID()
		driverID := kernel.NewUUID()

		view := queries.OrderView{
			ID:          orderID,
			PassengerID: passengerID,
			DriverID:    &driverID,
			Status:      "DRIVER_ASSIGNED",
			Pickup:      queries.GeoPointView{Latitude: 43.2400, Longitude: 76.9000},
			Dropoff:     queries.GeoPointView{Latitude: 43.2600, Longitude: 76.9500},
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		payload, err := json.Marshal(view)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(payload, &decoded))

		assert.Equal(t, orderID.String(), decoded["id"])
		assert.Equal(t, passengerID.String(), decoded["passengerId"])
		assert.Equal(t, driverID.String(), decoded["driverId"])
		assert.Equal(t, "DRIVER_ASSIGNED", decoded["status"])
	})

	t.Run("omits the driver before assignment", func(t *testing.T) {
		view := queries.OrderView{
			ID:          kernel.NewUUID(),
			PassengerID: kernel.NewUUID(),
			Status:      "SEARCHING_DRIVER",
		}

		payload, err := json.Marshal(view)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(payload, &decoded))

		assert.NotContains(t, decoded, "driverId")
		assert.NotContains(t, decoded, "canceledByRole")
	})
}
