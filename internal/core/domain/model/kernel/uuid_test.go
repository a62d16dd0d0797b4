package kernel_test

import (
	"encoding/json"
	"testing"

	"ridehail/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("mints a valid id", func(t *testing.T) {
		orderID := kernel.NewUUID()

		assert.NoError(t, orderID.Validate())
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", orderID.String())
	})

	t.Run("consecutive ids differ", func(t *testing.T) {
		first := kernel.NewUUID()
		second := kernel.NewUUID()

		assert.False(t, first.IsEqual(second))
	})
}

func TestUUIDFromString(t *testing.T) {
	const driverID = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("parses a canonical id", func(t *testing.T) {
		id, err := kernel.UUIDFromString(driverID)

		require.NoError(t, err)
		assert.Equal(t, driverID, id.String())
		assert.NoError(t, id.Validate())
	})

	t.Run("accepts the hyphenless form used in registry members", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400e29b41d4a716446655440000")

		require.NoError(t, err)
		assert.Equal(t, driverID, id.String())
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		for _, input := range []string{
			"",
			"not-a-uuid",
			"550e8400-e29b-41d4-a716",
			"550e8400-e29b-41d4-a716-446655440000-extra",
			"zzze8400-e29b-41d4-a716-446655440000",
		} {
			_, err := kernel.UUIDFromString(input)
			require.Errorf(t, err, "input %q", input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	columnBytes := []byte{
		0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4,
		0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00,
	}

	t.Run("reconstructs an id from its column value", func(t *testing.T) {
		id, err := kernel.UUIDFromBytes(columnBytes)

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects a truncated column value", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e, 0x84})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("rejects a zeroed column value", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUID_MarshalText(t *testing.T) {
	t.Run("serializes as the canonical string", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
		require.NoError(t, err)

		text, err := id.MarshalText()

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", string(text))
	})

	t.Run("renders as a JSON string inside a struct", func(t *testing.T) {
		orderID := kernel.NewUUID()
		payload, err := json.Marshal(struct {
			OrderID kernel.UUID `json:"orderId"`
		}{OrderID: orderID})

		require.NoError(t, err)
		assert.JSONEq(t, `{"orderId":"`+orderID.String()+`"}`, string(payload))
	})
}

func TestUUID_IsEqual(t *testing.T) {
	t.Run("same value compares equal", func(t *testing.T) {
		id1, _ := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
		id2, _ := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		assert.True(t, id1.IsEqual(id2))
		assert.True(t, id2.IsEqual(id1))
	})

	t.Run("distinct ids compare unequal", func(t *testing.T) {
		assert.False(t, kernel.NewUUID().IsEqual(kernel.NewUUID()))
	})

	t.Run("zero values compare equal to each other only", func(t *testing.T) {
		var id1, id2 kernel.UUID

		assert.True(t, id1.IsEqual(id2))
		assert.False(t, id1.IsEqual(kernel.NewUUID()))
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("constructed id passes", func(t *testing.T) {
		assert.NoError(t, kernel.NewUUID().Validate())
	})

	t.Run("zero value fails", func(t *testing.T) {
		var id kernel.UUID

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})

	t.Run("explicit nil id fails", func(t *testing.T) {
		id, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}

func TestUUID_Immutability(t *testing.T) {
	t.Run("mutating the Bytes copy leaves the id untouched", func(t *testing.T) {
		driverID := kernel.NewUUID()
		before := driverID.String()

		raw := driverID.Bytes()
		for i := range raw {
			raw[i] = 0xFF
		}

		assert.Equal(t, before, driverID.String())
		assert.NotEqual(t, driverID.String(), uuid.UUID(raw).String())
	})
}
