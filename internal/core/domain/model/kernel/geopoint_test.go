package kernel_test

import (
	"math"
	"testing"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates point with valid coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(43.24, 76.9)

		require.NoError(t, err)
		assert.InDelta(t, 43.24, point.Latitude(), 1e-9)
		assert.InDelta(t, 76.9, point.Longitude(), 1e-9)
		require.NoError(t, point.Validate())
	})

	t.Run("accepts boundary coordinates", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		} {
			_, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
		}
	})

	t.Run("rejects out of range latitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.5, 76.9)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects out of range longitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(43.24, -180.01)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects NaN coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(math.NaN(), 76.9)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var point kernel.GeoPoint

		err := point.Validate()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal points", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(43.24, 76.9)
		b, _ := kernel.NewGeoPoint(43.24, 76.9)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different points", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(43.24, 76.9)
		b, _ := kernel.NewGeoPoint(43.25, 76.9)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(43.24, 76.9)
		var b kernel.GeoPoint

		_, err := a.IsEqual(b)

		require.Error(t, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("distance to itself is zero", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(43.24, 76.9)

		distance, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, distance, 1e-9)
	})

	t.Run("short hop is about forty meters", func(t *testing.T) {
		driver, _ := kernel.NewGeoPoint(43.2400, 76.9000)
		pickup, _ := kernel.NewGeoPoint(43.2400, 76.9005)

		meters, err := driver.DistanceMeters(pickup)

		require.NoError(t, err)
		assert.InDelta(t, 40.5, meters, 2.0)
	})

	t.Run("known city pair", func(t *testing.T) {
		almaty, _ := kernel.NewGeoPoint(43.2567, 76.9286)
		astana, _ := kernel.NewGeoPoint(51.1694, 71.4491)

		distance, err := almaty.DistanceKm(astana)

		require.NoError(t, err)
		// Great-circle distance is roughly 960 km.
		assert.InDelta(t, 960, distance, 15)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(43.24, 76.9)
		b, _ := kernel.NewGeoPoint(43.3, 77.0)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-12)
	})

	t.Run("unconstructed point fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(43.24, 76.9)
		var b kernel.GeoPoint

		_, err := a.DistanceKm(b)

		require.Error(t, err)
	})
}
