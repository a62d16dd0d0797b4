// Package redisgeo implements the driver registry on Redis: positions in
// a GEO set, availability and busy flags in hashes, and dispatch claims
// as expiring lock keys.
package redisgeo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/ports"
)

const (
	geoKey          = "drivers:geo"
	availabilityKey = "drivers:availability"
	busyKey         = "drivers:busy"
	lockKeyPrefix   = "drivers:lock:"

	flagSet = "1"

	// overFetchFactor widens the GEOSEARCH count so that enough
	// candidates survive the availability and busy filters.
	overFetchFactor = 4
)

// claimScript reserves a driver in a single atomic step: the driver must
// be online, not busy, and not already locked. The lock carries the
// claiming order's id and expires on its own.
var claimScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], ARGV[1]) ~= '1' then
	return 0
end
if redis.call('HGET', KEYS[2], ARGV[1]) == '1' then
	return 0
end
if redis.call('SET', KEYS[3], ARGV[2], 'NX', 'EX', ARGV[3]) then
	return 1
end
return 0
`)

// Registry is the Redis-backed ports.DriverRegistry.
type Registry struct {
	client *redis.Client
}

// NewRegistry creates a Registry over the given Redis client.
func NewRegistry(client *redis.Client) (*Registry, error) {
	if client == nil {
		return nil, errors.New("redis client must not be nil")
	}

	return &Registry{client: client}, nil
}

func lockKey(driverID kernel.UUID) string {
	return lockKeyPrefix + driverID.String()
}

// UpsertPosition records the driver's latest position in the GEO set.
func (r *Registry) UpsertPosition(ctx context.Context, driverID kernel.UUID, position kernel.GeoPoint) error {
	err := r.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: position.Longitude(),
		Latitude:  position.Latitude(),
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd driver %s: %w", driverID, err)
	}

	return nil
}

// SetAvailability marks the driver online or offline. Going offline
// wipes every trace of the driver in one transaction, so a stale busy
// flag or claim cannot survive a reconnect.
func (r *Registry) SetAvailability(ctx context.Context, driverID kernel.UUID, available bool) error {
	id := driverID.String()

	if available {
		if err := r.client.HSet(ctx, availabilityKey, id, flagSet).Err(); err != nil {
			return fmt.Errorf("mark driver %s available: %w", driverID, err)
		}
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.HDel(ctx, availabilityKey, id)
	pipe.HDel(ctx, busyKey, id)
	pipe.Del(ctx, lockKey(driverID))
	pipe.ZRem(ctx, geoKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("take driver %s offline: %w", driverID, err)
	}

	return nil
}

// SetBusy flags or unflags the driver as occupied by a ride.
func (r *Registry) SetBusy(ctx context.Context, driverID kernel.UUID, busy bool) error {
	id := driverID.String()

	var err error
	if busy {
		err = r.client.HSet(ctx, busyKey, id, flagSet).Err()
	} else {
		err = r.client.HDel(ctx, busyKey, id).Err()
	}
	if err != nil {
		return fmt.Errorf("set driver %s busy=%t: %w", driverID, busy, err)
	}

	return nil
}

// LastPosition returns the driver's last reported position, or nil if
// the driver has no position in the GEO set.
func (r *Registry) LastPosition(ctx context.Context, driverID kernel.UUID) (*kernel.GeoPoint, error) {
	positions, err := r.client.GeoPos(ctx, geoKey, driverID.String()).Result()
	if err != nil {
		return nil, fmt.Errorf("geopos driver %s: %w", driverID, err)
	}

	if len(positions) == 0 || positions[0] == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(positions[0].Latitude, positions[0].Longitude)
	if err != nil {
		return nil, err
	}

	return &point, nil
}

// QueryNearby returns up to limit online, non-busy drivers within
// radiusKm of center, nearest first. The GEOSEARCH is over-fetched
// because the GEO set may still hold drivers that are busy.
func (r *Registry) QueryNearby(ctx context.Context, center kernel.GeoPoint, radiusKm float64, limit int) ([]ports.NearbyDriver, error) {
	if limit <= 0 {
		return nil, nil
	}

	locations, err := r.client.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Longitude(),
			Latitude:   center.Latitude(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit * overFetchFactor,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch within %vkm: %w", radiusKm, err)
	}

	if len(locations) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	availableCmds := make([]*redis.StringCmd, len(locations))
	busyCmds := make([]*redis.StringCmd, len(locations))
	for i, loc := range locations {
		availableCmds[i] = pipe.HGet(ctx, availabilityKey, loc.Name)
		busyCmds[i] = pipe.HGet(ctx, busyKey, loc.Name)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	drivers := make([]ports.NearbyDriver, 0, limit)
	for i, loc := range locations {
		if availableCmds[i].Val() != flagSet || busyCmds[i].Val() == flagSet {
			continue
		}

		driverID, err := kernel.UUIDFromString(loc.Name)
		if err != nil {
			// Foreign members in the GEO set are skipped, not fatal.
			continue
		}

		position, err := kernel.NewGeoPoint(loc.Latitude, loc.Longitude)
		if err != nil {
			continue
		}

		drivers = append(drivers, ports.NearbyDriver{
			DriverID:   driverID,
			Position:   position,
			DistanceKm: loc.Dist,
		})
		if len(drivers) == limit {
			break
		}
	}

	return drivers, nil
}

// Claim atomically reserves the driver for the order via a Lua script.
func (r *Registry) Claim(ctx context.Context, driverID kernel.UUID, orderID kernel.UUID, ttl time.Duration) (bool, error) {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	keys := []string{availabilityKey, busyKey, lockKey(driverID)}
	claimed, err := claimScript.Run(ctx, r.client, keys, driverID.String(), orderID.String(), seconds).Int()
	if err != nil {
		return false, fmt.Errorf("claim driver %s: %w", driverID, err)
	}

	return claimed == 1, nil
}

// Release drops the driver's claim, if any.
func (r *Registry) Release(ctx context.Context, driverID kernel.UUID) error {
	if err := r.client.Del(ctx, lockKey(driverID)).Err(); err != nil {
		return fmt.Errorf("release driver %s: %w", driverID, err)
	}

	return nil
}

// CountOnline returns the number of drivers marked available.
func (r *Registry) CountOnline(ctx context.Context) (int64, error) {
	count, err := r.client.HLen(ctx, availabilityKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count online drivers: %w", err)
	}

	return count, nil
}
