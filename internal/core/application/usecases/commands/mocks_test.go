package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ridehail/internal/core/application/usecases/commands"
	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/domain/services"
	"ridehail/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByPassenger(ctx context.Context, passengerID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByPassenger(ctx context.Context, passengerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDriverMatcher struct{ mock.Mock }

func (m *MockDriverMatcher) FindDriverForOrder(ctx context.Context, aggregate *order.Order) (ports.NearbyDriver, error) {
	args := m.Called(ctx, aggregate)
	return args.Get(0).(ports.NearbyDriver), args.Error(1)
}

func (m *MockDriverMatcher) ConfirmAssignment(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

func (m *MockDriverMatcher) ReleaseDriver(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

type MockDriverRegistry struct{ mock.Mock }

func (m *MockDriverRegistry) UpsertPosition(ctx context.Context, driverID kernel.UUID, position kernel.GeoPoint) error {
	args := m.Called(ctx, driverID, position)
	return args.Error(0)
}

func (m *MockDriverRegistry) SetAvailability(ctx context.Context, driverID kernel.UUID, available bool) error {
	args := m.Called(ctx, driverID, available)
	return args.Error(0)
}

func (m *MockDriverRegistry) SetBusy(ctx context.Context, driverID kernel.UUID, busy bool) error {
	args := m.Called(ctx, driverID, busy)
	return args.Error(0)
}

func (m *MockDriverRegistry) LastPosition(ctx context.Context, driverID kernel.UUID) (*kernel.GeoPoint, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kernel.GeoPoint), args.Error(1)
}

func (m *MockDriverRegistry) QueryNearby(
	ctx context.Context,
	center kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]ports.NearbyDriver, error) {
	args := m.Called(ctx, center, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.NearbyDriver), args.Error(1)
}

func (m *MockDriverRegistry) Claim(
	ctx context.Context,
	driverID kernel.UUID,
	orderID kernel.UUID,
	ttl time.Duration,
) (bool, error) {
	args := m.Called(ctx, driverID, orderID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriverRegistry) Release(ctx context.Context, driverID kernel.UUID) error {
	args := m.Called(ctx, driverID)
	return args.Error(0)
}

func (m *MockDriverRegistry) CountOnline(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRouteEstimator struct{ mock.Mock }

func (m *MockRouteEstimator) EstimateRoute(
	ctx context.Context,
	pickup, dropoff kernel.GeoPoint,
) (float64, int, error) {
	args := m.Called(ctx, pickup, dropoff)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type MockNotificationSink struct{ mock.Mock }

func (m *MockNotificationSink) Emit(ctx context.Context, snapshot ports.OrderSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustGeoPoint(t *testing.T, latitude, longitude float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(latitude, longitude)
	require.NoError(t, err)
	return point
}

func mustActor(t *testing.T, role order.Role, userID kernel.UUID) order.Actor {
	t.Helper()
	actor, err := order.NewActor(role, userID)
	require.NoError(t, err)
	return actor
}

func newTestOrder(t *testing.T, passengerID kernel.UUID) *order.Order {
	t.Helper()

	fare, err := order.NewFare(500, 120, 25, 1, 1500)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(),
		passengerID,
		mustGeoPoint(t, 43.2400, 76.9000),
		mustGeoPoint(t, 43.2600, 76.9500),
		5.2,
		14,
		"almaty",
		fare,
	)
	require.NoError(t, err)
	return aggregate
}

func orderInSearch(t *testing.T, passengerID kernel.UUID) *order.Order {
	t.Helper()

	aggregate := newTestOrder(t, passengerID)
	actor := mustActor(t, order.RolePassenger, passengerID)
	require.NoError(t, aggregate.StartSearch(actor))
	return aggregate
}

func testPricing(t *testing.T) services.PricingService {
	t.Helper()

	tariff, err := services.NewTariff(500, 120, 25, 1)
	require.NoError(t, err)
	return services.NewPricingService(tariff)
}
