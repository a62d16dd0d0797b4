package commands_test

import (
	"errors"
	"testing"

	"ridehail/internal/core/application/usecases/commands"
	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/core/ports"
	"ridehail/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderWithDriver(t *testing.T, passengerID, driverID kernel.UUID) *order.Order {
	t.Helper()

	aggregate := orderInSearch(t, passengerID)
	require.NoError(t, aggregate.AssignDriver(driverID))
	return aggregate
}

func statusHandlerFixture(t *testing.T, aggregate *order.Order) (
	commands.UpdateOrderStatusCommandHandler,
	*MockOrderRepository,
	*MockOrderUoW,
	*MockDriverRegistry,
	*MockDriverMatcher,
	*MockNotificationSink,
) {
	t.Helper()
	ctx := t.Context()

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)
	repo.On("Update", mock.Anything, aggregate).Return(nil)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	registry := new(MockDriverRegistry)
	matcher := new(MockDriverMatcher)

	notifier := new(MockNotificationSink)
	notifier.On("Emit", mock.Anything, mock.Anything).Return(nil)

	h := commands.NewUpdateOrderStatusCommandHandler(factory, registry, matcher, notifier, testLogger(), 0)
	return h, repo, uow, registry, matcher, notifier
}

func TestUpdateOrderStatusCommandHandler_Handle_DriverArriving(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)

	h, repo, uow, registry, _, notifier := statusHandlerFixture(t, aggregate)
	registry.On("SetBusy", mock.Anything, driverID, true).Return(nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.DriverArriving,
	)
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.DriverArriving, aggregate.Status())
	repo.AssertExpectations(t)
	uow.AssertCalled(t, "Commit", ctx)
	registry.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_StartRideAtPickup(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	require.NoError(t, aggregate.MarkDriverArriving(mustActor(t, order.RoleDriver, driverID)))

	h, _, _, registry, _, _ := statusHandlerFixture(t, aggregate)
	atPickup := mustGeoPoint(t, 43.2400, 76.9005)
	registry.On("LastPosition", mock.Anything, driverID).Return(&atPickup, nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.InProgress,
	)
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.InProgress, aggregate.Status())
	registry.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_StartRideFarFromPickup(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	require.NoError(t, aggregate.MarkDriverArriving(mustActor(t, order.RoleDriver, driverID)))

	h, _, uow, registry, _, _ := statusHandlerFixture(t, aggregate)
	farAway := mustGeoPoint(t, 43.2500, 76.9000)
	registry.On("LastPosition", mock.Anything, driverID).Return(&farAway, nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.InProgress,
	)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assert.Equal(t, order.DriverArriving, aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_StartRideUnknownPosition(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	require.NoError(t, aggregate.MarkDriverArriving(mustActor(t, order.RoleDriver, driverID)))

	h, _, _, registry, _, _ := statusHandlerFixture(t, aggregate)
	registry.On("LastPosition", mock.Anything, driverID).Return(nil, nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.InProgress,
	)
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
}

func TestUpdateOrderStatusCommandHandler_Handle_RegistryErrorPropagates(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	require.NoError(t, aggregate.MarkDriverArriving(mustActor(t, order.RoleDriver, driverID)))

	h, _, uow, registry, _, _ := statusHandlerFixture(t, aggregate)
	registry.On("LastPosition", mock.Anything, driverID).
		Return(nil, errors.New("redis unavailable")).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.InProgress,
	)
	require.NoError(t, err)

	require.Error(t, h.Handle(ctx, cmd))
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_CancelReleasesDriver(t *testing.T) {
	ctx := t.Context()
	passengerID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, passengerID, driverID)

	h, _, _, _, matcher, _ := statusHandlerFixture(t, aggregate)
	matcher.On("ReleaseDriver", mock.Anything, driverID).Return(nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RolePassenger, passengerID), order.Canceled,
	)
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.Canceled, aggregate.Status())
	require.NotNil(t, aggregate.CanceledBy())
	assert.Equal(t, order.RolePassenger, aggregate.CanceledBy().Role())
	matcher.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_CompleteReleasesDriver(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	driverActor := mustActor(t, order.RoleDriver, driverID)
	require.NoError(t, aggregate.MarkDriverArriving(driverActor))
	atPickup := mustGeoPoint(t, 43.2400, 76.9005)
	require.NoError(t, aggregate.StartRide(driverActor, &atPickup, 0))

	h, _, _, _, matcher, notifier := statusHandlerFixture(t, aggregate)
	matcher.On("ReleaseDriver", mock.Anything, driverID).Return(nil).Once()

	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), driverActor, order.Completed)
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, order.Completed, aggregate.Status())
	matcher.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_SnapshotCarriesDriverPosition(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	aggregate := orderWithDriver(t, kernel.NewUUID(), driverID)
	require.NoError(t, aggregate.MarkDriverArriving(mustActor(t, order.RoleDriver, driverID)))

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil)
	repo.On("Update", mock.Anything, aggregate).Return(nil)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(repo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	registry := new(MockDriverRegistry)
	atPickup := mustGeoPoint(t, 43.2400, 76.9005)
	registry.On("LastPosition", mock.Anything, driverID).Return(&atPickup, nil).Once()

	notifier := new(MockNotificationSink)
	notifier.On("Emit", mock.Anything, mock.MatchedBy(func(snapshot ports.OrderSnapshot) bool {
		return snapshot.DriverPosition != nil &&
			snapshot.Status == order.InProgress.String()
	})).Return(nil).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(
		factory, registry, new(MockDriverMatcher), notifier, testLogger(), 0,
	)

	cmd, err := commands.NewUpdateOrderStatusCommand(
		aggregate.ID(), mustActor(t, order.RoleDriver, driverID), order.InProgress,
	)
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))
	notifier.AssertExpectations(t)
}
