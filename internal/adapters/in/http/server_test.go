package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoContext(t *testing.T, headers map[string]string) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestActorFromRequest(t *testing.T) {
	t.Run("builds actor from gateway headers", func(t *testing.T) {
		userID := kernel.NewUUID()
		ctx := newEchoContext(t, map[string]string{
			headerUserID:   userID.String(),
			headerUserRole: "DRIVER",
		})

		actor, err := actorFromRequest(ctx)

		require.NoError(t, err)
		assert.Equal(t, order.RoleDriver, actor.Role())
		assert.True(t, actor.UserID().IsEqual(userID))
	})

	t.Run("missing user id", func(t *testing.T) {
		ctx := newEchoContext(t, map[string]string{headerUserRole: "PASSENGER"})

		_, err := actorFromRequest(ctx)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("malformed user id", func(t *testing.T) {
		ctx := newEchoContext(t, map[string]string{
			headerUserID:   "not-a-uuid",
			headerUserRole: "PASSENGER",
		})

		_, err := actorFromRequest(ctx)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("missing role", func(t *testing.T) {
		ctx := newEchoContext(t, map[string]string{headerUserID: kernel.NewUUID().String()})

		_, err := actorFromRequest(ctx)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unknown role", func(t *testing.T) {
		ctx := newEchoContext(t, map[string]string{
			headerUserID:   kernel.NewUUID().String(),
			headerUserRole: "ADMIN",
		})

		_, err := actorFromRequest(ctx)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDriverIDFromPath(t *testing.T) {
	makeCtx := func(t *testing.T, id string) echo.Context {
		t.Helper()
		ctx := newEchoContext(t, nil)
		ctx.SetParamNames("id")
		ctx.SetParamValues(id)
		return ctx
	}

	mustActor := func(t *testing.T, role order.Role, userID kernel.UUID) order.Actor {
		t.Helper()
		actor, err := order.NewActor(role, userID)
		require.NoError(t, err)
		return actor
	}

	t.Run("driver manages own state", func(t *testing.T) {
		driverID := kernel.NewUUID()
		ctx := makeCtx(t, driverID.String())

		resolved, err := driverIDFromPath(ctx, mustActor(t, order.RoleDriver, driverID))

		require.NoError(t, err)
		assert.True(t, resolved.IsEqual(driverID))
	})

	t.Run("driver may not manage another driver", func(t *testing.T) {
		ctx := makeCtx(t, kernel.NewUUID().String())

		_, err := driverIDFromPath(ctx, mustActor(t, order.RoleDriver, kernel.NewUUID()))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("passenger may not manage drivers", func(t *testing.T) {
		driverID := kernel.NewUUID()
		ctx := makeCtx(t, driverID.String())

		_, err := driverIDFromPath(ctx, mustActor(t, order.RolePassenger, driverID))

		require.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("operator manages any driver", func(t *testing.T) {
		driverID := kernel.NewUUID()
		ctx := makeCtx(t, driverID.String())

		resolved, err := driverIDFromPath(ctx, mustActor(t, order.RoleOperator, kernel.NewUUID()))

		require.NoError(t, err)
		assert.True(t, resolved.IsEqual(driverID))
	})

	t.Run("malformed id", func(t *testing.T) {
		ctx := makeCtx(t, "nope")

		_, err := driverIDFromPath(ctx, mustActor(t, order.RoleOperator, kernel.NewUUID()))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestParseWaypoints(t *testing.T) {
	t.Run("parses semicolon separated pairs", func(t *testing.T) {
		waypoints, err := parseWaypoints("43.2400,76.9000;43.2600,76.9500")

		require.NoError(t, err)
		require.Len(t, waypoints, 2)
		assert.InDelta(t, 43.2400, waypoints[0].Latitude(), 0.000001)
		assert.InDelta(t, 76.9500, waypoints[1].Longitude(), 0.000001)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := parseWaypoints("")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects a single waypoint", func(t *testing.T) {
		_, err := parseWaypoints("43.2400,76.9000")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects malformed pairs", func(t *testing.T) {
		_, err := parseWaypoints("43.2400;76.9000")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		_, err := parseWaypoints("95.0000,76.9000;43.2600,76.9500")
		require.Error(t, err)
	})
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid value", errs.NewValueIsInvalidError("field"), http.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("field"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("field", 0, 1, 10), http.StatusBadRequest},
		{"forbidden", errs.NewForbiddenError("nope"), http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("order", "id"), http.StatusNotFound},
		{"conflict", errs.NewConflictError("busy", "id"), http.StatusConflict},
		{"stale version", errs.NewVersionIsInvalidError("order"), http.StatusConflict},
		{"precondition", errs.NewPreconditionFailedError("too far"), http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
