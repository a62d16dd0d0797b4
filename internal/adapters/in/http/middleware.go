package http

import (
	"strconv"
	"time"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/observability"
	"ridehail/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the API gateway after authentication.
// Authentication itself is out of scope here; the engine trusts the
// gateway and only decides what the identified actor may do.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

// actorFromRequest builds the acting identity from gateway headers.
func actorFromRequest(ctx echo.Context) (order.Actor, error) {
	rawID := ctx.Request().Header.Get(headerUserID)
	if rawID == "" {
		return order.Actor{}, errs.NewValueIsRequiredError(headerUserID + " header")
	}

	userID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return order.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerUserID+" header", err)
	}

	rawRole := ctx.Request().Header.Get(headerUserRole)
	if rawRole == "" {
		return order.Actor{}, errs.NewValueIsRequiredError(headerUserRole + " header")
	}

	role, err := order.RoleFromString(rawRole)
	if err != nil {
		return order.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerUserRole+" header", err)
	}

	return order.NewActor(role, userID)
}

// MetricsMiddleware records request counts and latencies per route.
// The route template is used as the path label so ids do not explode
// the cardinality.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			started := time.Now()

			err := next(ctx)

			status := ctx.Response().Status
			if err != nil {
				status = statusFromError(err)
			}

			method := ctx.Request().Method
			path := ctx.Path()
			observability.HTTPRequestsTotal.
				WithLabelValues(method, path, strconv.Itoa(status)).
				Inc()
			observability.HTTPRequestDuration.
				WithLabelValues(method, path, strconv.Itoa(status)).
				Observe(time.Since(started).Seconds())

			return err
		}
	}
}
