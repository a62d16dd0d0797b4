// Package http exposes the dispatch engine over a REST API.
// Handlers translate between the wire format and application commands
// and queries; all business decisions stay in the domain layer.
package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ridehail/internal/adapters/out/routing"
	"ridehail/internal/core/application/usecases/commands"
	"ridehail/internal/core/application/usecases/queries"
	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires HTTP routes to application use cases.
type Server struct {
	// Command handlers
	createOrderHandler           commands.CreateOrderCommandHandler
	searchDriverHandler          commands.SearchDriverCommandHandler
	updateOrderStatusHandler     commands.UpdateOrderStatusCommandHandler
	updateDriverLocationHandler  commands.UpdateDriverLocationCommandHandler
	setDriverAvailabilityHandler commands.SetDriverAvailabilityCommandHandler

	// Query handlers
	getOrderHandler          queries.GetOrderQueryHandler
	listOrdersHandler        queries.ListOrdersQueryHandler
	listNearbyDriversHandler queries.ListNearbyDriversQueryHandler

	routes       *routing.Client
	orderUpdates http.Handler
}

// NewServer creates a new HTTP server with the required command and
// query handlers. orderUpdates handles WebSocket subscriptions to order
// snapshots and may be nil when streaming is disabled.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	searchDriverHandler commands.SearchDriverCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler,
	setDriverAvailabilityHandler commands.SetDriverAvailabilityCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	listNearbyDriversHandler queries.ListNearbyDriversQueryHandler,
	routes *routing.Client,
	orderUpdates http.Handler,
) *Server {
	return &Server{
		createOrderHandler:           createOrderHandler,
		searchDriverHandler:          searchDriverHandler,
		updateOrderStatusHandler:     updateOrderStatusHandler,
		updateDriverLocationHandler:  updateDriverLocationHandler,
		setDriverAvailabilityHandler: setDriverAvailabilityHandler,
		getOrderHandler:              getOrderHandler,
		listOrdersHandler:            listOrdersHandler,
		listNearbyDriversHandler:     listNearbyDriversHandler,
		routes:                       routes,
		orderUpdates:                 orderUpdates,
	}
}

// RegisterRoutes mounts all routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1", MetricsMiddleware())

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/search", s.SearchDriver)
	api.POST("/orders/:id/status", s.UpdateOrderStatus)

	api.POST("/drivers/:id/location", s.UpdateDriverLocation)
	api.POST("/drivers/:id/availability", s.SetDriverAvailability)
	api.GET("/drivers/nearby", s.ListNearbyDrivers)

	api.GET("/routes", s.GetRoute)

	if s.orderUpdates != nil {
		e.GET("/ws/orders", echo.WrapHandler(s.orderUpdates))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", s.Health)
}

// CreateOrder handles POST /api/v1/orders - requests a new ride.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request CreateOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	passengerID := actor.UserID()
	if request.PassengerID != "" {
		if !actor.IsOperator() {
			return writeError(ctx, errs.NewForbiddenError("only operators may create orders for other passengers"))
		}

		passengerID, err = kernel.UUIDFromString(request.PassengerID)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("passengerId", err))
		}
	}

	pickup, err := kernel.NewGeoPoint(request.Pickup.Latitude, request.Pickup.Longitude)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("pickup", err))
	}

	dropoff, err := kernel.NewGeoPoint(request.Dropoff.Latitude, request.Dropoff.Longitude)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("dropoff", err))
	}

	if request.SurgeMultiplier != 0 && !actor.IsOperator() {
		return writeError(ctx, errs.NewForbiddenError("only operators may override the surge multiplier"))
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID, passengerID, pickup, dropoff, request.CityID, request.SurgeMultiplier)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("order", err))
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

// ListOrders handles GET /api/v1/orders - lists the actor's orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(actor)
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, views)
}

// SearchDriver handles POST /api/v1/orders/:id/search - runs the driver
// search. Responds with the order's state after the search, which is
// DriverAssigned on a hit and SearchingDriver when no driver was found.
func (s *Server) SearchDriver(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSearchDriverCommand(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.searchDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return s.respondWithOrder(ctx, orderID, actor)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - applies a
// lifecycle transition and responds with the updated order.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID, err := orderIDFromPath(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateOrderStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	nextStatus, err := order.StatusFromString(request.Status)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("status", err))
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, actor, nextStatus)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return s.respondWithOrder(ctx, orderID, actor)
}

// UpdateDriverLocation handles POST /api/v1/drivers/:id/location -
// records a driver position report.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	driverID, err := driverIDFromPath(ctx, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	var request DriverLocationRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	position, err := kernel.NewGeoPoint(request.Latitude, request.Longitude)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("position", err))
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, position)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.updateDriverLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetDriverAvailability handles POST /api/v1/drivers/:id/availability -
// brings a driver online or takes them offline.
func (s *Server) SetDriverAvailability(ctx echo.Context) error {
	actor, err := actorFromRequest(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	driverID, err := driverIDFromPath(ctx, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	var request DriverAvailabilityRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("request body"))
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID, request.Available)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.setDriverAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ListNearbyDrivers handles GET /api/v1/drivers/nearby - lists online
// drivers around a point. Accepts lat, lon and optional radiusKm and
// limit query parameters.
func (s *Server) ListNearbyDrivers(ctx echo.Context) error {
	if _, err := actorFromRequest(ctx); err != nil {
		return writeError(ctx, err)
	}

	latitude, err := strconv.ParseFloat(ctx.QueryParam("lat"), 64)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("lat"))
	}

	longitude, err := strconv.ParseFloat(ctx.QueryParam("lon"), 64)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("lon"))
	}

	center, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("center", err))
	}

	radiusKm := 0.0
	if raw := ctx.QueryParam("radiusKm"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			return writeError(ctx, errs.NewValueIsInvalidError("radiusKm"))
		}
	}

	limit := 10
	if raw := ctx.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return writeError(ctx, errs.NewValueIsInvalidError("limit"))
		}
	}

	query, err := queries.NewListNearbyDriversQuery(center, radiusKm, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	views, err := s.listNearbyDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, views)
}

// GetRoute handles GET /api/v1/routes - proxies a route lookup to the
// routing provider. Waypoints are passed as "lat,lon;lat,lon;...".
func (s *Server) GetRoute(ctx echo.Context) error {
	if _, err := actorFromRequest(ctx); err != nil {
		return writeError(ctx, err)
	}

	waypoints, err := parseWaypoints(ctx.QueryParam("waypoints"))
	if err != nil {
		return writeError(ctx, err)
	}

	route, err := s.routes.GetRoute(ctx.Request().Context(), waypoints)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, route)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// respondWithOrder renders the order's current state after a command.
func (s *Server) respondWithOrder(ctx echo.Context, orderID kernel.UUID, actor order.Actor) error {
	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, view)
}

func orderIDFromPath(ctx echo.Context) (kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}

	return orderID, nil
}

// driverIDFromPath resolves the driver id and checks the actor may act
// on that driver's state. Drivers manage only themselves; operators
// manage anyone.
func driverIDFromPath(ctx echo.Context, actor order.Actor) (kernel.UUID, error) {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("driver id", err)
	}

	if actor.IsOperator() {
		return driverID, nil
	}

	if actor.Role() != order.RoleDriver || !actor.UserID().IsEqual(driverID) {
		return kernel.UUID{}, errs.NewForbiddenError("actor may not manage another driver's state")
	}

	return driverID, nil
}

func parseWaypoints(raw string) ([]kernel.GeoPoint, error) {
	if raw == "" {
		return nil, errs.NewValueIsRequiredError("waypoints")
	}

	parts := strings.Split(raw, ";")
	waypoints := make([]kernel.GeoPoint, 0, len(parts))
	for _, part := range parts {
		coords := strings.Split(part, ",")
		if len(coords) != 2 {
			return nil, errs.NewValueIsInvalidError("waypoints")
		}

		latitude, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, errs.NewValueIsInvalidError("waypoints")
		}

		longitude, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, errs.NewValueIsInvalidError("waypoints")
		}

		point, err := kernel.NewGeoPoint(latitude, longitude)
		if err != nil {
			return nil, fmt.Errorf("waypoints: %w", err)
		}

		waypoints = append(waypoints, point)
	}

	if len(waypoints) < 2 {
		return nil, errs.NewValueIsInvalidError("waypoints")
	}

	return waypoints, nil
}
