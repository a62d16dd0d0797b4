package http

// GeoPointPayload is a coordinate pair in request and response bodies.
type GeoPointPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
// PassengerID and SurgeMultiplier are accepted only from operators;
// passengers always create orders for themselves at the default tariff.
type CreateOrderRequest struct {
	Pickup          GeoPointPayload `json:"pickup"`
	Dropoff         GeoPointPayload `json:"dropoff"`
	CityID          string          `json:"cityId"`
	PassengerID     string          `json:"passengerId,omitempty"`
	SurgeMultiplier float64         `json:"surgeMultiplier,omitempty"`
}

// CreateOrderResponse returns the identifier of the created order.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
}

// UpdateOrderStatusRequest is the body of POST /api/v1/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// DriverLocationRequest is the body of POST /api/v1/drivers/:id/location.
type DriverLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DriverAvailabilityRequest is the body of POST /api/v1/drivers/:id/availability.
type DriverAvailabilityRequest struct {
	Available bool `json:"available"`
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
