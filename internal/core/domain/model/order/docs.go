// Package order provides domain entities and business logic for ride order
// management. It implements the Order aggregate root with lifecycle
// management, role authorization and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, route, fare and lifecycle
//   - Status: A state machine that enforces the closed order transition table
//   - Actor: The authenticated caller (passenger, driver or operator) acting on an order
//   - Fare: The pricing snapshot frozen at order creation
//   - Cancellation: Attribution of who canceled an order
//
// Key business rules:
//   - Order status follows Created -> SearchingDriver -> DriverAssigned ->
//     DriverArriving -> InProgress -> Completed, with Canceled reachable from
//     every non-terminal status
//   - SearchingDriver and DriverAssigned are owned by matchmaking and cannot
//     be requested through external status updates
//   - Driver-side transitions are allowed only for the assigned driver,
//     operators may perform any externally allowed transition
//   - A ride can start only while the driver is physically near the pickup point
//   - A canceled order records which role and user canceled it
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
