package order

import (
	"errors"
	"fmt"
	"time"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/pkg/errs"
)

// DefaultPickupArrivalRadiusMeters is the pickup-proximity gate: the
// assigned driver's last reported position must be within this
// great-circle distance of the pickup point before a ride can start.
const DefaultPickupArrivalRadiusMeters = 120.0

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrCancellationIsNotConstructed is returned when a Cancellation was not
	// created via NewCancellation.
	ErrCancellationIsNotConstructed = errors.New("Cancellation must be created via NewCancellation constructor")
)

// Cancellation records who canceled an order: the role that requested the
// cancellation and the concrete user id behind it.
type Cancellation struct {
	role   Role
	userID kernel.UUID
}

// NewCancellation creates a cancellation attribution record.
func NewCancellation(role Role, userID kernel.UUID) (Cancellation, error) {
	if err := errors.Join(role.Validate(), userID.Validate()); err != nil {
		return Cancellation{}, err
	}

	return Cancellation{role: role, userID: userID}, nil
}

// Role returns the role that canceled the order.
func (c Cancellation) Role() Role {
	return c.role
}

// UserID returns the id of the user who canceled the order.
func (c Cancellation) UserID() kernel.UUID {
	return c.userID
}

// Order represents a ride request in the system. It is the aggregate root
// that owns the order lifecycle from creation through driver assignment to
// completion or cancellation.
//
// Order follows these invariants:
//   - Must have valid identifiers and validated pickup/dropoff points
//   - Status transitions follow the closed transition table in Status
//   - driverID is non-nil exactly when the status is at or past assignment
//     (or the order was canceled after assignment)
//   - Cancellation attribution is set exactly while the order is CANCELED
//   - Can only be created through NewOrder or RestoreOrder
//
// Role authorization and physical preconditions (the pickup-proximity
// gate) are enforced by the transition methods; callers outside this
// package cannot put an order into an inconsistent state.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// passengerID is the rider who created the order
	passengerID kernel.UUID

	// driverID is the assigned driver's id (nil until matchmaking succeeds)
	driverID *kernel.UUID

	// status is the current state in the order lifecycle
	status Status

	// pickup and dropoff are the requested route endpoints
	pickup  kernel.GeoPoint
	dropoff kernel.GeoPoint

	// distanceKm and durationMinutes describe the planned route
	distanceKm      float64
	durationMinutes int

	// cityID optionally scopes the order to a city ("" when unset)
	cityID string

	// fare is the pricing snapshot frozen at creation
	fare Fare

	// canceledBy attributes a cancellation; nil unless status is Canceled
	canceledBy *Cancellation

	// version supports optimistic locking in storage
	version int

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Created status.
//
// Parameters:
//   - id: unique identifier for the order
//   - passengerID: the requesting rider
//   - pickup, dropoff: validated route endpoints
//   - distanceKm: planned route distance (must not be negative)
//   - durationMinutes: planned route duration (must not be negative)
//   - cityID: optional city scope, may be empty
//   - fare: pricing snapshot produced by the pricing service
//
// Returns the created order, or a validation error if any parameter is
// invalid. The order starts with no driver and version 1.
func NewOrder(
	id kernel.UUID,
	passengerID kernel.UUID,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	distanceKm float64,
	durationMinutes int,
	cityID string,
	fare Fare,
) (*Order, error) {
	now := time.Now().UTC()
	order := &Order{
		status:        Created,
		cityID:        cityID,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setPassengerID(passengerID),
		order.setPickup(pickup),
		order.setDropoff(dropoff),
		order.setDistanceKm(distanceKm),
		order.setDurationMinutes(durationMinutes),
		order.setFare(fare),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence without running the
// creation-time transition. It validates the same invariants as NewOrder
// plus the consistency between status and driver assignment.
func RestoreOrder(
	id kernel.UUID,
	passengerID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	pickup kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	distanceKm float64,
	durationMinutes int,
	cityID string,
	fare Fare,
	canceledBy *Cancellation,
	version int,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	order := &Order{
		cityID:        cityID,
		canceledBy:    canceledBy,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setPassengerID(passengerID),
		order.setPickup(pickup),
		order.setDropoff(dropoff),
		order.setDistanceKm(distanceKm),
		order.setDurationMinutes(durationMinutes),
		order.setFare(fare),
		order.setStatus(status),
		order.setVersion(version),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		id := *driverID
		order.driverID = &id
	}

	if err := status.ValidateCanHaveDriver(order.driverID != nil); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// PassengerID returns the rider who owns the order.
func (o *Order) PassengerID() kernel.UUID {
	return o.passengerID
}

// Driver returns the assigned driver's id, or nil if unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Pickup returns the pickup point.
func (o *Order) Pickup() kernel.GeoPoint {
	return o.pickup
}

// Dropoff returns the dropoff point.
func (o *Order) Dropoff() kernel.GeoPoint {
	return o.dropoff
}

// DistanceKm returns the planned route distance in kilometers.
func (o *Order) DistanceKm() float64 {
	return o.distanceKm
}

// DurationMinutes returns the planned route duration in minutes.
func (o *Order) DurationMinutes() int {
	return o.durationMinutes
}

// CityID returns the optional city scope ("" when unset).
func (o *Order) CityID() string {
	return o.cityID
}

// Fare returns the pricing snapshot frozen at creation.
func (o *Order) Fare() Fare {
	return o.fare
}

// CanceledBy returns the cancellation attribution, or nil if the order
// was never canceled.
func (o *Order) CanceledBy() *Cancellation {
	return o.canceledBy
}

// Version returns the optimistic-lock version of the aggregate.
func (o *Order) Version() int {
	return o.version
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// StartSearch moves the order into SearchingDriver on behalf of the
// given actor. Only the order's passenger or an operator may request a
// search. Calling StartSearch on an order that is already searching is a
// no-op, so repeated search requests simply retry matchmaking.
func (o *Order) StartSearch(actor Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if !actor.IsOperator() {
		if actor.Role() != RolePassenger || !o.passengerID.IsEqual(actor.UserID()) {
			return errs.NewForbiddenError("only the order's passenger or an operator can request a driver search")
		}
	}

	if o.status == SearchingDriver {
		return nil
	}

	newStatus, err := o.status.Transition(SearchingDriver)
	if err != nil {
		return err
	}

	o.applyStatus(newStatus)
	return nil
}

// AssignDriver records a matchmaking result: the claimed driver id and
// the DriverAssigned status are set together, which is what guarantees
// that an assigned order always carries a driver. This is a
// system-internal operation; external callers cannot request it.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(DriverAssigned)
	if err != nil {
		return err
	}

	o.driverID = &driverID
	o.applyStatus(newStatus)
	return nil
}

// ChangeStatus performs an externally requested status transition on
// behalf of the given actor. Checks run in a fixed order: the transition
// table first, then the system-managed guard, then role authorization and
// physical preconditions inside the per-transition methods.
//
// driverPosition is the assigned driver's last known position, or nil if
// unknown; it is only consulted for the transition into InProgress.
// arrivalRadiusMeters configures the pickup gate; values <= 0 fall back
// to DefaultPickupArrivalRadiusMeters.
func (o *Order) ChangeStatus(
	actor Actor,
	next Status,
	driverPosition *kernel.GeoPoint,
	arrivalRadiusMeters float64,
) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if _, err := o.status.Transition(next); err != nil {
		return err
	}

	if next.IsSystemManaged() {
		return errs.NewForbiddenError(fmt.Sprintf("%s is managed by matchmaking", next))
	}

	switch next {
	case DriverArriving:
		return o.MarkDriverArriving(actor)
	case InProgress:
		return o.StartRide(actor, driverPosition, arrivalRadiusMeters)
	case Completed:
		return o.Complete(actor)
	case Canceled:
		return o.Cancel(actor)
	case Created, SearchingDriver, DriverAssigned, Unknown:
		// Unreachable: the transition table never yields these as an
		// external target, and system-managed targets were rejected above.
		return errs.NewValueIsInvalidError("status")
	}
	return errs.NewValueIsInvalidError("status")
}

// MarkDriverArriving moves the order into DriverArriving. Only the
// assigned driver or an operator may request it.
func (o *Order) MarkDriverArriving(actor Actor) error {
	if err := o.authorizeDriverAction(actor); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(DriverArriving)
	if err != nil {
		return err
	}

	o.applyStatus(newStatus)
	return nil
}

// StartRide moves the order into InProgress. Only the assigned driver or
// an operator may request it, and the driver's last reported position
// must lie within the pickup-arrival radius of the pickup point; a ride
// cannot be started remotely. An unknown position fails the gate.
func (o *Order) StartRide(actor Actor, driverPosition *kernel.GeoPoint, arrivalRadiusMeters float64) error {
	if err := o.authorizeDriverAction(actor); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(InProgress)
	if err != nil {
		return err
	}

	if arrivalRadiusMeters <= 0 {
		arrivalRadiusMeters = DefaultPickupArrivalRadiusMeters
	}

	if driverPosition == nil {
		return errs.NewPreconditionFailedError("driver position is unknown, cannot start the ride")
	}

	distance, err := o.pickup.DistanceMeters(*driverPosition)
	if err != nil {
		return err
	}

	if distance > arrivalRadiusMeters {
		return errs.NewPreconditionFailedError(fmt.Sprintf(
			"driver is %.0fm from pickup, must be within %.0fm to start the ride",
			distance, arrivalRadiusMeters))
	}

	o.applyStatus(newStatus)
	return nil
}

// Complete moves the order into Completed. Only the assigned driver or
// an operator may request it.
func (o *Order) Complete(actor Actor) error {
	if err := o.authorizeDriverAction(actor); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(Completed)
	if err != nil {
		return err
	}

	o.applyStatus(newStatus)
	return nil
}

// Cancel moves the order into Canceled and records who canceled it.
// The order's passenger, its assigned driver, or an operator may cancel;
// nobody else.
func (o *Order) Cancel(actor Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if !o.canCancel(actor) {
		return errs.NewForbiddenError("only the passenger or the assigned driver can cancel this order")
	}

	newStatus, err := o.status.Transition(Canceled)
	if err != nil {
		return err
	}

	attribution, err := NewCancellation(actor.Role(), actor.UserID())
	if err != nil {
		return err
	}

	o.applyStatus(newStatus)
	o.canceledBy = &attribution
	return nil
}

// applyStatus installs the already-validated next status and keeps the
// cancellation attribution consistent: any move into a non-canceled
// status clears it.
func (o *Order) applyStatus(next Status) {
	o.status = next
	if next != Canceled {
		o.canceledBy = nil
	}
	o.updatedAt = time.Now().UTC()
}

func (o *Order) canCancel(actor Actor) bool {
	if actor.IsOperator() {
		return true
	}

	if actor.Role() == RolePassenger && o.passengerID.IsEqual(actor.UserID()) {
		return true
	}

	return actor.Role() == RoleDriver && o.driverID != nil && o.driverID.IsEqual(actor.UserID())
}

func (o *Order) authorizeDriverAction(actor Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	if actor.IsOperator() {
		return nil
	}

	if actor.Role() != RoleDriver {
		return errs.NewForbiddenError("only a driver can perform this status transition")
	}

	if o.driverID == nil || !o.driverID.IsEqual(actor.UserID()) {
		return errs.NewForbiddenError("only the assigned driver can update this order")
	}

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPassengerID(passengerID kernel.UUID) error {
	if err := passengerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("passengerId", err)
	}
	o.passengerID = passengerID
	return nil
}

func (o *Order) setPickup(pickup kernel.GeoPoint) error {
	if err := pickup.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickup", err)
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dropoff", err)
	}
	o.dropoff = dropoff
	return nil
}

func (o *Order) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%v is negative", distanceKm))
	}
	o.distanceKm = distanceKm
	return nil
}

func (o *Order) setDurationMinutes(durationMinutes int) error {
	if durationMinutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("durationMinutes",
			fmt.Errorf("%d is negative", durationMinutes))
	}
	o.durationMinutes = durationMinutes
	return nil
}

func (o *Order) setFare(fare Fare) error {
	if err := fare.Validate(); err != nil {
		return err
	}
	o.fare = fare
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidErrorWithCause("version",
			fmt.Errorf("%d is not greater than 0", version))
	}
	o.version = version
	return nil
}
