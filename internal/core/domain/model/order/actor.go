package order

import (
	"errors"
	"fmt"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/pkg/errs"
	"ridehail/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when an Actor was not created via NewActor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Role identifies the kind of caller requesting an order operation.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RolePassenger is the rider who owns the order.
	RolePassenger

	// RoleDriver is a driver, possibly the one assigned to the order.
	RoleDriver

	// RoleOperator is back-office staff allowed to perform any transition
	// the table permits.
	RoleOperator
)

// getRoleStrings returns a map of Role values to their string representations.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:   "UNKNOWN",
		RolePassenger: "PASSENGER",
		RoleDriver:    "DRIVER",
		RoleOperator:  "OPERATOR",
	}
}

// RoleFromString parses the wire representation of a role.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if role != RoleUnknown && str == s {
			return role, nil
		}
	}

	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%q is not a valid role", s))
}

// Validate checks if the Role value is valid.
func (r Role) Validate() error {
	switch r {
	case RolePassenger, RoleDriver, RoleOperator:
		return nil
	case RoleUnknown:
	}
	return errs.NewValueIsInvalidErrorWithCause("role",
		fmt.Errorf("%d is not a valid role", r))
}

// String returns the wire name of the role, e.g. "PASSENGER".
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

// Actor is the authenticated identity on whose behalf an order operation
// runs. Identity issuance is outside the engine; the actor arrives here
// already verified and the state machine only consults its role and id.
type Actor struct { //nolint:recvcheck //using for validation
	role   Role
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewActor creates an Actor with a validated role and user id.
func NewActor(role Role, userID kernel.UUID) (Actor, error) {
	actor := Actor{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(actor.setRole(role), actor.setUserID(userID)); err != nil {
		return Actor{}, err
	}

	return actor, nil
}

// Validate ensures the actor was created through the constructor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// Role returns the actor's role.
func (a Actor) Role() Role {
	return a.role
}

// UserID returns the actor's user id.
func (a Actor) UserID() kernel.UUID {
	return a.userID
}

// IsOperator reports whether the actor carries the operator role.
func (a Actor) IsOperator() bool {
	return a.role == RoleOperator
}

func (a *Actor) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	a.role = role
	return nil
}

func (a *Actor) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	a.userID = userID
	return nil
}
