package order

import (
	"fmt"

	"ridehail/internal/pkg/errs"
)

// Status represents the lifecycle state of a ride order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct dispatch workflow.
//
// State transitions:
//
//	CREATED ──> SEARCHING_DRIVER ──> DRIVER_ASSIGNED ──> DRIVER_ARRIVING ──> IN_PROGRESS ──> COMPLETED
//	    │               │                   │                    │                 │
//	    └───────────────┴───────────────────┴────────────────────┴─────────────────┴──> CANCELED
//
// COMPLETED and CANCELED are terminal; no transition leaves them.
// Status is a value object that validates state transitions and provides
// string representations for persistence, events, and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status when an order is first created.
	// The passenger has requested a ride but no search has started yet.
	Created

	// SearchingDriver indicates matchmaking is looking for a driver.
	// This status is system-managed and cannot be requested externally.
	SearchingDriver

	// DriverAssigned indicates matchmaking claimed a driver for the order.
	// This status is system-managed and cannot be requested externally.
	DriverAssigned

	// DriverArriving indicates the assigned driver is heading to pickup.
	DriverArriving

	// InProgress indicates the ride has started. Entering this status
	// requires the driver to be physically near the pickup point.
	InProgress

	// Completed indicates the ride finished successfully. Terminal.
	Completed

	// Canceled indicates the order was canceled by the passenger, the
	// assigned driver, or an operator. Terminal.
	Canceled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "UNKNOWN",
		Created:         "CREATED",
		SearchingDriver: "SEARCHING_DRIVER",
		DriverAssigned:  "DRIVER_ASSIGNED",
		DriverArriving:  "DRIVER_ARRIVING",
		InProgress:      "IN_PROGRESS",
		Completed:       "COMPLETED",
		Canceled:        "CANCELED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:         "CREATED",
		SearchingDriver: "SEARCHING_DRIVER",
		DriverAssigned:  "DRIVER_ASSIGNED",
		DriverArriving:  "DRIVER_ARRIVING",
		InProgress:      "IN_PROGRESS",
		Completed:       "COMPLETED",
		Canceled:        "CANCELED",
	}
}

// ActiveStatuses returns the statuses in which an order blocks its
// passenger from creating another one: every non-terminal status.
func ActiveStatuses() []Status {
	return []Status{Created, SearchingDriver, DriverAssigned, DriverArriving, InProgress}
}

// StatusFromString parses the persisted or wire representation of a status.
// Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}

	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other out-of-set values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "SEARCHING_DRIVER".
// Safe to call on any value; invalid values render as "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// CanTransitionTo reports whether the transition table permits moving
// from s to next. The switch is exhaustive over the status set so that
// adding a new status is a compile-time-visible change here.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case Created:
		return next == SearchingDriver || next == Canceled
	case SearchingDriver:
		return next == DriverAssigned || next == Canceled
	case DriverAssigned:
		return next == DriverArriving || next == Canceled
	case DriverArriving:
		return next == InProgress || next == Canceled
	case InProgress:
		return next == Completed || next == Canceled
	case Completed, Canceled:
		return false
	case Unknown:
		return false
	}
	return false
}

// Transition returns next if the transition table allows moving there
// from s, or an invalid-transition error otherwise. The table check is
// independent of, and performed before, any authorization concern.
func (s Status) Transition(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(next) {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("invalid status transition: %s -> %s", s, next))
	}

	return next, nil
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Canceled
}

// IsActive reports whether an order in this status blocks its passenger
// from creating a new order.
func (s Status) IsActive() bool {
	switch s {
	case Created, SearchingDriver, DriverAssigned, DriverArriving, InProgress:
		return true
	case Completed, Canceled, Unknown:
		return false
	}
	return false
}

// IsSystemManaged reports whether the status is an output of the
// matchmaking step. System-managed statuses cannot be requested through
// the external status-update operation, regardless of caller role.
func (s Status) IsSystemManaged() bool {
	return s == SearchingDriver || s == DriverAssigned
}

// ValidateCanHaveDriver validates the consistency between order status
// and driver assignment: an order has a driver exactly from assignment
// onward. Canceled orders may or may not carry a driver, depending on
// whether cancellation happened before or after assignment.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver {
		switch s {
		case Created, SearchingDriver:
			return errs.NewValueIsInvalidErrorWithCause("status",
				fmt.Errorf("%s is not a valid status to have a driver", s))
		case DriverAssigned, DriverArriving, InProgress, Completed, Canceled, Unknown:
			return nil
		}
		return nil
	}

	switch s {
	case DriverAssigned, DriverArriving, InProgress, Completed:
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no driver", s))
	case Created, SearchingDriver, Canceled, Unknown:
		return nil
	}
	return nil
}
