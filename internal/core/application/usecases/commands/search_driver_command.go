package commands

import (
	"errors"

	"ridehail/internal/core/domain/model/kernel"
	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/pkg/guard"
)

var ErrSearchDriverCommandIsNotConstructed = errors.New(
	"SearchDriverCommand must be created via NewSearchDriverCommand constructor",
)

// SearchDriverCommand requests a driver search for an existing order.
// The actor must be the order's passenger or an operator.
type SearchDriverCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewSearchDriverCommand creates a command to start or retry the driver
// search for the given order.
func NewSearchDriverCommand(orderID kernel.UUID, actor order.Actor) (SearchDriverCommand, error) {
	searchCommand := SearchDriverCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		searchCommand.setOrderID(orderID),
		searchCommand.setActor(actor),
	); err != nil {
		return SearchDriverCommand{}, err
	}

	return searchCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSearchDriverCommandIsNotConstructed if validation fails.
func (c SearchDriverCommand) Validate() error {
	return c.guard.Validate(ErrSearchDriverCommandIsNotConstructed)
}

// OrderID returns the order to search a driver for.
func (c SearchDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns who requested the search.
func (c SearchDriverCommand) Actor() order.Actor {
	return c.actor
}

func (c *SearchDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SearchDriverCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
