package commands

import (
	"errors"

	"ridehail/internal/pkg/guard"
)

var ErrDispatchPendingOrdersCommandIsNotConstructed = errors.New(
	"DispatchPendingOrdersCommand must be created via NewDispatchPendingOrdersCommand constructor",
)

// DispatchPendingOrdersCommand retries the driver search for every order
// still in SearchingDriver. Parameterless; issued by the dispatch job.
type DispatchPendingOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchPendingOrdersCommand creates a command to sweep orders
// awaiting a driver.
func NewDispatchPendingOrdersCommand() DispatchPendingOrdersCommand {
	return DispatchPendingOrdersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrDispatchPendingOrdersCommandIsNotConstructed if validation fails.
func (c DispatchPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPendingOrdersCommandIsNotConstructed)
}
