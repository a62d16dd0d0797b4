package queries

import (
	"errors"

	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders visible to the actor: a passenger sees
// their own orders, a driver sees orders assigned to them, an operator
// sees everything.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	actor order.Actor

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a query to list the actor's orders.
func NewListOrdersQuery(actor order.Actor) (ListOrdersQuery, error) {
	listQuery := ListOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := listQuery.setActor(actor); err != nil {
		return ListOrdersQuery{}, err
	}

	return listQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListOrdersQueryIsNotConstructed if validation fails.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Actor returns who is asking.
func (q ListOrdersQuery) Actor() order.Actor {
	return q.actor
}

func (q *ListOrdersQuery) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	q.actor = actor
	return nil
}
