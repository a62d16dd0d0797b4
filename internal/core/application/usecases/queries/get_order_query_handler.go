package queries

import (
	"context"
	"errors"

	"ridehail/internal/core/domain/model/order"
	"ridehail/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler fetches a single order view from the database.
// Enforces participation-based visibility before returning the view.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
// Returns an object-not-found error for unknown ids and a forbidden
// error when the actor is neither a participant nor an operator.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var row orderRow
	err := h.db.WithContext(ctx).
		Table("orders").
		Where("id = ?", query.OrderID().Bytes()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return OrderView{}, err
	}

	view, err := row.toView()
	if err != nil {
		return OrderView{}, err
	}

	if err = authorizeView(query.Actor(), view); err != nil {
		return OrderView{}, err
	}

	return view, nil
}

// authorizeView checks that the actor participates in the order.
// Operators see every order.
func authorizeView(actor order.Actor, view OrderView) error {
	if actor.IsOperator() {
		return nil
	}

	switch actor.Role() {
	case order.RolePassenger:
		if view.PassengerID.IsEqual(actor.UserID()) {
			return nil
		}
	case order.RoleDriver:
		if view.DriverID != nil && view.DriverID.IsEqual(actor.UserID()) {
			return nil
		}
	case order.RoleOperator, order.RoleUnknown:
	}

	return errs.NewForbiddenError("actor is not a participant of this order")
}
