package queries

import (
	"context"

	"ridehail/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler lists orders from the database scoped to the
// asking actor's role. Results come back newest first.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	query, _ := NewListOrdersQuery(actor)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order listings.
// Requires a GORM database connection for query execution.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the listing scoped to the actor.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).Table("orders")

	actor := query.Actor()
	switch actor.Role() {
	case order.RolePassenger:
		tx = tx.Where("passenger_id = ?", actor.UserID().Bytes())
	case order.RoleDriver:
		tx = tx.Where("driver_id = ?", actor.UserID().Bytes())
	case order.RoleOperator, order.RoleUnknown:
		// Operators see everything; RoleUnknown never passes validation.
	}

	var rows []orderRow
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		view, err := row.toView()
		if err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	return views, nil
}
