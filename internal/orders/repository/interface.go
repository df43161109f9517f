package repository

import (
	"context"

	"kommosync/internal/orders/domain"
)

// Store is the record-store contract for orders. The webhook reconciler and
// the order service both run against this interface; the Postgres
// implementation below is the only one used in production.
type Store interface {
	// GetByID returns the order with the given local id, or a NotFound error.
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	// GetByLeadID returns the order linked to the given Kommo lead, or a
	// NotFound error.
	GetByLeadID(ctx context.Context, leadID int64) (domain.Order, error)
	// Insert persists a new order and returns it with the assigned id.
	// Inserting a second order with the same non-zero lead id returns a
	// Conflict error.
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	// Update overwrites the stored order identified by order.ID.
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
	// Delete removes the order with the given local id.
	Delete(ctx context.Context, id int64) error
	// ListAll returns every order, oldest first.
	ListAll(ctx context.Context) ([]domain.Order, error)
}
