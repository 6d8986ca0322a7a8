// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: persistence, identifier allocation, notifications and the
// rider-arrival scheduler.
package ports

import (
	"context"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
)

// OrderFilter narrows List. A nil Status matches every status; a zero Limit
// means no limit.
type OrderFilter struct {
	Status *order.Status
	Limit  int
	Offset int
}

// OrderRepository defines the persistence contract for order aggregates.
//
// Errors:
//   - Get, Update and Delete return *errs.ObjectNotFoundError for unknown ids
//   - Add and Update return *errs.ObjectAlreadyExistsError when the external id
//     is already taken by another order
type OrderRepository interface {
	// Add persists a new order and records the store timestamps on it.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes an order by its identifier.
	Delete(ctx context.Context, id kernel.UUID) error

	// Count returns the number of stored orders regardless of status.
	Count(ctx context.Context) (int64, error)

	// List returns orders newest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
