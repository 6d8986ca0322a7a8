package ports

import (
	"context"

	"kds/internal/core/domain/model/order"
)

// OrderNotifier broadcasts order changes to live subscribers. Publishing is
// fire-and-forget: implementations log failures instead of returning them.
type OrderNotifier interface {
	PublishCreated(ctx context.Context, o *order.Order)
	PublishUpdated(ctx context.Context, o *order.Order)
	PublishCapacityReached(ctx context.Context)
}
