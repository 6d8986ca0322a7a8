package commands

import (
	"context"

	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
)

// DeleteOrderCommandHandler removes orders. The pending rider-arrival timer is
// cancelled before the row is deleted so it cannot fire for a deleted order.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	scheduler  ports.ArrivalScheduler
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory, scheduler ports.ArrivalScheduler) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
	}
}

// Handle returns the order as it was before deletion.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	h.scheduler.Cancel(cmd.OrderID())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Delete(ctx, cmd.OrderID()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
