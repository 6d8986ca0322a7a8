package commands

import (
	"context"

	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
)

// UpdateOrderCommandHandler applies partial updates to an order.
// Status changes go through the transition graph; a non-empty item list
// replaces the lines and recomputes the total.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.OrderNotifier
}

func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.OrderNotifier) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle returns the updated order. Nothing is persisted or published when
// any part of the patch is rejected.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

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

	if err = applyPatch(aggregate, cmd); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.PublishUpdated(ctx, aggregate)
	return aggregate, nil
}

func applyPatch(aggregate *order.Order, cmd UpdateOrderCommand) error {
	if externalID := cmd.ExternalID(); externalID != nil {
		if err := aggregate.ChangeExternalID(*externalID); err != nil {
			return err
		}
	}

	if name := cmd.CustomerName(); name != nil {
		if err := aggregate.ChangeCustomerName(*name); err != nil {
			return err
		}
	}

	if err := aggregate.ReplaceItems(cmd.Items()); err != nil {
		return err
	}

	if status := cmd.Status(); status != nil {
		if err := aggregate.ChangeStatus(*status); err != nil {
			return err
		}
	}

	return nil
}
