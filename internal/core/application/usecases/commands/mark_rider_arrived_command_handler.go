package commands

import (
	"context"
	"errors"
	"time"

	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
	"kds/internal/pkg/errs"
)

// MarkRiderArrivedCommandHandler stamps riderArrivedAt on an order.
//
// Orders deleted or delivered in the meantime are skipped: Handle then returns
// (nil, nil) and publishes nothing.
type MarkRiderArrivedCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.OrderNotifier
	clock      ports.Clock
}

// NewMarkRiderArrivedCommandHandler falls back to time.Now when clock is nil.
func NewMarkRiderArrivedCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.OrderNotifier,
	clock ports.Clock,
) MarkRiderArrivedCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return MarkRiderArrivedCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h *MarkRiderArrivedCommandHandler) Handle(
	ctx context.Context,
	cmd MarkRiderArrivedCommand,
) (*order.Order, error) {
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
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if aggregate.Status() == order.Delivered {
		return nil, nil
	}

	if err = aggregate.MarkRiderArrived(h.clock()); err != nil {
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
