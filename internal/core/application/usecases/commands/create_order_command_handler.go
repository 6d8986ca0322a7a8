package commands

import (
	"context"
	"fmt"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
	"kds/internal/pkg/errs"
)

// CreateOrderCommandHandler puts new orders on the board.
//
// Workflow:
//   - resolve the external id, allocating MAN-### when the caller gave none
//   - refuse the order when the board already holds maxOrders orders
//   - persist, then publish order_created and arm the rider-arrival timer
//
// The capacity check and the insert are not serialized across requests, so
// concurrent creates may briefly overshoot maxOrders.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	sequence   ports.SequenceGenerator
	notifier   ports.OrderNotifier
	scheduler  ports.ArrivalScheduler
	maxOrders  int
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	sequence ports.SequenceGenerator,
	notifier ports.OrderNotifier,
	scheduler ports.ArrivalScheduler,
	maxOrders int,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		sequence:   sequence,
		notifier:   notifier,
		scheduler:  scheduler,
		maxOrders:  maxOrders,
	}
}

// Handle creates the order and returns it with store timestamps set.
// Returns *errs.LimitExceededError at capacity and *errs.ObjectAlreadyExistsError
// when the external id is taken.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	externalID, err := h.resolveExternalID(ctx, cmd.ExternalID())
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), externalID, cmd.CustomerName(), cmd.Items(), cmd.Status())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	count, err := orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count >= int64(h.maxOrders) {
		return nil, errs.NewLimitExceededError("orders", h.maxOrders)
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.PublishCreated(ctx, aggregate)
	h.scheduler.Arm(aggregate.ID())

	return aggregate, nil
}

func (h *CreateOrderCommandHandler) resolveExternalID(
	ctx context.Context,
	requested order.ExternalID,
) (order.ExternalID, error) {
	if !requested.IsZero() {
		return requested, nil
	}

	seq, err := h.sequence.Next(ctx)
	if err != nil {
		return order.ExternalID{}, fmt.Errorf("allocate external id: %w", err)
	}
	return order.NewManualExternalID(seq)
}
