package commands

import (
	"errors"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/pkg/guard"
)

var (
	ErrMarkRiderArrivedCommandIsNotConstructed = errors.New(
		"MarkRiderArrivedCommand must be created via NewMarkRiderArrivedCommand constructor",
	)
)

// MarkRiderArrivedCommand records that the rider for an order has arrived.
// It is issued by the rider-arrival scheduler, never by clients.
type MarkRiderArrivedCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkRiderArrivedCommand(orderID kernel.UUID) (MarkRiderArrivedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkRiderArrivedCommand{}, err
	}

	return MarkRiderArrivedCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c MarkRiderArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkRiderArrivedCommandIsNotConstructed)
}

func (c MarkRiderArrivedCommand) OrderID() kernel.UUID {
	return c.orderID
}
