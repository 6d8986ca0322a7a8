package commands

import (
	"errors"
	"strings"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"
	"kds/internal/pkg/guard"
)

var (
	ErrUpdateOrderCommandIsNotConstructed = errors.New(
		"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
	)
)

// OrderPatch lists the fields a caller wants to change. Nil fields and an
// empty Items slice are left untouched.
type OrderPatch struct {
	ExternalID   *string
	CustomerName *string
	Status       *order.Status
	Items        []order.Item
}

// UpdateOrderCommand represents a partial update of an order.
//
// Example:
//
//	ready := order.Ready
//	cmd, err := NewUpdateOrderCommand(orderID, OrderPatch{Status: &ready})
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	externalID   *order.ExternalID
	customerName *string
	status       *order.Status
	items        []order.Item

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, patch OrderPatch) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		items: patch.Items,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setExternalID(patch.ExternalID),
		cmd.setCustomerName(patch.CustomerName),
		cmd.setStatus(patch.Status),
	); err != nil {
		return UpdateOrderCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ExternalID returns the normalized new external id, or nil when unchanged.
func (c UpdateOrderCommand) ExternalID() *order.ExternalID {
	return c.externalID
}

func (c UpdateOrderCommand) CustomerName() *string {
	return c.customerName
}

func (c UpdateOrderCommand) Status() *order.Status {
	return c.status
}

func (c UpdateOrderCommand) Items() []order.Item {
	return c.items
}

func (c *UpdateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setExternalID(raw *string) error {
	if raw == nil {
		return nil
	}
	externalID, err := order.NewExternalID(*raw)
	if err != nil {
		return err
	}
	c.externalID = &externalID
	return nil
}

func (c *UpdateOrderCommand) setCustomerName(name *string) error {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	c.customerName = &trimmed
	return nil
}

func (c *UpdateOrderCommand) setStatus(status *order.Status) error {
	if status == nil {
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}
	s := *status
	c.status = &s
	return nil
}
