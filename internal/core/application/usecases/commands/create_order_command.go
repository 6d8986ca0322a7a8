package commands

import (
	"errors"
	"strings"

	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"
	"kds/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to put a new order on the board.
// A blank external id asks the service to allocate a MAN-### code.
//
// Example:
//
//	price, _ := kernel.NewMoney(500, "EUR")
//	burger, _ := order.NewItem("1", "Burger", "", price, 2)
//	cmd, err := NewCreateOrderCommand("glo-123", "Ana", []order.Item{burger}, order.Unknown)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	externalID   order.ExternalID
	customerName string
	items        []order.Item
	status       order.Status

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the caller input. status may be order.Unknown,
// in which case the order starts as PENDING.
func NewCreateOrderCommand(
	externalID string,
	customerName string,
	items []order.Item,
	status order.Status,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		items: items,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setExternalID(externalID),
		cmd.setCustomerName(customerName),
		cmd.setStatus(status),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// ExternalID is zero when an identifier must be allocated.
func (c CreateOrderCommand) ExternalID() order.ExternalID {
	return c.externalID
}

func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c CreateOrderCommand) Status() order.Status {
	return c.status
}

func (c *CreateOrderCommand) setExternalID(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	externalID, err := order.NewExternalID(raw)
	if err != nil {
		return err
	}
	c.externalID = externalID
	return nil
}

func (c *CreateOrderCommand) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	c.customerName = name
	return nil
}

func (c *CreateOrderCommand) setStatus(status order.Status) error {
	if status == order.Unknown {
		return nil
	}
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
