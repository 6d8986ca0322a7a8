package order

import (
	"errors"
	"fmt"
	"strings"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/pkg/errs"
)

// Item is one order line. Price is the unit price; the line total is
// Price × Quantity.
type Item struct {
	id       string
	name     string
	image    string
	price    kernel.Money
	quantity int
	total    kernel.Money
}

// NewItem validates a line. Image is optional.
func NewItem(id, name, image string, price kernel.Money, quantity int) (Item, error) {
	item := Item{
		id:    strings.TrimSpace(id),
		name:  strings.TrimSpace(name),
		image: strings.TrimSpace(image),
		price: price,
	}

	var errID, errName, errQuantity error
	if item.id == "" {
		errID = errs.NewValueIsRequiredError("item.id")
	}
	if item.name == "" {
		errName = errs.NewValueIsRequiredError("item.name")
	}
	if quantity < 1 {
		errQuantity = errs.NewValueIsInvalidErrorWithCause("item.quantity", fmt.Errorf("%d is less than 1", quantity))
	}

	if err := errors.Join(errID, errName, price.Validate(), errQuantity); err != nil {
		return Item{}, err
	}

	total, err := price.Multiply(quantity)
	if err != nil {
		return Item{}, err
	}

	item.quantity = quantity
	item.total = total
	return item, nil
}

func (i Item) ID() string {
	return i.id
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Image() string {
	return i.image
}

func (i Item) Price() kernel.Money {
	return i.price
}

func (i Item) Quantity() int {
	return i.quantity
}

// LineTotal returns Price × Quantity, computed when the line was created.
func (i Item) LineTotal() kernel.Money {
	return i.total
}

// ComputeTotal sums the line totals. The currency comes from the first item;
// an empty list totals 0 in kernel.DefaultCurrency. A sum past int64 is
// rejected with ErrValueIsOutOfRange.
func ComputeTotal(items []Item) (kernel.Money, error) {
	if len(items) == 0 {
		return kernel.ZeroMoney(kernel.DefaultCurrency), nil
	}

	total := kernel.ZeroMoney(items[0].price.Currency())
	for _, item := range items {
		var err error
		if total, err = total.Add(item.LineTotal()); err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}
