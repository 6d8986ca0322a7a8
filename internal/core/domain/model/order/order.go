package order

import (
	"errors"
	"strings"
	"time"

	"kds/internal/core/domain/model/kernel"
	"kds/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Field names a stored attribute of Order that may change after creation.
type Field string

const (
	FieldExternalID     Field = "externalId"
	FieldCustomerName   Field = "customerName"
	FieldStatus         Field = "status"
	FieldItems          Field = "items"
	FieldRiderArrivedAt Field = "riderArrivedAt"
)

var trackedFields = []Field{FieldExternalID, FieldCustomerName, FieldStatus, FieldItems, FieldRiderArrivedAt}

// Order is the aggregate root of the lifecycle engine.
//
// Order follows these invariants:
//   - id and createdAt never change after creation
//   - total is always ComputeTotal(items) as of the last item change
//   - status only moves along the graph enforced by ValidateTransition
//   - riderArrivedAt, once set, is never cleared
type Order struct {
	id             kernel.UUID
	externalID     ExternalID
	customerName   string
	status         Status
	items          []Item
	total          kernel.Money
	riderArrivedAt *time.Time
	createdAt      time.Time
	updatedAt      time.Time

	changed map[Field]bool

	isConstructed bool
}

// NewOrder creates an order and derives its total from items. A zero status
// defaults to Pending; any other status is accepted as the initial state.
//
// Example:
//
//	price, _ := kernel.NewMoney(500, "EUR")
//	burger, _ := order.NewItem("1", "Burger", "", price, 2)
//	extID, _ := order.NewExternalID("glo-123")
//	o, err := order.NewOrder(kernel.NewUUID(), extID, "Ana", []order.Item{burger}, order.Unknown)
//	// o.Total() is 1000 EUR, o.Status() is PENDING
func NewOrder(
	id kernel.UUID,
	externalID ExternalID,
	customerName string,
	items []Item,
	status Status,
) (*Order, error) {
	if status == Unknown {
		status = Pending
	}

	o := &Order{isConstructed: true}
	if err := errors.Join(
		o.setID(id),
		o.setExternalID(externalID),
		o.setCustomerName(customerName),
		o.setStatus(status),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rehydrates an order from storage. The stored total is trusted
// because it was derived when the items were last written.
func RestoreOrder(
	id kernel.UUID,
	externalID ExternalID,
	customerName string,
	status Status,
	items []Item,
	total kernel.Money,
	riderArrivedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}
	if err := errors.Join(
		o.setID(id),
		o.setExternalID(externalID),
		o.setCustomerName(customerName),
		o.setStatus(status),
		total.Validate(),
	); err != nil {
		return nil, err
	}

	o.items = cloneItems(items)
	o.total = total
	o.riderArrivedAt = riderArrivedAt
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ExternalID() ExternalID {
	return o.externalID
}

func (o *Order) CustomerName() string {
	return o.customerName
}

func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return cloneItems(o.items)
}

func (o *Order) Total() kernel.Money {
	return o.total
}

// RiderArrivedAt returns nil until the rider has arrived.
func (o *Order) RiderArrivedAt() *time.Time {
	if o.riderArrivedAt == nil {
		return nil
	}
	at := *o.riderArrivedAt
	return &at
}

func (o *Order) HasRiderArrived() bool {
	return o.riderArrivedAt != nil
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus moves the order to target. Changing to the current status is a
// no-op; every other change goes through ValidateTransition.
func (o *Order) ChangeStatus(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == o.status {
		return nil
	}
	if err := ValidateTransition(o.status, target, o.HasRiderArrived()); err != nil {
		return err
	}

	o.status = target
	o.markChanged(FieldStatus)
	return nil
}

// ReplaceItems swaps the order lines and recomputes the total. An empty list
// leaves the order untouched, and so does a total that overflows.
func (o *Order) ReplaceItems(items []Item) error {
	if len(items) == 0 {
		return nil
	}
	if err := o.setItems(items); err != nil {
		return err
	}
	o.markChanged(FieldItems)
	return nil
}

func (o *Order) ChangeExternalID(externalID ExternalID) error {
	if externalID == o.externalID {
		return nil
	}
	if err := o.setExternalID(externalID); err != nil {
		return err
	}
	o.markChanged(FieldExternalID)
	return nil
}

func (o *Order) ChangeCustomerName(name string) error {
	previous := o.customerName
	if err := o.setCustomerName(name); err != nil {
		return err
	}
	if o.customerName != previous {
		o.markChanged(FieldCustomerName)
	}
	return nil
}

// MarkRiderArrived records the arrival time. Delivered orders are not touched.
func (o *Order) MarkRiderArrived(at time.Time) error {
	if o.status == Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", errors.New("order is already delivered"))
	}
	arrived := at
	o.riderArrivedAt = &arrived
	o.markChanged(FieldRiderArrivedAt)
	return nil
}

// Changes lists the fields modified since the order was created, restored or
// last saved. Stores write only these fields.
func (o *Order) Changes() []Field {
	out := make([]Field, 0, len(o.changed))
	for _, f := range trackedFields {
		if o.changed[f] {
			out = append(out, f)
		}
	}
	return out
}

// ClearChanges is called by the store once the changes are persisted.
func (o *Order) ClearChanges() {
	o.changed = nil
}

func (o *Order) markChanged(f Field) {
	if o.changed == nil {
		o.changed = make(map[Field]bool, len(trackedFields))
	}
	o.changed[f] = true
}

// SetTimestamps records the times assigned by the store on write.
func (o *Order) SetTimestamps(createdAt, updatedAt time.Time) {
	o.createdAt = createdAt
	o.updatedAt = updatedAt
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setExternalID(externalID ExternalID) error {
	if externalID.IsZero() {
		return errs.NewValueIsRequiredError("externalId")
	}
	o.externalID = externalID
	return nil
}

func (o *Order) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = name
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setItems(items []Item) error {
	total, err := ComputeTotal(items)
	if err != nil {
		return err
	}
	o.items = cloneItems(items)
	o.total = total
	return nil
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
