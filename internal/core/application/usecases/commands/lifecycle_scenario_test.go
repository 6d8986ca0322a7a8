package commands_test

import (
	"context"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"kds/internal/core/application/usecases/commands"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
	"kds/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an order store without transactions: writes are visible immediately.
type memoryStore struct {
	mu     sync.Mutex
	orders map[kernel.UUID]*order.Order
}

func newMemoryStore() *memoryStore {
	return &memoryStore{orders: make(map[kernel.UUID]*order.Order)}
}

func (s *memoryStore) Create() commands.OrderUoW { return memoryUoW{store: s} }
func (s *memoryStore) Add(_ context.Context, o *order.Order) error { return s.put(o, true) }
func (s *memoryStore) Update(_ context.Context, o *order.Order) error {
	return s.put(o, false)
}

func (s *memoryStore) put(o *order.Order, isNew bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID()]; !isNew && !exists {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	for id, other := range s.orders {
		if id != o.ID() && other.ExternalID() == o.ExternalID() {
			return errs.NewObjectAlreadyExistsError("externalId", o.ExternalID().String())
		}
	}
	now := time.Now()
	created := o.CreatedAt()
	if isNew {
		created = now
	}
	o.SetTimestamps(created, now)
	s.orders[o.ID()] = o
	return nil
}

func (s *memoryStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (s *memoryStore) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return errs.NewObjectNotFoundError("order", id)
	}
	delete(s.orders, id)
	return nil
}

func (s *memoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *memoryStore) List(_ context.Context, _ ports.OrderFilter) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

type memoryUoW struct{ store *memoryStore }

func (u memoryUoW) Begin(context.Context) error { return nil }
func (u memoryUoW) Commit(context.Context) error { return nil }
func (u memoryUoW) Rollback(context.Context) error { return nil }
func (u memoryUoW) OrderRepository() ports.OrderRepository { return u.store }

type counterSequence struct {
	mu    sync.Mutex
	value int64
}

func (c *counterSequence) Next(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	return c.value, nil
}

type recordedEvent struct {
	name       string
	externalID string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) record(name string, o *order.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	e := recordedEvent{name: name}
	if o != nil {
		e.externalID = o.ExternalID().String()
	}
	n.events = append(n.events, e)
}

func (n *recordingNotifier) PublishCreated(_ context.Context, o *order.Order) { n.record("order_created", o) }
func (n *recordingNotifier) PublishUpdated(_ context.Context, o *order.Order) { n.record("order_updated", o) }
func (n *recordingNotifier) PublishCapacityReached(context.Context) { n.record("order_limit_reached", nil) }

type recordingScheduler struct {
	armed     []kernel.UUID
	cancelled []kernel.UUID
}

func (s *recordingScheduler) Arm(id kernel.UUID) { s.armed = append(s.armed, id) }
func (s *recordingScheduler) Cancel(id kernel.UUID) { s.cancelled = append(s.cancelled, id) }

type lifecycle struct {
	store     *memoryStore
	sequence  *counterSequence
	notifier  *recordingNotifier
	scheduler *recordingScheduler

	create  commands.CreateOrderCommandHandler
	update  commands.UpdateOrderCommandHandler
	remove  commands.DeleteOrderCommandHandler
	arrived commands.MarkRiderArrivedCommandHandler
}

func newLifecycle(maxOrders int) *lifecycle {
	l := &lifecycle{
		store:     newMemoryStore(),
		sequence:  &counterSequence{},
		notifier:  &recordingNotifier{},
		scheduler: &recordingScheduler{},
	}
	l.create = commands.NewCreateOrderCommandHandler(l.store, l.sequence, l.notifier, l.scheduler, maxOrders)
	l.update = commands.NewUpdateOrderCommandHandler(l.store, l.notifier)
	l.remove = commands.NewDeleteOrderCommandHandler(l.store, l.scheduler)
	l.arrived = commands.NewMarkRiderArrivedCommandHandler(l.store, l.notifier, fixedClock)
	return l
}

func (l *lifecycle) setStatus(t *testing.T, id kernel.UUID, status order.Status) error {
	t.Helper()
	cmd, err := commands.NewUpdateOrderCommand(id, commands.OrderPatch{Status: &status})
	require.NoError(t, err)
	_, err = l.update.Handle(t.Context(), cmd)
	return err
}

func TestLifecycle_CreateComputesTotalAndArmsArrival(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	cmd, _ := commands.NewCreateOrderCommand("GLO-123", "Ana", testItems(t), order.Unknown)

	created, err := l.create.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(1000), created.Total().Amount())
	assert.Equal(t, "EUR", created.Total().Currency())
	assert.Equal(t, order.Pending, created.Status())
	assert.False(t, created.CreatedAt().IsZero())
	assert.Equal(t, []kernel.UUID{created.ID()}, l.scheduler.armed)
	assert.Equal(t, []recordedEvent{{"order_created", "GLO-123"}}, l.notifier.events)
}

func TestLifecycle_FullWalkRequiresRider(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	cmd, _ := commands.NewCreateOrderCommand("", "Ana", testItems(t), order.Unknown)
	created, err := l.create.Handle(t.Context(), cmd)
	require.NoError(t, err)
	id := created.ID()

	err = l.setStatus(t, id, order.Delivered)
	require.ErrorIs(t, err, errs.ErrTransitionIsInvalid)

	require.NoError(t, l.setStatus(t, id, order.InProgress))
	require.NoError(t, l.setStatus(t, id, order.Ready))

	err = l.setStatus(t, id, order.Delivered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rider has not arrived yet")

	arrivedCmd, _ := commands.NewMarkRiderArrivedCommand(id)
	_, err = l.arrived.Handle(t.Context(), arrivedCmd)
	require.NoError(t, err)

	require.NoError(t, l.setStatus(t, id, order.Delivered))
	require.NoError(t, l.setStatus(t, id, order.Delivered), "same status is a no-op")

	stored, _ := l.store.Get(t.Context(), id)
	assert.Equal(t, order.Delivered, stored.Status())
	assert.Equal(t, fixedNow, *stored.RiderArrivedAt())

	// Once delivered, a late timer firing changes nothing.
	updated, err := l.arrived.Handle(t.Context(), arrivedCmd)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestLifecycle_AllocatesNextManualID(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	l.sequence.value = 1
	cmd, _ := commands.NewCreateOrderCommand("", "Ana", nil, order.Unknown)

	created, err := l.create.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, "MAN-002", created.ExternalID().String())
	assert.Equal(t, int64(0), created.Total().Amount())
	assert.Equal(t, kernel.DefaultCurrency, created.Total().Currency())
}

func TestLifecycle_CapacityRejectsWithoutSideEffects(t *testing.T) {
	l := newLifecycle(2)
	for _, extID := range []string{"GLO-001", "GLO-002"} {
		cmd, _ := commands.NewCreateOrderCommand(extID, "Ana", nil, order.Unknown)
		_, err := l.create.Handle(t.Context(), cmd)
		require.NoError(t, err)
	}

	cmd, _ := commands.NewCreateOrderCommand("GLO-003", "Ana", nil, order.Unknown)
	_, err := l.create.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrLimitExceeded)
	count, _ := l.store.Count(t.Context())
	assert.Equal(t, int64(2), count)
	assert.Len(t, l.notifier.events, 2)
	assert.Len(t, l.scheduler.armed, 2)
}

func TestLifecycle_TotalOverflowIsRejected(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	price, err := kernel.NewMoney(math.MaxInt64/4+1, "EUR")
	require.NoError(t, err)
	line, err := order.NewItem("1", "Caviar", "", price, 2)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand("GLO-900", "Ana", []order.Item{line, line}, order.Unknown)
	require.NoError(t, err)

	_, err = l.create.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	count, _ := l.store.Count(t.Context())
	assert.Zero(t, count)
	assert.Empty(t, l.notifier.events)
	assert.Empty(t, l.scheduler.armed)
}

func TestLifecycle_DuplicateExternalIDConflicts(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	first, _ := commands.NewCreateOrderCommand("GLO-123", "Ana", nil, order.Unknown)
	_, err := l.create.Handle(t.Context(), first)
	require.NoError(t, err)

	second, _ := commands.NewCreateOrderCommand("glo-123", "Bo", nil, order.Unknown)
	_, err = l.create.Handle(t.Context(), second)

	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.Contains(t, err.Error(), "GLO-123")
}

func TestLifecycle_DeleteCancelsArrival(t *testing.T) {
	l := newLifecycle(testMaxOrders)
	cmd, _ := commands.NewCreateOrderCommand("GLO-123", "Ana", nil, order.Unknown)
	created, err := l.create.Handle(t.Context(), cmd)
	require.NoError(t, err)

	deleteCmd, _ := commands.NewDeleteOrderCommand(created.ID())
	deleted, err := l.remove.Handle(t.Context(), deleteCmd)

	require.NoError(t, err)
	assert.Equal(t, created.ID(), deleted.ID())
	assert.Equal(t, []kernel.UUID{created.ID()}, l.scheduler.cancelled)

	_, err = l.remove.Handle(t.Context(), deleteCmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	// A timer that slipped past cancellation is a no-op.
	arrivedCmd, _ := commands.NewMarkRiderArrivedCommand(created.ID())
	updated, err := l.arrived.Handle(t.Context(), arrivedCmd)
	require.NoError(t, err)
	assert.Nil(t, updated)
}
