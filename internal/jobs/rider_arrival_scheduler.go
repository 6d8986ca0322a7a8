package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"kds/internal/core/application/usecases/commands"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/metrics"
)

const arrivalHandleTimeout = 10 * time.Second

// Timer is a pending callback that can be stopped. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules f to run once after d.
type TimerFactory func(d time.Duration, f func()) Timer

func realTimer(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type DelayPolicy interface {
	NextDelay() time.Duration
}

type RiderArrivedHandler interface {
	Handle(ctx context.Context, cmd commands.MarkRiderArrivedCommand) (*order.Order, error)
}

type pendingArrival struct {
	timer      Timer
	generation uint64
}

// RiderArrivalScheduler implements ports.ArrivalScheduler with in-memory timers.
// Pending arrivals are lost on restart.
type RiderArrivalScheduler struct {
	handler  RiderArrivedHandler
	policy   DelayPolicy
	newTimer TimerFactory
	logger   *slog.Logger

	mu         sync.Mutex
	pending    map[kernel.UUID]pendingArrival
	generation uint64
}

// NewRiderArrivalScheduler uses real timers when newTimer is nil.
func NewRiderArrivalScheduler(
	handler RiderArrivedHandler,
	policy DelayPolicy,
	newTimer TimerFactory,
	logger *slog.Logger,
) *RiderArrivalScheduler {
	if newTimer == nil {
		newTimer = realTimer
	}
	return &RiderArrivalScheduler{
		handler:  handler,
		policy:   policy,
		newTimer: newTimer,
		logger:   logger.With("component", "RiderArrivalScheduler"),
		pending:  make(map[kernel.UUID]pendingArrival),
	}
}

// Arm replaces any pending arrival of the order with a newly drawn delay.
func (s *RiderArrivalScheduler) Arm(id kernel.UUID) {
	delay := s.policy.NextDelay()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pending[id]; ok {
		existing.timer.Stop()
	}
	s.generation++
	generation := s.generation
	s.pending[id] = pendingArrival{
		timer:      s.newTimer(delay, func() { s.fire(id, generation) }),
		generation: generation,
	}
	metrics.ArrivalsPending.Set(float64(len(s.pending)))

	s.logger.Debug("rider arrival armed", "orderId", id.String(), "delay", delay.String())
}

func (s *RiderArrivalScheduler) Cancel(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pending[id]
	if !ok {
		return
	}
	existing.timer.Stop()
	delete(s.pending, id)
	metrics.ArrivalsPending.Set(float64(len(s.pending)))
}

// Shutdown stops every pending arrival.
func (s *RiderArrivalScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.pending {
		existing.timer.Stop()
		delete(s.pending, id)
	}
	metrics.ArrivalsPending.Set(0)
}

func (s *RiderArrivalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *RiderArrivalScheduler) fire(id kernel.UUID, generation uint64) {
	if !s.isCurrent(id, generation) {
		// Replaced or cancelled after the timer had already started.
		return
	}
	defer s.retire(id, generation)

	ctx, cancel := context.WithTimeout(context.Background(), arrivalHandleTimeout)
	defer cancel()

	cmd, err := commands.NewMarkRiderArrivedCommand(id)
	if err != nil {
		metrics.ArrivalsFired.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "invalid rider arrival", "orderId", id.String(), "error", err)
		return
	}

	updated, err := s.handler.Handle(ctx, cmd)
	switch {
	case err != nil:
		metrics.ArrivalsFired.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "failed to mark rider arrived", "orderId", id.String(), "error", err)
	case updated == nil:
		metrics.ArrivalsFired.WithLabelValues("skipped").Inc()
	default:
		metrics.ArrivalsFired.WithLabelValues("arrived").Inc()
		s.logger.InfoContext(ctx, "rider arrived", "orderId", id.String(), "externalId", updated.ExternalID().String())
	}
}

func (s *RiderArrivalScheduler) isCurrent(id kernel.UUID, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.pending[id]
	return ok && existing.generation == generation
}

func (s *RiderArrivalScheduler) retire(id kernel.UUID, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.pending[id]; ok && existing.generation == generation {
		delete(s.pending, id)
		metrics.ArrivalsPending.Set(float64(len(s.pending)))
	}
}
