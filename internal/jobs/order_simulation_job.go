package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"kds/internal/core/application/usecases/commands"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/core/ports"
	"kds/internal/pkg/errs"
	"kds/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	SimulationMinInterval = 3 * time.Second
	SimulationMaxInterval = 8 * time.Second

	simulationTimeout = 10 * time.Second
	customerAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

// randomIntervalSchedule fires at a uniformly random interval in [min, max]
// after each activation.
type randomIntervalSchedule struct {
	minInterval time.Duration
	maxInterval time.Duration
	intN        func(n int64) int64
}

func (s randomIntervalSchedule) Next(t time.Time) time.Time {
	span := int64(s.maxInterval-s.minInterval) + 1
	return t.Add(s.minInterval + time.Duration(s.intN(span)))
}

// OrderSimulationJob feeds the board with random orders while running.
// When the order capacity is reached it stops itself and announces it.
type OrderSimulationJob struct {
	creator  OrderCreator
	notifier ports.OrderNotifier
	schedule cron.Schedule
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewOrderSimulationJob(creator OrderCreator, notifier ports.OrderNotifier, logger *slog.Logger) *OrderSimulationJob {
	return &OrderSimulationJob{
		creator:  creator,
		notifier: notifier,
		schedule: randomIntervalSchedule{
			minInterval: SimulationMinInterval,
			maxInterval: SimulationMaxInterval,
			intN:        rand.Int64N,
		},
		logger: logger.With("component", "OrderSimulationJob"),
	}
}

// Toggle starts a stopped simulation or stops a running one and reports
// whether it is running afterwards.
func (j *OrderSimulationJob) Toggle() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		j.stopLocked()
		return false
	}
	j.startLocked()
	return true
}

func (j *OrderSimulationJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.startLocked()
}

func (j *OrderSimulationJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()
}

func (j *OrderSimulationJob) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func (j *OrderSimulationJob) startLocked() {
	if j.running {
		return
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{j.logger})))
	c.Schedule(j.schedule, cron.FuncJob(j.createRandomOrder))
	c.Start()

	j.cron = c
	j.running = true
	j.logger.InfoContext(context.Background(), "Order simulation started")
}

func (j *OrderSimulationJob) stopLocked() {
	if !j.running {
		return
	}
	// Stop does not wait for an in-flight creation.
	j.cron.Stop()
	j.cron = nil
	j.running = false
	j.logger.InfoContext(context.Background(), "Order simulation stopped")
}

func (j *OrderSimulationJob) createRandomOrder() {
	ctx, cancel := context.WithTimeout(context.Background(), simulationTimeout)
	defer cancel()

	cmd, err := randomOrderCommand()
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build simulated order", "error", err)
		return
	}

	created, err := j.creator.Handle(ctx, cmd)
	switch {
	case errors.Is(err, errs.ErrLimitExceeded):
		metrics.SimulatedOrders.WithLabelValues("limit").Inc()
		j.logger.WarnContext(ctx, "Order limit reached, stopping simulation")
		j.Stop()
		j.notifier.PublishCapacityReached(ctx)
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		// Random ids collide now and then; the next tick draws a new one.
		metrics.SimulatedOrders.WithLabelValues("conflict").Inc()
		j.logger.DebugContext(ctx, "Simulated external id already taken", "error", err)
	case err != nil:
		metrics.SimulatedOrders.WithLabelValues("error").Inc()
		j.logger.ErrorContext(ctx, "Failed to create simulated order", "error", err)
	default:
		metrics.SimulatedOrders.WithLabelValues("created").Inc()
		j.logger.InfoContext(ctx, "Simulated order created", "externalId", created.ExternalID().String())
	}
}

func randomOrderCommand() (commands.CreateOrderCommand, error) {
	price, err := kernel.NewMoney(1250, kernel.DefaultCurrency)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	burger, err := order.NewItem("1", "Hamburguesa KDS", "", price, 1)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(
		fmt.Sprintf("GLO-%03d", rand.IntN(1000)),
		"Cliente "+randomCode(3),
		[]order.Item{burger},
		order.Pending,
	)
}

func randomCode(length int) string {
	var b strings.Builder
	for range length {
		b.WriteByte(customerAlphabet[rand.IntN(len(customerAlphabet))])
	}
	return b.String()
}

// cronLogger routes cron's own messages into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
