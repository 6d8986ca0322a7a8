package cmd

import (
	"context"
	"errors"
	"log/slog"

	httpin "kds/internal/adapters/in/http"
	"kds/internal/adapters/out/kafka"
	"kds/internal/adapters/out/notifications"
	"kds/internal/adapters/out/postgres"
	"kds/internal/adapters/out/postgres/sequencerepo"
	"kds/internal/adapters/out/redisseq"
	"kds/internal/core/application/usecases/commands"
	"kds/internal/core/application/usecases/queries"
	"kds/internal/core/domain/services"
	"kds/internal/core/ports"
	"kds/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, handlers and jobs. Handlers that other
// components keep a pointer to are built once and held here.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	sequence   ports.SequenceGenerator
	logger     *slog.Logger

	hub                *notifications.Hub
	markArrivedHandler commands.MarkRiderArrivedCommandHandler
	arrivals           *jobs.RiderArrivalScheduler
	createOrderHandler commands.CreateOrderCommandHandler
	jobManager         *jobs.JobManager

	closers []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	sequence, err := c.newSequenceGenerator(ctx)
	if err != nil {
		return nil, err
	}
	c.sequence = sequence

	c.hub = notifications.NewHub(logger, notifications.DefaultSubscriberBuffer)
	c.markArrivedHandler = commands.NewMarkRiderArrivedCommandHandler(c.orderUoWFactory(), c.hub, nil)
	c.arrivals = jobs.NewRiderArrivalScheduler(
		&c.markArrivedHandler,
		services.NewArrivalDelayPolicy(nil),
		nil,
		logger,
	)
	c.createOrderHandler = commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		c.sequence,
		c.hub,
		c.arrivals,
		cfg.MaxOrders,
	)
	c.jobManager = jobs.NewJobManager(
		jobs.NewOrderSimulationJob(&c.createOrderHandler, c.hub, logger),
		c.arrivals,
	)

	return c, nil
}

func (c *CompositionRoot) newSequenceGenerator(ctx context.Context) (ports.SequenceGenerator, error) {
	if c.cfg.SequenceBackend == SequenceBackendRedis {
		rdb, err := redisseq.NewClient(ctx, c.cfg.RedisAddr, c.cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rdb.Close)
		return redisseq.NewSequenceGenerator(rdb, sequencerepo.ManualOrderSequence), nil
	}
	return sequencerepo.NewGormSequenceGenerator(c.gormDB, sequencerepo.ManualOrderSequence), nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return c.createOrderHandler
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.hub)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.arrivals)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB, c.cfg.MaxOrders)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

func (c *CompositionRoot) Hub() *notifications.Hub {
	return c.hub
}

// NewRouter builds the HTTP entrypoint over every handler.
func (c *CompositionRoot) NewRouter() *echo.Echo {
	server := httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.hub,
		c.jobManager.Simulation(),
		func(ctx context.Context) error { return postgres.Ping(ctx, c.gormDB) },
		c.logger,
	)
	return httpin.NewRouter(server)
}

// StartKafkaForwarder streams hub events to Kafka until ctx is done. It is a
// no-op when no broker is configured.
func (c *CompositionRoot) StartKafkaForwarder(ctx context.Context) error {
	if !c.cfg.KafkaEnabled() {
		return nil
	}

	events, err := c.hub.Subscribe(ctx)
	if err != nil {
		return err
	}

	forwarder := kafka.NewForwarder(kafka.NewWriter(c.cfg.KafkaHost, c.cfg.KafkaOrderChangedTopic), c.logger)
	c.closers = append(c.closers, forwarder.Close)
	go forwarder.Run(ctx, events)
	return nil
}

// Close stops the jobs, ends every event subscription and releases clients.
func (c *CompositionRoot) Close() error {
	c.jobManager.StopAll()

	errList := []error{c.hub.Close()}
	for _, closeFn := range c.closers {
		errList = append(errList, closeFn())
	}
	return errors.Join(errList...)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
