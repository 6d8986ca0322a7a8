package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kds/internal/adapters/out/notifications"
	"kds/internal/core/application/usecases/commands"
	"kds/internal/core/application/usecases/queries"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan notifications.Event, error)
}

type SimulationSwitch interface {
	Toggle() bool
	IsRunning() bool
}

// Pinger reports whether the order store is reachable.
type Pinger func(ctx context.Context) error

// Server handles the REST and SSE endpoints. It translates requests into
// commands and queries and domain errors into {code, message} bodies.
type Server struct {
	// Command handlers
	createOrderHandler commands.CreateOrderCommandHandler
	updateOrderHandler commands.UpdateOrderCommandHandler
	deleteOrderHandler commands.DeleteOrderCommandHandler

	// Query handlers
	getOrdersHandler queries.GetOrdersQueryHandler
	getOrderHandler  queries.GetOrderQueryHandler

	events     EventSubscriber
	simulation SimulationSwitch
	ping       Pinger
	logger     *slog.Logger

	keepAlive time.Duration
}

func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderHandler commands.UpdateOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	events EventSubscriber,
	simulation SimulationSwitch,
	ping Pinger,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler: createOrderHandler,
		updateOrderHandler: updateOrderHandler,
		deleteOrderHandler: deleteOrderHandler,
		getOrdersHandler:   getOrdersHandler,
		getOrderHandler:    getOrderHandler,
		events:             events,
		simulation:         simulation,
		ping:               ping,
		logger:             logger.With("component", "HTTPServer"),
		keepAlive:          defaultKeepAlive,
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	items, err := toItems(req.Items)
	if err != nil {
		return s.writeError(c, err)
	}

	status := order.Unknown
	if req.Status != "" {
		if status, err = order.ParseStatus(req.Status); err != nil {
			return s.writeError(c, err)
		}
	}

	cmd, err := commands.NewCreateOrderCommand(req.ExternalID, req.CustomerName, items, status)
	if err != nil {
		return s.writeError(c, err)
	}

	created, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, queries.NewOrderView(created))
}

// ListOrders handles GET /api/v1/orders?status=&limit=&offset=.
func (s *Server) ListOrders(c echo.Context) error {
	var limit, offset int
	if err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return badRequest(c, "limit and offset must be integers")
	}

	var status *order.Status
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return badRequest(c, "status must be one of: PENDING, IN_PROGRESS, READY, DELIVERED")
		}
		status = &parsed
	}

	query, err := queries.NewGetOrdersQuery(status, limit, offset)
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.getOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.writeError(c, err)
	}

	view, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateOrder handles PATCH /api/v1/orders/:id.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req UpdateOrderRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err = c.Validate(&req); err != nil {
		return s.writeError(c, err)
	}

	patch := commands.OrderPatch{
		ExternalID:   req.ExternalID,
		CustomerName: req.CustomerName,
	}
	if patch.Items, err = toItems(req.Items); err != nil {
		return s.writeError(c, err)
	}
	if req.Status != nil {
		status, parseErr := order.ParseStatus(*req.Status)
		if parseErr != nil {
			return s.writeError(c, parseErr)
		}
		patch.Status = &status
	}

	cmd, err := commands.NewUpdateOrderCommand(id, patch)
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.updateOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, queries.NewOrderView(updated))
}

// DeleteOrder handles DELETE /api/v1/orders/:id and returns the removed order.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return s.writeError(c, err)
	}

	deleted, err := s.deleteOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, queries.NewOrderView(deleted))
}

// GetSimulationStatus handles GET /api/v1/simulation/status.
func (s *Server) GetSimulationStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, SimulationStatusResponse{IsRunning: s.simulation.IsRunning()})
}

// ToggleSimulation handles POST /api/v1/simulation/toggle.
func (s *Server) ToggleSimulation(c echo.Context) error {
	status := "stopped"
	if s.simulation.Toggle() {
		status = "started"
	}
	return c.JSON(http.StatusOK, SimulationToggleResponse{Status: status})
}

// Health handles GET /health by pinging the database.
func (s *Server) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := s.ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "error", Database: "down"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}

func orderID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return kernel.UUID{}, errInvalidOrderID
	}
	return id, nil
}
