package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultKeepAlive = 15 * time.Second

// StreamOrderEvents handles GET /api/v1/orders/events as a Server-Sent Events
// stream. Each hub event becomes "event: <name>" with the JSON payload as data.
func (s *Server) StreamOrderEvents(c echo.Context) error {
	ctx := c.Request().Context()

	events, err := s.events.Subscribe(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to subscribe to order events", "error", err)
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Order events are unavailable",
		})
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err = fmt.Fprint(w, ": connected\n\n"); err != nil {
		return nil
	}
	w.Flush()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Payload); err != nil {
				return nil
			}
			w.Flush()
		case <-keepAlive.C:
			if _, err = fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
