package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errInvalidOrderID = errors.New("id must be a valid UUID")

// writeError maps domain errors to status codes. Anything unrecognised is a
// 500 with a generic message; the cause is logged.
func (s *Server) writeError(c echo.Context, err error) error {
	status, message := s.classify(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, Error{Code: status, Message: message})
}

func (s *Server) classify(err error) (int, string) {
	var (
		notFound   *errs.ObjectNotFoundError
		conflict   *errs.ObjectAlreadyExistsError
		limit      *errs.LimitExceededError
		transition *errs.TransitionIsInvalidError
		validation *ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, fmt.Sprintf("Order #%v not found", notFound.ID)
	case errors.As(err, &conflict):
		return http.StatusConflict, fmt.Sprintf(
			"An order with %s '%v' already exists. %s must be unique.", conflict.ParamName, conflict.Value, conflict.ParamName)
	case errors.As(err, &limit):
		return http.StatusServiceUnavailable, fmt.Sprintf("Order limit of %d reached.", limit.Limit)
	case errors.As(err, &transition):
		return http.StatusBadRequest, transitionMessage(transition)
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func transitionMessage(e *errs.TransitionIsInvalidError) string {
	if errors.Is(e.Cause, order.ErrRiderHasNotArrived) {
		return "Cannot deliver order: Rider has not arrived yet. Wait for the rider."
	}

	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("Invalid state transition: %s → %s. Allowed transitions from %s: [%s]",
		e.From, e.To, e.From, allowed)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// errorHandler renders errors returned by echo itself (unknown route, wrong
// method, panics) with the same body as handler errors.
func errorHandler(s *Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, Error{Code: he.Code, Message: fmt.Sprint(he.Message)})
			return
		}
		_ = s.writeError(c, err)
	}
}
