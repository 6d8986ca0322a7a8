package queries

import (
	"errors"
	"math"

	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"
	"kds/internal/pkg/guard"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery lists orders newest first.
//
// Example:
//
//	ready := order.Ready
//	query, err := NewGetOrdersQuery(&ready, 20, 0)
//	if err != nil {
//	    return err
//	}
//	views, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	status *order.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

// NewGetOrdersQuery validates the paging window. status nil lists every
// status; limit 0 selects the handler default.
func NewGetOrdersQuery(status *order.Status, limit, offset int) (GetOrdersQuery, error) {
	var errStatus, errLimit, errOffset error
	if status != nil {
		errStatus = status.Validate()
	}
	if limit < 0 {
		errLimit = errs.NewValueIsOutOfRangeError("limit", limit, 0, math.MaxInt32)
	}
	if offset < 0 {
		errOffset = errs.NewValueIsOutOfRangeError("offset", offset, 0, math.MaxInt32)
	}
	if err := errors.Join(errStatus, errLimit, errOffset); err != nil {
		return GetOrdersQuery{}, err
	}

	return GetOrdersQuery{
		status: status,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) Status() *order.Status {
	return q.status
}

func (q GetOrdersQuery) Limit() int {
	return q.limit
}

func (q GetOrdersQuery) Offset() int {
	return q.offset
}
