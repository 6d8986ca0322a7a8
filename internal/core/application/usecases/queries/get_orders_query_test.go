package queries_test

import (
	"testing"

	"kds/internal/core/application/usecases/queries"
	"kds/internal/core/domain/model/kernel"
	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersQuery(t *testing.T) {
	t.Run("should accept a status filter and window", func(t *testing.T) {
		ready := order.Ready

		query, err := queries.NewGetOrdersQuery(&ready, 10, 5)

		require.NoError(t, err)
		assert.Equal(t, order.Ready, *query.Status())
		assert.Equal(t, 10, query.Limit())
		assert.Equal(t, 5, query.Offset())
		assert.NoError(t, query.Validate())
	})

	t.Run("should reject negative paging", func(t *testing.T) {
		_, err := queries.NewGetOrdersQuery(nil, -1, -2)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "limit")
		assert.Contains(t, err.Error(), "offset")
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		unknown := order.Unknown

		_, err := queries.NewGetOrdersQuery(&unknown, 0, 0)

		require.Error(t, err)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		assert.ErrorIs(t, queries.GetOrdersQuery{}.Validate(), queries.ErrGetOrdersQueryIsNotConstructed)
	})
}

func TestNewGetOrderQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)
	assert.Equal(t, id, query.ID())

	_, err = queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	assert.ErrorIs(t, queries.GetOrderQuery{}.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
}
