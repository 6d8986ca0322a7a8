package order_test

import (
	"testing"

	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExternalID(t *testing.T) {
	t.Run("should normalize case and whitespace", func(t *testing.T) {
		id, err := order.NewExternalID("  glo-123 ")

		require.NoError(t, err)
		assert.Equal(t, "GLO-123", id.String())
		assert.False(t, id.IsZero())
	})

	t.Run("should require a value", func(t *testing.T) {
		_, err := order.NewExternalID("   ")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject malformed codes", func(t *testing.T) {
		for _, raw := range []string{"GL-123", "GLOB-123", "GLO123", "GLO-12", "123-GLO", "GLO-1A3"} {
			_, err := order.NewExternalID(raw)

			require.Error(t, err, raw)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid, raw)
		}
	})
}

func TestNewManualExternalID(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "MAN-001"},
		{2, "MAN-002"},
		{42, "MAN-042"},
		{999, "MAN-999"},
		{1000, "MAN-1000"},
	}

	for _, tt := range tests {
		id, err := order.NewManualExternalID(tt.seq)

		require.NoError(t, err)
		assert.Equal(t, tt.want, id.String())
	}

	t.Run("should accept its own output", func(t *testing.T) {
		id, _ := order.NewManualExternalID(7)
		parsed, err := order.NewExternalID(id.String())

		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("should reject non-positive sequence values", func(t *testing.T) {
		_, err := order.NewManualExternalID(0)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewManualExternalID(-3)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
