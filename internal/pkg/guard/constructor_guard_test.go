package guard_test

import (
	"errors"
	"testing"

	"kds/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	notConstructed := errors.New("command not constructed")

	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(notConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value returns the given error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, notConstructed, g.Validate(notConstructed))
	})

	t.Run("zero value falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})

	t.Run("copies keep construction state", func(t *testing.T) {
		type holder struct{ g guard.ConstructorGuard }
		original := holder{g: guard.NewConstructorGuard()}
		copied := original

		require.NoError(t, copied.g.Validate(notConstructed))
	})
}
