package redisseq_test

import (
	"context"
	"sync"
	"testing"

	"kds/internal/adapters/out/redisseq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestSequenceGenerator_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb, err := redisseq.NewClient(ctx, endpoint, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	t.Run("should start at one and increase by one", func(t *testing.T) {
		gen := redisseq.NewSequenceGenerator(rdb, "sequential")

		for want := int64(1); want <= 3; want++ {
			got, err := gen.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("should hand out unique values to concurrent callers", func(t *testing.T) {
		gen := redisseq.NewSequenceGenerator(rdb, "manual_order")
		const callers = 50

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			values = make(map[int64]struct{}, callers)
		)
		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := gen.Next(ctx)
				assert.NoError(t, err)
				mu.Lock()
				values[v] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, values, callers)
	})
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := redisseq.NewClient(context.Background(), "127.0.0.1:1", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
