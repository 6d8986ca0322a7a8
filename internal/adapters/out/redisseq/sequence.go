// Package redisseq implements ports.SequenceGenerator with Redis INCR.
package redisseq

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sequence:"

// SequenceGenerator increments one Redis key per named sequence. INCR is
// atomic and creates the key at 0 on first use, so the first value is 1.
type SequenceGenerator struct {
	rdb *redis.Client
	key string
}

func NewSequenceGenerator(rdb *redis.Client, name string) *SequenceGenerator {
	return &SequenceGenerator{rdb: rdb, key: keyPrefix + name}
}

func (g *SequenceGenerator) Next(ctx context.Context) (int64, error) {
	v, err := g.rdb.Incr(ctx, g.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", g.key, err)
	}
	return v, nil
}

// NewClient builds a client and verifies the connection.
func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}
