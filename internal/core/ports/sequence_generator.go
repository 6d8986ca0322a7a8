package ports

import "context"

// SequenceGenerator hands out strictly increasing numbers, unique across
// concurrent callers and process restarts. The first value is 1.
type SequenceGenerator interface {
	Next(ctx context.Context) (int64, error)
}
