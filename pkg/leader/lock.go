package leader

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a best-effort leadership lease over redis. The sweeper takes it
// before each run so only one instance sweeps at a time; losing the race
// just means skipping the tick, the next one tries again.
type Lock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewLock(rdb *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{rdb: rdb, key: key, ttl: ttl}
}

// TryAcquire returns true when this process holds the lease for the
// configured ttl.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	return l.rdb.SetNX(ctx, l.key, "1", l.ttl).Result()
}

// Release drops the lease early so the next tick anywhere can claim it.
func (l *Lock) Release(ctx context.Context) error {
	return l.rdb.Del(ctx, l.key).Err()
}
