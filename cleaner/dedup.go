package cleaner

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// DuplicateChecker answers whether a content hash has been cleaned before.
// The orchestrator consults it only when duplicate detection is enabled.
type DuplicateChecker interface {
	// IsDuplicate marks the hash as seen as a side effect, so the first
	// caller for a hash gets false and every later caller gets true.
	IsDuplicate(ctx context.Context, contentHash string) (bool, error)
}

// NoopDuplicateChecker never reports a duplicate. It is the default when
// no redis endpoint is configured.
type NoopDuplicateChecker struct{}

func (NoopDuplicateChecker) IsDuplicate(ctx context.Context, contentHash string) (bool, error) {
	return false, nil
}

const (
	duplicateKeyPrefix = "cleanser:content_hash:"
	duplicateKeyTTL    = 7 * 24 * time.Hour
)

// RedisDuplicateChecker keeps seen hashes in redis with a TTL, claiming a
// hash with SETNX so concurrent cleanings of the same record race safely.
type RedisDuplicateChecker struct {
	client *redis.Client
}

func NewRedisDuplicateChecker(addr string) *RedisDuplicateChecker {
	return &RedisDuplicateChecker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *RedisDuplicateChecker) IsDuplicate(ctx context.Context, contentHash string) (bool, error) {
	if contentHash == "" {
		return false, nil
	}
	claimed, err := c.client.SetNX(ctx, duplicateKeyPrefix+contentHash, 1, duplicateKeyTTL).Result()
	if err != nil {
		return false, errors.Wrap(err, "storage error: duplicate check failed")
	}
	return !claimed, nil
}
