package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/applyscore/applyscore/pkg/scoring"
)

const redisKeyPrefix = "applyscore:job:"

// RedisCache stores jobs as JSON documents in Redis, shared by every
// applyscored replica.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on client. A zero ttl keeps entries until
// Redis evicts them.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, id string) (*scoring.Job, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get job %s: %w", id, err)
	}

	var job scoring.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, false, fmt.Errorf("decode cached job %s: %w", id, err)
	}
	return &job, true, nil
}

func (c *RedisCache) Put(ctx context.Context, job *scoring.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+job.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set job %s: %w", job.ID, err)
	}
	return nil
}
