package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey        = "sql_agent:history"
	DefaultMaxEntries = 500
)

// RedisStore keeps the newest entries first in a capped Redis list.
type RedisStore struct {
	client     redis.Cmdable
	key        string
	maxEntries int64
	ttl        time.Duration
}

func NewRedisStore(client redis.Cmdable, key string, maxEntries int64, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &RedisStore{
		client:     client,
		key:        key,
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (s *RedisStore) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize history entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, s.maxEntries-1)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}

	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}

	values, err := s.client.LRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for _, value := range values {
		var entry Entry
		if err := json.Unmarshal([]byte(value), &entry); err != nil {
			return nil, fmt.Errorf("failed to deserialize history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
