package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"freight-relay/core/cache"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a LocationStore shared by every instance behind the same redis.
// History is a list per order, newest first, trimmed to maxPoints on every push.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	maxPoints int
}

// NewRedisStore creates a store over client. Keys start with prefix.
func NewRedisStore(client *redis.Client, prefix string, maxPoints int) *RedisStore {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &RedisStore{client: client, prefix: prefix, maxPoints: maxPoints}
}

// Push implements LocationStore.
func (s *RedisStore) Push(ctx context.Context, p Point) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	historyKey := s.historyKey(p.FoID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.latestKey(p.FoID), payload, 0)
		pipe.LPush(ctx, historyKey, payload)
		pipe.LTrim(ctx, historyKey, 0, int64(s.maxPoints-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("push tracking point %s: %w", p.FoID, err)
	}
	return nil
}

// Latest implements LocationStore.
func (s *RedisStore) Latest(ctx context.Context, foID string) (*Point, error) {
	val, err := s.client.Get(ctx, s.latestKey(foID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read latest point %s: %w", foID, err)
	}
	var p Point
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, fmt.Errorf("decode latest point %s: %w", foID, err)
	}
	return &p, nil
}

// History implements LocationStore.
func (s *RedisStore) History(ctx context.Context, foID string, limit int) ([]Point, error) {
	if limit <= 0 {
		return []Point{}, nil
	}
	vals, err := s.client.LRange(ctx, s.historyKey(foID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read point history %s: %w", foID, err)
	}

	points := make([]Point, len(vals))
	for i, v := range vals {
		// stored newest first
		if err := json.Unmarshal([]byte(v), &points[len(vals)-1-i]); err != nil {
			return nil, fmt.Errorf("decode point history %s: %w", foID, err)
		}
	}
	return points, nil
}

func (s *RedisStore) latestKey(foID string) string {
	return cache.Key(s.prefix, "tracking", foID, "latest")
}

func (s *RedisStore) historyKey(foID string) string {
	return cache.Key(s.prefix, "tracking", foID, "history")
}
