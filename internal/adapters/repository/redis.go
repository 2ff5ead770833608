package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/pkg/metrics"
)

// RedisHashClient is the subset of redis.Client used by RedisStore.
type RedisHashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HLen(ctx context.Context, key string) *redis.IntCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// RedisStore reads the panel from a Redis hash. Each field is a person id
// and each value the person encoded as JSON.
type RedisStore struct {
	rdb    RedisHashClient
	client *redis.Client
	key    string
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// NewRedisStore connects to redisURL and returns a store over it.
func NewRedisStore(ctx context.Context, redisURL string, opts ...RedisOption) (*RedisStore, error) {
	client, err := NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	s := NewRedisStoreWith(client, opts...)
	s.client = client
	return s, nil
}

// NewRedisStoreWith builds a store over an existing client. The caller keeps
// ownership of rdb.
func NewRedisStoreWith(rdb RedisHashClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, key: DefaultRedisKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// All returns every person ordered by id.
func (s *RedisStore) All(ctx context.Context) ([]model.Person, error) {
	start := time.Now()
	fields, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list people: %w", err)
	}

	people := make([]model.Person, 0, len(fields))
	for id, raw := range fields {
		p, err := decodePerson(id, raw)
		if err != nil {
			metrics.RecordStoreError()
			return nil, err
		}
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool { return people[i].ID < people[j].ID })

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdatePanelSize(len(people))
	return people, nil
}

// Get returns the person with id.
func (s *RedisStore) Get(ctx context.Context, id string) (model.Person, error) {
	raw, err := s.rdb.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return model.Person{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Person{}, fmt.Errorf("get person: %w", err)
	}
	return decodePerson(id, raw)
}

// Count returns the number of people, or 0 when the query fails.
func (s *RedisStore) Count(ctx context.Context) int {
	n, err := s.rdb.HLen(ctx, s.key).Result()
	if err != nil {
		metrics.RecordStoreError()
		return 0
	}
	return int(n)
}

// Replace atomically swaps the stored panel for people. People without an
// id are rejected; duplicate ids leave the hash unchanged.
func (s *RedisStore) Replace(ctx context.Context, people []model.Person) error {
	values := make(map[string]interface{}, len(people))
	for _, p := range people {
		if p.ID == "" {
			return fmt.Errorf("%w: person without id", ErrLoadPanel)
		}
		if _, dup := values[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode person %s: %w", p.ID, err)
		}
		values[p.ID] = raw
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("replace panel: %w", err)
	}
	metrics.RecordPanelLoad(len(people), time.Now().Unix())
	return nil
}

// Close closes the client if this store opened it.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func decodePerson(id, raw string) (model.Person, error) {
	var p model.Person
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return model.Person{}, fmt.Errorf("%w: person %s: %w", ErrLoadPanel, id, err)
	}
	// The hash field is authoritative.
	p.ID = id
	return p, nil
}
