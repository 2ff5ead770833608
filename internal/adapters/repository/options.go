package repository

import (
	"github.com/google/uuid"

	"github.com/okian/cohort/internal/domain/model"
)

// Option applies a configuration option to a MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator sets the function used to assign ids to people loaded
// without one. Defaults to random UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPeople seeds the store.
func WithPeople(people []model.Person) Option {
	return func(s *MemoryStore) {
		s.seed = people
	}
}

func defaultID() string { return uuid.NewString() }

// PostgresOption applies a configuration option to a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTable sets the table holding panel records.
func WithTable(table string) PostgresOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.table = table
		}
	}
}

// DefaultRedisKey is the hash read by RedisStore unless WithKey is given.
const DefaultRedisKey = "cohort:people"

// RedisOption applies a configuration option to a RedisStore.
type RedisOption func(*RedisStore)

// WithKey sets the Redis hash holding panel records.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}
