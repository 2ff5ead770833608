package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/pkg/metrics"
)

// Querier is the subset of pgxpool.Pool used by PostgresStore.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore reads the panel from a Postgres table with the columns
// id, name, age, gender, generation, location, industry and attributes (jsonb).
type PostgresStore struct {
	db    Querier
	pool  *pgxpool.Pool
	table string
}

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// NewPostgresStore opens a pool for databaseURL and returns a store over it.
func NewPostgresStore(ctx context.Context, databaseURL string, opts ...PostgresOption) (*PostgresStore, error) {
	pool, err := NewPostgresPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	s := NewPostgresStoreWith(pool, opts...)
	s.pool = pool
	return s, nil
}

// NewPostgresStoreWith builds a store over an existing querier. The caller
// keeps ownership of db.
func NewPostgresStoreWith(db Querier, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, table: "people"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) selectColumns() string {
	return `SELECT id, COALESCE(name, ''), age, COALESCE(gender, ''), COALESCE(generation, ''),
	               COALESCE(location, ''), COALESCE(industry, ''), COALESCE(attributes, '{}'::jsonb)
	        FROM ` + pgx.Identifier{s.table}.Sanitize()
}

// All returns every person ordered by id.
func (s *PostgresStore) All(ctx context.Context) ([]model.Person, error) {
	start := time.Now()
	rows, err := s.db.Query(ctx, s.selectColumns()+` ORDER BY id`)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list people query: %w", err)
	}
	defer rows.Close()

	people := make([]model.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("list people scan: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list people rows: %w", err)
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdatePanelSize(len(people))
	return people, nil
}

// Get returns the person with id.
func (s *PostgresStore) Get(ctx context.Context, id string) (model.Person, error) {
	row := s.db.QueryRow(ctx, s.selectColumns()+` WHERE id = $1`, id)
	p, err := scanPerson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Person{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Person{}, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// Count returns the number of rows, or 0 when the query fails.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM `+pgx.Identifier{s.table}.Sanitize()).Scan(&n); err != nil {
		metrics.RecordStoreError()
		return 0
	}
	return n
}

// Close closes the pool if this store opened it.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanPerson(row pgx.Row) (model.Person, error) {
	var p model.Person
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Generation, &p.Location, &p.Industry, &p.Attributes)
	return p, err
}
