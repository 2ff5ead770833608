// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/cohort/internal/adapters/repository"
	"github.com/okian/cohort/internal/domain/filter"
	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/query"
	"github.com/okian/cohort/internal/domain/types"
	"github.com/okian/cohort/pkg/logger"
	"github.com/okian/cohort/pkg/metrics"
)

const defaultMaxResults = 500

// Service implements the API dependencies for audience search.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	interpreter *query.Interpreter
	filter      *filter.Filter

	// Configuration
	queryOpts  []query.Option
	filterOpts []filter.Option
	maxResults int
	panelPath  string
	reloadSpec string

	// State
	started bool
	// ownsStore is set when Start built the store; Stop drops it again.
	ownsStore bool
	mem       *repository.MemoryStore
	cron      *cron.Cron

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects the record store. Stop closes it. When unset, Start builds
// an in-memory store from the panel path on every start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithPanelPath sets the panel file loaded into the default in-memory store.
func WithPanelPath(path string) Option {
	return func(s *Service) {
		s.panelPath = path
	}
}

// WithKeywords sets the city, province and industry lists used by the
// interpreter. Empty lists keep the defaults.
func WithKeywords(cities, provinces, industries []string) Option {
	return func(s *Service) {
		s.queryOpts = append(s.queryOpts,
			query.WithCities(cities),
			query.WithProvinces(provinces),
			query.WithIndustries(industries),
		)
	}
}

// WithCountry sets the country placeholder and its aliases. The filter
// ignores the same placeholder.
func WithCountry(country string, aliases []string) Option {
	return func(s *Service) {
		if country == "" {
			return
		}
		s.queryOpts = append(s.queryOpts, query.WithCountry(country, aliases))
		s.filterOpts = append(s.filterOpts, filter.WithCountryPlaceholders(country))
	}
}

// WithMaxResults caps the number of people returned by Search.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxResults: defaultMaxResults,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.interpreter = query.New(s.queryOpts...)
	s.filter = filter.New(s.filterOpts...)
	return s
}

// Start prepares the record store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting search service...")

	built := s.store == nil
	if built {
		mem, err := repository.NewMemoryStore(ctx)
		if err != nil {
			return fmt.Errorf("create memory store: %w", err)
		}
		if s.panelPath != "" {
			if err := mem.LoadFile(ctx, s.panelPath); err != nil {
				_ = mem.Close()
				return fmt.Errorf("load panel %s: %w", s.panelPath, err)
			}
		}
		s.store = mem
		s.logger.Info(ctx, "using memory store", logger.String("panel", s.panelPath))
	}
	if mem, ok := s.store.(*repository.MemoryStore); ok {
		s.mem = mem
	}

	if err := s.startScheduler(ctx); err != nil {
		if built {
			_ = s.store.Close()
			s.store = nil
		}
		s.mem = nil
		return fmt.Errorf("schedule panel reload: %w", err)
	}

	size := s.store.Count(ctx)
	metrics.UpdatePanelSize(size)

	s.ownsStore = built
	s.started = true
	s.logger.Info(ctx, "search service started",
		logger.Int("people", size),
		logger.Int("maxResults", s.maxResults),
	)

	return nil
}

// Stop halts scheduled reloads and closes the record store.
func (s *Service) Stop() {
	s.stopScheduler()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping search service...")

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "failed to close store", logger.Error(err))
		}
	}

	if s.ownsStore {
		s.store = nil
		s.ownsStore = false
	}
	s.started = false
	s.mem = nil
	s.logger.Info(context.Background(), "search service stopped")
}

// Interpret extracts a filter spec from text. It never fails.
func (s *Service) Interpret(ctx context.Context, text string) model.FilterSpec {
	spec := s.interpreter.Interpret(text)
	fields := spec.Fields()
	metrics.RecordQueryInterpreted(fields)

	if s.logger != nil {
		s.logger.Debug(ctx, "interpreted query",
			logger.String("query", text),
			logger.Strings("fields", fields),
			logger.String("spec", spec.String()),
		)
	}
	return spec
}

// Apply returns the people in the store matching spec, in store order.
func (s *Service) Apply(ctx context.Context, spec model.FilterSpec) ([]model.Person, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}

	people, err := store.All(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "store")
		return nil, fmt.Errorf("read panel: %w", err)
	}

	start := time.Now()
	matched := s.filter.Apply(spec, people)
	metrics.RecordFilter(len(people), len(matched), float64(time.Since(start).Microseconds())/1000)

	return matched, nil
}

// Search interprets text and filters the panel with the result. People is
// capped at the configured maximum; Total counts every match.
func (s *Service) Search(ctx context.Context, text string) (types.SearchResult, error) {
	spec := s.Interpret(ctx, text)

	matched, err := s.Apply(ctx, spec)
	if err != nil {
		return types.SearchResult{}, err
	}

	total := len(matched)
	if total > s.maxResults {
		matched = matched[:s.maxResults]
	}

	return types.SearchResult{
		SpecView: types.NewSpecView(text, spec),
		Total:    total,
		Returned: len(matched),
		People:   matched,
	}, nil
}

// People returns the whole panel.
func (s *Service) People(ctx context.Context) ([]model.Person, error) {
	store, err := s.activeStore()
	if err != nil {
		return nil, err
	}
	return store.All(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kw := s.interpreter.Keywords()
	stats := map[string]interface{}{
		"started":    s.started,
		"maxResults": s.maxResults,
		"cities":     len(kw.Cities),
		"provinces":  len(kw.Provinces),
		"industries": len(kw.Industries),
		"country":    kw.Country,
		"reload":     s.reloadSpec,
	}

	if s.started {
		size := s.store.Count(context.Background())
		stats["people"] = size
		metrics.UpdatePanelSize(size)
	}

	return stats
}

func (s *Service) activeStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
