package panelgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/cohort/internal/adapters/repository"
	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// ErrSmokeFailed is returned when any smoke query fails.
var ErrSmokeFailed = errors.New("smoke queries failed")

// Run generates a panel, writes it to cfg.OutputFile and, when cfg.BaseURL
// is set, runs the smoke queries against it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting panel generation",
		logger.Int("people", cfg.NumPeople),
		logger.Any("seed", cfg.Seed),
		logger.Int("workers", cfg.Workers),
		logger.String("output", cfg.OutputFile),
		logger.Bool("redis", cfg.RedisURL != ""),
		logger.String("baseURL", cfg.BaseURL))

	// Step 1: Generate people
	people, err := Generate(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("panel generation failed: %w", err)
	}
	stats.PeopleGenerated = len(people)

	// Step 2: Write the panel file
	if cfg.OutputFile != "" {
		if err := savePanel(ctx, cfg.OutputFile, people); err != nil {
			return stats, err
		}
	}

	// Step 3: Publish to Redis
	if cfg.RedisURL != "" {
		if err := publishPanel(ctx, cfg, people); err != nil {
			return stats, err
		}
	}

	// Step 4: Smoke test a running service
	if cfg.BaseURL != "" {
		if err := checkServiceHealth(ctx, cfg); err != nil {
			return stats, fmt.Errorf("service health check failed: %w", err)
		}

		queries := cfg.Queries
		if len(queries) == 0 {
			queries = DefaultQueries
		}
		for _, r := range runQueries(ctx, cfg, queries) {
			stats.QueriesSent++
			if r.Err != nil {
				stats.QueriesFailed++
				logger.Get().Warn(ctx, "query failed", logger.String("query", r.Query), logger.Error(r.Err))
				continue
			}
			if cfg.Verbose {
				logger.Get().Info(ctx, "query result",
					logger.String("query", r.Query),
					logger.Strings("fields", r.Fields),
					logger.Int("total", r.Total),
					logger.Int("returned", r.Returned),
					logger.Duration("latency", r.Latency))
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.QueriesFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrSmokeFailed, stats.QueriesFailed, stats.QueriesSent)
	}
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(cfg.Timeout, cfg.Retries)
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 is healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePanel writes people to filename, creating its directory.
func savePanel(ctx context.Context, filename string, people []model.Person) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := repository.WritePanelFile(filename, people); err != nil {
		return fmt.Errorf("failed to write panel: %w", err)
	}

	logger.Get().Info(ctx, "panel saved to file", logger.String("filename", filename), logger.Int("people", len(people)))
	return nil
}

// publishPanel replaces the Redis hash read by the service's redis store.
func publishPanel(ctx context.Context, cfg *Config, people []model.Person) error {
	store, err := repository.NewRedisStore(ctx, cfg.RedisURL, repository.WithKey(cfg.RedisKey))
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close redis client", logger.Error(err))
		}
	}()

	if err := store.Replace(ctx, people); err != nil {
		return fmt.Errorf("failed to publish panel: %w", err)
	}

	logger.Get().Info(ctx, "panel published to redis", logger.String("key", cfg.RedisKey), logger.Int("people", len(people)))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("peopleGenerated", stats.PeopleGenerated),
		logger.Int("queriesSent", stats.QueriesSent),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.String("duration", stats.Duration.String()))
}
