package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/cohort/pkg/logger"
	"github.com/okian/cohort/pkg/metrics"
)

// WithReloadSchedule reloads the panel file on a cron schedule, e.g.
// "@every 10m" or "0 * * * *". Only the in-memory store can be reloaded.
func WithReloadSchedule(spec string) Option {
	return func(s *Service) {
		s.reloadSpec = spec
	}
}

// ReloadPanel re-reads the panel file into the memory store. A failed read
// leaves the current panel in place.
func (s *Service) ReloadPanel(ctx context.Context) error {
	s.mu.RLock()
	started, mem, path := s.started, s.mem, s.panelPath
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	if mem == nil || path == "" {
		return ErrReloadUnsupported
	}

	start := time.Now()
	if err := mem.LoadFile(ctx, path); err != nil {
		metrics.RecordErrorByComponent("service", "reload")
		return fmt.Errorf("reload panel %s: %w", path, err)
	}

	size := mem.Count(ctx)
	metrics.UpdatePanelSize(size)
	s.logger.Info(ctx, "panel reloaded",
		logger.String("panel", path),
		logger.Int("people", size),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// startScheduler must be called with s.mu held.
func (s *Service) startScheduler(ctx context.Context) error {
	if s.reloadSpec == "" {
		return nil
	}
	if s.mem == nil || s.panelPath == "" {
		return ErrReloadUnsupported
	}

	c := cron.New()
	jobCtx := context.WithoutCancel(ctx)
	_, err := c.AddFunc(s.reloadSpec, func() {
		if err := s.ReloadPanel(jobCtx); err != nil {
			s.logger.Error(jobCtx, "scheduled panel reload failed", logger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info(ctx, "panel reload scheduled", logger.String("schedule", s.reloadSpec))
	return nil
}

// stopScheduler waits for a running reload to finish.
func (s *Service) stopScheduler() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
