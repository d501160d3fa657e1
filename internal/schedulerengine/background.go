package schedulerengine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

const workerSize = 2

// SchedulerEngine keeps the stored display status of contests in line with the clock.
// Lifecycle checks never read the stored label, so a late sync is harmless.
type SchedulerEngine struct {
	SyncCfg     *config.StatusSyncCfg
	contestRepo secondary.ContestRepository
	clock       primary.Clock
	logger      primary.Logger
	wg          sync.WaitGroup
}

func NewSchedulerEngine(
	SyncCfg *config.StatusSyncCfg,
	contestRepo secondary.ContestRepository,
	clock primary.Clock,
	logger primary.Logger,
) *SchedulerEngine {
	if clock == nil {
		clock = primary.SystemClock
	}
	return &SchedulerEngine{
		SyncCfg:     SyncCfg,
		contestRepo: contestRepo,
		clock:       clock,
		logger:      logger,
	}
}

// StartStatusSyncEngine runs SyncOnce every interval until ctx is cancelled.
func (s *SchedulerEngine) StartStatusSyncEngine(ctx context.Context) {
	s.wg.Add(1)
	ticker := time.NewTicker(s.SyncCfg.Interval)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
					s.logger.Error("Failed to sync contest status", "error", err)
				}
			}
		}
	}()
}

// Wait blocks until the sync loop has exited.
func (s *SchedulerEngine) Wait() {
	s.wg.Wait()
}

// SyncOnce rewrites the status of every stale contest and reports how many were updated.
func (s *SchedulerEngine) SyncOnce(ctx context.Context) (int, error) {
	batchSize := s.SyncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	total := 0
	for {
		now := s.clock.Now()
		stale, err := s.contestRepo.ListStaleStatus(ctx, now, batchSize)
		if err != nil {
			return total, err
		}
		if len(stale) == 0 {
			return total, nil
		}

		updated := s.updateStatuses(ctx, stale, now)
		total += updated
		if len(stale) < batchSize || updated == 0 {
			if total > 0 {
				s.logger.Info("Contest status synced", "count", total)
			}
			return total, nil
		}
	}
}

func (s *SchedulerEngine) updateStatuses(ctx context.Context, contests []*domain.Contest, now time.Time) int {
	contestCh := make(chan *domain.Contest, len(contests))
	for _, c := range contests {
		contestCh <- c
	}
	close(contestCh)

	var updated atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workerSize)
	for i := 0; i < workerSize; i++ {
		go func() {
			defer wg.Done()
			for c := range contestCh {
				status := c.DeriveStatus(now)
				if err := s.contestRepo.UpdateStatus(ctx, c.ID, status); err != nil {
					s.logger.Error("Failed to update contest status", "contestId", c.ID, "error", err)
					continue
				}
				s.logger.Debug("Contest status updated", "contestId", c.ID, "status", status)
				updated.Add(1)
			}
		}()
	}
	wg.Wait()
	return int(updated.Load())
}
