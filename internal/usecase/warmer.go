package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-dashboard/internal/domain/league"
	"github.com/riskibarqy/fantasy-dashboard/internal/platform/logging"
)

const defaultWarmWorkers = 4

type WarmResult struct {
	LeagueCount int
	TaskCount   int
	FailedCount int
	WorkerCount int
	DurationMs  int64
}

type warmTask struct {
	leagueID string
	kind     string
	run      func(ctx context.Context) error
}

// Warmer pre-loads the per-league resources every screen needs so the rotation reads
// from a warm coordinator cache.
type Warmer struct {
	source   LeagueDataSource
	registry league.Registry
	weeks    *WeekService
	workers  int
	logger   *logging.Logger
}

func NewWarmer(source LeagueDataSource, registry league.Registry, weeks *WeekService, workers int, logger *logging.Logger) *Warmer {
	if workers < 1 {
		workers = defaultWarmWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Warmer{
		source:   source,
		registry: registry,
		weeks:    weeks,
		workers:  workers,
		logger:   logger,
	}
}

func (w *Warmer) Warm(ctx context.Context) (WarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Warmer.Warm")
	defer span.End()

	leagues, err := w.registry.List(ctx)
	if err != nil {
		return WarmResult{}, fmt.Errorf("list leagues: %w", err)
	}

	tasks := make([]warmTask, 0, len(leagues)*5)
	for _, entry := range leagues {
		tasks = append(tasks, w.tasksFor(entry.ID)...)
	}

	result := WarmResult{
		LeagueCount: len(leagues),
		TaskCount:   len(tasks),
		WorkerCount: min(w.workers, max(1, len(tasks))),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	started := time.Now()
	pool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return WarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var failed atomic.Int32
	var workers sync.WaitGroup
	for _, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := task.run(ctx); err != nil {
				failed.Add(1)
				w.logger.DebugContext(ctx, "cache warm task failed",
					"league_id", task.leagueID,
					"kind", task.kind,
					"error", err,
				)
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return WarmResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.FailedCount = int(failed.Load())
	result.DurationMs = time.Since(started).Milliseconds()
	w.logger.InfoContext(ctx, "cache warmed",
		"leagues", result.LeagueCount,
		"tasks", result.TaskCount,
		"failed", result.FailedCount,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

func (w *Warmer) tasksFor(leagueID string) []warmTask {
	return []warmTask{
		{leagueID: leagueID, kind: "league", run: func(ctx context.Context) error {
			_, err := w.source.GetLeague(ctx, leagueID)
			return err
		}},
		{leagueID: leagueID, kind: "users", run: func(ctx context.Context) error {
			_, err := w.source.ListUsers(ctx, leagueID)
			return err
		}},
		{leagueID: leagueID, kind: "rosters", run: func(ctx context.Context) error {
			_, err := w.source.ListRosters(ctx, leagueID)
			return err
		}},
		{leagueID: leagueID, kind: "drafts", run: func(ctx context.Context) error {
			_, err := w.source.ListDrafts(ctx, leagueID)
			return err
		}},
		{leagueID: leagueID, kind: "current_week", run: func(ctx context.Context) error {
			_, err := w.weeks.CurrentWeek(ctx, leagueID)
			return err
		}},
	}
}
