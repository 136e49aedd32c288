package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcrew/coating-scheduler/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix   = "sched:run:"        // batch result: sched:run:{run_id}
	recentRunsKey  = "sched:runs:recent" // newest-first list of run ids
	recentRunsKeep = 100                 // length cap for recentRunsKey
	runTTL         = 7 * 24 * time.Hour  // TTL for run data (7 days)
)

// GenerationRunRepository stores batch generation results in Redis.
type GenerationRunRepository struct {
	client *redis.Client
}

func NewGenerationRunRepository(client *redis.Client) *GenerationRunRepository {
	return &GenerationRunRepository{client: client}
}

// Save stores a batch result, assigning a run id when it has none.
func (r *GenerationRunRepository) Save(ctx context.Context, run *domain.BatchResult) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run data: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.runKey(run.RunID), data, runTTL)
	pipe.LPush(ctx, recentRunsKey, run.RunID)
	pipe.LTrim(ctx, recentRunsKey, 0, recentRunsKeep-1)
	pipe.Expire(ctx, recentRunsKey, runTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (r *GenerationRunRepository) Get(ctx context.Context, runID string) (*domain.BatchResult, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run domain.BatchResult
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run data: %w", err)
	}
	return &run, nil
}

// ListRecent returns up to limit run ids, newest first.
func (r *GenerationRunRepository) ListRecent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > recentRunsKeep {
		limit = recentRunsKeep
	}
	ids, err := r.client.LRange(ctx, recentRunsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return ids, nil
}

func (r *GenerationRunRepository) runKey(runID string) string {
	return fmt.Sprintf("%s%s", runKeyPrefix, runID)
}
