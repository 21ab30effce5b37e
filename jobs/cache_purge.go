package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/olguin/portfolio/internal/jobs"
)

// Purger removes cache entries that belong to an older content version.
type Purger interface {
	PurgeStale(ctx context.Context) (int, error)
	Version() string
}

// CachePurgeJob clears chart fragments left behind by a content deploy.
type CachePurgeJob struct {
	Cache   Purger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCachePurgeJob wires dependencies for the purge handler.
func NewCachePurgeJob(cache Purger, logger *slog.Logger, metrics *jobmetrics.Metrics) *CachePurgeJob {
	return &CachePurgeJob{Cache: cache, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTypeCachePurge tasks.
func (j *CachePurgeJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Cache == nil {
		return errors.New("cache purge: handler not configured")
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskTypeCachePurge)
	start := time.Now()

	logger := j.logger().With(slog.String("version", j.Cache.Version()))
	removed, err := j.Cache.PurgeStale(ctx)
	if err != nil {
		logger.Error("purge render cache", slog.Any("error", err))
		return tracker.End(err)
	}
	metrics.AddPurged(removed)
	logger.Info("purged render cache", slog.Int("removed", removed), slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

func (j *CachePurgeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeCachePurge))
	}
	return slog.Default().With(slog.String("job", TaskTypeCachePurge))
}
