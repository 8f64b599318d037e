package jobs

import (
	"context"
	"time"

	"buurbak-availability/internal/config"
	"buurbak-availability/internal/logger"
	"buurbak-availability/internal/service"
)

// jobTimeout bounds a single job run.
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	retention service.RetentionService
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(retention service.RetentionService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		retention: retention,
		config:    cfg,
	}
}

// Config returns the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// PruneBlockedPeriods removes blocked periods past the retention window.
func (jr *JobRunner) PruneBlockedPeriods() {
	jr.runWithRecovery("PruneBlockedPeriods", func(ctx context.Context) {
		n, err := jr.retention.PruneBlockedPeriods(ctx, jr.config.Retention.BlockedPeriodDays)
		if err != nil {
			logger.Error("Failed to prune blocked periods", "error", err)
			return
		}
		logger.Info("Blocked periods pruned", "count", n, "retention_days", jr.config.Retention.BlockedPeriodDays)
	})
}

// PruneExceptions removes date exceptions past the retention window.
func (jr *JobRunner) PruneExceptions() {
	jr.runWithRecovery("PruneExceptions", func(ctx context.Context) {
		n, err := jr.retention.PruneExceptions(ctx, jr.config.Retention.ExceptionDays)
		if err != nil {
			logger.Error("Failed to prune availability exceptions", "error", err)
			return
		}
		logger.Info("Availability exceptions pruned", "count", n, "retention_days", jr.config.Retention.ExceptionDays)
	})
}

// RunAll runs every maintenance job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.PruneBlockedPeriods()
	jr.PruneExceptions()
}
