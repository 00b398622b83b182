package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CleanupJobName is the name of the session and draft cleanup job
const CleanupJobName = "session_cleanup"

// SessionSweeper drops idle wizard sessions
type SessionSweeper interface {
	SweepIdle() int
}

// DraftPurger deletes persisted drafts not written since cutoff
type DraftPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupJob sweeps idle sessions and, when a purger is configured, purges abandoned drafts
type CleanupJob struct {
	sessions  SessionSweeper
	drafts    DraftPurger
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewCleanupJob creates a cleanup job. drafts may be nil; retention <= 0 disables purging.
func NewCleanupJob(sessions SessionSweeper, drafts DraftPurger, retention time.Duration, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		sessions:  sessions,
		drafts:    drafts,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Run sweeps idle sessions, then purges drafts older than the retention period
func (j *CleanupJob) Run(ctx context.Context) error {
	swept := j.sessions.SweepIdle()

	var purged int64
	if j.drafts != nil && j.retention > 0 {
		var err error
		purged, err = j.drafts.DeleteOlderThan(ctx, j.now().Add(-j.retention))
		if err != nil {
			return fmt.Errorf("draft purge failed after sweeping %d sessions: %w", swept, err)
		}
	}

	if swept > 0 || purged > 0 {
		j.logger.Info("cleanup job completed",
			zap.Int("sessions_swept", swept),
			zap.Int64("drafts_purged", purged))
	}
	return nil
}
