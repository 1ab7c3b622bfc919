package strategy

import (
	"context"
	"time"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/pkg/logger"
)

// DefaultSaveInterval bounds how often in-flight progress is persisted.
const DefaultSaveInterval = 200 * time.Millisecond

// inFlightCeiling reserves 90-100 for the finalize step; only the
// terminal ready save may set 100.
const inFlightCeiling = 90

// Tracker is the mutable job handle a strategy drives while parsing. It
// owns the job's progress for the duration of the parse and throttles
// durable progress writes to at most one per interval. The last-save
// timestamp is per tracker, so concurrent jobs never starve each other's
// updates.
//
// Throttled save failures are logged and swallowed; the terminal saves in
// Ready and Fail bypass the throttle and their failure is returned, since
// losing a terminal transition would leave the job stuck mid-progress.
type Tracker struct {
	job      *models.IngestionJob
	saver    Saver
	log      logger.Logger
	interval time.Duration
	lastSave time.Time
}

func NewTracker(job *models.IngestionJob, saver Saver, log logger.Logger, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Tracker{
		job:      job,
		saver:    saver,
		log:      log,
		interval: interval,
	}
}

// Job exposes the tracked job for reads.
func (t *Tracker) Job() *models.IngestionJob { return t.job }

// Increment bumps progress by one while below the in-flight ceiling and
// attempts a throttled save.
func (t *Tracker) Increment(ctx context.Context) {
	if t.job.Progress >= inFlightCeiling {
		return
	}
	t.job.Progress++
	t.attemptSave(ctx)
}

// Set moves progress to p, clamped to the in-flight range and never
// backwards, then attempts a throttled save.
func (t *Tracker) Set(ctx context.Context, p int) {
	if p > inFlightCeiling {
		p = inFlightCeiling
	}
	if p <= t.job.Progress {
		return
	}
	t.job.Progress = p
	t.attemptSave(ctx)
}

// attemptSave persists the mutable fields if the interval has elapsed
// since the last durable write.
func (t *Tracker) attemptSave(ctx context.Context) {
	now := time.Now()
	if now.Sub(t.lastSave) < t.interval {
		return
	}
	t.lastSave = now
	if err := t.saver.UpdateProgress(ctx, t.job.ID, t.job.Status, t.job.Progress); err != nil {
		t.log.Warn("throttled progress save failed",
			logger.String("fileId", t.job.ID),
			logger.Int("progress", t.job.Progress),
			logger.Error(err),
		)
	}
}

// Ready records the complete parsed content and transitions the job to
// ready with progress 100, persisting unconditionally.
func (t *Tracker) Ready(ctx context.Context, content models.ParsedContent) error {
	t.job.Content = content
	t.job.Progress = 100
	t.job.Status = models.StatusReady
	t.job.Error = ""
	if err := t.saver.Finalize(ctx, t.job); err != nil {
		return &models.StorageError{Op: "finalize ready", Err: err}
	}
	return nil
}

// Fail transitions the job to failed with the cause's message, discarding
// any partially accumulated content, and persists unconditionally.
func (t *Tracker) Fail(ctx context.Context, cause error) error {
	t.job.Content = models.ParsedContent{Kind: t.job.Kind}
	t.job.Status = models.StatusFailed
	t.job.Error = cause.Error()
	if err := t.saver.Finalize(ctx, t.job); err != nil {
		return &models.StorageError{Op: "finalize failed", Err: err}
	}
	return nil
}
