package usecase

import (
	"context"
	"fmt"
	"time"
)

// SyncJobPath is the internal endpoint queued sync jobs are delivered to.
const SyncJobPath = "/v1/internal/jobs/sync"

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// SyncJobPayload is the body a queued sync job carries.
type SyncJobPayload struct {
	DryRun bool `json:"dryRun"`
}

// QueueDispatcher hands sync cycles to an external job queue which calls back
// into the internal job endpoint.
type QueueDispatcher struct {
	queue JobQueue
	delay time.Duration
	now   func() time.Time
}

var _ SyncDispatcher = (*QueueDispatcher)(nil)

func NewQueueDispatcher(queue JobQueue, delay time.Duration) *QueueDispatcher {
	return &QueueDispatcher{queue: queue, delay: delay, now: time.Now}
}

// DispatchSync enqueues one cycle. Triggers within the same minute share a
// deduplication id so a double fire of the cron only runs once.
func (d *QueueDispatcher) DispatchSync(ctx context.Context, dryRun bool) error {
	dedup := "sync-" + d.now().UTC().Format("200601021504")
	if dryRun {
		dedup += "-dry"
	}
	if err := d.queue.Enqueue(ctx, SyncJobPath, SyncJobPayload{DryRun: dryRun}, d.delay, dedup); err != nil {
		return fmt.Errorf("%w: enqueue sync job: %v", ErrDependencyUnavailable, err)
	}
	return nil
}
