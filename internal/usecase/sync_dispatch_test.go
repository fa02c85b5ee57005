package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingQueue struct {
	path    string
	payload any
	dedup   string
	err     error
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, _ time.Duration, deduplicationID string) error {
	q.path = path
	q.payload = payload
	q.dedup = deduplicationID
	return q.err
}

func TestQueueDispatcher_DispatchSync(t *testing.T) {
	t.Parallel()

	queue := &recordingQueue{}
	dispatcher := NewQueueDispatcher(queue, 0)
	dispatcher.now = fixedNow

	if err := dispatcher.DispatchSync(context.Background(), true); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if queue.path != SyncJobPath || queue.dedup != "sync-202509222000-dry" {
		t.Fatalf("unexpected enqueue path=%s dedup=%s", queue.path, queue.dedup)
	}
	if payload, ok := queue.payload.(SyncJobPayload); !ok || !payload.DryRun {
		t.Fatalf("unexpected payload %#v", queue.payload)
	}

	queue.err = errors.New("qstash down")
	if err := dispatcher.DispatchSync(context.Background(), false); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
