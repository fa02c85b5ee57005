package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
)

const (
	syncOutcomeSuccess  = "success"
	syncOutcomeFailure  = "failure"
	syncOutcomeConflict = "conflict"
)

// SyncCycle runs one reconciliation; ReconcileService implements it.
type SyncCycle interface {
	RunCycle(ctx context.Context, opts ReconcileOptions) (SyncSummary, error)
}

// SyncMetrics receives cycle counters.
type SyncMetrics interface {
	SyncCycle(outcome string, duration time.Duration, datesChanged, resultsAdded, resultsCorrected, warnings int)
	FetchFailure()
}

// SyncStatus describes the recent health of the sync loop.
type SyncStatus struct {
	Running             bool
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastSummary         *SyncSummary
}

// IsReady reports whether a cycle has succeeded and the loop is not failing repeatedly.
func (s SyncStatus) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

type SyncRunnerConfig struct {
	CycleTimeout time.Duration
	Logger       *logging.Logger
	Metrics      SyncMetrics
	Notifier     SyncNotifier
	Now          func() time.Time
}

// SyncRunner executes at most one cycle at a time on a single worker.
// Triggers that arrive while a cycle runs are rejected, not queued.
type SyncRunner struct {
	cycle    SyncCycle
	pool     *ants.Pool
	timeout  time.Duration
	logger   *logging.Logger
	metrics  SyncMetrics
	notifier SyncNotifier
	now      func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup

	statusMu sync.RWMutex
	status   SyncStatus
}

var _ SyncDispatcher = (*SyncRunner)(nil)

func NewSyncRunner(cycle SyncCycle, cfg SyncRunnerConfig) (*SyncRunner, error) {
	if cycle == nil {
		return nil, fmt.Errorf("sync cycle is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.CycleTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create sync worker pool: %w", err)
	}

	return &SyncRunner{
		cycle:    cycle,
		pool:     pool,
		timeout:  timeout,
		logger:   logger,
		metrics:  cfg.Metrics,
		notifier: cfg.Notifier,
		now:      now,
	}, nil
}

// Trigger starts a cycle in the background. The cycle outlives ctx's
// cancellation but keeps its values for tracing.
func (r *SyncRunner) Trigger(ctx context.Context, opts ReconcileOptions) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}

	detached := context.WithoutCancel(ctx)
	r.wg.Add(1)
	if err := r.pool.Submit(func() {
		defer r.wg.Done()
		defer r.running.Store(false)
		_, _ = r.execute(detached, opts)
	}); err != nil {
		r.wg.Done()
		r.running.Store(false)
		if errors.Is(err, ants.ErrPoolOverload) {
			return ErrSyncInProgress
		}
		return fmt.Errorf("submit sync cycle: %w", err)
	}
	return nil
}

// DispatchSync lets the runner act as the in-process dispatcher.
func (r *SyncRunner) DispatchSync(ctx context.Context, dryRun bool) error {
	return r.Trigger(ctx, ReconcileOptions{DryRun: dryRun})
}

// RunNow executes a cycle on the caller's goroutine, used by the CLI.
func (r *SyncRunner) RunNow(ctx context.Context, opts ReconcileOptions) (SyncSummary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return SyncSummary{}, ErrSyncInProgress
	}
	defer r.running.Store(false)
	return r.execute(ctx, opts)
}

func (r *SyncRunner) execute(ctx context.Context, opts ReconcileOptions) (SyncSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	r.recordAttempt(start)

	summary, err := r.cycle.RunCycle(ctx, opts)
	outcome := syncOutcomeSuccess
	switch {
	case errors.Is(err, ErrConflict):
		outcome = syncOutcomeConflict
	case err != nil:
		outcome = syncOutcomeFailure
	}
	if r.metrics != nil {
		r.metrics.SyncCycle(outcome, r.now().Sub(start), summary.DatesChanged, summary.ResultsAdded, summary.ResultsCorrected, len(summary.Warnings))
		if errors.Is(err, ErrFetch) {
			r.metrics.FetchFailure()
		}
	}

	if err != nil {
		r.recordFailure(err, start)
		r.logger.ErrorContext(ctx, "sync cycle failed", "outcome", outcome, "error", err)
		return summary, err
	}
	r.recordSuccess(start, summary)

	if r.notifier != nil && !opts.DryRun && summary.Changed() {
		if notifyErr := r.notifier.NotifySync(ctx, summary); notifyErr != nil {
			r.logger.WarnContext(ctx, "sync notification failed", "error", notifyErr)
		}
	}
	return summary, nil
}

// Wait blocks until a background cycle, if any, has finished.
func (r *SyncRunner) Wait() {
	r.wg.Wait()
}

// Close waits for the running cycle and releases the worker.
func (r *SyncRunner) Close() {
	r.wg.Wait()
	r.pool.Release()
}

func (r *SyncRunner) Status() SyncStatus {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	out := r.status
	out.Running = r.running.Load()
	if r.status.LastSummary != nil {
		summary := *r.status.LastSummary
		out.LastSummary = &summary
	}
	return out
}

func (r *SyncRunner) recordAttempt(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastAttempt = at
}

func (r *SyncRunner) recordSuccess(at time.Time, summary SyncSummary) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
	r.status.LastSummary = &summary
}

func (r *SyncRunner) recordFailure(err error, at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	r.status.LastError = err.Error()
	r.status.LastAttempt = at
}
