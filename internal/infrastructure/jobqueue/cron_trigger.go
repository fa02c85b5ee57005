package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// DefaultSyncSchedule fires every Monday at 20:00 UTC, after the weekend rounds.
const DefaultSyncSchedule = "0 20 * * 1"

// CronTrigger dispatches a sync cycle on a cron schedule.
type CronTrigger struct {
	cron       *cron.Cron
	schedule   cron.Schedule
	dispatcher usecase.SyncDispatcher
	timeout    time.Duration
	logger     *logging.Logger
}

func NewCronTrigger(spec string, dispatcher usecase.SyncDispatcher, timeout time.Duration, logger *logging.Logger) (*CronTrigger, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("cron trigger requires a dispatcher")
	}
	if spec == "" {
		spec = DefaultSyncSchedule
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sync schedule %q: %w", spec, err)
	}

	t := &CronTrigger{
		schedule:   schedule,
		dispatcher: dispatcher,
		timeout:    timeout,
		logger:     logger,
	}
	t.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger{logger: logger}),
		cron.WithChain(cron.Recover(cronLogger{logger: logger})),
	)
	t.cron.Schedule(schedule, cron.FuncJob(t.fire))

	return t, nil
}

func (t *CronTrigger) Start() {
	t.logger.Info("sync cron started", "next_run", t.Next(time.Now()).Format(time.RFC3339))
	t.cron.Start()
}

// Stop halts the schedule and waits for a running dispatch up to ctx.
func (t *CronTrigger) Stop(ctx context.Context) error {
	done := t.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports the first fire time strictly after from.
func (t *CronTrigger) Next(from time.Time) time.Time {
	return t.schedule.Next(from.UTC())
}

func (t *CronTrigger) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	err := t.dispatcher.DispatchSync(ctx, false)
	switch {
	case err == nil:
		t.logger.InfoContext(ctx, "scheduled sync dispatched")
	case errors.Is(err, usecase.ErrSyncInProgress):
		t.logger.InfoContext(ctx, "scheduled sync skipped, cycle already running")
	default:
		t.logger.ErrorContext(ctx, "scheduled sync dispatch failed", "error", err)
	}
}

// cronLogger adapts the structured logger to cron's logr style interface.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
