package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/platform/id"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ReconcileOptions struct {
	// DryRun computes the merge without writing anything.
	DryRun bool
}

// SyncSummary describes one reconciliation cycle.
type SyncSummary struct {
	StartedAt        time.Time
	Duration         time.Duration
	DryRun           bool
	ParsedFixtures   int
	Diagnostics      []ParseDiagnostic
	DatesChanged     int
	ResultsAdded     int
	ResultsCorrected int
	Warnings         []MergeWarning
	ScheduleWritten  bool
	MatchesWritten   bool
}

// Changed reports whether the cycle found anything to merge.
func (s SyncSummary) Changed() bool {
	return s.DatesChanged > 0 || s.ResultsAdded > 0 || s.ResultsCorrected > 0
}

type ReconcileServiceConfig struct {
	FetchTimeout time.Duration
	Logger       *logging.Logger
	Now          func() time.Time
}

type ReconcileService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	matchRepo   match.Repository
	schedule    *ScheduleService
	fetcher     PageFetcher
	parser      ScheduleParser
	ids         id.Generator
	fetchTO     time.Duration
	logger      *logging.Logger
	now         func() time.Time
}

// NewReconcileService accepts a nil schedule service; the cycle then expects a stored schedule.
func NewReconcileService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	matchRepo match.Repository,
	schedule *ScheduleService,
	fetcher PageFetcher,
	parser ScheduleParser,
	ids id.Generator,
	cfg ReconcileServiceConfig,
) *ReconcileService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fetchTO := cfg.FetchTimeout
	if fetchTO <= 0 {
		fetchTO = 30 * time.Second
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &ReconcileService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		matchRepo:   matchRepo,
		schedule:    schedule,
		fetcher:     fetcher,
		parser:      parser,
		ids:         ids,
		fetchTO:     fetchTO,
		logger:      logger,
		now:         now,
	}
}

// RunCycle fetches the official page and merges it into stored state.
// A failed fetch or a parse below threshold aborts before anything is written.
func (s *ReconcileService) RunCycle(ctx context.Context, opts ReconcileOptions) (SyncSummary, error) {
	ctx, span := startServiceSpan(ctx, "ReconcileService", "RunCycle", attribute.Bool("sync.dry_run", opts.DryRun))
	defer span.End()

	started := s.now()
	summary := SyncSummary{StartedAt: started.UTC(), DryRun: opts.DryRun}
	finish := func(err error) (SyncSummary, error) {
		summary.Duration = s.now().Sub(started)
		return summary, err
	}

	roster, err := s.teamRepo.List(ctx)
	if err != nil {
		return finish(fmt.Errorf("list teams: %w", err))
	}

	markup, err := s.fetch(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sync cycle aborted, schedule page unavailable", "error", err)
		return finish(MarkFetch(err))
	}

	parsed, err := s.parser.Parse(markup, roster)
	summary.ParsedFixtures = len(parsed.Fixtures)
	summary.Diagnostics = parsed.Diagnostics
	if err != nil {
		s.logger.WarnContext(ctx, "sync cycle aborted, parse rejected",
			"error", err,
			"parsed_fixtures", len(parsed.Fixtures),
			"diagnostics", len(parsed.Diagnostics),
		)
		return finish(fmt.Errorf("parse schedule page: %w", err))
	}
	for _, d := range parsed.Diagnostics {
		s.logger.DebugContext(ctx, "schedule row skipped", "kind", d.Kind, "match_number", d.MatchNumber, "message", d.Message)
	}

	if s.schedule != nil && !opts.DryRun {
		if _, err := s.schedule.EnsureSchedule(ctx); err != nil {
			return finish(fmt.Errorf("ensure schedule: %w", err))
		}
	}

	fixtures, err := s.fixtureRepo.Load(ctx)
	if err != nil {
		return finish(fmt.Errorf("load schedule: %w", err))
	}
	results, err := s.matchRepo.Load(ctx)
	if err != nil {
		return finish(fmt.Errorf("load matches: %w", err))
	}

	outcome, err := Reconcile(ReconcileInput{
		Parsed:   parsed.Fixtures,
		Fixtures: fixtures.Fixtures,
		Results:  results.Results,
		Now:      s.now().UTC(),
		NewID:    s.ids.NewID,
	})
	if err != nil {
		return finish(err)
	}
	summary.DatesChanged = outcome.DatesChanged
	summary.ResultsAdded = outcome.ResultsAdded
	summary.ResultsCorrected = outcome.ResultsCorrected
	summary.Warnings = outcome.Warnings
	for _, w := range outcome.Warnings {
		s.logger.WarnContext(ctx, "sync row skipped", "kind", w.Kind, "match_number", w.MatchNumber, "message", w.Message)
	}

	// Matches are written first so a fixture is never stored as completed without its result.
	// If the schedule write then conflicts, the next cycle marks the fixture again from the stored result.
	if !opts.DryRun {
		if outcome.ResultsChanged {
			if _, err := s.matchRepo.Save(ctx, outcome.Results, results.Token); err != nil {
				return finish(fmt.Errorf("save matches: %w", err))
			}
			summary.MatchesWritten = true
		}
		if outcome.ScheduleChanged {
			if _, err := s.fixtureRepo.Save(ctx, outcome.Fixtures, fixtures.Token); err != nil {
				return finish(fmt.Errorf("save schedule: %w", err))
			}
			summary.ScheduleWritten = true
		}
	}

	summary, _ = finish(nil)
	s.logger.InfoContext(ctx, "sync cycle finished",
		"dates_changed", summary.DatesChanged,
		"results_added", summary.ResultsAdded,
		"results_corrected", summary.ResultsCorrected,
		"warnings", len(summary.Warnings),
		"diagnostics", len(summary.Diagnostics),
		"dry_run", summary.DryRun,
		"duration_ms", summary.Duration.Milliseconds(),
	)
	return summary, nil
}

func (s *ReconcileService) fetch(ctx context.Context) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTO)
	defer cancel()
	return s.fetcher.FetchPage(fetchCtx)
}
