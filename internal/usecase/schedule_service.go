package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/platform/resilience"
)

const (
	ScheduleSourceStored    = "stored"
	ScheduleSourceOfficial  = "official"
	ScheduleSourceLegacy    = "legacy"
	ScheduleSourceStatic    = "static"
	ScheduleSourceGenerated = "generated"

	ensureScheduleKey   = "ensure-schedule"
	maxScheduleAttempts = 3
)

type ScheduleServiceConfig struct {
	// StaticSeason is used when the official page is unavailable and the roster matches it.
	StaticSeason []fixture.Fixture
	Logger       *logging.Logger
}

// ScheduleService owns the fixture list. The first read materializes it through
// a fallback chain; later reads return what is stored.
type ScheduleService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	legacy      fixture.LegacySource
	fetcher     PageFetcher
	parser      ScheduleParser
	static      []fixture.Fixture
	logger      *logging.Logger
	flight      resilience.Group[[]fixture.Fixture]
}

// NewScheduleService accepts nil legacy, fetcher and parser; the matching fallback step is skipped.
func NewScheduleService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	legacy fixture.LegacySource,
	fetcher PageFetcher,
	parser ScheduleParser,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		legacy:      legacy,
		fetcher:     fetcher,
		parser:      parser,
		static:      append([]fixture.Fixture(nil), cfg.StaticSeason...),
		logger:      logger,
	}
}

// EnsureSchedule returns the stored schedule, materializing it first when absent.
// Concurrent callers share one materialization.
func (s *ScheduleService) EnsureSchedule(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startServiceSpan(ctx, "ScheduleService", "EnsureSchedule")
	defer span.End()

	items, _, err := s.flight.Do(ensureScheduleKey, func() ([]fixture.Fixture, error) {
		return s.ensure(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]fixture.Fixture(nil), items...), nil
}

func (s *ScheduleService) ensure(ctx context.Context) ([]fixture.Fixture, error) {
	for attempt := 0; attempt < maxScheduleAttempts; attempt++ {
		snapshot, err := s.fixtureRepo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load schedule: %w", err)
		}

		stored := snapshot.Token != "" && len(snapshot.Fixtures) > 0
		if stored && !s.shouldUpgrade(snapshot.Fixtures) {
			return snapshot.Fixtures, nil
		}

		roster, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}

		items, source, err := s.materialize(ctx, roster, stored)
		if err != nil {
			return nil, err
		}
		if stored && source == ScheduleSourceGenerated {
			return snapshot.Fixtures, nil
		}

		if _, err := s.fixtureRepo.Save(ctx, items, snapshot.Token); err != nil {
			if errors.Is(err, ErrConflict) {
				s.logger.InfoContext(ctx, "schedule written concurrently, reloading", "attempt", attempt+1)
				continue
			}
			return nil, fmt.Errorf("save schedule: %w", err)
		}

		s.logger.InfoContext(ctx, "schedule materialized",
			"source", source,
			"fixtures", len(items),
			"replaced_generated", stored,
		)
		return items, nil
	}

	return nil, fmt.Errorf("%w: schedule kept changing while materializing", ErrConflict)
}

// shouldUpgrade reports whether a stored generated schedule may be replaced by
// real data. Once any generated fixture has a result the schedule is kept.
func (s *ScheduleService) shouldUpgrade(items []fixture.Fixture) bool {
	return fixture.AllGenerated(items) && !fixture.AnyCompleted(items)
}

// materialize walks the fallback chain. When upgradeOnly is set the generated
// step is still returned so the caller can tell nothing better was found.
func (s *ScheduleService) materialize(ctx context.Context, roster []team.Team, upgradeOnly bool) ([]fixture.Fixture, string, error) {
	if items, ok := s.fromOfficialPage(ctx, roster); ok {
		return items, ScheduleSourceOfficial, nil
	}

	if s.legacy != nil {
		items, err := s.legacy.LoadLegacy(ctx)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "legacy fixtures unavailable", "error", err)
		case len(items) > 0:
			return items, ScheduleSourceLegacy, nil
		}
	}

	if items, ok := s.fromStaticSeason(roster); ok {
		return items, ScheduleSourceStatic, nil
	}

	if upgradeOnly {
		return nil, ScheduleSourceGenerated, nil
	}

	items, err := fixture.GenerateFixtures(team.IDs(roster))
	if err != nil {
		return nil, "", fmt.Errorf("%w: generate schedule: %v", ErrInvalidInput, err)
	}
	return items, ScheduleSourceGenerated, nil
}

func (s *ScheduleService) fromOfficialPage(ctx context.Context, roster []team.Team) ([]fixture.Fixture, bool) {
	if s.fetcher == nil || s.parser == nil {
		return nil, false
	}

	markup, err := s.fetcher.FetchPage(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "official schedule unavailable", "error", err)
		return nil, false
	}
	parsed, err := s.parser.Parse(markup, roster)
	if err != nil {
		s.logger.WarnContext(ctx, "official schedule rejected",
			"error", err,
			"fixtures", len(parsed.Fixtures),
			"diagnostics", len(parsed.Diagnostics),
		)
		return nil, false
	}

	items := make([]fixture.Fixture, 0, len(parsed.Fixtures))
	for _, item := range parsed.Fixtures {
		items = append(items, fixture.Fixture{
			ID:          item.MatchNumber,
			MatchNumber: item.MatchNumber,
			Round:       item.Round,
			Date:        item.Date,
			HomeTeamID:  item.HomeTeamID,
			AwayTeamID:  item.AwayTeamID,
			Status:      fixture.StatusScheduled,
		})
	}
	return items, true
}

// fromStaticSeason only applies when the roster is exactly the set of teams in the static season.
func (s *ScheduleService) fromStaticSeason(roster []team.Team) ([]fixture.Fixture, bool) {
	if len(s.static) == 0 {
		return nil, false
	}

	rosterIDs := make(map[string]bool, len(roster))
	for _, item := range roster {
		rosterIDs[item.ID] = true
	}
	seasonIDs := make(map[string]bool, len(roster))
	for _, item := range s.static {
		if !rosterIDs[item.HomeTeamID] || !rosterIDs[item.AwayTeamID] {
			return nil, false
		}
		seasonIDs[item.HomeTeamID] = true
		seasonIDs[item.AwayTeamID] = true
	}
	if len(seasonIDs) != len(rosterIDs) {
		return nil, false
	}

	return append([]fixture.Fixture(nil), s.static...), true
}

// List returns the schedule, filtered to one round when round > 0.
func (s *ScheduleService) List(ctx context.Context, round int) ([]fixture.Fixture, error) {
	if round < 0 {
		return nil, fmt.Errorf("%w: round must be >= 0", ErrInvalidInput)
	}

	items, err := s.EnsureSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if round == 0 {
		return items, nil
	}

	out := make([]fixture.Fixture, 0, 4)
	for _, item := range items {
		if item.Round == round {
			out = append(out, item)
		}
	}
	return out, nil
}

// Get looks a fixture up by id or match number.
func (s *ScheduleService) Get(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	items, err := s.EnsureSchedule(ctx)
	if err != nil {
		return fixture.Fixture{}, err
	}
	for _, item := range items {
		if item.ID == fixtureID || (item.MatchNumber != "" && item.MatchNumber == fixtureID) {
			return item, nil
		}
	}
	return fixture.Fixture{}, fmt.Errorf("%w: match=%s", ErrNotFound, fixtureID)
}

// MarkCompleted flags a fixture as played, retrying when the schedule changed underneath.
func (s *ScheduleService) MarkCompleted(ctx context.Context, fixtureID string) error {
	ctx, span := startServiceSpan(ctx, "ScheduleService", "MarkCompleted")
	defer span.End()

	for attempt := 0; attempt < maxScheduleAttempts; attempt++ {
		snapshot, err := s.fixtureRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load schedule: %w", err)
		}

		idx := -1
		for i, item := range snapshot.Fixtures {
			if item.ID == fixtureID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: match=%s", ErrNotFound, fixtureID)
		}
		if snapshot.Fixtures[idx].IsCompleted() {
			return nil
		}

		snapshot.Fixtures[idx].Status = fixture.StatusCompleted
		if _, err := s.fixtureRepo.Save(ctx, snapshot.Fixtures, snapshot.Token); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return fmt.Errorf("save schedule: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: mark match %s completed", ErrConflict, fixtureID)
}
