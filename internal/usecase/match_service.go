package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/domain/user"
	"github.com/riskibarqy/petanque-league/internal/platform/id"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
)

const maxSubmitAttempts = 3

// SubmitMatchInput carries a manually entered result. FixtureID is the
// pre-schedule name of MatchID and is only read when MatchID is empty.
type SubmitMatchInput struct {
	MatchID   string
	FixtureID string
	HomeScore int
	AwayScore int
	Date      string
}

// MatchView is a stored result with the team records resolved.
type MatchView struct {
	match.Result
	HomeTeam *team.Team
	AwayTeam *team.Team
}

type MatchServiceConfig struct {
	Score  match.ScorePolicy
	Logger *logging.Logger
	Now    func() time.Time
}

type MatchService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	schedule  *ScheduleService
	ids       id.Generator
	score     match.ScorePolicy
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	schedule *ScheduleService,
	ids id.Generator,
	cfg MatchServiceConfig,
) *MatchService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	score := cfg.Score
	if score.MatchTotal <= 0 {
		score = match.DefaultScorePolicy()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &MatchService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		schedule:  schedule,
		ids:       ids,
		score:     score,
		logger:    logger,
		now:       now,
	}
}

// List returns all results, newest first.
func (s *MatchService) List(ctx context.Context) ([]MatchView, error) {
	ctx, span := startServiceSpan(ctx, "MatchService", "List")
	defer span.End()

	snapshot, err := s.matchRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}

	out := make([]MatchView, 0, len(snapshot.Results))
	for _, result := range snapshot.Results {
		view := MatchView{Result: result}
		if home, ok := byID[result.HomeTeamID]; ok {
			view.HomeTeam = &home
		}
		if away, ok := byID[result.AwayTeamID]; ok {
			view.AwayTeam = &away
		}
		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return resultTime(out[i].Result).After(resultTime(out[j].Result))
	})

	return out, nil
}

// Submit stores a manual result for a scheduled fixture and marks it completed.
func (s *MatchService) Submit(ctx context.Context, principal user.Principal, input SubmitMatchInput) (match.Result, error) {
	ctx, span := startServiceSpan(ctx, "MatchService", "Submit")
	defer span.End()

	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		matchID = strings.TrimSpace(input.FixtureID)
	}
	if matchID == "" {
		return match.Result{}, fmt.Errorf("%w: matchId is required", ErrInvalidInput)
	}
	if err := s.score.Validate(input.HomeScore, input.AwayScore); err != nil {
		return match.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	scheduled, err := s.schedule.Get(ctx, matchID)
	if err != nil {
		return match.Result{}, err
	}

	resultID, err := s.ids.NewID()
	if err != nil {
		return match.Result{}, fmt.Errorf("generate result id: %w", err)
	}

	now := s.now().UTC()
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = now.Format(time.RFC3339)
	}

	result := match.Result{
		ID:          resultID,
		MatchID:     scheduled.ID,
		MatchNumber: scheduled.MatchNumber,
		HomeTeamID:  scheduled.HomeTeamID,
		AwayTeamID:  scheduled.AwayTeamID,
		HomeScore:   input.HomeScore,
		AwayScore:   input.AwayScore,
		Date:        date,
		Status:      match.StatusCompleted,
		SubmittedBy: principal.DisplayName(),
		CreatedAt:   now,
	}
	if principal.UserID != "" {
		uid := principal.UserID
		result.SubmittedByUID = &uid
	}

	if err := s.appendResult(ctx, scheduled, result); err != nil {
		return match.Result{}, err
	}

	if err := s.schedule.MarkCompleted(ctx, scheduled.ID); err != nil {
		// the result is stored; the next sync cycle marks the fixture again
		s.logger.WarnContext(ctx, "mark fixture completed failed", "match_id", scheduled.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "match result submitted",
		"match_id", result.MatchID,
		"match_number", result.MatchNumber,
		"submitted_by", result.SubmittedBy,
	)
	return result, nil
}

func (s *MatchService) appendResult(ctx context.Context, scheduled fixture.Fixture, result match.Result) error {
	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		snapshot, err := s.matchRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load matches: %w", err)
		}
		if match.FindByKey(snapshot.Results, scheduled.ID) >= 0 || match.FindByKey(snapshot.Results, scheduled.MatchNumber) >= 0 {
			return fmt.Errorf("%w: result already submitted for match %s", ErrAlreadyExists, scheduled.ID)
		}

		next := append(append([]match.Result(nil), snapshot.Results...), result)
		if _, err := s.matchRepo.Save(ctx, next, snapshot.Token); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return fmt.Errorf("save matches: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: matches kept changing while submitting", ErrConflict)
}

// resultTime orders ISO dates and RFC3339 timestamps on one axis; unparseable dates sort last.
func resultTime(r match.Result) time.Time {
	if t, err := time.Parse(time.RFC3339, r.Date); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, r.Date); err == nil {
		return t
	}
	return time.Time{}
}
