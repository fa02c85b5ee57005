package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/standing"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/platform/cache"
)

type StandingsService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	policy    standing.Policy
	cache     *cache.Store[[]standing.Row]
}

// NewStandingsService memoizes the table per match collection token for ttl.
// A zero ttl disables the cache.
func NewStandingsService(teamRepo team.Repository, matchRepo match.Repository, policy standing.Policy, ttl time.Duration) *StandingsService {
	s := &StandingsService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		policy:    policy,
	}
	if ttl > 0 {
		s.cache = cache.NewStore[[]standing.Row](ttl)
	}
	return s
}

func (s *StandingsService) Get(ctx context.Context) ([]standing.Row, error) {
	ctx, span := startServiceSpan(ctx, "StandingsService", "Get")
	defer span.End()

	snapshot, err := s.matchRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}

	compute := func(ctx context.Context) ([]standing.Row, error) {
		teams, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		return standing.Compute(teams, snapshot.Results, s.policy), nil
	}

	if s.cache == nil || snapshot.Token == "" {
		return compute(ctx)
	}
	rows, err := s.cache.GetOrLoad(ctx, "standings:"+snapshot.Token, compute)
	if err != nil {
		return nil, err
	}
	return append([]standing.Row(nil), rows...), nil
}
