package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

type TeamService struct {
	teamRepo team.Repository
}

func NewTeamService(teamRepo team.Repository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

// List returns the roster in registration order.
func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startServiceSpan(ctx, "TeamService", "List")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	items, err := s.List(ctx)
	if err != nil {
		return team.Team{}, err
	}
	for _, item := range items {
		if item.ID == teamID {
			return item, nil
		}
	}
	return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
}
