package document

import (
	"context"
	"errors"

	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// TeamRepository serves the roster. When a roster is configured it is
// authoritative: the stored document is rewritten whenever its names drift.
type TeamRepository struct {
	store  Store
	roster []team.Team
}

var _ team.Repository = (*TeamRepository)(nil)

func NewTeamRepository(store Store, roster []team.Team) *TeamRepository {
	return &TeamRepository{store: store, roster: append([]team.Team(nil), roster...)}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	docs, token, err := readList[teamDocument](ctx, r.store, Teams)
	if err != nil {
		return nil, err
	}

	stored := make([]team.Team, 0, len(docs))
	for _, doc := range docs {
		stored = append(stored, doc.toDomain())
	}
	if len(r.roster) == 0 || sameNames(stored, r.roster) {
		return stored, nil
	}

	seed := make([]teamDocument, 0, len(r.roster))
	for _, item := range r.roster {
		seed = append(seed, toTeamDocument(item))
	}
	if _, err := writeList(ctx, r.store, Teams, seed, token); err != nil && !errors.Is(err, usecase.ErrConflict) {
		return nil, err
	}
	return append([]team.Team(nil), r.roster...), nil
}

func sameNames(a, b []team.Team) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
