package document

import (
	"context"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
)

type FixtureRepository struct {
	store Store
}

var (
	_ fixture.Repository   = (*FixtureRepository)(nil)
	_ fixture.LegacySource = (*FixtureRepository)(nil)
)

func NewFixtureRepository(store Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) Load(ctx context.Context) (fixture.Snapshot, error) {
	items, token, err := r.read(ctx, Schedule)
	if err != nil {
		return fixture.Snapshot{}, err
	}
	return fixture.Snapshot{Fixtures: items, Token: token}, nil
}

func (r *FixtureRepository) Save(ctx context.Context, items []fixture.Fixture, expectedToken string) (string, error) {
	docs := make([]fixtureDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, toFixtureDocument(item))
	}
	return writeList(ctx, r.store, Schedule, docs, expectedToken)
}

// LoadLegacy reads the fixture list written before the schedule document existed.
func (r *FixtureRepository) LoadLegacy(ctx context.Context) ([]fixture.Fixture, error) {
	items, _, err := r.read(ctx, LegacyFixtures)
	return items, err
}

func (r *FixtureRepository) read(ctx context.Context, name string) ([]fixture.Fixture, string, error) {
	docs, token, err := readList[fixtureDocument](ctx, r.store, name)
	if err != nil {
		return nil, "", err
	}
	out := make([]fixture.Fixture, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, token, nil
}
