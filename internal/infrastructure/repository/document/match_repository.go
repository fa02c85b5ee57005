package document

import (
	"context"

	"github.com/riskibarqy/petanque-league/internal/domain/match"
)

type MatchRepository struct {
	store Store
}

var _ match.Repository = (*MatchRepository)(nil)

func NewMatchRepository(store Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) Load(ctx context.Context) (match.Snapshot, error) {
	docs, token, err := readList[resultDocument](ctx, r.store, Matches)
	if err != nil {
		return match.Snapshot{}, err
	}
	out := make([]match.Result, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return match.Snapshot{Results: out, Token: token}, nil
}

func (r *MatchRepository) Save(ctx context.Context, items []match.Result, expectedToken string) (string, error) {
	docs := make([]resultDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, toResultDocument(item))
	}
	return writeList(ctx, r.store, Matches, docs, expectedToken)
}
