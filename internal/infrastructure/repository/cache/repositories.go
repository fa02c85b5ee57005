package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	basecache "github.com/riskibarqy/petanque-league/internal/platform/cache"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

const (
	teamListKey      = "team:list"
	scheduleKey      = "schedule:snapshot"
	matchSnapshotKey = "match:snapshot"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[[]team.Team]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{next: next, cache: basecache.NewStore[[]team.Team](ttl)}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.cache.GetOrLoad(ctx, teamListKey, func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

// FixtureRepository caches the schedule snapshot and refreshes it on every
// successful save. A conflict drops the entry so the retry reads the store.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store[fixture.Snapshot]
}

func NewFixtureRepository(next fixture.Repository, ttl time.Duration) *FixtureRepository {
	return &FixtureRepository{next: next, cache: basecache.NewStore[fixture.Snapshot](ttl)}
}

func (r *FixtureRepository) Load(ctx context.Context) (fixture.Snapshot, error) {
	snapshot, err := r.cache.GetOrLoad(ctx, scheduleKey, r.next.Load)
	if err != nil {
		return fixture.Snapshot{}, err
	}
	return fixture.Snapshot{Fixtures: append([]fixture.Fixture(nil), snapshot.Fixtures...), Token: snapshot.Token}, nil
}

func (r *FixtureRepository) Save(ctx context.Context, items []fixture.Fixture, expectedToken string) (string, error) {
	token, err := r.next.Save(ctx, items, expectedToken)
	if err != nil {
		if errors.Is(err, usecase.ErrConflict) {
			r.cache.Delete(ctx, scheduleKey)
		}
		return "", err
	}
	r.cache.Set(ctx, scheduleKey, fixture.Snapshot{Fixtures: append([]fixture.Fixture(nil), items...), Token: token})
	return token, nil
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store[match.Snapshot]
}

func NewMatchRepository(next match.Repository, ttl time.Duration) *MatchRepository {
	return &MatchRepository{next: next, cache: basecache.NewStore[match.Snapshot](ttl)}
}

func (r *MatchRepository) Load(ctx context.Context) (match.Snapshot, error) {
	snapshot, err := r.cache.GetOrLoad(ctx, matchSnapshotKey, r.next.Load)
	if err != nil {
		return match.Snapshot{}, err
	}
	return match.Snapshot{Results: append([]match.Result(nil), snapshot.Results...), Token: snapshot.Token}, nil
}

func (r *MatchRepository) Save(ctx context.Context, items []match.Result, expectedToken string) (string, error) {
	token, err := r.next.Save(ctx, items, expectedToken)
	if err != nil {
		if errors.Is(err, usecase.ErrConflict) {
			r.cache.Delete(ctx, matchSnapshotKey)
		}
		return "", err
	}
	r.cache.Set(ctx, matchSnapshotKey, match.Snapshot{Results: append([]match.Result(nil), items...), Token: token})
	return token, nil
}
