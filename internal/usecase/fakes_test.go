package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

var officialRoster = []team.Team{
	{ID: "amicale-boule-d-argent-1", Name: "Amicale Boule d'Argent 1"},
	{ID: "boul-animo-1", Name: "Boul'Animo 1"},
	{ID: "cdp-les-cailloux-1", Name: "CdP Les Cailloux 1"},
	{ID: "jbc-t-dupke-1", Name: "JBC 't Dupke 1"},
	{ID: "jeu-de-bommel-1", Name: "Jeu de Bommel 1"},
	{ID: "petangeske-1", Name: "Petangeske 1"},
	{ID: "puk-haarlem-1", Name: "PUK-Haarlem 1"},
	{ID: "t-zwijntje-1", Name: "'t Zwijntje 1"},
}

type staticTeamRepo struct {
	items []team.Team
	err   error
}

func (r staticTeamRepo) List(context.Context) ([]team.Team, error) {
	return append([]team.Team(nil), r.items...), r.err
}

// versioned mimics the token contract of the document stores.
type versioned[T any] struct {
	mu      sync.Mutex
	items   []T
	version int
	saves   int
	// failNext makes the next Save report a conflict.
	failNext bool
}

func (v *versioned[T]) token() string {
	if v.version == 0 {
		return ""
	}
	return fmt.Sprintf("v%d", v.version)
}

func (v *versioned[T]) load() ([]T, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...), v.token()
}

func (v *versioned[T]) save(items []T, expected string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failNext {
		v.failNext = false
		return "", fmt.Errorf("%w: forced", ErrConflict)
	}
	if expected != v.token() {
		return "", fmt.Errorf("%w: expected %q, have %q", ErrConflict, expected, v.token())
	}
	v.items = append([]T(nil), items...)
	v.version++
	v.saves++
	return v.token(), nil
}

type memFixtureRepo struct {
	versioned[fixture.Fixture]
}

func newMemFixtureRepo(items ...fixture.Fixture) *memFixtureRepo {
	r := &memFixtureRepo{}
	if len(items) > 0 {
		r.items = items
		r.version = 1
	}
	return r
}

func (r *memFixtureRepo) Load(context.Context) (fixture.Snapshot, error) {
	items, token := r.load()
	return fixture.Snapshot{Fixtures: items, Token: token}, nil
}

func (r *memFixtureRepo) Save(_ context.Context, items []fixture.Fixture, expected string) (string, error) {
	return r.save(items, expected)
}

type memMatchRepo struct {
	versioned[match.Result]
}

func newMemMatchRepo(items ...match.Result) *memMatchRepo {
	r := &memMatchRepo{}
	if len(items) > 0 {
		r.items = items
		r.version = 1
	}
	return r
}

func (r *memMatchRepo) Load(context.Context) (match.Snapshot, error) {
	items, token := r.load()
	return match.Snapshot{Results: items, Token: token}, nil
}

func (r *memMatchRepo) Save(_ context.Context, items []match.Result, expected string) (string, error) {
	return r.save(items, expected)
}

type stubFetcher struct {
	markup string
	err    error
	calls  int
}

func (f *stubFetcher) FetchPage(context.Context) (string, error) {
	f.calls++
	return f.markup, f.err
}

// stubParser ignores the markup and returns a canned parse.
type stubParser struct {
	parsed ParsedSchedule
	err    error
}

func (p stubParser) Parse(string, []team.Team) (ParsedSchedule, error) {
	return p.parsed, p.err
}

type stubLegacy struct {
	items []fixture.Fixture
	err   error
}

func (l stubLegacy) LoadLegacy(context.Context) ([]fixture.Fixture, error) {
	return l.items, l.err
}

func scheduledFixture(number string, round int, date, home, away string) fixture.Fixture {
	return fixture.Fixture{
		ID:          number,
		MatchNumber: number,
		Round:       round,
		Date:        date,
		HomeTeamID:  home,
		AwayTeamID:  away,
		Status:      fixture.StatusScheduled,
	}
}

func sequenceIDs(ids ...string) func() (string, error) {
	next := 0
	return func() (string, error) {
		if next >= len(ids) {
			return "", fmt.Errorf("no ids left")
		}
		v := ids[next]
		next++
		return v, nil
	}
}
