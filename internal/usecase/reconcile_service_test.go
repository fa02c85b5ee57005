package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	fixturemock "github.com/riskibarqy/petanque-league/internal/mocks/domain/fixture"
	matchmock "github.com/riskibarqy/petanque-league/internal/mocks/domain/match"
	"github.com/riskibarqy/petanque-league/internal/platform/id"
)

func fixedNow() time.Time {
	return time.Date(2025, 9, 22, 20, 0, 0, 0, time.UTC)
}

func roundOneParse() ParsedSchedule {
	return ParsedSchedule{
		Fixtures: []ParsedFixture{
			{MatchNumber: "100101", Round: 1, Date: "2025-09-20", HomeTeamID: "boul-animo-1", AwayTeamID: "jbc-t-dupke-1", Result: &ParsedScore{HomeScore: 18, AwayScore: 13}},
			{MatchNumber: "100102", Round: 1, Date: "2025-09-27", HomeTeamID: "puk-haarlem-1", AwayTeamID: "t-zwijntje-1"},
		},
	}
}

func TestReconcileService_FetchFailureWritesNothing(t *testing.T) {
	t.Parallel()

	// no expectations: any repository call fails the test
	fixtureRepo := fixturemock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)
	fetcher := &stubFetcher{err: errors.New("connection reset")}

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtureRepo, matchRepo, nil, fetcher, stubParser{}, id.NewSequence(), ReconcileServiceConfig{Now: fixedNow})

	_, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestReconcileService_ParseBelowThresholdWritesNothing(t *testing.T) {
	t.Parallel()

	fixtureRepo := fixturemock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)
	parser := stubParser{err: fmt.Errorf("%w: parsed 3 fixtures, need at least 40", ErrParseBelowThreshold)}

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtureRepo, matchRepo, nil, &stubFetcher{markup: "<html></html>"}, parser, id.NewSequence(), ReconcileServiceConfig{Now: fixedNow})

	_, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if !errors.Is(err, ErrParseBelowThreshold) {
		t.Fatalf("expected ErrParseBelowThreshold, got %v", err)
	}
	if errors.Is(err, ErrFetch) {
		t.Fatalf("parse failure must not be classified as fetch failure: %v", err)
	}
}

func TestReconcileService_RunCycleWritesMergedState(t *testing.T) {
	t.Parallel()

	fixtures := newMemFixtureRepo(
		scheduledFixture("100101", 1, "2025-09-20", "boul-animo-1", "jbc-t-dupke-1"),
		scheduledFixture("100102", 1, "2025-09-20", "puk-haarlem-1", "t-zwijntje-1"),
	)
	matches := newMemMatchRepo()

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtures, matches, nil, &stubFetcher{markup: "page"}, stubParser{parsed: roundOneParse()}, id.NewSequence("result-1"), ReconcileServiceConfig{Now: fixedNow})

	summary, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if summary.DatesChanged != 1 || summary.ResultsAdded != 1 || summary.ResultsCorrected != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !summary.ScheduleWritten || !summary.MatchesWritten || summary.ParsedFixtures != 2 {
		t.Fatalf("expected both documents written, got %+v", summary)
	}

	stored, _ := fixtures.Load(context.Background())
	if stored.Fixtures[0].Status != fixture.StatusCompleted || stored.Fixtures[1].Date != "2025-09-27" {
		t.Fatalf("unexpected stored schedule %+v", stored.Fixtures)
	}
	results, _ := matches.Load(context.Background())
	if len(results.Results) != 1 || results.Results[0].SubmittedBy != match.SystemActor {
		t.Fatalf("unexpected stored results %+v", results.Results)
	}

	again, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if again.Changed() || again.ScheduleWritten || again.MatchesWritten {
		t.Fatalf("expected second cycle to be a no-op, got %+v", again)
	}
	if fixtures.saves != 1 || matches.saves != 1 {
		t.Fatalf("expected one save per document, got schedule=%d matches=%d", fixtures.saves, matches.saves)
	}
}

func TestReconcileService_DryRunDoesNotWrite(t *testing.T) {
	t.Parallel()

	fixtures := newMemFixtureRepo(
		scheduledFixture("100101", 1, "2025-09-20", "boul-animo-1", "jbc-t-dupke-1"),
		scheduledFixture("100102", 1, "2025-09-20", "puk-haarlem-1", "t-zwijntje-1"),
	)
	matches := newMemMatchRepo()

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtures, matches, nil, &stubFetcher{markup: "page"}, stubParser{parsed: roundOneParse()}, id.NewSequence("result-1"), ReconcileServiceConfig{Now: fixedNow})

	summary, err := svc.RunCycle(context.Background(), ReconcileOptions{DryRun: true})
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if !summary.DryRun || !summary.Changed() {
		t.Fatalf("expected dry run to report pending changes, got %+v", summary)
	}
	if summary.ScheduleWritten || summary.MatchesWritten || fixtures.saves != 0 || matches.saves != 0 {
		t.Fatalf("dry run must not write, got %+v", summary)
	}
}

func TestReconcileService_MatchConflictLeavesScheduleUntouched(t *testing.T) {
	t.Parallel()

	fixtures := newMemFixtureRepo(
		scheduledFixture("100101", 1, "2025-09-20", "boul-animo-1", "jbc-t-dupke-1"),
		scheduledFixture("100102", 1, "2025-09-20", "puk-haarlem-1", "t-zwijntje-1"),
	)
	matches := newMemMatchRepo()
	matches.failNext = true

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtures, matches, nil, &stubFetcher{markup: "page"}, stubParser{parsed: roundOneParse()}, id.NewSequence("result-1"), ReconcileServiceConfig{Now: fixedNow})

	summary, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if summary.ScheduleWritten || summary.MatchesWritten {
		t.Fatalf("expected nothing written, got %+v", summary)
	}
	if fixtures.saves != 0 {
		t.Fatalf("schedule must not be written after a match conflict, got %d saves", fixtures.saves)
	}

	stored, _ := fixtures.Load(context.Background())
	for _, f := range stored.Fixtures {
		if f.Status != fixture.StatusScheduled {
			t.Fatalf("fixture %s changed to %s without a stored result", f.MatchNumber, f.Status)
		}
	}
	if stored.Fixtures[1].Date != "2025-09-20" {
		t.Fatalf("date change committed despite conflict: %+v", stored.Fixtures[1])
	}
}

func TestReconcileService_ScheduleConflictIsRepairedNextCycle(t *testing.T) {
	t.Parallel()

	fixtures := newMemFixtureRepo(
		scheduledFixture("100101", 1, "2025-09-20", "boul-animo-1", "jbc-t-dupke-1"),
		scheduledFixture("100102", 1, "2025-09-20", "puk-haarlem-1", "t-zwijntje-1"),
	)
	fixtures.failNext = true
	matches := newMemMatchRepo()

	svc := NewReconcileService(staticTeamRepo{items: officialRoster}, fixtures, matches, nil, &stubFetcher{markup: "page"}, stubParser{parsed: roundOneParse()}, id.NewSequence("result-1", "result-2"), ReconcileServiceConfig{Now: fixedNow})

	if _, err := svc.RunCycle(context.Background(), ReconcileOptions{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if matches.saves != 1 || fixtures.saves != 0 {
		t.Fatalf("expected results stored and schedule rejected, got matches=%d schedule=%d", matches.saves, fixtures.saves)
	}

	summary, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.ResultsAdded != 0 || summary.MatchesWritten || !summary.ScheduleWritten {
		t.Fatalf("expected only the schedule to be repaired, got %+v", summary)
	}
	stored, _ := fixtures.Load(context.Background())
	if stored.Fixtures[0].Status != fixture.StatusCompleted || stored.Fixtures[1].Date != "2025-09-27" {
		t.Fatalf("unexpected repaired schedule %+v", stored.Fixtures)
	}
	results, _ := matches.Load(context.Background())
	if len(results.Results) != 1 {
		t.Fatalf("expected exactly one stored result, got %d", len(results.Results))
	}
}

func TestReconcileService_MaterializesScheduleBeforeMerging(t *testing.T) {
	t.Parallel()

	fixtures := newMemFixtureRepo()
	matches := newMemMatchRepo()
	fetcher := &stubFetcher{markup: "page"}
	parser := stubParser{parsed: roundOneParse()}
	teams := staticTeamRepo{items: officialRoster}

	schedule := NewScheduleService(teams, fixtures, nil, fetcher, parser, ScheduleServiceConfig{})
	svc := NewReconcileService(teams, fixtures, matches, schedule, fetcher, parser, id.NewSequence("result-1"), ReconcileServiceConfig{Now: fixedNow})

	summary, err := svc.RunCycle(context.Background(), ReconcileOptions{})
	if err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if summary.DatesChanged != 0 || summary.ResultsAdded != 1 {
		t.Fatalf("expected the official schedule to be stored before merging, got %+v", summary)
	}
	if len(summary.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", summary.Warnings)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected schedule and cycle fetches, got %d", fetcher.calls)
	}
}
