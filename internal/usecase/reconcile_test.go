package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
)

var reconcileNow = time.Date(2025, 9, 22, 20, 0, 0, 0, time.UTC)

func baseFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		scheduledFixture("100101", 1, "2025-09-20", "boul-animo-1", "jbc-t-dupke-1"),
		scheduledFixture("100102", 1, "2025-09-20", "puk-haarlem-1", "t-zwijntje-1"),
		scheduledFixture("100103", 1, "2025-09-20", "amicale-boule-d-argent-1", "petangeske-1"),
	}
}

func TestReconcile_UpdatesDatesByMatchNumber(t *testing.T) {
	t.Parallel()

	out, err := Reconcile(ReconcileInput{
		Parsed: []ParsedFixture{
			{MatchNumber: "100102", Round: 1, Date: "2025-09-27", HomeTeamID: "puk-haarlem-1", AwayTeamID: "t-zwijntje-1"},
			{MatchNumber: "100101", Round: 1, Date: "", HomeTeamID: "boul-animo-1", AwayTeamID: "jbc-t-dupke-1"},
			{MatchNumber: "100199", Round: 1, Date: "2025-09-27"},
		},
		Fixtures: baseFixtures(),
		Now:      reconcileNow,
		NewID:    sequenceIDs(),
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if out.DatesChanged != 1 || !out.ScheduleChanged || out.ResultsChanged {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Fixtures[1].Date != "2025-09-27" {
		t.Fatalf("expected 100102 moved, got %s", out.Fixtures[1].Date)
	}
	if out.Fixtures[0].Date != "2025-09-20" {
		t.Fatalf("expected unknown parsed date to keep stored date, got %s", out.Fixtures[0].Date)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != WarningUnknownMatchNumber {
		t.Fatalf("expected unknown match number warning, got %+v", out.Warnings)
	}
}

func TestReconcile_AddsMissingResultAndMarksFixtureCompleted(t *testing.T) {
	t.Parallel()

	input := ReconcileInput{
		Parsed: []ParsedFixture{
			{MatchNumber: "100102", Round: 1, Date: "2025-09-27", HomeTeamID: "puk-haarlem-1", AwayTeamID: "t-zwijntje-1", Result: &ParsedScore{HomeScore: 24, AwayScore: 7}},
		},
		Fixtures: baseFixtures(),
		Now:      reconcileNow,
		NewID:    sequenceIDs("result-1"),
	}
	out, err := Reconcile(input)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if out.ResultsAdded != 1 || len(out.Results) != 1 {
		t.Fatalf("expected one result added, got %+v", out)
	}
	got := out.Results[0]
	if got.ID != "result-1" || got.MatchID != "100102" || got.MatchNumber != "100102" {
		t.Fatalf("unexpected ids on created result %+v", got)
	}
	if got.Date != "2025-09-27" {
		t.Fatalf("expected result to carry the merged fixture date, got %s", got.Date)
	}
	if got.SubmittedBy != match.SystemActor || got.SubmittedByUID != nil || got.Status != match.StatusCompleted {
		t.Fatalf("unexpected provenance on created result %+v", got)
	}
	if !got.CreatedAt.Equal(reconcileNow) {
		t.Fatalf("expected createdAt %s, got %s", reconcileNow, got.CreatedAt)
	}
	if out.Fixtures[1].Status != fixture.StatusCompleted {
		t.Fatalf("expected fixture completed, got %s", out.Fixtures[1].Status)
	}
	if input.Fixtures[1].Status != fixture.StatusScheduled {
		t.Fatalf("input fixtures must not be mutated")
	}
}

func TestReconcile_CorrectsDifferingScores(t *testing.T) {
	t.Parallel()

	uid := "firebase-uid"
	created := reconcileNow.Add(-48 * time.Hour)
	existing := match.Result{
		ID: "manual-1", MatchID: "100103", MatchNumber: "100103",
		HomeTeamID: "amicale-boule-d-argent-1", AwayTeamID: "petangeske-1",
		HomeScore: 19, AwayScore: 12, Status: match.StatusCompleted,
		SubmittedBy: "Anouk", SubmittedByUID: &uid, CreatedAt: created,
	}
	fixtures := baseFixtures()
	fixtures[2].Status = fixture.StatusCompleted

	out, err := Reconcile(ReconcileInput{
		Parsed: []ParsedFixture{
			{MatchNumber: "100103", Round: 1, Date: "2025-09-20", HomeTeamID: "amicale-boule-d-argent-1", AwayTeamID: "petangeske-1", Result: &ParsedScore{HomeScore: 12, AwayScore: 19}},
		},
		Fixtures: fixtures,
		Results:  []match.Result{existing},
		Now:      reconcileNow,
		NewID:    sequenceIDs(),
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if out.ResultsCorrected != 1 || out.ResultsAdded != 0 || out.ScheduleChanged {
		t.Fatalf("unexpected outcome %+v", out)
	}
	got := out.Results[0]
	if got.HomeScore != 12 || got.AwayScore != 19 {
		t.Fatalf("expected corrected score, got %d-%d", got.HomeScore, got.AwayScore)
	}
	if got.CorrectedAt == nil || !got.CorrectedAt.Equal(reconcileNow) || got.CorrectedBy == nil || *got.CorrectedBy != match.SystemActor {
		t.Fatalf("expected correction markers, got %+v", got)
	}
	if got.SubmittedBy != "Anouk" || !got.CreatedAt.Equal(created) {
		t.Fatalf("correction must keep provenance, got %+v", got)
	}
}

func TestReconcile_TeamMismatchIsSkipped(t *testing.T) {
	t.Parallel()

	out, err := Reconcile(ReconcileInput{
		Parsed: []ParsedFixture{
			{MatchNumber: "100101", Round: 1, Date: "2025-09-20", HomeTeamID: "jbc-t-dupke-1", AwayTeamID: "boul-animo-1", Result: &ParsedScore{HomeScore: 24, AwayScore: 7}},
		},
		Fixtures: baseFixtures(),
		Now:      reconcileNow,
		NewID:    sequenceIDs("unused"),
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if out.ResultsAdded != 0 || out.ResultsChanged || out.ScheduleChanged {
		t.Fatalf("expected nothing merged, got %+v", out)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Kind != WarningTeamMismatch {
		t.Fatalf("expected a single mismatch warning, got %+v", out.Warnings)
	}
}

func TestReconcile_IsIdempotent(t *testing.T) {
	t.Parallel()

	parsed := []ParsedFixture{
		{MatchNumber: "100101", Round: 1, Date: "2025-09-20", HomeTeamID: "boul-animo-1", AwayTeamID: "jbc-t-dupke-1", Result: &ParsedScore{HomeScore: 18, AwayScore: 13}},
		{MatchNumber: "100102", Round: 1, Date: "2025-09-27", HomeTeamID: "puk-haarlem-1", AwayTeamID: "t-zwijntje-1", Result: &ParsedScore{HomeScore: 24, AwayScore: 7}},
	}

	first, err := Reconcile(ReconcileInput{Parsed: parsed, Fixtures: baseFixtures(), Now: reconcileNow, NewID: sequenceIDs("a", "b")})
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	second, err := Reconcile(ReconcileInput{Parsed: parsed, Fixtures: first.Fixtures, Results: first.Results, Now: reconcileNow.Add(time.Hour), NewID: sequenceIDs()})
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	if second.ScheduleChanged || second.ResultsChanged || second.DatesChanged+second.ResultsAdded+second.ResultsCorrected != 0 {
		t.Fatalf("expected second merge to be a no-op, got %+v", second)
	}
	if len(second.Results) != 2 {
		t.Fatalf("expected results to stay at 2, got %d", len(second.Results))
	}
}
