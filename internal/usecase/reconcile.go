package usecase

import (
	"fmt"
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
)

const (
	WarningUnknownMatchNumber = "unknown_match_number"
	WarningTeamMismatch       = "team_mismatch"
)

// MergeWarning is a row the merge skipped.
type MergeWarning struct {
	Kind        string
	MatchNumber string
	Message     string
}

type ReconcileInput struct {
	Parsed   []ParsedFixture
	Fixtures []fixture.Fixture
	Results  []match.Result
	Now      time.Time
	NewID    func() (string, error)
}

type MergeOutcome struct {
	Fixtures         []fixture.Fixture
	Results          []match.Result
	DatesChanged     int
	ResultsAdded     int
	ResultsCorrected int
	ScheduleChanged  bool
	ResultsChanged   bool
	Warnings         []MergeWarning
}

// Reconcile merges parsed page facts into stored state in three passes:
// dates by match number, then missing results, then score corrections.
// It never mutates its input and is idempotent: merging the outcome again with
// the same parse changes nothing.
func Reconcile(in ReconcileInput) (MergeOutcome, error) {
	out := MergeOutcome{
		Fixtures: append([]fixture.Fixture(nil), in.Fixtures...),
		Results:  append([]match.Result(nil), in.Results...),
	}
	byNumber := fixture.IndexByMatchNumber(out.Fixtures)
	mismatched := make(map[string]bool)

	// pass 1: dates
	for _, parsed := range in.Parsed {
		idx, ok := byNumber[parsed.MatchNumber]
		if !ok {
			out.warn(WarningUnknownMatchNumber, parsed.MatchNumber, "match number not in stored schedule")
			continue
		}
		if parsed.Date == "" || out.Fixtures[idx].Date == parsed.Date {
			continue
		}
		out.Fixtures[idx].Date = parsed.Date
		out.DatesChanged++
		out.ScheduleChanged = true
	}

	// pass 2: missing results
	existing := len(out.Results)
	for _, parsed := range in.Parsed {
		if parsed.Result == nil {
			continue
		}
		idx, ok := byNumber[parsed.MatchNumber]
		if !ok {
			continue
		}
		stored := out.Fixtures[idx]
		if stored.HomeTeamID != parsed.HomeTeamID || stored.AwayTeamID != parsed.AwayTeamID {
			mismatched[parsed.MatchNumber] = true
			out.warn(WarningTeamMismatch, parsed.MatchNumber, fmt.Sprintf("%v: page has %s vs %s, schedule has %s vs %s",
				ErrTeamMismatch, parsed.HomeTeamID, parsed.AwayTeamID, stored.HomeTeamID, stored.AwayTeamID))
			continue
		}

		if findResult(out.Results[:existing], stored) < 0 {
			resultID, err := in.NewID()
			if err != nil {
				return MergeOutcome{}, fmt.Errorf("generate result id: %w", err)
			}
			out.Results = append(out.Results, match.Result{
				ID:          resultID,
				MatchID:     stored.ID,
				MatchNumber: stored.MatchNumber,
				HomeTeamID:  stored.HomeTeamID,
				AwayTeamID:  stored.AwayTeamID,
				HomeScore:   parsed.Result.HomeScore,
				AwayScore:   parsed.Result.AwayScore,
				Date:        stored.Date,
				Status:      match.StatusCompleted,
				SubmittedBy: match.SystemActor,
				CreatedAt:   in.Now,
			})
			out.ResultsAdded++
			out.ResultsChanged = true
		}

		if !out.Fixtures[idx].IsCompleted() {
			out.Fixtures[idx].Status = fixture.StatusCompleted
			out.ScheduleChanged = true
		}
	}

	// pass 3: corrections of results that existed before this merge
	for _, parsed := range in.Parsed {
		if parsed.Result == nil || mismatched[parsed.MatchNumber] {
			continue
		}
		idx, ok := byNumber[parsed.MatchNumber]
		if !ok {
			continue
		}
		ri := findResult(out.Results[:existing], out.Fixtures[idx])
		if ri < 0 {
			continue
		}
		current := out.Results[ri]
		if current.HomeScore == parsed.Result.HomeScore && current.AwayScore == parsed.Result.AwayScore {
			continue
		}

		correctedAt := in.Now
		correctedBy := match.SystemActor
		current.HomeScore = parsed.Result.HomeScore
		current.AwayScore = parsed.Result.AwayScore
		current.CorrectedAt = &correctedAt
		current.CorrectedBy = &correctedBy
		out.Results[ri] = current
		out.ResultsCorrected++
		out.ResultsChanged = true
	}

	return out, nil
}

func findResult(results []match.Result, stored fixture.Fixture) int {
	if idx := match.FindByKey(results, stored.ID); idx >= 0 {
		return idx
	}
	return match.FindByKey(results, stored.MatchNumber)
}

func (o *MergeOutcome) warn(kind, matchNumber, message string) {
	o.Warnings = append(o.Warnings, MergeWarning{Kind: kind, MatchNumber: matchNumber, Message: message})
}
