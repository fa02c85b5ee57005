package httpapi

import (
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/standing"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

type teamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Club      string `json:"club,omitempty"`
	Locale    string `json:"locale,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type fixtureDTO struct {
	ID          string  `json:"id"`
	MatchNumber *string `json:"matchNumber"`
	Round       int     `json:"round"`
	Date        *string `json:"date"`
	HomeTeamID  string  `json:"homeTeamId"`
	AwayTeamID  string  `json:"awayTeamId"`
	Status      string  `json:"status"`
}

type matchDTO struct {
	ID             string   `json:"id"`
	MatchID        string   `json:"matchId"`
	MatchNumber    *string  `json:"matchNumber"`
	HomeTeamID     string   `json:"homeTeamId"`
	AwayTeamID     string   `json:"awayTeamId"`
	HomeScore      int      `json:"homeScore"`
	AwayScore      int      `json:"awayScore"`
	Date           *string  `json:"date"`
	Status         string   `json:"status"`
	SubmittedBy    string   `json:"submittedBy"`
	SubmittedByUID *string  `json:"submittedByUid"`
	CreatedAt      string   `json:"createdAt"`
	CorrectedAt    *string  `json:"correctedAt"`
	CorrectedBy    *string  `json:"correctedBy"`
	HomeTeam       *teamDTO `json:"homeTeam,omitempty"`
	AwayTeam       *teamDTO `json:"awayTeam,omitempty"`
}

type standingDTO struct {
	Rank     int    `json:"rank"`
	TeamID   string `json:"teamId"`
	Name     string `json:"name"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Lost     int    `json:"lost"`
	Points   int    `json:"points"`
	GoalDiff int    `json:"goalDiff"`
}

type submitMatchRequest struct {
	MatchID   string `json:"matchId" validate:"required_without=FixtureID,max=64"`
	FixtureID string `json:"fixtureId" validate:"max=64"`
	HomeScore *int   `json:"homeScore" validate:"required,gte=0"`
	AwayScore *int   `json:"awayScore" validate:"required,gte=0"`
	Date      string `json:"date" validate:"omitempty,max=40"`
}

type syncJobRequest struct {
	DryRun bool `json:"dryRun"`
}

type syncJobAcceptedDTO struct {
	Accepted bool `json:"accepted"`
	DryRun   bool `json:"dryRun"`
}

type syncSummaryDTO struct {
	StartedAt        string `json:"startedAt"`
	DurationMS       int64  `json:"durationMs"`
	DryRun           bool   `json:"dryRun"`
	ParsedFixtures   int    `json:"parsedFixtures"`
	Diagnostics      int    `json:"diagnostics"`
	DatesChanged     int    `json:"datesChanged"`
	ResultsAdded     int    `json:"resultsAdded"`
	ResultsCorrected int    `json:"resultsCorrected"`
	Warnings         int    `json:"warnings"`
}

type syncStatusDTO struct {
	Running             bool            `json:"running"`
	Ready               bool            `json:"ready"`
	ConsecutiveFailures int             `json:"consecutiveFailures"`
	LastError           string          `json:"lastError,omitempty"`
	LastAttempt         *string         `json:"lastAttempt"`
	LastSuccess         *string         `json:"lastSuccess"`
	LastSummary         *syncSummaryDTO `json:"lastSummary,omitempty"`
}

type healthDTO struct {
	Status  string            `json:"status"`
	Storage map[string]string `json:"storage"`
}

func teamToDTO(v team.Team) teamDTO {
	out := teamDTO{ID: v.ID, Name: v.Name, Club: v.Club, Locale: v.Locale}
	if !v.CreatedAt.IsZero() {
		out.CreatedAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:          v.ID,
		MatchNumber: optionalString(v.MatchNumber),
		Round:       v.Round,
		Date:        optionalString(v.Date),
		HomeTeamID:  v.HomeTeamID,
		AwayTeamID:  v.AwayTeamID,
		Status:      v.Status,
	}
}

func matchToDTO(v usecase.MatchView) matchDTO {
	out := matchDTO{
		ID:             v.ID,
		MatchID:        v.MatchID,
		MatchNumber:    optionalString(v.MatchNumber),
		HomeTeamID:     v.HomeTeamID,
		AwayTeamID:     v.AwayTeamID,
		HomeScore:      v.HomeScore,
		AwayScore:      v.AwayScore,
		Date:           optionalString(v.Date),
		Status:         v.Status,
		SubmittedBy:    v.SubmittedBy,
		SubmittedByUID: v.SubmittedByUID,
		CreatedAt:      v.CreatedAt.UTC().Format(time.RFC3339),
		CorrectedAt:    optionalTime(v.CorrectedAt),
		CorrectedBy:    v.CorrectedBy,
	}
	if v.HomeTeam != nil {
		home := teamToDTO(*v.HomeTeam)
		out.HomeTeam = &home
	}
	if v.AwayTeam != nil {
		away := teamToDTO(*v.AwayTeam)
		out.AwayTeam = &away
	}
	return out
}

func standingsToDTO(rows []standing.Row) []standingDTO {
	out := make([]standingDTO, 0, len(rows))
	for i, row := range rows {
		out = append(out, standingDTO{
			Rank:     i + 1,
			TeamID:   row.TeamID,
			Name:     row.Name,
			Played:   row.Played,
			Won:      row.Won,
			Lost:     row.Lost,
			Points:   row.Points,
			GoalDiff: row.GoalDiff,
		})
	}
	return out
}

func syncStatusToDTO(s usecase.SyncStatus) syncStatusDTO {
	out := syncStatusDTO{
		Running:             s.Running,
		Ready:               s.IsReady(),
		ConsecutiveFailures: s.ConsecutiveFailures,
		LastError:           s.LastError,
		LastAttempt:         optionalTime(nonZero(s.LastAttempt)),
		LastSuccess:         optionalTime(nonZero(s.LastSuccess)),
	}
	if s.LastSummary != nil {
		sum := s.LastSummary
		out.LastSummary = &syncSummaryDTO{
			StartedAt:        sum.StartedAt.UTC().Format(time.RFC3339),
			DurationMS:       sum.Duration.Milliseconds(),
			DryRun:           sum.DryRun,
			ParsedFixtures:   sum.ParsedFixtures,
			Diagnostics:      len(sum.Diagnostics),
			DatesChanged:     sum.DatesChanged,
			ResultsAdded:     sum.ResultsAdded,
			ResultsCorrected: sum.ResultsCorrected,
			Warnings:         len(sum.Warnings),
		}
	}
	return out
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	formatted := v.UTC().Format(time.RFC3339)
	return &formatted
}

func nonZero(v time.Time) *time.Time {
	if v.IsZero() {
		return nil
	}
	return &v
}
